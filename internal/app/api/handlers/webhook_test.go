package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	nh "github.com/fatflowers/fieldbook/internal/app/service/notification_handler"
	"github.com/fatflowers/fieldbook/pkg/types"
)

func TestWebhookStatus(t *testing.T) {
	cases := []struct {
		name     string
		provider types.PaymentProvider
		err      error
		want     int
	}{
		{"stripe signature", types.PaymentProviderStripe, fmt.Errorf("%w: bad", nh.ErrAuthentication), http.StatusBadRequest},
		{"revenuecat auth", types.PaymentProviderRevenueCat, fmt.Errorf("%w: bad", nh.ErrAuthentication), http.StatusUnauthorized},
		{"invalid payload", types.PaymentProviderRevenueCat, fmt.Errorf("%w: {}", nh.ErrInvalidPayload), http.StatusBadRequest},
		{"upstream timeout", types.PaymentProviderStripe, fmt.Errorf("%w: fetch sub_1", ledger.ErrUpstreamTimeout), http.StatusServiceUnavailable},
		{"storage", types.PaymentProviderStripe, errors.New("database is locked"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, webhookStatus(tc.provider, tc.err))
		})
	}
}

func TestLedgerError(t *testing.T) {
	require.EqualValues(t, 40400, ledgerError(fmt.Errorf("%w: user", ledger.ErrNotFound)).Code)
	require.EqualValues(t, 40000, ledgerError(fmt.Errorf("%w: sort", ledger.ErrValidation)).Code)
	require.EqualValues(t, 50000, ledgerError(errors.New("boom")).Code)
}
