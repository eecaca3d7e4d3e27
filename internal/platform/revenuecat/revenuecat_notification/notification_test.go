package revenuecat_notification

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	require.NoError(t, Authorize("Bearer s3cret", "Bearer s3cret"))
	require.ErrorIs(t, Authorize("Bearer wrong", "Bearer s3cret"), ErrUnauthorized)
	require.ErrorIs(t, Authorize("", "Bearer s3cret"), ErrUnauthorized)
	require.ErrorIs(t, Authorize("", ""), ErrUnauthorized)
}

func TestParse(t *testing.T) {
	req, err := Parse([]byte(`{"api_version":"1.0","event":{"id":"e1","type":"RENEWAL","app_user_id":"u1","period_type":"trial","expiration_at_ms":1767225600000}}`))
	require.NoError(t, err)
	require.Equal(t, "RENEWAL", req.Event.Type)
	require.Equal(t, int64(1767225600000), req.Event.ExpirationAtMs)
	require.True(t, req.Event.IsTrial())

	_, err = Parse([]byte(`{"api_version":"1.0"}`))
	require.ErrorIs(t, err, ErrInvalidPayload)

	_, err = Parse([]byte(`not json`))
	require.ErrorIs(t, err, ErrInvalidPayload)
}
