package notification_handler

import (
	"context"
	"time"

	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	"github.com/fatflowers/fieldbook/pkg/types"
)

// NotificationParser turns one authenticated provider notification into a ledger event.
type NotificationParser interface {
	GetProvider() types.PaymentProvider
	GetEventID() string
	GetEventType() string
	GetNotificationTime() time.Time
	// GetUserID returns the user the notification names, or "" when it names none.
	GetUserID() string
	GetEvent(ctx context.Context) (ledger.Event, error)
	GetData() any
}
