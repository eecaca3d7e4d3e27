package notification_handler

import (
	"context"
	"fmt"
	"time"

	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	"github.com/fatflowers/fieldbook/internal/platform/revenuecat/revenuecat_notification"
	"github.com/fatflowers/fieldbook/pkg/tool"
	"github.com/fatflowers/fieldbook/pkg/types"
)

type RevenueCatNotificationParser struct {
	Request *revenuecat_notification.Request
}

func NewRevenueCatNotificationParser(req *revenuecat_notification.Request) *RevenueCatNotificationParser {
	return &RevenueCatNotificationParser{Request: req}
}

func (p *RevenueCatNotificationParser) GetProvider() types.PaymentProvider {
	return types.PaymentProviderRevenueCat
}

func (p *RevenueCatNotificationParser) GetEventID() string {
	return p.Request.Event.ID
}

func (p *RevenueCatNotificationParser) GetEventType() string {
	return p.Request.Event.Type
}

func (p *RevenueCatNotificationParser) GetNotificationTime() time.Time {
	if t := tool.UnixMilliToTimePtr(p.Request.Event.EventTimestampMs); t != nil {
		return *t
	}
	return time.Now().UTC()
}

func (p *RevenueCatNotificationParser) GetUserID() string {
	return p.Request.Event.AppUserID
}

func (p *RevenueCatNotificationParser) GetData() any {
	return p.Request
}

func (p *RevenueCatNotificationParser) GetEvent(ctx context.Context) (ledger.Event, error) {
	e := p.Request.Event
	change := ledger.EntitlementChange(e.Type)
	if !change.Grants() && !change.Revokes() {
		return &ledger.Ignored{ProviderType: e.Type}, nil
	}
	if !tool.IsUUID(e.AppUserID) {
		return nil, fmt.Errorf("%w: revenuecat %s: app_user_id %q is not a user id", ledger.ErrValidation, e.Type, e.AppUserID)
	}
	return &ledger.EntitlementChanged{
		UserID:    e.AppUserID,
		Change:    change,
		ProductID: e.ProductID,
		IsTrial:   e.IsTrial(),
		ExpiresAt: tool.UnixMilliToTimePtr(e.ExpirationAtMs),
	}, nil
}
