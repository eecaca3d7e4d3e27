package ledger

import (
	"go.uber.org/fx"

	stripe_billing "github.com/fatflowers/fieldbook/internal/platform/stripe/stripe_billing"
)

// Module exposes the subscription ledger via Fx.
var Module = fx.Options(
	fx.Provide(func(c *stripe_billing.Client) BillingProvider { return c }),
	fx.Provide(NewService),
)
