package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/fieldbook/internal/app/api/server"
	"github.com/fatflowers/fieldbook/internal/app/service/analytics"
	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	notificationhandler "github.com/fatflowers/fieldbook/internal/app/service/notification_handler"
	notificationlog "github.com/fatflowers/fieldbook/internal/app/service/notification_log"
	"github.com/fatflowers/fieldbook/internal/app/service/plans"
	"github.com/fatflowers/fieldbook/internal/app/service/records"
	"github.com/fatflowers/fieldbook/internal/app/service/statistics"
	"github.com/fatflowers/fieldbook/internal/platform/db"
	stripe_billing "github.com/fatflowers/fieldbook/internal/platform/stripe/stripe_billing"
	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	stripe_billing.Module,
	records.Module,
	analytics.Module,
	plans.Module,
	ledger.Module,
	statistics.Module,
	notificationlog.Module,
	notificationhandler.Module,
	server.Module,
)
