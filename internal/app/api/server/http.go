package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/fieldbook/docs"
	"github.com/fatflowers/fieldbook/internal/app/api/handlers"
	mw "github.com/fatflowers/fieldbook/internal/app/api/middleware"
	"github.com/fatflowers/fieldbook/internal/app/service/analytics"
	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	nh "github.com/fatflowers/fieldbook/internal/app/service/notification_handler"
	"github.com/fatflowers/fieldbook/internal/app/service/plans"
	"github.com/fatflowers/fieldbook/internal/app/service/statistics"
	cfgpkg "github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/metrics"
)

const metricsSubsystem = "fieldbook"

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeParams struct {
	fx.In

	Log          *zap.SugaredLogger
	Config       *cfgpkg.Config
	Notification *nh.NotificationHandler
	Analytics    *analytics.Service
	Catalog      *plans.Catalog
	Plans        *plans.Service
	Ledger       *ledger.Service
	Statistics   *statistics.Service
}

func registerRoutes(r *gin.Engine, p routeParams) {
	log, cfg := p.Log, p.Config

	if cfg != nil && cfg.MetricsAddr != "" {
		prom := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			Subsystem:   metricsSubsystem,
			MetricsList: []*metrics.Metric{metrics.MetricsBusinessProcess},
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return "unmatched"
			},
			Logger: log,
		})
		prom.SetListenAddress(cfg.MetricsAddr)
		prom.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthMiddleware(cfg, log))
	handlers.RegisterDashboardRoutes(apiV1, p.Analytics)
	handlers.RegisterSubscriptionRoutes(apiV1, p.Catalog, p.Ledger)

	admin := apiV1.Group("/admin")
	admin.Use(mw.AdminMiddleware())
	handlers.RegisterAdminRoutes(admin, p.Plans, p.Ledger, p.Statistics)

	// Providers authenticate themselves; no JWT here.
	webhooks := r.Group("/api/v2/webhook")
	webhooks.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterWebhookRoutes(webhooks, p.Notification)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
