package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/config"
	"github.com/mamadbah2/farmflow/internal/repository/mongodb"
	"github.com/mamadbah2/farmflow/internal/repository/sheets"
	"github.com/mamadbah2/farmflow/internal/scheduler"
	"github.com/mamadbah2/farmflow/internal/server/handlers"
	"github.com/mamadbah2/farmflow/internal/server/router"
	"github.com/mamadbah2/farmflow/internal/service/checks"
	"github.com/mamadbah2/farmflow/internal/service/clients"
	"github.com/mamadbah2/farmflow/internal/service/commands"
	"github.com/mamadbah2/farmflow/internal/service/costs"
	ledgersvc "github.com/mamadbah2/farmflow/internal/service/ledger"
	"github.com/mamadbah2/farmflow/internal/service/notification"
	"github.com/mamadbah2/farmflow/internal/service/reminders"
	reportingsvc "github.com/mamadbah2/farmflow/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/farmflow/internal/service/whatsapp"
	"github.com/mamadbah2/farmflow/pkg/clients/sms"
	whatsappclient "github.com/mamadbah2/farmflow/pkg/clients/whatsapp"
	"github.com/mamadbah2/farmflow/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var reportingOpts []reportingsvc.Option
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		reportingOpts = append(reportingOpts, reportingsvc.WithSheetsExport(sheetsRepo, cfg.Sheets.LedgerRange))
		baseLogger.Info("google sheets export enabled")
	}

	var extractor checks.Extractor
	if cfg.Vision.Enabled {
		visionExtractor, err := checks.NewVisionExtractor(context.Background(), cfg.Vision.CredentialsPath)
		if err != nil {
			baseLogger.Fatal("failed to init vision client", zap.Error(err))
		}
		defer func() { _ = visionExtractor.Close() }()
		extractor = visionExtractor
		baseLogger.Info("check extraction enabled")
	} else {
		baseLogger.Warn("vision disabled, check uploads unavailable")
	}

	transport, err := newTransport(cfg)
	if err != nil {
		baseLogger.Fatal("failed to init notification transport", zap.Error(err))
	}
	if transport == nil {
		baseLogger.Warn("sms provider not configured, notifications disabled")
	}

	dispatcher := notification.NewDispatcher(transport, mongoRepo, cfg.SMS.BulkDelay, baseLogger.Named("svc.notification"))
	ledgerSvc := ledgersvc.NewService(mongoRepo, mongoRepo, baseLogger.Named("svc.ledger"))
	costSvc := costs.NewService(mongoRepo, baseLogger.Named("svc.costs"))
	checkSvc := checks.NewService(extractor, ledgerSvc, baseLogger.Named("svc.checks"))
	reportingSvc := reportingsvc.NewService(mongoRepo, mongoRepo, baseLogger.Named("svc.reporting"), reportingOpts...)
	clientSvc := clients.NewService(mongoRepo, baseLogger.Named("svc.clients"))
	reminderSvc := reminders.NewService(mongoRepo, mongoRepo, dispatcher, cfg.Reminders.DueInDays, baseLogger.Named("svc.reminders"))

	routes := router.Handlers{
		Ledger:  handlers.NewLedgerHandler(ledgerSvc, reportingSvc, baseLogger.Named("handlers.ledger")),
		Costs:   handlers.NewCostHandler(costSvc, baseLogger.Named("handlers.costs")),
		Checks:  handlers.NewCheckHandler(checkSvc, baseLogger.Named("handlers.checks")),
		Clients: handlers.NewClientHandler(clientSvc, baseLogger.Named("handlers.clients")),
		SMS:     handlers.NewSMSHandler(dispatcher, reminderSvc, baseLogger.Named("handlers.sms")),
	}
	if cfg.WhatsApp.WebhookEnabled() {
		commandSvc := commands.NewService(ledgerSvc, baseLogger.Named("svc.commands"))
		chatSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp.VerifyToken, commandSvc, dispatcher, baseLogger.Named("svc.whatsapp"))
		routes.Webhook = handlers.NewWebhookHandler(chatSvc, baseLogger.Named("handlers.webhook"))
		baseLogger.Info("whatsapp command webhook enabled")
	}

	engine := router.New(routes, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, reminderSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newTransport returns nil when no provider is configured.
func newTransport(cfg *config.Config) (notification.Transport, error) {
	switch cfg.SMS.Provider {
	case "":
		return nil, nil
	case config.ProviderWhatsApp:
		return whatsappclient.NewClient(cfg.WhatsApp), nil
	default:
		return sms.NewClient(cfg.SMS)
	}
}
