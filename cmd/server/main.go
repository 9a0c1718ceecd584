package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/ovotrace/ovotrace/internal/config"
	"github.com/ovotrace/ovotrace/internal/repository/mongodb"
	"github.com/ovotrace/ovotrace/internal/repository/sheets"
	"github.com/ovotrace/ovotrace/internal/scheduler"
	"github.com/ovotrace/ovotrace/internal/server/handlers"
	"github.com/ovotrace/ovotrace/internal/server/router"
	exportsvc "github.com/ovotrace/ovotrace/internal/service/export"
	mailersvc "github.com/ovotrace/ovotrace/internal/service/mailer"
	reportingsvc "github.com/ovotrace/ovotrace/internal/service/reporting"
	"github.com/ovotrace/ovotrace/pkg/clients/imageproxy"
	"github.com/ovotrace/ovotrace/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Dev()))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var summarySheet sheets.SummarySink
	if cfg.SheetsEnabled() {
		summarySheet, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets sink", zap.Error(err))
		}
		baseLogger.Info("summary sheet sink enabled")
	}

	var imageClient imageproxy.Client
	if cfg.ImageProxy.BaseURL != "" {
		imageClient = imageproxy.NewClient(cfg.ImageProxy)
	} else {
		baseLogger.Warn("image proxy not configured, pdf exports will use placeholders")
	}

	reportingSvc := reportingsvc.NewService(mongoRepo, mongoRepo, baseLogger.Named("svc.reporting"))
	exportSvc := exportsvc.NewService(imageClient, baseLogger.Named("svc.export"))
	mailerSvc := mailersvc.NewService(cfg.Email, cfg.App.BaseURL, mongoRepo, baseLogger.Named("svc.mailer"))

	engine := router.New(router.Handlers{
		Reports: handlers.NewReportHandler(reportingSvc, exportSvc, baseLogger.Named("handlers.reports")),
		Auth:    handlers.NewAuthHandler(mailerSvc, baseLogger.Named("handlers.auth")),
		Profile: handlers.NewProfileHandler(mongoRepo, baseLogger.Named("handlers.profile")),
		Seed:    handlers.NewSeedHandler(mongoRepo, cfg.Dev(), baseLogger.Named("handlers.seed")),
	}, cfg.Dev(), baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Summary, reportingSvc, mongoRepo, summarySheet, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // pdf exports with embedded images can run long
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
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
