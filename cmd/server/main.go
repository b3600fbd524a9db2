package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/config"
	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
	"github.com/mamadbah2/poultrypms/internal/repository/sheets"
	"github.com/mamadbah2/poultrypms/internal/scheduler"
	"github.com/mamadbah2/poultrypms/internal/server/handlers"
	"github.com/mamadbah2/poultrypms/internal/server/router"
	attendancesvc "github.com/mamadbah2/poultrypms/internal/service/attendance"
	authsvc "github.com/mamadbah2/poultrypms/internal/service/auth"
	ledgersvc "github.com/mamadbah2/poultrypms/internal/service/ledger"
	payrollsvc "github.com/mamadbah2/poultrypms/internal/service/payroll"
	poultrysvc "github.com/mamadbah2/poultrypms/internal/service/poultry"
	reportingsvc "github.com/mamadbah2/poultrypms/internal/service/reporting"
	workersvc "github.com/mamadbah2/poultrypms/internal/service/worker"
	"github.com/mamadbah2/poultrypms/pkg/clients/notify"
	"github.com/mamadbah2/poultrypms/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := store.EnsureIndexes(context.Background()); err != nil {
		baseLogger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	feedRepo := mongodb.NewFeedRepository(store)
	consumptionRepo := mongodb.NewConsumptionRepository(store)
	productionRepo := mongodb.NewProductionRepository(store)
	payrollRepo := mongodb.NewPayrollRepository(store)
	workerRepo := mongodb.NewWorkerRepository(store)
	attendanceRepo := mongodb.NewAttendanceRepository(store)
	batchRepo := mongodb.NewBatchRepository(store)
	poultryRecordRepo := mongodb.NewPoultryRecordRepository(store)
	vaccinationRepo := mongodb.NewVaccinationRepository(store)
	adminRepo := mongodb.NewAdminRepository(store)
	snapshotRepo := mongodb.NewSnapshotRepository(store)

	ledgerSvc := ledgersvc.NewService(feedRepo, consumptionRepo, productionRepo, payrollRepo, store, baseLogger.Named("svc.ledger"))
	payrollSvc := payrollsvc.NewService(payrollRepo, productionRepo, workerRepo, store, baseLogger.Named("svc.payroll"))
	workerSvc := workersvc.NewService(workerRepo, baseLogger.Named("svc.worker"))
	attendanceSvc := attendancesvc.NewService(attendanceRepo, workerRepo, baseLogger.Named("svc.attendance"))
	poultrySvc := poultrysvc.NewService(batchRepo, poultryRecordRepo, vaccinationRepo, baseLogger.Named("svc.poultry"))
	reportingSvc := reportingsvc.NewService(feedRepo, consumptionRepo, productionRepo, payrollRepo, workerRepo, ledgerSvc, baseLogger.Named("svc.reporting"))
	authSvc := authsvc.NewService(adminRepo, cfg.Auth.JWTSecret, baseLogger.Named("svc.auth"))

	h := router.Handlers{
		Auth:       handlers.NewAuthHandler(authSvc, baseLogger.Named("handlers.auth")),
		Feed:       handlers.NewFeedHandler(ledgerSvc, baseLogger.Named("handlers.feed")),
		Production: handlers.NewProductionHandler(ledgerSvc, reportingSvc, baseLogger.Named("handlers.production")),
		Payroll:    handlers.NewPayrollHandler(payrollSvc, baseLogger.Named("handlers.payroll")),
		Worker:     handlers.NewWorkerHandler(workerSvc, baseLogger.Named("handlers.worker")),
		Attendance: handlers.NewAttendanceHandler(attendanceSvc, baseLogger.Named("handlers.attendance")),
		Poultry:    handlers.NewPoultryHandler(poultrySvc, baseLogger.Named("handlers.poultry")),
		Report:     handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.report")),
	}
	engine := router.New(h, authSvc, baseLogger.Named("router"))

	var exporter sheets.Exporter
	if cfg.Export.SpreadsheetID != "" {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Export, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
	} else {
		baseLogger.Info("sheet export disabled")
	}

	var alerts notify.Client
	if cfg.Alerts.WebhookURL != "" {
		alerts = notify.NewWebhookClient(cfg.Alerts)
	} else {
		baseLogger.Info("alert webhook disabled")
	}

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, poultrySvc, snapshotRepo, exporter, alerts, baseLogger.Named("scheduler"))
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
		WriteTimeout: 15 * time.Second,
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
