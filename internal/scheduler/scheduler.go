package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/config"
	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
	"github.com/mamadbah2/poultrypms/internal/repository/sheets"
	"github.com/mamadbah2/poultrypms/internal/service/poultry"
	"github.com/mamadbah2/poultrypms/internal/service/reporting"
	"github.com/mamadbah2/poultrypms/pkg/clients/notify"
)

// Scheduler runs the nightly snapshot job: it persists the end-of-day ledger
// position, optionally appends it to the export spreadsheet, and raises
// low-stock and vaccination-due alerts.
type Scheduler struct {
	cron      *cron.Cron
	reporting *reporting.Service
	poultry   *poultry.Service
	snapshots mongodb.SnapshotRepository
	exporter  sheets.Exporter
	alerts    notify.Client
	cfg       config.Config
	logger    *zap.Logger
}

// NewScheduler creates the scheduler. exporter and alerts may be nil when
// the corresponding feature is not configured.
func NewScheduler(
	cfg config.Config,
	reportingSvc *reporting.Service,
	poultrySvc *poultry.Service,
	snapshots mongodb.SnapshotRepository,
	exporter sheets.Exporter,
	alerts notify.Client,
	logger *zap.Logger,
) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Snapshot.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Snapshot.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reporting: reportingSvc,
		poultry:   poultrySvc,
		snapshots: snapshots,
		exporter:  exporter,
		alerts:    alerts,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Start registers the nightly job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Snapshot.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Snapshot.CronSchedule, s.runNightly); err != nil {
		return fmt.Errorf("schedule nightly job: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runNightly() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	s.logger.Info("running nightly snapshot", zap.Time("day", now))

	snapshot, err := s.reporting.Snapshot(ctx, now)
	if err != nil {
		s.logger.Error("failed computing daily snapshot", zap.Error(err))
		return
	}

	if err := s.snapshots.Save(ctx, *snapshot); err != nil {
		s.logger.Error("failed saving daily snapshot", zap.Error(err))
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSnapshot(ctx, *snapshot); err != nil {
			s.logger.Error("failed exporting snapshot to sheet", zap.Error(err))
		}
	}

	s.raiseAlerts(ctx, snapshot)
}

func (s *Scheduler) raiseAlerts(ctx context.Context, snapshot *models.DailySnapshot) {
	if s.alerts == nil {
		return
	}

	for _, stock := range snapshot.FeedStocks {
		if stock.Quantity >= s.cfg.Alerts.FeedThresholdKg {
			continue
		}
		alert := notify.Alert{
			Kind:    notify.KindLowFeedStock,
			Message: fmt.Sprintf("%s feed stock is low: %.1f kg on hand (threshold %.1f kg)", stock.FeedType, stock.Quantity, s.cfg.Alerts.FeedThresholdKg),
		}
		if err := s.alerts.SendAlert(ctx, alert); err != nil {
			s.logger.Error("failed sending low stock alert", zap.Error(err), zap.String("feedType", string(stock.FeedType)))
		}
	}

	due, err := s.poultry.DuePending(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed listing due vaccinations", zap.Error(err))
		return
	}
	for _, d := range due {
		alert := notify.Alert{
			Kind:    notify.KindVaccinationDue,
			Message: fmt.Sprintf("%s is due for %s (scheduled day %d, due %s)", d.BatchName, d.Vaccination.VaccineName, d.Vaccination.Day, d.DueDate.Format("2006-01-02")),
		}
		if err := s.alerts.SendAlert(ctx, alert); err != nil {
			s.logger.Error("failed sending vaccination alert", zap.Error(err), zap.String("batch", d.BatchName))
		}
	}
}
