package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ovotrace/ovotrace/internal/config"
	"github.com/ovotrace/ovotrace/internal/domain/models"
	"github.com/ovotrace/ovotrace/internal/repository/sheets"
	"github.com/ovotrace/ovotrace/internal/service/reporting"
	"github.com/ovotrace/ovotrace/pkg/timeparse"
)

// SummaryStore persists the nightly snapshots.
type SummaryStore interface {
	DistinctAccountIDs(ctx context.Context) ([]string, error)
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// Scheduler runs the nightly daily-summary job.
type Scheduler struct {
	cron     *cron.Cron
	reports  *reporting.Service
	store    SummaryStore
	sheet    sheets.SummarySink // optional
	cfg      config.SummaryConfig
	location *time.Location
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. sheet may be nil when the
// Google Sheets sink is not configured.
func NewScheduler(cfg config.SummaryConfig, reports *reporting.Service, store SummaryStore, sheet sheets.SummarySink, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to UTC", zap.String("timezone", cfg.Timezone))
		location = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		reports:  reports,
		store:    store,
		sheet:    sheet,
		cfg:      cfg,
		location: location,
		logger:   logger,
	}
}

// Start registers the nightly job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailySummaries); err != nil {
		s.logger.Error("failed to schedule daily summary job", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// runDailySummaries snapshots yesterday's aggregation for every account. A
// failing account is logged and skipped; the job continues with the rest.
func (s *Scheduler) runDailySummaries() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	window := timeparse.Day(time.Now().In(s.location).AddDate(0, 0, -1), s.location)
	s.logger.Info("generating daily summaries",
		zap.Time("start", window.Start), zap.Time("end", window.End))

	accounts, err := s.store.DistinctAccountIDs(ctx)
	if err != nil {
		s.logger.Error("failed to list accounts", zap.Error(err))
		return
	}

	for _, accountID := range accounts {
		quality, size, err := s.reports.SummarizeAccount(ctx, accountID, window)
		if err != nil {
			s.logger.Error("daily summary failed", zap.String("account", accountID), zap.Error(err))
			continue
		}

		summary := models.DailySummary{
			AccountID:   accountID,
			Date:        window.Start,
			Total:       quality.Metric.Total,
			ByQuality:   quality.Metric.Counts,
			BySize:      size.Counts,
			MostCommon:  quality.Metric.MostCommon,
			RatePerHour: quality.Metric.RatePerHour,
			Trend:       quality.Metric.Trend,
			SkippedBad:  quality.Skipped,
			CreatedAt:   time.Now().UTC(),
		}

		if err := s.store.SaveDailySummary(ctx, summary); err != nil {
			s.logger.Error("failed to save daily summary", zap.String("account", accountID), zap.Error(err))
			continue
		}

		if s.sheet != nil {
			if err := s.sheet.AppendSummary(ctx, summary); err != nil {
				s.logger.Error("failed to append summary to sheet", zap.String("account", accountID), zap.Error(err))
			}
		}
	}

	s.logger.Info("daily summaries complete", zap.Int("accounts", len(accounts)))
}
