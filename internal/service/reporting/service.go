package reporting

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ovotrace/ovotrace/internal/domain/models"
	"github.com/ovotrace/ovotrace/internal/repository/mongodb"
	"github.com/ovotrace/ovotrace/pkg/timeparse"
)

// Store is the document-store surface the fetch stage needs.
type Store interface {
	ListInspections(ctx context.Context, accountID string) ([]models.RawInspection, error)
	ListBatches(ctx context.Context, accountID string) ([]models.Batch, error)
	ListLegacyLogs(ctx context.Context, accountID string, weight bool) ([]models.LegacyLog, error)
	ListDailySummaries(ctx context.Context, accountID string, limit int64) ([]models.DailySummary, error)
}

// UserStore resolves the authenticated user's account linkage.
type UserStore interface {
	FindUserByID(ctx context.Context, userID string) (models.UserAccount, error)
}

// Service is the fetch-and-aggregate pipeline behind every dashboard view.
type Service struct {
	store  Store
	users  UserStore
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(store Store, users UserStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, users: users, logger: logger}
}

// FetchResult carries the normalized records of one window plus the count of
// records dropped for unparseable timestamps. Skipped is surfaced as a
// data-quality signal instead of silently defaulting bad timestamps to now.
type FetchResult struct {
	Records []models.InspectionRecord
	Skipped int
}

// Summary pairs a DerivedMetric with the fetch's data-quality counter.
type Summary struct {
	Metric  models.DerivedMetric
	Skipped int
}

// AccountID resolves the tenant-scoping key from the authenticated user's
// profile. A missing user or an empty linkage returns ok=false and no error:
// an unlinked login sees an empty dashboard, never an error banner.
func (s *Service) AccountID(ctx context.Context, userID string) (string, bool, error) {
	if userID == "" {
		return "", false, nil
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, mongodb.ErrNotFound) {
		s.logger.Debug("no profile for user, degrading to empty dashboard", zap.String("user", userID))
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("resolve account for user %s: %w", userID, err)
	}
	if user.AccountID == "" {
		return "", false, nil
	}
	return user.AccountID, true, nil
}

// FetchInspections retrieves and normalizes the account's inspection records
// inside the half-open window. The aggregation stages always receive the
// full unpaginated set; page/offset exists only for on-screen tables.
func (s *Service) FetchInspections(ctx context.Context, userID string, window timeparse.Window) (FetchResult, error) {
	accountID, ok, err := s.AccountID(ctx, userID)
	if err != nil {
		return FetchResult{}, err
	}
	if !ok {
		return FetchResult{}, nil
	}

	raw, err := s.store.ListInspections(ctx, accountID)
	if err != nil {
		return FetchResult{}, err
	}

	result := FetchResult{Records: make([]models.InspectionRecord, 0, len(raw))}
	for _, doc := range raw {
		at, err := timeparse.Instant(doc.CreatedAt)
		if err != nil {
			result.Skipped++
			s.logger.Warn("skipping inspection with unparseable timestamp",
				zap.String("record", doc.ID), zap.Error(err))
			continue
		}
		if !window.Contains(at) {
			continue
		}
		result.Records = append(result.Records, models.InspectionRecord{
			ID:        doc.ID,
			AccountID: doc.AccountID,
			BatchID:   doc.BatchID,
			Quality:   doc.Quality,
			Size:      doc.Size,
			WeightG:   doc.WeightG,
			ImageID:   doc.ImageID,
			MachineID: doc.MachineID,
			CreatedAt: at,
		})
	}
	return result, nil
}

// FetchLegacyLogs reads the old defect_logs / weight_logs path and converts
// the events into the normalized record shape the exporters consume.
func (s *Service) FetchLegacyLogs(ctx context.Context, userID string, weight bool, window timeparse.Window) (FetchResult, error) {
	accountID, ok, err := s.AccountID(ctx, userID)
	if err != nil {
		return FetchResult{}, err
	}
	if !ok {
		return FetchResult{}, nil
	}

	raw, err := s.store.ListLegacyLogs(ctx, accountID, weight)
	if err != nil {
		return FetchResult{}, err
	}

	result := FetchResult{Records: make([]models.InspectionRecord, 0, len(raw))}
	for _, doc := range raw {
		at, err := timeparse.Instant(doc.CreatedAt)
		if err != nil {
			result.Skipped++
			s.logger.Warn("skipping legacy log with unparseable timestamp",
				zap.String("record", doc.ID), zap.Error(err))
			continue
		}
		if !window.Contains(at) {
			continue
		}
		result.Records = append(result.Records, models.InspectionRecord{
			ID:        doc.ID,
			AccountID: doc.AccountID,
			BatchID:   doc.BatchID,
			Quality:   doc.Category,
			WeightG:   doc.Value,
			ImageID:   doc.ImageID,
			MachineID: doc.MachineID,
			CreatedAt: at,
		})
	}
	return result, nil
}

// Batches lists the account's batch documents for the batch-review table.
func (s *Service) Batches(ctx context.Context, userID string) ([]models.Batch, error) {
	accountID, ok, err := s.AccountID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Batch{}, nil
	}
	return s.store.ListBatches(ctx, accountID)
}

// DailySummaries returns the account's stored nightly snapshots, newest
// first, for the daily-summary history view.
func (s *Service) DailySummaries(ctx context.Context, userID string, limit int64) ([]models.DailySummary, error) {
	accountID, ok, err := s.AccountID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.DailySummary{}, nil
	}
	return s.store.ListDailySummaries(ctx, accountID, limit)
}

// Summarize runs the full pipeline for one window: fetch, aggregate, and
// compute the trend against the immediately preceding window of equal length.
func (s *Service) Summarize(ctx context.Context, userID string, dim Dimension, window timeparse.Window) (Summary, error) {
	current, err := s.FetchInspections(ctx, userID, window)
	if err != nil {
		return Summary{}, err
	}

	metric := Aggregate(current.Records, dim, window)

	previous, err := s.FetchInspections(ctx, userID, window.Previous())
	if err != nil {
		// The trend is decoration on the summary; losing it should not
		// take the whole dashboard down.
		s.logger.Warn("baseline fetch failed, omitting trend", zap.Error(err))
	} else {
		baseline := Aggregate(previous.Records, dim, window.Previous())
		metric.Trend = Trend(metric.Total, baseline.Total)
	}

	return Summary{Metric: metric, Skipped: current.Skipped}, nil
}

// SummarizeAccount is the scheduler-facing variant of Summarize: it is keyed
// directly by account id since the nightly job has no authenticated user.
func (s *Service) SummarizeAccount(ctx context.Context, accountID string, window timeparse.Window) (Summary, models.DerivedMetric, error) {
	raw, err := s.store.ListInspections(ctx, accountID)
	if err != nil {
		return Summary{}, models.DerivedMetric{}, err
	}

	var skipped int
	records := make([]models.InspectionRecord, 0, len(raw))
	for _, doc := range raw {
		at, err := timeparse.Instant(doc.CreatedAt)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, models.InspectionRecord{
			ID: doc.ID, AccountID: doc.AccountID, BatchID: doc.BatchID,
			Quality: doc.Quality, Size: doc.Size, WeightG: doc.WeightG,
			ImageID: doc.ImageID, MachineID: doc.MachineID, CreatedAt: at,
		})
	}

	quality := Aggregate(records, DimensionQuality, window)
	size := Aggregate(records, DimensionSize, window)

	baseline := Aggregate(records, DimensionQuality, window.Previous())
	quality.Trend = Trend(quality.Total, baseline.Total)

	return Summary{Metric: quality, Skipped: skipped}, size, nil
}
