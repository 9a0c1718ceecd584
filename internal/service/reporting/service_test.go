package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovotrace/ovotrace/internal/domain/models"
	"github.com/ovotrace/ovotrace/internal/repository/mongodb"
)

type fakeStore struct {
	inspections map[string][]models.RawInspection
	legacy      map[string][]models.LegacyLog
	summaries   map[string][]models.DailySummary
}

func (f *fakeStore) ListInspections(_ context.Context, accountID string) ([]models.RawInspection, error) {
	return f.inspections[accountID], nil
}

func (f *fakeStore) ListBatches(_ context.Context, accountID string) ([]models.Batch, error) {
	return nil, nil
}

func (f *fakeStore) ListLegacyLogs(_ context.Context, accountID string, weight bool) ([]models.LegacyLog, error) {
	return f.legacy[accountID], nil
}

func (f *fakeStore) ListDailySummaries(_ context.Context, accountID string, limit int64) ([]models.DailySummary, error) {
	return f.summaries[accountID], nil
}

type fakeUsers struct {
	users map[string]models.UserAccount
}

func (f *fakeUsers) FindUserByID(_ context.Context, userID string) (models.UserAccount, error) {
	user, ok := f.users[userID]
	if !ok {
		return models.UserAccount{}, mongodb.ErrNotFound
	}
	return user, nil
}

func testService(store *fakeStore, users *fakeUsers) *Service {
	return NewService(store, users, zap.NewNop())
}

func TestFetchInspectionsNoLinkedAccountDegradesToEmpty(t *testing.T) {
	svc := testService(&fakeStore{}, &fakeUsers{users: map[string]models.UserAccount{
		"unlinked": {ID: "unlinked"}, // no account id
	}})
	w := dayWindow()

	for _, userID := range []string{"", "missing", "unlinked"} {
		result, err := svc.FetchInspections(context.Background(), userID, w)
		require.NoError(t, err, "user %q", userID)
		assert.Empty(t, result.Records, "user %q", userID)
	}

	summary, err := svc.Summarize(context.Background(), "missing", DimensionQuality, w)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Metric.Total)
	assert.Nil(t, summary.Metric.Trend)
}

func TestFetchInspectionsNormalizesAndFilters(t *testing.T) {
	w := dayWindow()
	inside := w.Start.Add(6 * time.Hour)

	store := &fakeStore{inspections: map[string][]models.RawInspection{
		"acct-1": {
			{ID: "a", AccountID: "acct-1", Quality: "good", CreatedAt: inside.Format(time.RFC3339)},
			{ID: "b", AccountID: "acct-1", Quality: "dirty", CreatedAt: inside.UnixMilli()},
			{ID: "c", AccountID: "acct-1", Quality: "dirty", CreatedAt: map[string]any{"seconds": inside.Unix()}},
			{ID: "outside", AccountID: "acct-1", Quality: "good", CreatedAt: w.End.Add(time.Hour).Unix()},
			{ID: "broken", AccountID: "acct-1", Quality: "good", CreatedAt: "yesterday-ish"},
		},
	}}
	users := &fakeUsers{users: map[string]models.UserAccount{
		"u1": {ID: "u1", AccountID: "acct-1"},
	}}

	result, err := testService(store, users).FetchInspections(context.Background(), "u1", w)
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	assert.Equal(t, 1, result.Skipped, "unparseable timestamp must be counted, not defaulted to now")
	for _, rec := range result.Records {
		assert.True(t, w.Contains(rec.CreatedAt), "record %s outside window", rec.ID)
	}
}

func TestSummarizeComputesTrendAgainstPreviousWindow(t *testing.T) {
	w := dayWindow()
	prev := w.Previous()

	var docs []models.RawInspection
	for i := 0; i < 4; i++ {
		docs = append(docs, models.RawInspection{
			ID: "cur", AccountID: "acct-1", Quality: "good",
			CreatedAt: w.Start.Add(time.Duration(i+1) * time.Hour).Unix(),
		})
	}
	for i := 0; i < 2; i++ {
		docs = append(docs, models.RawInspection{
			ID: "prev", AccountID: "acct-1", Quality: "good",
			CreatedAt: prev.Start.Add(time.Duration(i+1) * time.Hour).Unix(),
		})
	}

	store := &fakeStore{inspections: map[string][]models.RawInspection{"acct-1": docs}}
	users := &fakeUsers{users: map[string]models.UserAccount{"u1": {ID: "u1", AccountID: "acct-1"}}}

	summary, err := testService(store, users).Summarize(context.Background(), "u1", DimensionQuality, w)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Metric.Total)
	require.NotNil(t, summary.Metric.Trend)
	assert.Equal(t, 100.0, *summary.Metric.Trend)
}

func TestFetchLegacyLogsMapsCategories(t *testing.T) {
	w := dayWindow()
	store := &fakeStore{legacy: map[string][]models.LegacyLog{
		"acct-1": {
			{ID: "l1", AccountID: "acct-1", Category: "cracked", Value: 61.5, CreatedAt: w.Start.Add(time.Hour).Unix()},
		},
	}}
	users := &fakeUsers{users: map[string]models.UserAccount{"u1": {ID: "u1", AccountID: "acct-1"}}}

	result, err := testService(store, users).FetchLegacyLogs(context.Background(), "u1", false, w)
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "cracked", result.Records[0].Quality)
	assert.Equal(t, 61.5, result.Records[0].WeightG)
}
