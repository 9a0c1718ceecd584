package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/ovotrace/ovotrace/internal/config"
	"github.com/ovotrace/ovotrace/internal/domain/models"
)

const summaryRange = "Summaries!A:H"

// SummarySink receives the nightly per-account summary rows. The Google
// Sheets sink is optional; the scheduler runs without one.
type SummarySink interface {
	AppendSummary(ctx context.Context, summary models.DailySummary) error
}

// GoogleSheetRepository implements SummarySink against a shared operations
// spreadsheet using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed sink instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (SummarySink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSummary appends one row per account per day to the summary sheet.
func (r *GoogleSheetRepository) AppendSummary(ctx context.Context, summary models.DailySummary) error {
	trend := ""
	if summary.Trend != nil {
		trend = fmt.Sprintf("%.1f%%", *summary.Trend)
	}

	values := []interface{}{
		summary.Date.Format("2006-01-02"),
		summary.AccountID,
		summary.Total,
		summary.ByQuality[models.QualityGood],
		summary.ByQuality[models.QualityDirty],
		summary.ByQuality[models.QualityCracked],
		summary.ByQuality[models.QualityBad],
		trend,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, summaryRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary row into range %s: %w", summaryRange, err)
	}

	r.logger.Debug("summary row appended to sheet", zap.String("account", summary.AccountID))
	return nil
}
