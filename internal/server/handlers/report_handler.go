package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovotrace/ovotrace/internal/domain/models"
	"github.com/ovotrace/ovotrace/internal/service/export"
	"github.com/ovotrace/ovotrace/internal/service/reporting"
	"github.com/ovotrace/ovotrace/pkg/timeparse"
)

// UserIDKey is the gin context key the identity middleware sets. The hosted
// auth service in front of this API resolves the session and forwards the
// user id in a header.
const UserIDKey = "userID"

// ReportHandler serves the dashboard's report and export endpoints.
type ReportHandler struct {
	reports  *reporting.Service
	exporter *export.Service
	logger   *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter for reports.
func NewReportHandler(reports *reporting.Service, exporter *export.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, exporter: exporter, logger: logger}
}

// parseWindow reads the optional start/end query parameters, defaulting to
// the current UTC day. Both RFC3339 and plain dates are accepted.
func parseWindow(c *gin.Context) (timeparse.Window, bool) {
	window := timeparse.Day(time.Now(), time.UTC)

	parse := func(raw string) (time.Time, bool) {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	if raw := c.Query("start"); raw != "" {
		t, ok := parse(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
			return timeparse.Window{}, false
		}
		window.Start = t
	}
	if raw := c.Query("end"); raw != "" {
		t, ok := parse(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
			return timeparse.Window{}, false
		}
		window.End = t
	}
	if !window.End.After(window.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be after start"})
		return timeparse.Window{}, false
	}
	return window, true
}

func dimension(c *gin.Context) reporting.Dimension {
	if c.Query("dimension") == string(reporting.DimensionSize) {
		return reporting.DimensionSize
	}
	return reporting.DimensionQuality
}

// Summary returns the aggregated DerivedMetric for the window. An unlinked
// account yields a zeroed metric and an HTTP 200; the dashboard renders its
// "no data" state from it.
func (h *ReportHandler) Summary(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	summary, err := h.reports.Summarize(c.Request.Context(), c.GetString(UserIDKey), dimension(c), window)
	if err != nil {
		h.logger.Error("summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metric":               summary.Metric,
		"skippedBadTimestamps": summary.Skipped,
		"window":               gin.H{"start": window.Start, "end": window.End},
	})
}

// Hourly returns the hour-of-day bucket counts for the window, feeding the
// trend charts that plot activity across the day.
func (h *ReportHandler) Hourly(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	result, err := h.reports.FetchInspections(c.Request.Context(), c.GetString(UserIDKey), window)
	if err != nil {
		h.logger.Error("hourly fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build hourly breakdown"})
		return
	}

	metric := reporting.Aggregate(result.Records, dimension(c), window)
	c.JSON(http.StatusOK, gin.H{
		"hours":                metric.HourBuckets,
		"total":                metric.Total,
		"skippedBadTimestamps": result.Skipped,
		"window":               gin.H{"start": window.Start, "end": window.End},
	})
}

// Records returns the raw window records for on-screen tables, with simple
// page/offset slicing. The aggregation endpoints never use this pagination.
func (h *ReportHandler) Records(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	result, err := h.fetch(c, window)
	if err != nil {
		h.logger.Error("records fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch records"})
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	page := result.Records
	if offset < len(page) {
		page = page[offset:]
	} else {
		page = page[:0]
	}
	if len(page) > limit {
		page = page[:limit]
	}
	if page == nil {
		// An unlinked account fetches no records; the dashboard expects
		// an empty list, not null.
		page = []models.InspectionRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"records":              page,
		"total":                len(result.Records),
		"skippedBadTimestamps": result.Skipped,
	})
}

// Batches serves the batch-review table.
func (h *ReportHandler) Batches(c *gin.Context) {
	batches, err := h.reports.Batches(c.Request.Context(), c.GetString(UserIDKey))
	if err != nil {
		h.logger.Error("batches fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch batches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": batches})
}

// DailySummaries serves the stored nightly snapshots.
func (h *ReportHandler) DailySummaries(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "30"), 10, 64)
	if limit <= 0 || limit > 365 {
		limit = 30
	}

	summaries, err := h.reports.DailySummaries(c.Request.Context(), c.GetString(UserIDKey), limit)
	if err != nil {
		h.logger.Error("daily summaries fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summaries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}

func (h *ReportHandler) fetch(c *gin.Context, window timeparse.Window) (reporting.FetchResult, error) {
	userID := c.GetString(UserIDKey)
	switch c.Query("kind") {
	case "defect_logs":
		return h.reports.FetchLegacyLogs(c.Request.Context(), userID, false, window)
	case "weight_logs":
		return h.reports.FetchLegacyLogs(c.Request.Context(), userID, true, window)
	default:
		return h.reports.FetchInspections(c.Request.Context(), userID, window)
	}
}

// ExportRecords streams a record-level export in the requested format.
func (h *ReportHandler) ExportRecords(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", "csv"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window, ok := parseWindow(c)
	if !ok {
		return
	}

	result, err := h.fetch(c, window)
	if err != nil {
		h.logger.Error("export fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch records"})
		return
	}

	withImages := c.Query("images") == "true"
	artifact, err := h.exporter.ExportRecords(c.Request.Context(), "Inspection log", result.Records, format, withImages)
	if err != nil {
		h.logger.Error("record export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	serveArtifact(c, artifact)
}

// ExportMetrics streams an aggregated-metric export in the requested format.
func (h *ReportHandler) ExportMetrics(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", "pdf"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window, ok := parseWindow(c)
	if !ok {
		return
	}

	dim := dimension(c)
	summary, err := h.reports.Summarize(c.Request.Context(), c.GetString(UserIDKey), dim, window)
	if err != nil {
		h.logger.Error("metric export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}

	artifact, err := h.exporter.ExportMetric(c.Request.Context(), "Sorting summary", summary.Metric, dim.Known(), format)
	if err != nil {
		h.logger.Error("metric export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	serveArtifact(c, artifact)
}

func serveArtifact(c *gin.Context, artifact export.Artifact) {
	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}
