package handlers

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovotrace/ovotrace/internal/domain/models"
)

// SeedStore is the write surface the dev seeder needs.
type SeedStore interface {
	InsertUser(ctx context.Context, user models.UserAccount) error
	InsertBatch(ctx context.Context, batch models.Batch) error
	InsertInspections(ctx context.Context, docs []models.RawInspection) error
}

// SeedHandler populates a demo account. Not a production surface: the router
// only mounts it in dev mode, and the handler double-checks.
type SeedHandler struct {
	store  SeedStore
	dev    bool
	logger *zap.Logger
}

// NewSeedHandler constructs the dev-only seeding handler.
func NewSeedHandler(store SeedStore, dev bool, logger *zap.Logger) *SeedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedHandler{store: store, dev: dev, logger: logger}
}

// Seed inserts one demo user, two batches and a day of inspection records.
// Timestamps are written deliberately in all the legacy shapes so the
// normalization path stays exercised locally.
func (h *SeedHandler) Seed(c *gin.Context) {
	if !h.dev {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	ctx := c.Request.Context()
	accountID := "demo-" + uuid.NewString()[:8]
	userID := uuid.NewString()
	now := time.Now().UTC()

	user := models.UserAccount{
		ID:          userID,
		AccountID:   accountID,
		Email:       fmt.Sprintf("demo+%s@ovotrace.io", accountID),
		DisplayName: "Demo Farm",
		MachineIDs:  []string{"machine-01"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.InsertUser(ctx, user); err != nil {
		h.logger.Error("seed user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "seed failed"})
		return
	}

	qualities := models.QualityCategories
	sizes := models.SizeCategories
	rng := rand.New(rand.NewSource(now.UnixNano()))

	for b := 0; b < 2; b++ {
		batchID := uuid.NewString()
		batch := models.Batch{
			ID:        batchID,
			AccountID: accountID,
			MachineID: "machine-01",
			Stats:     models.BatchStats{ByQuality: map[string]int{}, BySize: map[string]int{}},
			CreatedAt: now.Add(-time.Duration(b*6) * time.Hour),
			UpdatedAt: now,
		}

		docs := make([]models.RawInspection, 0, 60)
		for i := 0; i < 60; i++ {
			at := now.Add(-time.Duration(rng.Intn(20)) * time.Hour)
			quality := qualities[rng.Intn(len(qualities))]
			size := sizes[rng.Intn(len(sizes))]

			// Rotate through the timestamp shapes the machines have used.
			var created any
			switch i % 3 {
			case 0:
				created = at.Format(time.RFC3339)
			case 1:
				created = at.UnixMilli()
			default:
				created = map[string]any{"seconds": at.Unix(), "nanoseconds": 0}
			}

			docs = append(docs, models.RawInspection{
				ID:        uuid.NewString(),
				AccountID: accountID,
				BatchID:   batchID,
				Quality:   quality,
				Size:      size,
				WeightG:   50 + rng.Float64()*25,
				ImageID:   uuid.NewString(),
				MachineID: "machine-01",
				CreatedAt: created,
			})

			batch.Stats.Total++
			batch.Stats.ByQuality[quality]++
			batch.Stats.BySize[size]++
		}

		if err := h.store.InsertBatch(ctx, batch); err != nil {
			h.logger.Error("seed batch failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "seed failed"})
			return
		}
		if err := h.store.InsertInspections(ctx, docs); err != nil {
			h.logger.Error("seed inspections failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "seed failed"})
			return
		}
	}

	h.logger.Info("demo data seeded", zap.String("account", accountID))
	c.JSON(http.StatusOK, gin.H{"userId": userID, "accountId": accountID})
}
