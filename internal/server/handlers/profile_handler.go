package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovotrace/ovotrace/internal/domain/models"
	"github.com/ovotrace/ovotrace/internal/repository/mongodb"
)

// ProfileStore is the users surface the profile/settings area needs.
type ProfileStore interface {
	FindUserByID(ctx context.Context, userID string) (models.UserAccount, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error
	NotificationSettings(ctx context.Context, userID string) (models.NotificationSettings, error)
	SaveNotificationSettings(ctx context.Context, settings models.NotificationSettings) error
	RegisterFCMToken(ctx context.Context, token models.FCMToken) error
}

// ProfileHandler serves the profile and settings endpoints.
type ProfileHandler struct {
	store  ProfileStore
	logger *zap.Logger
}

// NewProfileHandler constructs the HTTP handler adapter for the settings area.
func NewProfileHandler(store ProfileStore, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{store: store, logger: logger}
}

// Get returns the current user's profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.store.FindUserByID(c.Request.Context(), c.GetString(UserIDKey))
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		h.logger.Error("profile lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update applies the user-editable profile fields.
func (h *ProfileHandler) Update(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
		return
	}

	err := h.store.UpdateProfile(c.Request.Context(), c.GetString(UserIDKey), update)
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		h.logger.Error("profile update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetNotificationSettings returns the per-user notification toggles.
func (h *ProfileHandler) GetNotificationSettings(c *gin.Context) {
	settings, err := h.store.NotificationSettings(c.Request.Context(), c.GetString(UserIDKey))
	if err != nil {
		h.logger.Error("notification settings lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PutNotificationSettings upserts the per-user notification toggles.
func (h *ProfileHandler) PutNotificationSettings(c *gin.Context) {
	var settings models.NotificationSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}
	settings.UserID = c.GetString(UserIDKey)

	if err := h.store.SaveNotificationSettings(c.Request.Context(), settings); err != nil {
		h.logger.Error("notification settings save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.Status(http.StatusNoContent)
}

type registerTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform"`
}

// RegisterToken stores a device push token. Delivery happens outside this
// service; we only keep the registry current.
func (h *ProfileHandler) RegisterToken(c *gin.Context) {
	var req registerTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	err := h.store.RegisterFCMToken(c.Request.Context(), models.FCMToken{
		ID:        uuid.NewString(),
		UserID:    c.GetString(UserIDKey),
		Token:     req.Token,
		Platform:  req.Platform,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("token registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register token"})
		return
	}
	c.Status(http.StatusNoContent)
}
