package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ovotrace/ovotrace/internal/domain/models"
)

// FindUserByID fetches a users document by its id.
func (r *Repository) FindUserByID(ctx context.Context, userID string) (models.UserAccount, error) {
	var user models.UserAccount
	err := r.collection(collUsers).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.UserAccount{}, ErrNotFound
	}
	if err != nil {
		return models.UserAccount{}, fmt.Errorf("find user %s: %w", userID, err)
	}
	return user, nil
}

// FindUserByEmail fetches a users document by email address.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (models.UserAccount, error) {
	var user models.UserAccount
	err := r.collection(collUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.UserAccount{}, ErrNotFound
	}
	if err != nil {
		return models.UserAccount{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the user-editable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	res, err := r.collection(collUsers).UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"display_name": update.DisplayName,
			"phone":        update.Phone,
			"photo_path":   update.PhotoPath,
			"updated_at":   time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("update profile %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken stores a password-reset token with its expiry on the user.
func (r *Repository) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	_, err := r.collection(collUsers).UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"reset_token": token, "reset_expiry": expiry},
	})
	if err != nil {
		return fmt.Errorf("set reset token %s: %w", userID, err)
	}
	return nil
}

// DistinctAccountIDs lists every account id present in the users collection.
// The nightly summary job iterates these.
func (r *Repository) DistinctAccountIDs(ctx context.Context) ([]string, error) {
	raw, err := r.collection(collUsers).Distinct(ctx, "account_id", bson.M{"account_id": bson.M{"$ne": ""}})
	if err != nil {
		return nil, fmt.Errorf("distinct account ids: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

// NotificationSettings fetches the per-user notification toggles, returning
// defaults when no document exists yet.
func (r *Repository) NotificationSettings(ctx context.Context, userID string) (models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := r.collection(collNotifySettings).FindOne(ctx, bson.M{"_id": userID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NotificationSettings{UserID: userID, DefectAlerts: true, DailySummary: true}, nil
	}
	if err != nil {
		return models.NotificationSettings{}, fmt.Errorf("find notification settings %s: %w", userID, err)
	}
	return settings, nil
}

// SaveNotificationSettings upserts the per-user notification toggles.
func (r *Repository) SaveNotificationSettings(ctx context.Context, settings models.NotificationSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection(collNotifySettings).ReplaceOne(ctx, bson.M{"_id": settings.UserID}, settings, opts)
	if err != nil {
		return fmt.Errorf("save notification settings %s: %w", settings.UserID, err)
	}
	return nil
}

// RegisterFCMToken upserts a push token keyed by its token value so a device
// re-registering does not accumulate duplicates.
func (r *Repository) RegisterFCMToken(ctx context.Context, token models.FCMToken) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection(collFCMTokens).ReplaceOne(ctx, bson.M{"token": token.Token}, token, opts)
	if err != nil {
		return fmt.Errorf("register fcm token: %w", err)
	}
	return nil
}

// InsertUser inserts a users document (dev seeder only).
func (r *Repository) InsertUser(ctx context.Context, user models.UserAccount) error {
	if _, err := r.collection(collUsers).InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
