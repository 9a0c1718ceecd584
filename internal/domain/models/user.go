package models

import "time"

// UserAccount is a "users" document. AccountID links the login identity to
// the machines and records it owns; every report query is scoped by it.
type UserAccount struct {
	ID          string    `bson:"_id" json:"id"`
	AccountID   string    `bson:"account_id" json:"accountId"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"display_name" json:"displayName"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PhotoPath   string    `bson:"photo_path,omitempty" json:"photoPath,omitempty"`
	MachineIDs  []string  `bson:"machine_ids,omitempty" json:"machineIds,omitempty"`
	ResetToken  string    `bson:"reset_token,omitempty" json:"-"`
	ResetExpiry time.Time `bson:"reset_expiry,omitempty" json:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// ProfileUpdate carries the user-editable subset of the profile.
type ProfileUpdate struct {
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone"`
	PhotoPath   string `json:"photoPath"`
}

// NotificationSettings is a "notificationSettings" document keyed by user id.
// Push delivery itself happens outside this service; we only store the toggles.
type NotificationSettings struct {
	UserID        string    `bson:"_id" json:"userId"`
	DefectAlerts  bool      `bson:"defect_alerts" json:"defectAlerts"`
	DailySummary  bool      `bson:"daily_summary" json:"dailySummary"`
	BatchComplete bool      `bson:"batch_complete" json:"batchComplete"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// FCMToken is an "fcmTokens" document registering a device for push.
type FCMToken struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Token     string    `bson:"token" json:"token"`
	Platform  string    `bson:"platform,omitempty" json:"platform,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
