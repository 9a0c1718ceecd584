package models

import "time"

// Quality categories assigned by the inspection machine. The order of
// QualityCategories doubles as the tie-break priority when two categories
// hold the same count.
const (
	QualityGood    = "good"
	QualityDirty   = "dirty"
	QualityCracked = "cracked"
	QualityBad     = "bad"
)

// QualityCategories lists all quality labels in display and tie-break order.
var QualityCategories = []string{QualityGood, QualityDirty, QualityCracked, QualityBad}

// Size categories assigned by the sorter.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// SizeCategories lists all size labels in display and tie-break order.
var SizeCategories = []string{SizeSmall, SizeMedium, SizeLarge}

// RawInspection is the wire shape of an "eggs" document. The machine has
// written created_at in several formats over time, so it stays untyped until
// the fetch boundary normalizes it.
type RawInspection struct {
	ID        string  `bson:"_id" json:"id"`
	AccountID string  `bson:"account_id" json:"accountId"`
	BatchID   string  `bson:"batch_id" json:"batchId"`
	Quality   string  `bson:"quality" json:"quality"`
	Size      string  `bson:"size" json:"size"`
	WeightG   float64 `bson:"weight" json:"weight"`
	ImageID   string  `bson:"image_id,omitempty" json:"imageId,omitempty"`
	MachineID string  `bson:"machine_id,omitempty" json:"machineId,omitempty"`
	CreatedAt any     `bson:"created_at" json:"createdAt"`
}

// InspectionRecord is a normalized inspection event. Records are written by
// the physical machine and never mutated by this application.
type InspectionRecord struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	BatchID   string    `json:"batchId"`
	Quality   string    `json:"quality"`
	Size      string    `json:"size"`
	WeightG   float64   `json:"weight"`
	ImageID   string    `json:"imageId,omitempty"`
	MachineID string    `json:"machineId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BatchStats is the aggregate snapshot the ingestion path maintains on a batch.
type BatchStats struct {
	Total     int            `bson:"total" json:"total"`
	ByQuality map[string]int `bson:"by_quality" json:"byQuality"`
	BySize    map[string]int `bson:"by_size" json:"bySize"`
}

// Batch is a "batches" document. Read-only from this application.
type Batch struct {
	ID        string     `bson:"_id" json:"id"`
	AccountID string     `bson:"account_id" json:"accountId"`
	MachineID string     `bson:"machine_id,omitempty" json:"machineId,omitempty"`
	Stats     BatchStats `bson:"stats" json:"stats"`
	CreatedAt any        `bson:"created_at" json:"createdAt"`
	UpdatedAt any        `bson:"updated_at" json:"updatedAt"`
}

// LegacyLog is a defect_logs / weight_logs document from the older per-event
// query path. Still consumed by the defect-log export.
type LegacyLog struct {
	ID         string  `bson:"_id" json:"id"`
	AccountID  string  `bson:"account_id" json:"accountId"`
	BatchID    string  `bson:"batch_id,omitempty" json:"batchId,omitempty"`
	Category   string  `bson:"category" json:"category"`
	Value      float64 `bson:"value" json:"value"`
	Confidence float64 `bson:"confidence,omitempty" json:"confidence,omitempty"`
	ImageID    string  `bson:"image_id,omitempty" json:"imageId,omitempty"`
	MachineID  string  `bson:"machine_id,omitempty" json:"machineId,omitempty"`
	CreatedAt  any     `bson:"created_at" json:"createdAt"`
}
