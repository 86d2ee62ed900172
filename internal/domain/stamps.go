package domain

import "time"

// Stamps are the audit columns shared by every intake table.
type Stamps struct {
	CreatedBy *string   `gorm:"column:created_by" json:"createdBy"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedBy *string   `gorm:"column:updated_by" json:"updatedBy"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
