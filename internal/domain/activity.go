package domain

import "time"

// Activity is the tracking record every enquiry, project and permit hangs off.
type Activity struct {
	ActivityID   string     `gorm:"column:activity_id;primaryKey" json:"activityId"`
	InitiativeID string     `gorm:"column:initiative_id;not null" json:"initiativeId"`
	DeletedAt    *time.Time `gorm:"column:deleted_at;index" json:"deletedAt"`
	Stamps
}

func (Activity) TableName() string {
	return "activity"
}
