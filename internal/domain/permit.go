package domain

import "time"

// Permit tracks one authorization needed by an activity.
type Permit struct {
	PermitID           string     `gorm:"column:permit_id;primaryKey" json:"permitId"`
	ActivityID         string     `gorm:"column:activity_id;not null;index" json:"activityId"`
	PermitTypeID       int        `gorm:"column:permit_type_id;not null" json:"permitTypeId"`
	NeedsReview        bool       `gorm:"column:needs_review;not null;default:false" json:"needsReview"`
	TrackingID         *string    `gorm:"column:tracking_id" json:"trackingId"`
	AuthStatus         string     `gorm:"column:auth_status;not null;default:'None'" json:"authStatus"`
	Status             string     `gorm:"column:status;not null;default:'New'" json:"status"`
	SubmittedDate      *time.Time `gorm:"column:submitted_date" json:"submittedDate"`
	DecisionDate       *time.Time `gorm:"column:decision_date" json:"decisionDate"`
	StatusLastVerified *time.Time `gorm:"column:status_last_verified" json:"statusLastVerified"`
	Stamps
}

func (Permit) TableName() string {
	return "permit"
}

// PermitNote is a status note on a permit.
type PermitNote struct {
	PermitNoteID string     `gorm:"column:permit_note_id;primaryKey" json:"permitNoteId"`
	PermitID     string     `gorm:"column:permit_id;not null;index" json:"permitId"`
	Note         string     `gorm:"column:note;not null" json:"note"`
	DeletedAt    *time.Time `gorm:"column:deleted_at;index" json:"deletedAt"`
	Stamps
}

func (PermitNote) TableName() string {
	return "permit_note"
}
