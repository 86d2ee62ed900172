package domain

import "time"

// Enquiry is a general question submitted to a navigator, optionally about an existing activity.
type Enquiry struct {
	EnquiryID          string     `gorm:"column:enquiry_id;primaryKey" json:"enquiryId"`
	ActivityID         string     `gorm:"column:activity_id;not null;index" json:"activityId"`
	AssignedUserID     *string    `gorm:"column:assigned_user_id" json:"assignedUserId"`
	SubmissionType     *string    `gorm:"column:submission_type" json:"submissionType"`
	SubmittedAt        time.Time  `gorm:"column:submitted_at;not null" json:"submittedAt"`
	SubmittedBy        string     `gorm:"column:submitted_by;not null" json:"submittedBy"`
	SubmittedMethod    string     `gorm:"column:submitted_method;not null;default:'PCNS'" json:"submittedMethod"`
	ContactEmail       *string    `gorm:"column:contact_email" json:"contactEmail"`
	RelatedActivityID  *string    `gorm:"column:related_activity_id" json:"relatedActivityId"`
	EnquiryDescription *string    `gorm:"column:enquiry_description" json:"enquiryDescription"`
	IntakeStatus       *string    `gorm:"column:intake_status" json:"intakeStatus"`
	EnquiryStatus      string     `gorm:"column:enquiry_status;not null;default:'New'" json:"enquiryStatus"`
	AddedToATS         bool       `gorm:"column:added_to_ats;not null;default:false" json:"addedToATS"`
	ATSClientID        *int       `gorm:"column:ats_client_id" json:"atsClientId"`
	ATSEnquiryID       *string    `gorm:"column:ats_enquiry_id" json:"atsEnquiryId"`
	DeletedAt          *time.Time `gorm:"column:deleted_at;index" json:"deletedAt"`
	Stamps
}

func (Enquiry) TableName() string {
	return "enquiry"
}
