package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ProjectFields are the intake columns both project variants share.
type ProjectFields struct {
	ActivityID            string         `gorm:"column:activity_id;not null;index" json:"activityId"`
	AssignedUserID        *string        `gorm:"column:assigned_user_id" json:"assignedUserId"`
	ProjectName           string         `gorm:"column:project_name;not null" json:"projectName"`
	ProjectDescription    *string        `gorm:"column:project_description" json:"projectDescription"`
	CompanyNameRegistered *string        `gorm:"column:company_name_registered" json:"companyNameRegistered"`
	Locality              *string        `gorm:"column:locality" json:"locality"`
	Province              *string        `gorm:"column:province" json:"province"`
	Latitude              *float64       `gorm:"column:latitude" json:"latitude"`
	Longitude             *float64       `gorm:"column:longitude" json:"longitude"`
	GeoJSON               datatypes.JSON `gorm:"column:geo_json" json:"geoJson"`
	SubmittedAt           time.Time      `gorm:"column:submitted_at;not null" json:"submittedAt"`
	SubmittedBy           string         `gorm:"column:submitted_by;not null" json:"submittedBy"`
	SubmissionType        *string        `gorm:"column:submission_type" json:"submissionType"`
	IntakeStatus          *string        `gorm:"column:intake_status" json:"intakeStatus"`
	ApplicationStatus     string         `gorm:"column:application_status;not null;default:'New'" json:"applicationStatus"`
	AddedToATS            bool           `gorm:"column:added_to_ats;not null;default:false" json:"addedToATS"`
	ATSClientID           *int           `gorm:"column:ats_client_id" json:"atsClientId"`
	ATSEnquiryID          *string        `gorm:"column:ats_enquiry_id" json:"atsEnquiryId"`
}

// HousingProject is the housing variant of an intake project.
// ProjectID is derived from HousingProjectID on read and never stored.
type HousingProject struct {
	HousingProjectID  string     `gorm:"column:housing_project_id;primaryKey" json:"housingProjectId"`
	ProjectID         string     `gorm:"-" json:"projectId"`
	SingleFamilyUnits *string    `gorm:"column:single_family_units" json:"singleFamilyUnits"`
	MultiFamilyUnits  *string    `gorm:"column:multi_family_units" json:"multiFamilyUnits"`
	NaturalDisaster   bool       `gorm:"column:natural_disaster;not null;default:false" json:"naturalDisaster"`
	DeletedAt         *time.Time `gorm:"column:deleted_at;index" json:"deletedAt"`
	ProjectFields
	Stamps
}

func (HousingProject) TableName() string {
	return "housing_project"
}

// ElectrificationProject is the electrification variant of an intake project.
// ProjectID is derived from ElectrificationProjectID on read and never stored.
type ElectrificationProject struct {
	ElectrificationProjectID string     `gorm:"column:electrification_project_id;primaryKey" json:"electrificationProjectId"`
	ProjectID                string     `gorm:"-" json:"projectId"`
	ProjectType              *string    `gorm:"column:project_type" json:"projectType"`
	BCHydroNumber            *string    `gorm:"column:bc_hydro_number" json:"bcHydroNumber"`
	Megawatts                *float64   `gorm:"column:megawatts" json:"megawatts"`
	DeletedAt                *time.Time `gorm:"column:deleted_at;index" json:"deletedAt"`
	ProjectFields
	Stamps
}

func (ElectrificationProject) TableName() string {
	return "electrification_project"
}
