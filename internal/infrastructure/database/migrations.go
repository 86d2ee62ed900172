package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Migration is one versioned schema change.
type Migration struct {
	Version     int
	Description string
	Up          func(*gorm.DB) error
	Down        func(*gorm.DB) error
}

// MigrationStatus reports whether a migration has been applied.
type MigrationStatus struct {
	Version     int
	Description string
	Applied     bool
}

type migrationHistory struct {
	ID          uint   `gorm:"primaryKey"`
	Version     int    `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	AppliedAt   int64  `gorm:"autoCreateTime"`
}

func (migrationHistory) TableName() string {
	return "migration_history"
}

// Migrator applies and reverts the schema history.
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: allMigrations(),
	}
}

// Migrate runs every pending migration in version order, each in its own transaction.
func (m *Migrator) Migrate(ctx context.Context) error {
	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}
	for _, mig := range m.migrations {
		if applied[mig.Version] {
			continue
		}
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&migrationHistory{Version: mig.Version, Description: mig.Description}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", mig.Version, mig.Description, err)
		}
		log.Info().Int("version", mig.Version).Str("description", mig.Description).Msg("migration applied")
	}
	return nil
}

// Rollback reverts the most recently applied migration.
func (m *Migrator) Rollback(ctx context.Context) error {
	if _, err := m.applied(ctx); err != nil {
		return err
	}
	var last migrationHistory
	if err := m.db.WithContext(ctx).Order("version DESC").First(&last).Error; err != nil {
		return fmt.Errorf("no migrations to rollback: %w", err)
	}

	var mig *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == last.Version {
			mig = &m.migrations[i]
			break
		}
	}
	if mig == nil {
		return fmt.Errorf("migration %d not found", last.Version)
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mig.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&last).Error
	})
	if err != nil {
		return fmt.Errorf("rollback of %d (%s) failed: %w", mig.Version, mig.Description, err)
	}
	log.Info().Int("version", mig.Version).Str("description", mig.Description).Msg("migration rolled back")
	return nil
}

func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, mig := range m.migrations {
		statuses = append(statuses, MigrationStatus{
			Version:     mig.Version,
			Description: mig.Description,
			Applied:     applied[mig.Version],
		})
	}
	return statuses, nil
}

// Pending counts migrations not yet applied.
func (m *Migrator) Pending(ctx context.Context) (int, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, mig := range m.migrations {
		if !applied[mig.Version] {
			n++
		}
	}
	return n, nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]bool, error) {
	db := m.db.WithContext(ctx)
	if err := db.AutoMigrate(&migrationHistory{}); err != nil {
		return nil, fmt.Errorf("failed to create migration history table: %w", err)
	}
	var rows []migrationHistory
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}
	out := make(map[int]bool, len(rows))
	for _, r := range rows {
		out[r.Version] = true
	}
	return out, nil
}

// Table snapshots. Each describes a table as a given migration leaves it, so the
// history replays the same way regardless of how the domain models evolve.

type StampColumns struct {
	CreatedBy *string   `gorm:"column:created_by"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedBy *string   `gorm:"column:updated_by"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

type activityV1 struct {
	ActivityID   string `gorm:"column:activity_id;primaryKey"`
	InitiativeID string `gorm:"column:initiative_id;not null"`
	IsDeleted    bool   `gorm:"column:is_deleted;not null;default:false"`
	StampColumns
}

func (activityV1) TableName() string { return "activity" }

type enquiryV1 struct {
	EnquiryID          string    `gorm:"column:enquiry_id;primaryKey"`
	ActivityID         string    `gorm:"column:activity_id;not null"`
	AssignedUserID     *string   `gorm:"column:assigned_user_id"`
	SubmissionType     *string   `gorm:"column:submission_type"`
	SubmittedAt        time.Time `gorm:"column:submitted_at;not null"`
	SubmittedBy        string    `gorm:"column:submitted_by;not null"`
	SubmittedMethod    string    `gorm:"column:submitted_method;not null;default:'PCNS'"`
	ContactEmail       *string   `gorm:"column:contact_email"`
	RelatedActivityID  *string   `gorm:"column:related_activity_id"`
	EnquiryDescription *string   `gorm:"column:enquiry_description"`
	IntakeStatus       *string   `gorm:"column:intake_status"`
	EnquiryStatus      string    `gorm:"column:enquiry_status;not null;default:'New'"`
	IsDeleted          bool      `gorm:"column:is_deleted;not null;default:false"`
	StampColumns
}

func (enquiryV1) TableName() string { return "enquiry" }

type submissionV1 struct {
	SubmissionID          string    `gorm:"column:submission_id;primaryKey"`
	ActivityID            string    `gorm:"column:activity_id;not null"`
	AssignedUserID        *string   `gorm:"column:assigned_user_id"`
	ProjectName           string    `gorm:"column:project_name;not null"`
	ProjectDescription    *string   `gorm:"column:project_description"`
	CompanyNameRegistered *string   `gorm:"column:company_name_registered"`
	SingleFamilyUnits     *string   `gorm:"column:single_family_units"`
	MultiFamilyUnits      *string   `gorm:"column:multi_family_units"`
	NaturalDisaster       bool      `gorm:"column:natural_disaster;not null;default:false"`
	Locality              *string   `gorm:"column:locality"`
	Province              *string   `gorm:"column:province"`
	Latitude              *float64  `gorm:"column:latitude"`
	Longitude             *float64  `gorm:"column:longitude"`
	SubmittedAt           time.Time `gorm:"column:submitted_at;not null"`
	SubmittedBy           string    `gorm:"column:submitted_by;not null"`
	SubmissionType        *string   `gorm:"column:submission_type"`
	IntakeStatus          *string   `gorm:"column:intake_status"`
	ApplicationStatus     string    `gorm:"column:application_status;not null;default:'New'"`
	IsDeleted             bool      `gorm:"column:is_deleted;not null;default:false"`
	StampColumns
}

func (submissionV1) TableName() string { return "submission" }

type noteV1 struct {
	NoteID     string `gorm:"column:note_id;primaryKey"`
	ActivityID string `gorm:"column:activity_id"`
	Note       string `gorm:"column:note;not null"`
	NoteType   string `gorm:"column:note_type;not null;default:'General'"`
	IsDeleted  bool   `gorm:"column:is_deleted;not null;default:false"`
	StampColumns
}

func (noteV1) TableName() string { return "note" }

type permitV1 struct {
	PermitID           string     `gorm:"column:permit_id;primaryKey"`
	ActivityID         string     `gorm:"column:activity_id;not null"`
	PermitTypeID       int        `gorm:"column:permit_type_id;not null"`
	NeedsReview        bool       `gorm:"column:needs_review;not null;default:false"`
	TrackingID         *string    `gorm:"column:tracking_id"`
	AuthStatus         string     `gorm:"column:auth_status;not null;default:'None'"`
	Status             string     `gorm:"column:status;not null;default:'New'"`
	SubmittedDate      *time.Time `gorm:"column:submitted_date"`
	DecisionDate       *time.Time `gorm:"column:decision_date"`
	StatusLastVerified *time.Time `gorm:"column:status_last_verified"`
	StampColumns
}

func (permitV1) TableName() string { return "permit" }

type permitNoteV1 struct {
	PermitNoteID string `gorm:"column:permit_note_id;primaryKey"`
	PermitID     string `gorm:"column:permit_id;not null"`
	Note         string `gorm:"column:note;not null"`
	IsDeleted    bool   `gorm:"column:is_deleted;not null;default:false"`
	StampColumns
}

func (permitNoteV1) TableName() string { return "permit_note" }

type noteHistoryV2 struct {
	NoteHistoryID        string     `gorm:"column:note_history_id;primaryKey"`
	ActivityID           string     `gorm:"column:activity_id;not null"`
	Title                string     `gorm:"column:title;not null"`
	Type                 string     `gorm:"column:type;not null"`
	BringForwardDate     *time.Time `gorm:"column:bring_forward_date"`
	BringForwardState    *string    `gorm:"column:bring_forward_state"`
	EscalateToSupervisor bool       `gorm:"column:escalate_to_supervisor;not null;default:false"`
	EscalateToDirector   bool       `gorm:"column:escalate_to_director;not null;default:false"`
	EscalationType       *string    `gorm:"column:escalation_type"`
	ShownToProponent     bool       `gorm:"column:shown_to_proponent;not null;default:false"`
	IsDeleted            bool       `gorm:"column:is_deleted;not null;default:false"`
	StampColumns
}

func (noteHistoryV2) TableName() string { return "note_history" }

type noteV2 struct {
	NoteHistoryID *string `gorm:"column:note_history_id"`
}

type softDeleteV3 struct {
	DeletedAt *time.Time `gorm:"column:deleted_at"`
	IsDeleted bool       `gorm:"column:is_deleted;not null;default:false"`
}

type electrificationProjectV5 struct {
	ElectrificationProjectID string     `gorm:"column:electrification_project_id;primaryKey"`
	ActivityID               string     `gorm:"column:activity_id;not null"`
	AssignedUserID           *string    `gorm:"column:assigned_user_id"`
	ProjectName              string     `gorm:"column:project_name;not null"`
	ProjectDescription       *string    `gorm:"column:project_description"`
	CompanyNameRegistered    *string    `gorm:"column:company_name_registered"`
	ProjectType              *string    `gorm:"column:project_type"`
	BCHydroNumber            *string    `gorm:"column:bc_hydro_number"`
	Megawatts                *float64   `gorm:"column:megawatts"`
	Locality                 *string    `gorm:"column:locality"`
	Province                 *string    `gorm:"column:province"`
	Latitude                 *float64   `gorm:"column:latitude"`
	Longitude                *float64   `gorm:"column:longitude"`
	SubmittedAt              time.Time  `gorm:"column:submitted_at;not null"`
	SubmittedBy              string     `gorm:"column:submitted_by;not null"`
	SubmissionType           *string    `gorm:"column:submission_type"`
	IntakeStatus             *string    `gorm:"column:intake_status"`
	ApplicationStatus        string     `gorm:"column:application_status;not null;default:'New'"`
	DeletedAt                *time.Time `gorm:"column:deleted_at"`
	StampColumns
}

func (electrificationProjectV5) TableName() string { return "electrification_project" }

type atsV6 struct {
	AddedToATS   bool    `gorm:"column:added_to_ats;not null;default:false"`
	ATSClientID  *int    `gorm:"column:ats_client_id"`
	ATSEnquiryID *string `gorm:"column:ats_enquiry_id"`
}

type geoJSONV7 struct {
	GeoJSON datatypes.JSON `gorm:"column:geo_json"`
}

// tableRef addresses a table set through db.Table for renames.
type tableRef struct{}

var (
	softDeleteTablesV3 = []string{"activity", "enquiry", "submission", "note_history", "permit_note"}
	atsTablesV6        = []string{"enquiry", "housing_project", "electrification_project"}
	geoJSONTablesV7    = []string{"housing_project", "electrification_project"}
)

func addColumns(db *gorm.DB, tables []string, model any, fields ...string) error {
	for _, t := range tables {
		for _, f := range fields {
			if db.Table(t).Migrator().HasColumn(model, f) {
				continue
			}
			if err := db.Table(t).Migrator().AddColumn(model, f); err != nil {
				return fmt.Errorf("add %s.%s: %w", t, f, err)
			}
		}
	}
	return nil
}

func dropColumns(db *gorm.DB, tables []string, model any, fields ...string) error {
	for _, t := range tables {
		for _, f := range fields {
			if !db.Table(t).Migrator().HasColumn(model, f) {
				continue
			}
			if err := db.Table(t).Migrator().DropColumn(model, f); err != nil {
				return fmt.Errorf("drop %s.%s: %w", t, f, err)
			}
		}
	}
	return nil
}

func allMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Initial intake schema",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(
					&activityV1{},
					&enquiryV1{},
					&submissionV1{},
					&noteV1{},
					&permitV1{},
					&permitNoteV1{},
				)
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(
					&permitNoteV1{},
					&permitV1{},
					&noteV1{},
					&submissionV1{},
					&enquiryV1{},
					&activityV1{},
				)
			},
		},
		{
			Version:     2,
			Description: "Group notes under note history",
			Up: func(db *gorm.DB) error {
				if err := db.Migrator().CreateTable(&noteHistoryV2{}); err != nil {
					return err
				}
				if err := addColumns(db, []string{"note"}, &noteV2{}, "NoteHistoryID"); err != nil {
					return err
				}
				backfill := `INSERT INTO note_history (note_history_id, activity_id, title, type, is_deleted, created_by, created_at, updated_by, updated_at)
					SELECT note_id, activity_id, 'Note', note_type, is_deleted, created_by, created_at, updated_by, updated_at FROM note WHERE activity_id IS NOT NULL`
				if err := db.Exec(backfill).Error; err != nil {
					return err
				}
				if err := db.Exec("UPDATE note SET note_history_id = note_id WHERE activity_id IS NOT NULL").Error; err != nil {
					return err
				}
				return dropColumns(db, []string{"note"}, &noteV1{}, "activity_id", "note_type", "is_deleted")
			},
			Down: func(db *gorm.DB) error {
				if err := addColumns(db, []string{"note"}, &noteV1{}, "ActivityID", "NoteType", "IsDeleted"); err != nil {
					return err
				}
				restore := `UPDATE note SET
					activity_id = (SELECT h.activity_id FROM note_history h WHERE h.note_history_id = note.note_history_id),
					note_type = COALESCE((SELECT h.type FROM note_history h WHERE h.note_history_id = note.note_history_id), 'General')`
				if err := db.Exec(restore).Error; err != nil {
					return err
				}
				if err := dropColumns(db, []string{"note"}, &noteV2{}, "note_history_id"); err != nil {
					return err
				}
				return db.Migrator().DropTable(&noteHistoryV2{})
			},
		},
		{
			Version:     3,
			Description: "Replace is_deleted flags with deleted_at timestamps",
			Up: func(db *gorm.DB) error {
				if err := addColumns(db, softDeleteTablesV3, &softDeleteV3{}, "DeletedAt"); err != nil {
					return err
				}
				for _, t := range softDeleteTablesV3 {
					if err := db.Table(t).Where("is_deleted = ?", true).Update("deleted_at", db.NowFunc()).Error; err != nil {
						return fmt.Errorf("backfill %s.deleted_at: %w", t, err)
					}
				}
				if err := dropColumns(db, softDeleteTablesV3, &softDeleteV3{}, "is_deleted"); err != nil {
					return err
				}
				for _, t := range softDeleteTablesV3 {
					if err := db.Exec(fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_deleted_at ON %s (deleted_at)", t, t)).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Down: func(db *gorm.DB) error {
				if err := addColumns(db, softDeleteTablesV3, &softDeleteV3{}, "IsDeleted"); err != nil {
					return err
				}
				for _, t := range softDeleteTablesV3 {
					if err := db.Table(t).Where("deleted_at IS NOT NULL").Update("is_deleted", true).Error; err != nil {
						return fmt.Errorf("backfill %s.is_deleted: %w", t, err)
					}
					if err := db.Exec(fmt.Sprintf("DROP INDEX IF EXISTS idx_%s_deleted_at", t)).Error; err != nil {
						return err
					}
				}
				return dropColumns(db, softDeleteTablesV3, &softDeleteV3{}, "deleted_at")
			},
		},
		{
			Version:     4,
			Description: "Rename submission to housing_project",
			Up: func(db *gorm.DB) error {
				if err := db.Migrator().RenameTable("submission", "housing_project"); err != nil {
					return err
				}
				return db.Table("housing_project").Migrator().RenameColumn(&tableRef{}, "submission_id", "housing_project_id")
			},
			Down: func(db *gorm.DB) error {
				if err := db.Table("housing_project").Migrator().RenameColumn(&tableRef{}, "housing_project_id", "submission_id"); err != nil {
					return err
				}
				return db.Migrator().RenameTable("housing_project", "submission")
			},
		},
		{
			Version:     5,
			Description: "Add electrification projects",
			Up: func(db *gorm.DB) error {
				if err := db.Migrator().CreateTable(&electrificationProjectV5{}); err != nil {
					return err
				}
				return db.Exec("CREATE INDEX IF NOT EXISTS idx_electrification_project_deleted_at ON electrification_project (deleted_at)").Error
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&electrificationProjectV5{})
			},
		},
		{
			Version:     6,
			Description: "Track ATS client and enquiry references",
			Up: func(db *gorm.DB) error {
				return addColumns(db, atsTablesV6, &atsV6{}, "AddedToATS", "ATSClientID", "ATSEnquiryID")
			},
			Down: func(db *gorm.DB) error {
				return dropColumns(db, atsTablesV6, &atsV6{}, "added_to_ats", "ats_client_id", "ats_enquiry_id")
			},
		},
		{
			Version:     7,
			Description: "Store project boundaries as GeoJSON",
			Up: func(db *gorm.DB) error {
				return addColumns(db, geoJSONTablesV7, &geoJSONV7{}, "GeoJSON")
			},
			Down: func(db *gorm.DB) error {
				return dropColumns(db, geoJSONTablesV7, &geoJSONV7{}, "geo_json")
			},
		},
	}
}
