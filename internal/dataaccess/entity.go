package dataaccess

// Entity identifies a table-backed entity by its table name.
type Entity string

const (
	Activity               Entity = "activity"
	Enquiry                Entity = "enquiry"
	ElectrificationProject Entity = "electrification_project"
	HousingProject         Entity = "housing_project"
	NoteHistory            Entity = "note_history"
	PermitNote             Entity = "permit_note"

	Note   Entity = "note"
	Permit Entity = "permit"
)

// Entities returns every entity the data-access layer knows about.
func Entities() []Entity {
	return []Entity{
		Activity,
		Enquiry,
		ElectrificationProject,
		HousingProject,
		NoteHistory,
		Note,
		Permit,
		PermitNote,
	}
}

// SoftDeletableEntities is the registration table for the soft-delete filter.
// Adding a table with a deleted_at column without listing it here leaks deleted rows.
func SoftDeletableEntities() []Entity {
	return []Entity{
		Activity,
		Enquiry,
		ElectrificationProject,
		HousingProject,
		NoteHistory,
		PermitNote,
	}
}

// ProjectVariants maps each project variant to its physical identifier field.
func ProjectVariants() map[Entity]string {
	return map[Entity]string{
		ElectrificationProject: "electrificationProjectId",
		HousingProject:         "housingProjectId",
	}
}
