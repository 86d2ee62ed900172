package domain

import "time"

// NoteHistory is a titled thread of notes on an activity, with bring-forward and escalation state.
type NoteHistory struct {
	NoteHistoryID        string     `gorm:"column:note_history_id;primaryKey" json:"noteHistoryId"`
	ActivityID           string     `gorm:"column:activity_id;not null;index" json:"activityId"`
	Title                string     `gorm:"column:title;not null" json:"title"`
	Type                 string     `gorm:"column:type;not null" json:"type"`
	BringForwardDate     *time.Time `gorm:"column:bring_forward_date" json:"bringForwardDate"`
	BringForwardState    *string    `gorm:"column:bring_forward_state" json:"bringForwardState"`
	EscalateToSupervisor bool       `gorm:"column:escalate_to_supervisor;not null;default:false" json:"escalateToSupervisor"`
	EscalateToDirector   bool       `gorm:"column:escalate_to_director;not null;default:false" json:"escalateToDirector"`
	EscalationType       *string    `gorm:"column:escalation_type" json:"escalationType"`
	ShownToProponent     bool       `gorm:"column:shown_to_proponent;not null;default:false" json:"shownToProponent"`
	DeletedAt            *time.Time `gorm:"column:deleted_at;index" json:"deletedAt"`
	Stamps
}

func (NoteHistory) TableName() string {
	return "note_history"
}

// Note is one entry in a NoteHistory. Notes are immutable and follow their history's lifecycle.
type Note struct {
	NoteID        string `gorm:"column:note_id;primaryKey" json:"noteId"`
	NoteHistoryID string `gorm:"column:note_history_id;not null;index" json:"noteHistoryId"`
	Note          string `gorm:"column:note;not null" json:"note"`
	Stamps
}

func (Note) TableName() string {
	return "note"
}
