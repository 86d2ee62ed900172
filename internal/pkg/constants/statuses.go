package constants

// Intake statuses track where a submission is in the intake workflow.
const (
	IntakeDraft     = "Draft"
	IntakeSubmitted = "Submitted"
	IntakeAssigned  = "Assigned"
	IntakeCompleted = "Completed"
)

// Application statuses apply to enquiries and projects once submitted.
const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusDelayed    = "Delayed"
	StatusCompleted  = "Completed"
)

// Note history types.
const (
	NoteGeneral      = "General"
	NoteBringForward = "Bring forward"
	NoteEscalation   = "Escalation"
)

// Permit authorization statuses.
const (
	AuthNone      = "None"
	AuthInReview  = "In Review"
	AuthPending   = "Pending"
	AuthIssued    = "Issued"
	AuthDenied    = "Denied"
	AuthCancelled = "Cancelled"
	AuthWithdrawn = "Withdrawn"
	AuthAbandoned = "Abandoned"
)

const SubmittedMethodPCNS = "PCNS"

var (
	IntakeStatuses      = []string{IntakeDraft, IntakeSubmitted, IntakeAssigned, IntakeCompleted}
	ApplicationStatuses = []string{StatusNew, StatusInProgress, StatusDelayed, StatusCompleted}
	NoteTypes           = []string{NoteGeneral, NoteBringForward, NoteEscalation}
	AuthStatuses        = []string{AuthNone, AuthInReview, AuthPending, AuthIssued, AuthDenied, AuthCancelled, AuthWithdrawn, AuthAbandoned}
)

func IsValidIntakeStatus(s string) bool      { return contains(IntakeStatuses, s) }
func IsValidApplicationStatus(s string) bool { return contains(ApplicationStatuses, s) }
func IsValidNoteType(s string) bool          { return contains(NoteTypes, s) }
func IsValidAuthStatus(s string) bool        { return contains(AuthStatuses, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
