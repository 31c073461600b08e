package domain

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// CommandType tags the side effect a notification action requests. Actions
// are plain data dispatched through the tracker's reducer, not callbacks.
type CommandType string

const (
	CmdConfirmFollowUp CommandType = "confirm_followup"
	CmdViewComfort     CommandType = "view_comfort"
	CmdNextSteps       CommandType = "next_steps"
)

type Command struct {
	Type           CommandType `json:"type"`
	JobID          string      `json:"jobId,omitempty"`
	NotificationID string      `json:"notificationId,omitempty"`
}

type Action struct {
	Label   string  `json:"label"`
	Command Command `json:"command"`
}

// Notification is ephemeral: it lives in memory, is regenerated on each
// evaluation pass, and is suppressed once its ID lands in the dismissed set.
type Notification struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Action   *Action  `json:"action,omitempty"`
}
