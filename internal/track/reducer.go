package track

import (
	"context"
	"fmt"

	"carvis-engine/internal/domain"
)

// DispatchResult is what a notification action resolves to: a message to
// show (comfort text, confirmation copy) and/or a job to route the UI to.
type DispatchResult struct {
	Title   string      `json:"title,omitempty"`
	Message string      `json:"message,omitempty"`
	Job     *domain.Job `json:"job,omitempty"`
}

// Dispatch is the single reducer for notification actions. Commands are
// plain data; all side effects happen here.
func (a *App) Dispatch(ctx context.Context, cmd domain.Command) (DispatchResult, error) {
	switch cmd.Type {
	case domain.CmdConfirmFollowUp:
		if cmd.JobID == "" {
			return DispatchResult{}, fmt.Errorf("confirm_followup: missing job id")
		}
		a.ConfirmFollowUp(ctx, cmd.JobID, cmd.NotificationID)
		return DispatchResult{
			Title:   "Tracker updated",
			Message: "Follow-up recorded. Keeping your tracker accurate is key to success!",
		}, nil

	case domain.CmdViewComfort:
		a.mu.Lock()
		res, ok := a.scanResults[cmd.NotificationID]
		a.mu.Unlock()
		if !ok {
			return DispatchResult{}, fmt.Errorf("view_comfort: unknown notification %q", cmd.NotificationID)
		}
		a.Dismiss(ctx, cmd.NotificationID)
		return DispatchResult{Title: "Keep your head up!", Message: res.Comfort}, nil

	case domain.CmdNextSteps:
		a.mu.Lock()
		res, ok := a.scanResults[cmd.NotificationID]
		a.mu.Unlock()
		if !ok {
			return DispatchResult{}, fmt.Errorf("next_steps: unknown notification %q", cmd.NotificationID)
		}
		// Guard against routing to a job that vanished since the scan.
		job, found := a.Job(res.JobID)
		a.Dismiss(ctx, cmd.NotificationID)
		out := DispatchResult{
			Title:   "Next stage",
			Message: "Congratulations! Based on the email, they would like to invite you to an interview.",
		}
		if found {
			out.Job = &job
			out.Title = fmt.Sprintf("Next Stage: %s", job.Company)
		}
		return out, nil

	default:
		return DispatchResult{}, fmt.Errorf("unknown command type %q", cmd.Type)
	}
}
