// Package notify derives time-sensitive reminder notifications from the
// tracking state. Evaluation is a pure function of a state snapshot and a
// clock, so recomputing on unchanged input always yields the same set.
package notify

import (
	"fmt"
	"math"
	"time"

	"carvis-engine/internal/domain"
)

// Snapshot is the read-only view of tracking state the engine evaluates.
type Snapshot struct {
	CuratedJobs  []domain.Job
	AllJobs      []domain.Job
	ExternalJobs []domain.Job

	AppliedJobIDs    map[string]bool
	ApplicationDates map[string]string // job id -> YYYY-MM-DD
	FollowUpLog      map[string]string // job id -> YYYY-MM-DD
	Dismissed        map[string]bool   // notification ids never re-emitted
}

// Evaluate computes deadline and follow-up notifications for the snapshot.
// Jobs with unparseable dates are skipped, never fatal.
func Evaluate(s Snapshot, now time.Time) []domain.Notification {
	today := midnight(now)

	var out []domain.Notification

	// Deadline nudging runs over the curated list only; the general feed
	// regenerates on every refresh and its deadlines are not commitments.
	for _, job := range s.CuratedJobs {
		if s.AppliedJobIDs[job.ID] {
			continue
		}
		deadline, ok := parseDate(job.Deadline)
		if !ok {
			continue
		}
		daysUntil := int(math.Ceil(midnight(deadline).Sub(today).Hours() / 24))

		m, ok := deadlineMilestone(daysUntil)
		if !ok {
			continue
		}

		id := fmt.Sprintf("deadline-%s-%d", job.ID, m)
		if s.Dismissed[id] {
			continue
		}
		out = append(out, domain.Notification{
			ID:       id,
			Severity: deadlineSeverity(m),
			Message:  deadlineMessage(m, job),
		})
	}

	// Follow-up reminders for every applied job without a logged follow-up.
	for _, job := range appliedJobs(s) {
		if s.FollowUpLog[job.ID] != "" {
			continue
		}

		dateStr := s.ApplicationDates[job.ID]
		if dateStr == "" {
			dateStr = job.DateApplied
		}
		applied, ok := parseDate(dateStr)
		if !ok {
			continue
		}
		daysAgo := int(math.Round(math.Abs(today.Sub(midnight(applied)).Hours()) / 24))

		m, ok := followUpMilestone(daysAgo)
		if !ok {
			continue
		}

		id := fmt.Sprintf("followup-%s-%d", job.ID, m)
		if s.Dismissed[id] {
			continue
		}
		out = append(out, domain.Notification{
			ID:       id,
			Severity: followUpSeverity(m),
			Message:  followUpMessage(m, job),
			Action: &domain.Action{
				Label:   "I've Followed Up",
				Command: domain.Command{Type: domain.CmdConfirmFollowUp, JobID: job.ID, NotificationID: id},
			},
		})
	}

	return out
}

// Merge appends computed notifications that are not already live, keeping
// existing entries untouched so an open action isn't disrupted.
func Merge(existing, computed []domain.Notification) []domain.Notification {
	seen := make(map[string]bool, len(existing))
	merged := make([]domain.Notification, len(existing))
	copy(merged, existing)
	for _, n := range existing {
		seen[n.ID] = true
	}
	for _, n := range computed {
		if !seen[n.ID] {
			merged = append(merged, n)
			seen[n.ID] = true
		}
	}
	return merged
}

// deadlineMilestone picks the tightest bracket for a days-remaining value:
// 28:(21,28], 21:(14,21], 14:(7,14], 7:(1,7], 1:(0,1]. Zero or negative
// days never fire.
func deadlineMilestone(daysUntil int) (int, bool) {
	switch {
	case daysUntil <= 0:
		return 0, false
	case daysUntil <= 1:
		return 1, true
	case daysUntil <= 7:
		return 7, true
	case daysUntil <= 14:
		return 14, true
	case daysUntil <= 21:
		return 21, true
	case daysUntil <= 28:
		return 28, true
	}
	return 0, false
}

// followUpMilestone is deliberately unbracketed: the highest satisfied
// threshold wins, unlike the deadline rule above. The asymmetry matches
// long-observed product behavior; don't unify without a product decision.
func followUpMilestone(daysAgo int) (int, bool) {
	for _, m := range []int{28, 21, 14, 7} {
		if daysAgo >= m {
			return m, true
		}
	}
	return 0, false
}

func deadlineSeverity(m int) domain.Severity {
	switch m {
	case 1:
		return domain.SeverityError
	case 7, 14:
		return domain.SeverityWarning
	default:
		return domain.SeverityInfo
	}
}

func followUpSeverity(m int) domain.Severity {
	switch m {
	case 28:
		return domain.SeverityError
	case 21:
		return domain.SeverityWarning
	default:
		return domain.SeverityInfo
	}
}

func deadlineMessage(m int, job domain.Job) string {
	switch m {
	case 28:
		return fmt.Sprintf("Heads up! Applications for %s close in about 4 weeks (%s).", job.Company, job.Deadline)
	case 21:
		return fmt.Sprintf("3 weeks left to apply for the %s role at %s.", job.Title, job.Company)
	case 14:
		return fmt.Sprintf("Only 2 weeks remaining for the %s application. Don't delay!", job.Company)
	case 7:
		return fmt.Sprintf("One week left! Finalize your application for %s soon.", job.Company)
	default:
		return fmt.Sprintf("URGENT: %s applications close tomorrow! Apply now or miss out.", job.Company)
	}
}

func followUpMessage(m int, job domain.Job) string {
	switch m {
	case 7:
		return fmt.Sprintf("It's been 1 week since you applied to %s. Consider sending a polite follow-up.", job.Company)
	case 14:
		return fmt.Sprintf("2 weeks have passed for your %s application. A follow-up now shows persistence.", job.Company)
	case 21:
		return fmt.Sprintf("3 weeks since applying to %s. Don't let your application go cold!", job.Company)
	default:
		return fmt.Sprintf("It's been 4 weeks. If you haven't heard from %s, it's time for a final check-in.", job.Company)
	}
}

func appliedJobs(s Snapshot) []domain.Job {
	var out []domain.Job
	for _, list := range [][]domain.Job{s.AllJobs, s.CuratedJobs, s.ExternalJobs} {
		for _, j := range list {
			if s.AppliedJobIDs[j.ID] {
				out = append(out, j)
			}
		}
	}
	return out
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

func parseDate(s string) (time.Time, bool) {
	if s == "" || s == domain.DeadlineVaries || s == domain.DeadlineUnknown {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
