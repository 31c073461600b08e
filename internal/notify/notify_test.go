package notify

import (
	"strings"
	"testing"
	"time"

	"carvis-engine/internal/domain"
)

var testNow = time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

func deadlineIn(days int) string {
	return testNow.AddDate(0, 0, days).Format("2006-01-02")
}

func appliedDaysAgo(days int) string {
	return testNow.AddDate(0, 0, -days).Format("2006-01-02")
}

func curatedSnapshot(jobs ...domain.Job) Snapshot {
	return Snapshot{
		CuratedJobs:      jobs,
		AppliedJobIDs:    map[string]bool{},
		ApplicationDates: map[string]string{},
		FollowUpLog:      map[string]string{},
		Dismissed:        map[string]bool{},
	}
}

func TestDeadlineMilestoneBrackets(t *testing.T) {
	cases := []struct {
		daysUntil int
		wantID    string
	}{
		{28, "deadline-j1-28"},
		{22, "deadline-j1-28"},
		{21, "deadline-j1-21"},
		{15, "deadline-j1-21"},
		{14, "deadline-j1-14"},
		{10, "deadline-j1-14"},
		{8, "deadline-j1-14"},
		{7, "deadline-j1-7"},
		{2, "deadline-j1-7"},
		{1, "deadline-j1-1"},
	}
	for _, tc := range cases {
		s := curatedSnapshot(domain.Job{ID: "j1", Company: "Acme", Title: "PM", Deadline: deadlineIn(tc.daysUntil)})
		got := Evaluate(s, testNow)
		if len(got) != 1 {
			t.Fatalf("daysUntil=%d: got %d notifications, want 1", tc.daysUntil, len(got))
		}
		if got[0].ID != tc.wantID {
			t.Errorf("daysUntil=%d: id = %s, want %s", tc.daysUntil, got[0].ID, tc.wantID)
		}
	}
}

func TestDeadlinePastOrTodayNeverFires(t *testing.T) {
	for _, days := range []int{0, -1, -10, 29, 60} {
		s := curatedSnapshot(domain.Job{ID: "j1", Company: "Acme", Deadline: deadlineIn(days)})
		if got := Evaluate(s, testNow); len(got) != 0 {
			t.Errorf("daysUntil=%d: got %d notifications, want 0", days, len(got))
		}
	}
}

func TestDeadlineSeverities(t *testing.T) {
	cases := []struct {
		daysUntil int
		want      domain.Severity
	}{
		{1, domain.SeverityError},
		{7, domain.SeverityWarning},
		{14, domain.SeverityWarning},
		{21, domain.SeverityInfo},
		{28, domain.SeverityInfo},
	}
	for _, tc := range cases {
		s := curatedSnapshot(domain.Job{ID: "j1", Company: "Acme", Deadline: deadlineIn(tc.daysUntil)})
		got := Evaluate(s, testNow)
		if len(got) != 1 || got[0].Severity != tc.want {
			t.Errorf("daysUntil=%d: severity = %v, want %v", tc.daysUntil, got[0].Severity, tc.want)
		}
	}
}

func TestDeadlineSkipsAppliedAndUnparseable(t *testing.T) {
	s := curatedSnapshot(
		domain.Job{ID: "applied", Company: "A", Deadline: deadlineIn(7)},
		domain.Job{ID: "varies", Company: "B", Deadline: domain.DeadlineVaries},
		domain.Job{ID: "unknown", Company: "C", Deadline: domain.DeadlineUnknown},
		domain.Job{ID: "garbage", Company: "D", Deadline: "sometime soon"},
		domain.Job{ID: "empty", Company: "E"},
	)
	s.AppliedJobIDs["applied"] = true

	if got := Evaluate(s, testNow); len(got) != 0 {
		t.Fatalf("got %d notifications, want 0: %+v", len(got), got)
	}
}

func TestDeadlineIgnoresGeneralFeed(t *testing.T) {
	s := curatedSnapshot()
	s.AllJobs = []domain.Job{{ID: "j1", Company: "Acme", Deadline: deadlineIn(7)}}

	if got := Evaluate(s, testNow); len(got) != 0 {
		t.Fatalf("general feed deadline fired: %+v", got)
	}
}

func TestFollowUpHighestThresholdWins(t *testing.T) {
	cases := []struct {
		daysAgo int
		wantID  string
	}{
		{7, "followup-j1-7"},
		{9, "followup-j1-7"},
		{13, "followup-j1-7"},
		{14, "followup-j1-14"},
		{15, "followup-j1-14"},
		{21, "followup-j1-21"},
		{27, "followup-j1-21"},
		{28, "followup-j1-28"},
		{30, "followup-j1-28"},
		{90, "followup-j1-28"},
	}
	for _, tc := range cases {
		s := curatedSnapshot(domain.Job{ID: "j1", Company: "Acme"})
		s.AppliedJobIDs["j1"] = true
		s.ApplicationDates["j1"] = appliedDaysAgo(tc.daysAgo)

		got := Evaluate(s, testNow)
		if len(got) != 1 {
			t.Fatalf("daysAgo=%d: got %d notifications, want 1", tc.daysAgo, len(got))
		}
		if got[0].ID != tc.wantID {
			t.Errorf("daysAgo=%d: id = %s, want %s", tc.daysAgo, got[0].ID, tc.wantID)
		}
		if got[0].Action == nil || got[0].Action.Command.Type != domain.CmdConfirmFollowUp {
			t.Errorf("daysAgo=%d: follow-up missing confirm action", tc.daysAgo)
		}
	}
}

func TestFollowUpUnderAWeekIsQuiet(t *testing.T) {
	for _, days := range []int{0, 1, 3, 6} {
		s := curatedSnapshot(domain.Job{ID: "j1", Company: "Acme"})
		s.AppliedJobIDs["j1"] = true
		s.ApplicationDates["j1"] = appliedDaysAgo(days)

		if got := Evaluate(s, testNow); len(got) != 0 {
			t.Errorf("daysAgo=%d: got %d notifications, want 0", days, len(got))
		}
	}
}

func TestFollowUpLoggedSuppresses(t *testing.T) {
	s := curatedSnapshot(domain.Job{ID: "j1", Company: "Acme"})
	s.AppliedJobIDs["j1"] = true
	s.ApplicationDates["j1"] = appliedDaysAgo(10)
	s.FollowUpLog["j1"] = appliedDaysAgo(1)

	if got := Evaluate(s, testNow); len(got) != 0 {
		t.Fatalf("logged follow-up still fired: %+v", got)
	}
}

func TestFollowUpFallsBackToJobDateApplied(t *testing.T) {
	s := curatedSnapshot()
	s.ExternalJobs = []domain.Job{{ID: "ext-1", Company: "Acme", DateApplied: appliedDaysAgo(15)}}
	s.AppliedJobIDs["ext-1"] = true

	got := Evaluate(s, testNow)
	if len(got) != 1 || got[0].ID != "followup-ext-1-14" {
		t.Fatalf("got %+v, want single followup-ext-1-14", got)
	}
}

func TestDismissedNeverReemitted(t *testing.T) {
	s := curatedSnapshot(domain.Job{ID: "j1", Company: "Acme", Deadline: deadlineIn(7)})
	s.Dismissed["deadline-j1-7"] = true

	if got := Evaluate(s, testNow); len(got) != 0 {
		t.Fatalf("dismissed notification re-emitted: %+v", got)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	s := curatedSnapshot(
		domain.Job{ID: "j1", Company: "Acme", Deadline: deadlineIn(7)},
		domain.Job{ID: "j2", Company: "Globex"},
	)
	s.AppliedJobIDs["j2"] = true
	s.ApplicationDates["j2"] = appliedDaysAgo(21)

	first := Evaluate(s, testNow)
	second := Evaluate(s, testNow)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("got %d then %d notifications, want 2 and 2", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("run mismatch at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestMergeKeepsExistingAndAppendsNew(t *testing.T) {
	existing := []domain.Notification{
		{ID: "scan-1", Message: "scan result"},
		{ID: "deadline-j1-7", Message: "old copy"},
	}
	computed := []domain.Notification{
		{ID: "deadline-j1-7", Message: "new copy"},
		{ID: "followup-j2-14", Message: "follow up"},
	}

	merged := Merge(existing, computed)
	if len(merged) != 3 {
		t.Fatalf("got %d merged, want 3", len(merged))
	}
	if merged[0].ID != "scan-1" || merged[1].ID != "deadline-j1-7" || merged[2].ID != "followup-j2-14" {
		t.Fatalf("unexpected order: %+v", merged)
	}
	if merged[1].Message != "old copy" {
		t.Errorf("existing entry was overwritten: %q", merged[1].Message)
	}
}

func TestMessagesNameTheCompany(t *testing.T) {
	s := curatedSnapshot(domain.Job{ID: "j1", Company: "Initech", Title: "Analyst", Deadline: deadlineIn(1)})
	got := Evaluate(s, testNow)
	if len(got) != 1 {
		t.Fatalf("got %d notifications, want 1", len(got))
	}
	if !strings.Contains(got[0].Message, "Initech") || !strings.Contains(got[0].Message, "tomorrow") {
		t.Errorf("unexpected urgent copy: %q", got[0].Message)
	}
}
