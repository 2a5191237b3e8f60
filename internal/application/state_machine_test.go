package application

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusInProgress, false},
		{StatusApproved, StatusInProgress, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusRejected, StatusApproved, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCancelled, StatusCancelled, false}, // 重复取消
		{StatusApproved, StatusApproved, false},   // 重复审批
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestApplyTransitionTimestamps(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	app := &Application{Status: StatusPending}
	if err := ApplyTransition(app, StatusApproved, now); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if app.DecidedAt == nil || !app.DecidedAt.Equal(now) {
		t.Fatalf("DecidedAt = %v, want %v", app.DecidedAt, now)
	}

	if err := ApplyTransition(app, StatusInProgress, now); err != nil {
		t.Fatalf("start: %v", err)
	}
	if app.StartedAt == nil {
		t.Fatal("StartedAt not set")
	}

	if err := ApplyTransition(app, StatusCompleted, now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if app.CompletedAt == nil {
		t.Fatal("CompletedAt not set")
	}

	if err := ApplyTransition(app, StatusCancelled, now); err == nil {
		t.Fatal("cancel after completed must fail")
	}
}

func TestApplyTransitionRejectsIllegal(t *testing.T) {
	app := &Application{Status: StatusRejected}
	if err := ApplyTransition(app, StatusApproved, time.Now()); err == nil {
		t.Fatal("rejected -> approved must fail")
	}
	if app.Status != StatusRejected {
		t.Fatalf("status mutated on failed transition: %s", app.Status)
	}
}
