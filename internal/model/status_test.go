package model

import "testing"

func TestCanTransition_AllowsExpectedPaths(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{"", StatusWaiting},
		{"", StatusQueued},
		{StatusWaiting, StatusQueued},
		{StatusQueued, StatusRunning},
		{StatusRunning, StatusDone},
		{StatusRunning, StatusError},
		{StatusQueued, StatusError},
	}

	for _, tc := range cases {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransition_RejectsBackwardPaths(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{StatusDone, StatusRunning},
		{StatusDone, StatusQueued},
		{StatusError, StatusRunning},
		{StatusError, StatusWaiting},
		{StatusRunning, StatusQueued},
		{StatusQueued, StatusWaiting},
		{StatusWaiting, StatusRunning},
		{StatusWaiting, StatusDone},
		{"not_a_state", StatusQueued},
	}

	for _, tc := range cases {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be rejected", tc.from, tc.to)
		}
	}
}

func TestTransitionStatus_BlocksIllegalTransition(t *testing.T) {
	job := Job{
		ID:     "ab12cd34",
		Status: StatusWaiting,
	}

	if err := TransitionStatus(&job, StatusDone); err == nil {
		t.Fatalf("expected illegal transition error")
	}
	if job.Status != StatusWaiting {
		t.Fatalf("status mutated on rejected transition: %q", job.Status)
	}

	if err := TransitionStatus(&job, StatusQueued); err != nil {
		t.Fatalf("legal transition rejected: %v", err)
	}
	if job.Status != StatusQueued {
		t.Fatalf("status not updated: %q", job.Status)
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []string{StatusWaiting, StatusQueued, StatusRunning} {
		if IsTerminal(status) {
			t.Fatalf("%q reported terminal", status)
		}
	}
	for _, status := range []string{StatusDone, StatusError} {
		if !IsTerminal(status) {
			t.Fatalf("%q not reported terminal", status)
		}
	}
}
