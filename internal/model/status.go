package model

import "fmt"

const (
	StatusWaiting = "waiting"
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusError   = "error"
)

// allowedTransitions encodes the job lifecycle. Transitions only move
// forward along waiting -> queued -> running -> done|error; done and
// error are terminal.
var allowedTransitions = map[string]map[string]bool{
	"": {
		StatusWaiting: true,
		StatusQueued:  true,
	},
	StatusWaiting: {
		StatusQueued: true,
	},
	StatusQueued: {
		StatusRunning: true,
		StatusError:   true,
	},
	StatusRunning: {
		StatusDone:  true,
		StatusError: true,
	},
	StatusDone:  {},
	StatusError: {},
}

func IsKnownStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func IsTerminal(status string) bool {
	return status == StatusDone || status == StatusError
}

func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func TransitionStatus(job *Job, toStatus string) error {
	from := job.Status
	if !CanTransition(from, toStatus) {
		return fmt.Errorf("invalid job status transition: %q -> %q (job_id=%s)", from, toStatus, job.ID)
	}
	job.Status = toStatus
	return nil
}
