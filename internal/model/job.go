package model

import "time"

// Unknown is the sentinel rendered for progress fields the engine has
// not reported yet.
const Unknown = "—"

// Progress is the latest known download snapshot for a running job.
type Progress struct {
	Percent string `json:"percent"`
	Speed   string `json:"speed"`
	ETA     string `json:"eta"`
	Total   string `json:"total"`
}

// NewProgress returns the zero snapshot a job carries before any
// engine event arrives.
func NewProgress() Progress {
	return Progress{
		Percent: "0%",
		Speed:   Unknown,
		ETA:     Unknown,
		Total:   Unknown,
	}
}

// Job is one fetch-and-deliver operation tracked from creation to a
// terminal status. Instances are owned by the registry; callers work
// with copies.
type Job struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Quality  string   `json:"quality"`
	Status   string   `json:"status"`
	Progress Progress `json:"progress"`

	// Metadata, filled once the engine has resolved the URL and before
	// download bytes start flowing.
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Duration  int    `json:"duration"`
	Uploader  string `json:"uploader"`

	// Artifact, filled exactly once on the transition to done.
	File     string `json:"file,omitempty"`
	Filename string `json:"filename,omitempty"`
	Filesize int64  `json:"filesize,omitempty"`

	// Error text, filled exactly once on the transition to error.
	Error string `json:"error,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Chat correlation fields. Owned by the chat adapter, opaque to the
	// core; zero for jobs created over the REST API.
	UserID    int64 `json:"user_id,omitempty"`
	ChatID    int64 `json:"chat_id,omitempty"`
	MessageID int   `json:"message_id,omitempty"`
}

// Clone returns a deep copy safe to hand to readers while the original
// keeps being mutated under the registry lock.
func (j *Job) Clone() Job {
	c := *j
	if j.StartedAt != nil {
		t := *j.StartedAt
		c.StartedAt = &t
	}
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		c.FinishedAt = &t
	}
	return c
}

// StreamSnapshot is the partial view emitted on the push-stream
// endpoints while observers wait for a terminal status.
type StreamSnapshot struct {
	Status    string   `json:"status"`
	Progress  Progress `json:"progress"`
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail"`
	Filename  string   `json:"filename,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Snapshot projects the fields streamed to observers.
func (j *Job) Snapshot() StreamSnapshot {
	return StreamSnapshot{
		Status:    j.Status,
		Progress:  j.Progress,
		Title:     j.Title,
		Thumbnail: j.Thumbnail,
		Filename:  j.Filename,
		Error:     j.Error,
	}
}
