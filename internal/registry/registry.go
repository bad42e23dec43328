// Package registry holds the shared in-memory mapping from job id to
// job state. It is the only structure mutated from more than one
// goroutine; every read and write goes through its lock so observers
// never see a half-written job.
package registry

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"yt-fetch-bot/internal/model"
)

var ErrNotFound = errors.New("job not found")

const idLength = 8

type Registry struct {
	mu       sync.RWMutex
	jobs     map[string]*model.Job
	userJobs map[int64][]string
}

func New() *Registry {
	return &Registry{
		jobs:     make(map[string]*model.Job),
		userJobs: make(map[int64][]string),
	}
}

// Create mints a job in the waiting state with a fresh identifier.
// Identifiers are unique for the process lifetime and never reused.
func (r *Registry) Create(url string) model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := newID()
	for _, taken := r.jobs[id]; taken; _, taken = r.jobs[id] {
		id = newID()
	}

	job := &model.Job{
		ID:        id,
		URL:       strings.TrimSpace(url),
		Status:    model.StatusWaiting,
		Progress:  model.NewProgress(),
		CreatedAt: time.Now().UTC(),
	}
	r.jobs[id] = job
	return job.Clone()
}

// Get returns a copy of the job or ErrNotFound.
func (r *Registry) Get(id string) (model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return model.Job{}, ErrNotFound
	}
	return job.Clone(), nil
}

// List returns copies of all jobs ordered by creation time, newest
// first.
func (r *Registry) List() []model.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]model.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job.Clone())
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID > jobs[j].ID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs
}

// Mutate applies fn to the stored job under the write lock. fn sees
// the live record; concurrent readers observe either the state before
// or after the call, never a partial write.
func (r *Registry) Mutate(id string, fn func(*model.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	fn(job)
	return nil
}

// AppendUserJob records a job under the creating chat user. The index
// is append-only and only consulted by the chat adapter.
func (r *Registry) AppendUserJob(userID int64, jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userJobs[userID] = append(r.userJobs[userID], jobID)
}

// UserJobs returns the ids of the jobs a user created, oldest first.
func (r *Registry) UserJobs(userID int64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.userJobs[userID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
}
