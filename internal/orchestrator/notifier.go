package orchestrator

import "yt-fetch-bot/internal/model"

// Notifier receives job lifecycle callbacks with a consistent copy of
// the job. The chat adapter uses it to keep its status message
// current; the REST adapter does not need one.
type Notifier interface {
	// Downloading fires once, after metadata resolution and before
	// download bytes start flowing.
	Downloading(job model.Job)

	// Done fires on the transition to done, with the artifact recorded.
	Done(job model.Job)

	// Failed fires on the transition to error, with the failure text
	// recorded.
	Failed(job model.Job)
}

type NopNotifier struct{}

func (NopNotifier) Downloading(model.Job) {}
func (NopNotifier) Done(model.Job)        {}
func (NopNotifier) Failed(model.Job)      {}
