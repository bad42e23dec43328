// Package orchestrator drives jobs through their lifecycle: it binds
// quality selectors, schedules executions on a bounded worker pool,
// and applies the completion and failure policy at the job boundary.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"yt-fetch-bot/internal/model"
	"yt-fetch-bot/internal/progress"
	"yt-fetch-bot/internal/quality"
	"yt-fetch-bot/internal/registry"
	"yt-fetch-bot/internal/storage"
	"yt-fetch-bot/internal/ytdlp"
)

// Failure text recorded on a job is capped so a verbose engine error
// cannot grow registry memory without bound.
const maxErrorLength = 500

// manifestName is the job record written next to the artifact, so a
// downloads tree stays interpretable after the process exits.
const manifestName = "job.json"

const (
	defaultWorkers   = 4
	defaultQueueSize = 256
)

type Options struct {
	Registry *registry.Registry
	Engine   ytdlp.Client
	Notifier Notifier
	Logger   *slog.Logger

	// DownloadsDir is the root under which each job gets its own
	// directory named by the job id.
	DownloadsDir string

	// DeliveryLimit is the adapter transmission cap in bytes. It never
	// affects job status; adapters consult DeliveryTooLarge.
	DeliveryLimit int64

	Workers   int
	QueueSize int
}

type Orchestrator struct {
	reg           *registry.Registry
	engine        ytdlp.Client
	notifier      Notifier
	logger        *slog.Logger
	downloadsDir  string
	deliveryLimit int64
	workers       int

	queue chan string
	wg    sync.WaitGroup
}

func New(opts Options) *Orchestrator {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	queueSize := opts.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		reg:           opts.Registry,
		engine:        opts.Engine,
		notifier:      notifier,
		logger:        logger,
		downloadsDir:  opts.DownloadsDir,
		deliveryLimit: opts.DeliveryLimit,
		workers:       workers,
		queue:         make(chan string, queueSize),
	}
}

// SetNotifier replaces the lifecycle notifier. Adapters that need the
// orchestrator to construct their notifier call this before Start.
func (o *Orchestrator) SetNotifier(n Notifier) {
	if n == nil {
		n = NopNotifier{}
	}
	o.notifier = n
}

// Start launches the worker pool. Workers drain the queue until ctx is
// canceled; Wait blocks until they have exited.
func (o *Orchestrator) Start(ctx context.Context) {
	for i := 0; i < o.workers; i++ {
		o.wg.Add(1)
		go func(workerID int) {
			defer o.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case jobID := <-o.queue:
					o.execute(ctx, jobID)
				}
			}
		}(i + 1)
	}
}

func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Submit creates a job in the waiting state with no quality bound yet.
// Used by the chat adapter while the user picks a quality.
func (o *Orchestrator) Submit(url string) model.Job {
	return o.reg.Create(url)
}

// Enqueue binds a quality selector to a waiting job and schedules its
// execution.
func (o *Orchestrator) Enqueue(id, selector string) (model.Job, error) {
	var scheduled model.Job
	err := o.reg.Mutate(id, func(job *model.Job) {
		if err := model.TransitionStatus(job, model.StatusQueued); err != nil {
			scheduled = model.Job{}
			return
		}
		job.Quality = quality.Resolve(selector).Selector
		scheduled = job.Clone()
	})
	if err != nil {
		return model.Job{}, err
	}
	if scheduled.ID == "" {
		return model.Job{}, fmt.Errorf("job %s is not awaiting a quality selection", id)
	}

	o.queue <- id
	return scheduled, nil
}

// CreateAndEnqueue creates a job already bound to a selector and
// schedules it immediately. Used by the REST adapter, whose requests
// carry the selector up front; the job is never observable in the
// waiting state because its id is not returned until it is queued.
func (o *Orchestrator) CreateAndEnqueue(url, selector string) (model.Job, error) {
	job := o.reg.Create(url)
	return o.Enqueue(job.ID, selector)
}

// JobDir is the per-job artifact directory.
func (o *Orchestrator) JobDir(id string) string {
	return storage.JobDir(o.downloadsDir, id)
}

// DeliveryLimit returns the configured transmission cap in bytes.
func (o *Orchestrator) DeliveryLimit() int64 {
	return o.deliveryLimit
}

// DeliveryTooLarge reports whether a finished job's artifact exceeds
// the delivery limit. The job stays done either way; only the delivery
// step changes.
func (o *Orchestrator) DeliveryTooLarge(job model.Job) bool {
	return o.deliveryLimit > 0 && job.Filesize > o.deliveryLimit
}

// execute drives one job from running to a terminal status. Every
// failure is caught here and recorded on the job; nothing escapes to
// the process level.
func (o *Orchestrator) execute(ctx context.Context, jobID string) {
	var url, selector string
	err := o.reg.Mutate(jobID, func(job *model.Job) {
		if err := model.TransitionStatus(job, model.StatusRunning); err != nil {
			return
		}
		now := time.Now().UTC()
		job.StartedAt = &now
		url = job.URL
		selector = job.Quality
	})
	if err != nil || url == "" {
		o.logger.Warn("skipping unstartable job", "job", jobID, "err", err)
		return
	}

	o.logger.Info("job started", "job", jobID, "url", url, "quality", selector)

	meta, err := o.engine.Probe(ctx, url)
	if err != nil {
		o.fail(jobID, fmt.Errorf("resolving url: %w", err))
		return
	}
	if strings.TrimSpace(meta.Title) == "" {
		meta.Title = "Untitled"
	}
	_ = o.reg.Mutate(jobID, func(job *model.Job) {
		job.Title = meta.Title
		job.Thumbnail = meta.Thumbnail
		job.Duration = meta.Duration
		job.Uploader = meta.Uploader
	})
	o.notify(jobID, o.notifier.Downloading)

	jobDir := o.JobDir(jobID)
	if err := storage.Mkdir(jobDir); err != nil {
		o.fail(jobID, err)
		return
	}

	bridge := progress.NewBridge(o.reg, jobID)
	spec := quality.Resolve(selector)
	if err := o.engine.Download(ctx, ytdlp.DownloadOptions{
		URL:       url,
		OutputDir: jobDir,
		Spec:      spec,
		Progress:  bridge.Handle,
	}); err != nil {
		o.fail(jobID, err)
		return
	}

	path, size, err := ytdlp.LocateArtifact(jobDir)
	if err != nil {
		o.fail(jobID, err)
		return
	}

	_ = o.reg.Mutate(jobID, func(job *model.Job) {
		if err := model.TransitionStatus(job, model.StatusDone); err != nil {
			return
		}
		job.File = path
		job.Filename = filepath.Base(path)
		job.Filesize = size
		job.Progress.Percent = "100%"
		now := time.Now().UTC()
		job.FinishedAt = &now
	})
	o.logger.Info("job done", "job", jobID, "file", filepath.Base(path), "size", size)

	if job, err := o.reg.Get(jobID); err == nil {
		if err := storage.WriteJSON(filepath.Join(jobDir, manifestName), job); err != nil {
			o.logger.Warn("writing job manifest", "job", jobID, "err", err.Error())
		}
	}
	o.notify(jobID, o.notifier.Done)
}

// fail records the failure text and moves the job to its terminal
// error state. A failed job is never retried; the caller must create a
// new one.
func (o *Orchestrator) fail(jobID string, cause error) {
	o.logger.Error("job failed", "job", jobID, "err", cause)
	_ = o.reg.Mutate(jobID, func(job *model.Job) {
		if err := model.TransitionStatus(job, model.StatusError); err != nil {
			return
		}
		job.Error = truncateError(cause.Error())
		now := time.Now().UTC()
		job.FinishedAt = &now
	})
	o.notify(jobID, o.notifier.Failed)
}

func (o *Orchestrator) notify(jobID string, fn func(model.Job)) {
	job, err := o.reg.Get(jobID)
	if err != nil {
		return
	}
	fn(job)
}

func truncateError(text string) string {
	if len(text) <= maxErrorLength {
		return text
	}
	return text[:maxErrorLength]
}
