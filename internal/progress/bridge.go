// Package progress adapts the engine's synchronous progress callbacks
// into writes against a job's stored snapshot. The engine invokes the
// bridge from the worker goroutine performing the blocking download;
// observers read the snapshot through the registry from anywhere.
package progress

import (
	"yt-fetch-bot/internal/model"
	"yt-fetch-bot/internal/registry"
	"yt-fetch-bot/internal/ytdlp"
)

// Bridge funnels engine events for one job into the registry. Writes
// are fire-and-forget: a handle on a job that has already left the
// running state is a no-op.
type Bridge struct {
	reg   *registry.Registry
	jobID string
}

func NewBridge(reg *registry.Registry, jobID string) *Bridge {
	return &Bridge{reg: reg, jobID: jobID}
}

// Handle applies one engine event to the job's progress snapshot.
func (b *Bridge) Handle(ev ytdlp.Event) {
	_ = b.reg.Mutate(b.jobID, func(job *model.Job) {
		if job.Status != model.StatusRunning {
			return
		}
		switch ev.Kind {
		case ytdlp.EventFinished:
			// One segment finished; the job may still be merging or
			// extracting. Pin the percent, keep the other fields.
			job.Progress.Percent = "100%"
		case ytdlp.EventDownloading:
			job.Progress = model.Progress{
				Percent: orUnknown(ev.Percent, "0%"),
				Speed:   orUnknown(ev.Speed, model.Unknown),
				ETA:     orUnknown(ev.ETA, model.Unknown),
				Total:   orUnknown(ev.Total, model.Unknown),
			}
		}
	})
}

func orUnknown(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
