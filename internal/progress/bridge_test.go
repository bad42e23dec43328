package progress

import (
	"sync"
	"testing"

	"yt-fetch-bot/internal/model"
	"yt-fetch-bot/internal/registry"
	"yt-fetch-bot/internal/ytdlp"
)

func runningJob(t *testing.T, reg *registry.Registry) string {
	t.Helper()
	job := reg.Create("https://example.com/v")
	if err := reg.Mutate(job.ID, func(j *model.Job) {
		j.Status = model.StatusRunning
	}); err != nil {
		t.Fatal(err)
	}
	return job.ID
}

func TestHandleDownloadingUpdatesAllFields(t *testing.T) {
	reg := registry.New()
	id := runningJob(t, reg)
	b := NewBridge(reg, id)

	b.Handle(ytdlp.Event{
		Kind:    ytdlp.EventDownloading,
		Percent: "42.3%",
		Speed:   "2.51MiB/s",
		ETA:     "00:27",
		Total:   "115.12MiB",
	})

	job, err := reg.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	want := model.Progress{Percent: "42.3%", Speed: "2.51MiB/s", ETA: "00:27", Total: "115.12MiB"}
	if job.Progress != want {
		t.Fatalf("progress = %+v, want %+v", job.Progress, want)
	}
}

func TestHandleSubstitutesUnknownSentinel(t *testing.T) {
	reg := registry.New()
	id := runningJob(t, reg)
	b := NewBridge(reg, id)

	b.Handle(ytdlp.Event{Kind: ytdlp.EventDownloading, Percent: "1.0%"})

	job, _ := reg.Get(id)
	if job.Progress.Speed != model.Unknown || job.Progress.ETA != model.Unknown || job.Progress.Total != model.Unknown {
		t.Fatalf("missing fields not defaulted: %+v", job.Progress)
	}
}

func TestHandleFinishedPinsPercentOnly(t *testing.T) {
	reg := registry.New()
	id := runningJob(t, reg)
	b := NewBridge(reg, id)

	b.Handle(ytdlp.Event{Kind: ytdlp.EventDownloading, Percent: "97.2%", Speed: "2.51MiB/s", ETA: "00:01", Total: "115.12MiB"})
	b.Handle(ytdlp.Event{Kind: ytdlp.EventFinished})

	job, _ := reg.Get(id)
	if job.Progress.Percent != "100%" {
		t.Fatalf("percent = %q, want 100%%", job.Progress.Percent)
	}
	if job.Progress.Speed != "2.51MiB/s" || job.Progress.Total != "115.12MiB" {
		t.Fatalf("finished event clobbered other fields: %+v", job.Progress)
	}
}

func TestHandleIgnoresEventsAfterTerminal(t *testing.T) {
	reg := registry.New()
	id := runningJob(t, reg)
	b := NewBridge(reg, id)

	if err := reg.Mutate(id, func(j *model.Job) {
		j.Status = model.StatusDone
		j.Progress.Percent = "100%"
	}); err != nil {
		t.Fatal(err)
	}

	b.Handle(ytdlp.Event{Kind: ytdlp.EventDownloading, Percent: "12.0%"})

	job, _ := reg.Get(id)
	if job.Progress.Percent != "100%" {
		t.Fatalf("late event mutated a terminal job: %+v", job.Progress)
	}
}

func TestHandleConcurrentWithReaders(t *testing.T) {
	reg := registry.New()
	id := runningJob(t, reg)
	b := NewBridge(reg, id)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			b.Handle(ytdlp.Event{Kind: ytdlp.EventDownloading, Percent: "50.0%", Speed: "1MiB/s", ETA: "00:10", Total: "10MiB"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			job, err := reg.Get(id)
			if err != nil {
				t.Error(err)
				return
			}
			// A snapshot is written atomically: either the zero value
			// or a fully populated report.
			if job.Progress.Percent == "50.0%" && job.Progress.Total != "10MiB" {
				t.Errorf("torn progress read: %+v", job.Progress)
				return
			}
		}
	}()
	wg.Wait()
}
