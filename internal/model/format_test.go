package model

import "testing"

func TestFormatSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512B"},
		{2048, "2.0KB"},
		{5 * 1024 * 1024, "5.0MB"},
		{3_000_000_000, "2.8GB"},
	}
	for _, tc := range cases {
		if got := FormatSize(tc.in); got != tc.want {
			t.Fatalf("FormatSize(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{45, "45s"},
		{120, "2m 0s"},
		{3725, "1h 2m"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSnapshotProjectsStreamFields(t *testing.T) {
	job := Job{
		ID:       "ab12cd34",
		Status:   StatusRunning,
		Progress: Progress{Percent: "42.0%", Speed: "1.2MiB/s", ETA: "00:30", Total: "100MiB"},
		Title:    "Sample",
		Filename: "video.mp4",
	}

	snap := job.Snapshot()
	if snap.Status != StatusRunning || snap.Title != "Sample" || snap.Filename != "video.mp4" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Progress.Percent != "42.0%" {
		t.Fatalf("progress not carried: %+v", snap.Progress)
	}
}
