package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func plantFakeBinaries(t *testing.T, names ...string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake PATH binaries use shell scripts")
	}
	dir := t.TempDir()
	for _, name := range names {
		script := "#!/bin/sh\nexit 0\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", dir)
}

func TestDoctorAllChecksPass(t *testing.T) {
	plantFakeBinaries(t, "yt-dlp", "ffmpeg")

	report := doctorReportFor(t.TempDir())
	if !report.OK {
		t.Fatalf("report not OK: %+v", report)
	}
	if len(report.Checks) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(report.Checks))
	}
	for _, c := range report.Checks {
		if !c.OK {
			t.Fatalf("check %s failed: %s", c.Name, c.Message)
		}
	}
}

func TestDoctorReportsMissingDependencies(t *testing.T) {
	plantFakeBinaries(t, "ffmpeg")

	report := doctorReportFor(t.TempDir())
	if report.OK {
		t.Fatal("report OK despite missing yt-dlp")
	}
	for _, c := range report.Checks {
		switch c.Name {
		case "yt-dlp":
			if c.OK {
				t.Fatal("yt-dlp check passed without the binary")
			}
		case "ffmpeg":
			if !c.OK {
				t.Fatalf("ffmpeg check failed: %s", c.Message)
			}
		}
	}
}

func TestDoctorRejectsUnusableDownloadsDir(t *testing.T) {
	plantFakeBinaries(t, "yt-dlp", "ffmpeg")

	blocker := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	report := doctorReportFor(filepath.Join(blocker, "downloads"))
	if report.OK {
		t.Fatal("report OK despite unusable downloads dir")
	}
}
