package ytdlp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yt-fetch-bot/internal/quality"
)

func TestBuildDownloadArgs_Video(t *testing.T) {
	spec := quality.Resolve("720p")
	args := BuildDownloadArgs("https://example.com/v", "/tmp/out", spec)

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"--newline",
		"--no-playlist",
		"-P /tmp/out",
		"-o " + OutputTemplate,
		"-f " + spec.Format,
		"--merge-output-format mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, args)
		}
	}
	if strings.Contains(joined, "--extract-audio") {
		t.Fatalf("video args request audio extraction: %v", args)
	}
	if args[len(args)-1] != "https://example.com/v" {
		t.Fatalf("url must be the final argument: %v", args)
	}
}

func TestBuildDownloadArgs_Audio(t *testing.T) {
	spec := quality.Resolve("audio")
	args := BuildDownloadArgs("https://example.com/v", "/tmp/out", spec)

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-f bestaudio/best",
		"--extract-audio",
		"--audio-format mp3",
		"--audio-quality 192K",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, args)
		}
	}
	if strings.Contains(joined, "--merge-output-format") {
		t.Fatalf("audio args request a merge container: %v", args)
	}
}

func plantFakeEngine(t *testing.T, script string) {
	t.Helper()
	fakeBin := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(fakeBin, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(fakeBin, "yt-dlp"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", fakeBin+":"+os.Getenv("PATH"))
}

func TestProbeParsesMetadata(t *testing.T) {
	plantFakeEngine(t, `#!/usr/bin/env bash
set -euo pipefail
echo '{"title":"Sample","thumbnail":"https://example.com/t.jpg","duration":120,"uploader":"chan"}'
`)

	meta, err := ExecClient{}.Probe(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "Sample" || meta.Duration != 120 || meta.Uploader != "chan" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestProbeSurfacesEngineFailure(t *testing.T) {
	plantFakeEngine(t, `#!/usr/bin/env bash
echo "ERROR: Unsupported URL" >&2
exit 1
`)

	_, err := ExecClient{}.Probe(context.Background(), "https://example.com/v")
	if err == nil {
		t.Fatal("expected probe error")
	}
	if !strings.Contains(err.Error(), "Unsupported URL") {
		t.Fatalf("engine stderr not surfaced: %v", err)
	}
}

func TestDownloadEmitsProgressEvents(t *testing.T) {
	plantFakeEngine(t, `#!/usr/bin/env bash
set -euo pipefail
echo '[download] Destination: video.mp4'
echo '[download]  42.0% of 10.00MiB at 1.20MiB/s ETA 00:05'
echo '[download] 100% of 10.00MiB in 00:00:08 at 1.25MiB/s'
`)

	var events []Event
	err := ExecClient{}.Download(context.Background(), DownloadOptions{
		URL:       "https://example.com/v",
		OutputDir: t.TempDir(),
		Spec:      quality.Resolve("best"),
		Progress:  func(ev Event) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	if events[0].Kind != EventDownloading || events[0].Percent != "42.0%" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Kind != EventFinished {
		t.Fatalf("unexpected final event: %+v", events[1])
	}
}

func TestDownloadSurfacesFailureOutput(t *testing.T) {
	plantFakeEngine(t, `#!/usr/bin/env bash
echo "ERROR: network unreachable" >&2
exit 1
`)

	err := ExecClient{}.Download(context.Background(), DownloadOptions{
		URL:       "https://example.com/v",
		OutputDir: t.TempDir(),
		Spec:      quality.Resolve("best"),
	})
	if err == nil {
		t.Fatal("expected download error")
	}
	if !strings.Contains(err.Error(), "network unreachable") {
		t.Fatalf("engine stderr not surfaced: %v", err)
	}
}
