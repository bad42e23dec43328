// Package ytdlp wraps the yt-dlp binary as the fetch engine: resolving
// a URL to metadata, running the blocking download, and surfacing
// progress lines as normalized events.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"yt-fetch-bot/internal/quality"
)

type OutputStream string

const (
	StreamStdout OutputStream = "stdout"
	StreamStderr OutputStream = "stderr"
)

// OutputTemplate is the fixed per-job output name; the engine fills in
// the extension it actually produced.
const OutputTemplate = "video.%(ext)s"

// Metadata is what the engine resolves from a URL before any bytes
// are downloaded.
type Metadata struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Duration  int    `json:"duration"`
	Uploader  string `json:"uploader"`
}

type DownloadOptions struct {
	URL       string
	OutputDir string
	Spec      quality.FormatSpec

	// Progress receives one event per parsed engine line. Invoked from
	// the goroutines draining the child's pipes.
	Progress func(Event)

	// LogWriter, when set, receives every raw engine line.
	LogWriter io.Writer
}

// Client is the engine contract the orchestrator depends on. The exec
// implementation shells out to yt-dlp; tests substitute fakes.
type Client interface {
	Probe(ctx context.Context, url string) (Metadata, error)
	Download(ctx context.Context, opts DownloadOptions) error
}

// ExecClient runs the yt-dlp binary found on PATH.
type ExecClient struct{}

var _ Client = ExecClient{}

type DependencyReport struct {
	YTDLPFound  bool   `json:"yt_dlp_found"`
	YTDLPPath   string `json:"yt_dlp_path,omitempty"`
	FFmpegFound bool   `json:"ffmpeg_found"`
	FFmpegPath  string `json:"ffmpeg_path,omitempty"`
}

func DependencyStatus() DependencyReport {
	report := DependencyReport{}
	if path, err := exec.LookPath("yt-dlp"); err == nil {
		report.YTDLPFound = true
		report.YTDLPPath = path
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		report.FFmpegFound = true
		report.FFmpegPath = path
	}
	return report
}

func CheckDependencies() error {
	report := DependencyStatus()
	if !report.YTDLPFound {
		return fmt.Errorf("missing dependency: yt-dlp is not installed or not on PATH")
	}
	if !report.FFmpegFound {
		return fmt.Errorf("missing dependency: ffmpeg is required for merging and audio extraction and was not found on PATH")
	}
	return nil
}

// Probe resolves the URL to media metadata without downloading bytes.
func (ExecClient) Probe(ctx context.Context, url string) (Metadata, error) {
	if strings.TrimSpace(url) == "" {
		return Metadata{}, fmt.Errorf("url is required")
	}

	args := []string{"-J", "--no-playlist", "--skip-download", url}
	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Metadata{}, fmt.Errorf("yt-dlp probe failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return Metadata{}, fmt.Errorf("yt-dlp probe returned empty output")
	}

	var meta Metadata
	if err := json.Unmarshal(stdout.Bytes(), &meta); err != nil {
		return Metadata{}, fmt.Errorf("parse yt-dlp metadata: %w", err)
	}
	return meta, nil
}

// Download runs the blocking fetch+transcode for one job. The produced
// file lands in opts.OutputDir under the fixed output template.
func (ExecClient) Download(ctx context.Context, opts DownloadOptions) error {
	if strings.TrimSpace(opts.URL) == "" {
		return fmt.Errorf("url is required")
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return fmt.Errorf("output directory is required")
	}

	args := BuildDownloadArgs(opts.URL, opts.OutputDir, opts.Spec)
	return runCommand(ctx, args, opts)
}

// BuildDownloadArgs assembles the yt-dlp invocation for a format
// specification.
func BuildDownloadArgs(url, outputDir string, spec quality.FormatSpec) []string {
	args := []string{
		"--newline",
		"--no-playlist",
		"--no-warnings",
		"-P", outputDir,
		"-o", OutputTemplate,
		"-f", spec.Format,
	}
	if spec.AudioOnly {
		args = append(args,
			"--extract-audio",
			"--audio-format", spec.AudioFormat,
			"--audio-quality", spec.AudioQuality,
		)
	} else if spec.MergeContainer != "" {
		args = append(args, "--merge-output-format", spec.MergeContainer)
	}
	return append(args, url)
}

func runCommand(ctx context.Context, args []string, opts DownloadOptions) error {
	cmd := exec.CommandContext(ctx, "yt-dlp", args...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("setup stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("setup stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start yt-dlp: %w", err)
	}

	var outBuf strings.Builder
	var errBuf strings.Builder
	var mu sync.Mutex
	var wg sync.WaitGroup

	read := func(stream OutputStream, r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)
		scanner.Split(splitByNewlineOrCR)
		for scanner.Scan() {
			line := scanner.Text()
			mu.Lock()
			appendLimited(&outBuf, &errBuf, stream, line)
			if opts.LogWriter != nil {
				_, _ = io.WriteString(opts.LogWriter, line+"\n")
			}
			mu.Unlock()

			if opts.Progress != nil {
				if ev, ok := ParseProgressLine(stream, line); ok {
					opts.Progress(ev)
				}
			}
		}
	}

	wg.Add(2)
	go read(StreamStdout, stdoutPipe)
	go read(StreamStderr, stderrPipe)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		mu.Lock()
		defer mu.Unlock()
		return fmt.Errorf("yt-dlp failed: %w\n%s\n%s", err, strings.TrimSpace(errBuf.String()), strings.TrimSpace(outBuf.String()))
	}
	return nil
}

func splitByNewlineOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' || data[i] == '\r' {
			if i == 0 {
				return 1, nil, nil
			}
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func appendLimited(outBuf, errBuf *strings.Builder, stream OutputStream, line string) {
	const maxKeep = 8192
	b := outBuf
	if stream == StreamStderr {
		b = errBuf
	}
	if b.Len() >= maxKeep {
		return
	}
	toWrite := line + "\n"
	remain := maxKeep - b.Len()
	if len(toWrite) > remain {
		toWrite = toWrite[:remain]
	}
	b.WriteString(toWrite)
}
