package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yt-fetch-bot/internal/config"
	"yt-fetch-bot/internal/ytdlp"
)

type doctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type doctorReport struct {
	OK     bool          `json:"ok"`
	Checks []doctorCheck `json:"checks"`
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	downloadsDir := fs.String("downloads-dir", "", "downloads directory (overrides DOWNLOADS_DIR)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir := strings.TrimSpace(*downloadsDir)
	if dir == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dir = cfg.DownloadsDir
	}

	report := doctorReportFor(dir)
	if *jsonOut {
		return printJSON(report)
	}

	for _, c := range report.Checks {
		status := "ok"
		if !c.OK {
			status = "fail"
		}
		fmt.Printf("%s: %s (%s)\n", c.Name, status, c.Message)
	}
	if !report.OK {
		return errors.New("doctor checks failed")
	}
	return nil
}

func doctorReportFor(downloadsDir string) doctorReport {
	deps := ytdlp.DependencyStatus()

	checks := []doctorCheck{
		dependencyCheck("yt-dlp", deps.YTDLPFound, deps.YTDLPPath),
		dependencyCheck("ffmpeg", deps.FFmpegFound, deps.FFmpegPath),
		downloadsDirCheck(downloadsDir),
	}

	ok := true
	for _, c := range checks {
		if !c.OK {
			ok = false
		}
	}
	return doctorReport{OK: ok, Checks: checks}
}

func dependencyCheck(name string, found bool, path string) doctorCheck {
	if !found {
		return doctorCheck{Name: name, Message: "not found on PATH"}
	}
	return doctorCheck{Name: name, OK: true, Message: path}
}

func downloadsDirCheck(dir string) doctorCheck {
	check := doctorCheck{Name: "downloads-dir"}
	if strings.TrimSpace(dir) == "" {
		check.Message = "no downloads directory configured"
		return check
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		check.Message = err.Error()
		return check
	}

	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		check.Message = "not writable: " + err.Error()
		return check
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	check.OK = true
	check.Message = abs + " is writable"
	return check
}
