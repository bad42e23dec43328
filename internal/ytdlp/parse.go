package ytdlp

import (
	"regexp"
	"strings"
)

// EventKind distinguishes in-flight progress from the completion of a
// download segment. A finished segment does not mean the whole job is
// done; merging or extraction may still follow.
type EventKind int

const (
	EventDownloading EventKind = iota
	EventFinished
)

// Event is one normalized progress report parsed from an engine line.
// Fields the line did not carry are left empty; consumers substitute
// their own unknown sentinel.
type Event struct {
	Kind    EventKind
	Percent string
	Speed   string
	ETA     string
	Total   string
}

var (
	rePct   = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?%)`)
	reSpeed = regexp.MustCompile(`\bat\s+([^\s]+)`) // yt-dlp [download] ... at X
	reETA   = regexp.MustCompile(`\bETA\s+([0-9:]+)`)
	reOf    = regexp.MustCompile(`\bof\s+~?\s*([^\s]+)`)
	// Completion summary: [download] 100% of 10.00MiB in 00:00:05 ...
	reDone = regexp.MustCompile(`\b100(?:\.0+)?%\s+of\b.*\bin\b`)
)

// ParseProgressLine turns one engine output line into an event. Only
// [download] progress lines and post-processing markers produce
// events; everything else is reported as no event.
func ParseProgressLine(stream OutputStream, line string) (Event, bool) {
	l := strings.TrimSpace(line)
	if l == "" {
		return Event{}, false
	}

	// ffmpeg merge / audio extraction markers arrive after the last
	// segment; treat them as segment completion so the percent pins at
	// 100 while post-processing runs.
	if strings.HasPrefix(l, "[Merger]") || strings.HasPrefix(l, "[ExtractAudio]") {
		return Event{Kind: EventFinished}, true
	}

	if !strings.HasPrefix(l, "[download]") {
		return Event{}, false
	}
	if strings.Contains(l, "has already been downloaded") || reDone.MatchString(l) {
		return Event{Kind: EventFinished}, true
	}
	if strings.Contains(l, "Destination:") {
		return Event{}, false
	}

	ev := Event{Kind: EventDownloading}
	matched := false
	if m := rePct.FindStringSubmatch(l); len(m) > 1 {
		ev.Percent = m[1]
		matched = true
	}
	if m := reSpeed.FindStringSubmatch(l); len(m) > 1 {
		ev.Speed = m[1]
		matched = true
	}
	if m := reETA.FindStringSubmatch(l); len(m) > 1 {
		ev.ETA = m[1]
		matched = true
	}
	if m := reOf.FindStringSubmatch(l); len(m) > 1 {
		ev.Total = m[1]
		matched = true
	}
	if !matched {
		return Event{}, false
	}
	return ev, true
}
