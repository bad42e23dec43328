// Package quality maps user-facing quality selectors to concrete
// yt-dlp format specifications. Resolution is pure and total: an
// unrecognized selector degrades to the best policy instead of
// failing.
package quality

import "strings"

const (
	SelectorBest  = "best"
	Selector1080p = "1080p"
	Selector720p  = "720p"
	Selector480p  = "480p"
	SelectorAudio = "audio"
)

// FormatSpec is the engine-level instruction derived from a selector:
// stream selection plus container handling.
type FormatSpec struct {
	Selector string

	// Format is the yt-dlp -f expression. Empty for audio-only specs,
	// which use extraction instead of stream selection.
	Format string

	// MergeContainer is passed as --merge-output-format for video
	// specs.
	MergeContainer string

	AudioOnly    bool
	AudioFormat  string
	AudioQuality string
}

// Each video tier prefers a muxed mp4 stream under its resolution
// ceiling, then the best available under that ceiling, then the
// overall best.
var videoFormats = map[string]string{
	Selector1080p: "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[height<=1080]/best",
	Selector720p:  "bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/best[height<=720]/best",
	Selector480p:  "bestvideo[height<=480][ext=mp4]+bestaudio[ext=m4a]/best[height<=480]/best",
	SelectorBest:  "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best",
}

// Resolve maps a selector to its format specification. Unknown
// selectors resolve to the best policy.
func Resolve(rawSelector string) FormatSpec {
	selector := strings.ToLower(strings.TrimSpace(rawSelector))

	if selector == SelectorAudio {
		return FormatSpec{
			Selector:     SelectorAudio,
			Format:       "bestaudio/best",
			AudioOnly:    true,
			AudioFormat:  "mp3",
			AudioQuality: "192K",
		}
	}

	format, ok := videoFormats[selector]
	if !ok {
		selector = SelectorBest
		format = videoFormats[SelectorBest]
	}
	return FormatSpec{
		Selector:       selector,
		Format:         format,
		MergeContainer: "mp4",
	}
}

// Selectors lists the accepted selectors in the order adapters present
// them.
func Selectors() []string {
	return []string{SelectorBest, Selector1080p, Selector720p, Selector480p, SelectorAudio}
}

// IsKnown reports whether the selector is one of the accepted values.
func IsKnown(rawSelector string) bool {
	selector := strings.ToLower(strings.TrimSpace(rawSelector))
	if selector == SelectorAudio {
		return true
	}
	_, ok := videoFormats[selector]
	return ok
}
