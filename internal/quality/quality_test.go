package quality

import (
	"strings"
	"testing"
)

func TestResolveVideoTiers(t *testing.T) {
	cases := []struct {
		selector string
		ceiling  string
	}{
		{"1080p", "height<=1080"},
		{"720p", "height<=720"},
		{"480p", "height<=480"},
	}

	for _, tc := range cases {
		spec := Resolve(tc.selector)
		if spec.AudioOnly {
			t.Fatalf("%s: unexpected audio-only spec", tc.selector)
		}
		if spec.MergeContainer != "mp4" {
			t.Fatalf("%s: merge container %q, want mp4", tc.selector, spec.MergeContainer)
		}
		if !strings.Contains(spec.Format, tc.ceiling) {
			t.Fatalf("%s: format %q missing ceiling %q", tc.selector, spec.Format, tc.ceiling)
		}
		// Ordered fallback: the final tier must be unconstrained best.
		if !strings.HasSuffix(spec.Format, "/best") {
			t.Fatalf("%s: format %q does not fall back to best", tc.selector, spec.Format)
		}
	}
}

func TestResolveBestHasNoCeiling(t *testing.T) {
	spec := Resolve("best")
	if strings.Contains(spec.Format, "height<=") {
		t.Fatalf("best format carries a resolution ceiling: %q", spec.Format)
	}
	if spec.AudioOnly || spec.MergeContainer != "mp4" {
		t.Fatalf("unexpected best spec: %+v", spec)
	}
}

func TestResolveAudio(t *testing.T) {
	spec := Resolve("audio")
	if !spec.AudioOnly {
		t.Fatalf("audio selector did not produce audio-only spec: %+v", spec)
	}
	if spec.Format != "bestaudio/best" {
		t.Fatalf("audio format %q", spec.Format)
	}
	if spec.AudioFormat != "mp3" || spec.AudioQuality != "192K" {
		t.Fatalf("audio extraction settings: %+v", spec)
	}
	if spec.MergeContainer != "" {
		t.Fatalf("audio spec carries merge container %q", spec.MergeContainer)
	}
}

func TestResolveUnknownFallsBackToBest(t *testing.T) {
	best := Resolve("best")
	for _, selector := range []string{"quality-9000", "", "  ", "4k"} {
		got := Resolve(selector)
		if got.Format != best.Format || got.Selector != SelectorBest {
			t.Fatalf("selector %q resolved to %+v, want best policy", selector, got)
		}
	}
}

func TestResolveIsCaseAndSpaceInsensitive(t *testing.T) {
	if Resolve(" 720P ").Format != Resolve("720p").Format {
		t.Fatalf("selector normalization broken")
	}
	if Resolve("AUDIO").AudioOnly != true {
		t.Fatalf("selector normalization broken for audio")
	}
}

func TestIsKnown(t *testing.T) {
	for _, selector := range Selectors() {
		if !IsKnown(selector) {
			t.Fatalf("selector %q not known", selector)
		}
	}
	if IsKnown("quality-9000") {
		t.Fatalf("bogus selector reported known")
	}
}
