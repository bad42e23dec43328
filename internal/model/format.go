package model

import "fmt"

// FormatSize renders a byte count with a single-letter unit suffix,
// one decimal above KB.
func FormatSize(sizeBytes int64) string {
	switch {
	case sizeBytes < 1024:
		return fmt.Sprintf("%dB", sizeBytes)
	case sizeBytes < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(sizeBytes)/1024)
	case sizeBytes < 1024*1024*1024:
		return fmt.Sprintf("%.1fMB", float64(sizeBytes)/1024/1024)
	default:
		return fmt.Sprintf("%.1fGB", float64(sizeBytes)/1024/1024/1024)
	}
}

// FormatDuration renders a duration in seconds the way players label
// it: 45s, 3m 20s, 1h 12m.
func FormatDuration(seconds int) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	}
}
