package ytdlp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocateArtifact finds the output file a completed download produced
// in dir. The engine writes exactly one media file per job under the
// fixed template; when intermediate streams survive (separate video
// and audio before a failed merge cleanup) the largest file is the
// merged result. No file at all is a fatal condition for the job.
func LocateArtifact(dir string) (path string, size int64, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", 0, fmt.Errorf("read output directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "video.") || strings.HasSuffix(name, ".part") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", 0, fmt.Errorf("stat %s: %w", name, err)
		}
		if info.Size() > size {
			path = filepath.Join(dir, name)
			size = info.Size()
		}
	}

	if path == "" {
		return "", 0, fmt.Errorf("no output file produced in %s", dir)
	}
	return path, size, nil
}
