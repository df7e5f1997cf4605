// Package stacktrace condenses runtime stack dumps for log output.
package stacktrace

import "strings"

// InternalPaths extracts the file:line frames under internal/ from a raw
// runtime stack. The result is compact enough to log on panic recovery.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")

	paths := make([]string, 0, 8)
	for _, line := range lines {
		line = strings.TrimSpace(line)

		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}

		frame := line[idx+1:]
		if end := strings.IndexByte(frame, ' '); end != -1 {
			frame = frame[:end]
		}

		paths = append(paths, frame)
	}

	return paths
}
