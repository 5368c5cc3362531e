package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Probe runs a single ffprobe call against path and returns the parsed
// metadata. When ffprobe fails, whatever it printed is still parsed and
// returned together with the error, so the caller can warn and continue
// with defaults.
func Probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration:stream=width,height",
		"-of", "default=noprint_wrappers=1",
		path,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()

	md := FromFields(ParseKeyValue(out))
	md.Path = path
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return md, fmt.Errorf("ffprobe %q: %w: %s", path, err, msg)
		}
		return md, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return md, nil
}

// ParseKeyValue folds "key=value" lines into a map. Each line is split on
// its first '=', both sides are trimmed, and the last occurrence of a key
// wins. Lines without '=' are ignored.
// Exported for testing without a real ffprobe binary.
func ParseKeyValue(data []byte) map[string]string {
	fields := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return fields
}
