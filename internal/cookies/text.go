package cookies

import (
	"strings"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// extractSnapshotJSON scans line-oriented text for an embedded JSON cookie
// array, such as a log line or an HTML page wrapping an export. It first
// tries each line from its opening bracket, then the slice between the
// outermost brackets of the whole content.
func extractSnapshotJSON(content string) (ckzlib.Snapshot, bool) {
	for _, line := range strings.Split(content, "\n") {
		start := strings.IndexByte(line, '[')
		if start < 0 {
			continue
		}
		end := strings.LastIndexByte(line, ']')
		if end <= start {
			continue
		}
		if snap, err := ckzlib.DeserializeSnapshot(line[start : end+1]); err == nil {
			return snap, true
		}
	}

	start := strings.IndexByte(content, '[')
	end := strings.LastIndexByte(content, ']')
	if start >= 0 && end > start {
		if snap, err := ckzlib.DeserializeSnapshot(content[start : end+1]); err == nil {
			return snap, true
		}
	}

	return nil, false
}

// ExtractSnapshot pulls an embedded JSON cookie array out of arbitrary text.
func ExtractSnapshot(content string) (ckzlib.Snapshot, bool) {
	return extractSnapshotJSON(content)
}
