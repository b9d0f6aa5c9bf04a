package stageexec

import "strings"

// tailBuffer retains roughly the last limit bytes of output lines.
type tailBuffer struct {
	limit int
	lines []string
	size  int
}

func newTailBuffer(limit int) *tailBuffer {
	if limit <= 0 {
		limit = defaultTailBytes
	}
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) writeLine(line string) {
	if len(line) > t.limit {
		line = line[len(line)-t.limit:]
	}
	t.lines = append(t.lines, line)
	t.size += len(line) + 1
	for t.size > t.limit && len(t.lines) > 1 {
		t.size -= len(t.lines[0]) + 1
		t.lines = t.lines[1:]
	}
}

func (t *tailBuffer) String() string {
	return strings.Join(t.lines, "\n")
}
