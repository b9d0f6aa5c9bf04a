package ffmpeg

import (
	"strconv"
	"strings"
)

// ParseProgressTime extracts the processed media position in seconds from a
// single output line. It understands -progress keys (out_time, out_time_us,
// out_time_ms) and the classic status line containing "time=HH:MM:SS.xx".
func ParseProgressTime(line string) (float64, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, false
	}
	if key, value, ok := strings.Cut(line, "="); ok && !strings.ContainsAny(key, " \t") {
		switch key {
		case "out_time":
			return parseClock(value)
		case "out_time_us", "out_time_ms":
			// Both keys carry microseconds.
			us, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			if err != nil || us < 0 {
				return 0, false
			}
			return float64(us) / 1e6, true
		}
	}
	idx := strings.Index(line, "time=")
	if idx < 0 || (idx > 0 && line[idx-1] != ' ') {
		return 0, false
	}
	value := line[idx+len("time="):]
	if end := strings.IndexAny(value, " \t"); end >= 0 {
		value = value[:end]
	}
	return parseClock(value)
}

// ParseDurationHeader reads the input duration from the banner line
// "  Duration: 00:01:02.50, start: ...".
func ParseDurationHeader(line string) (float64, bool) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, "Duration:")
	if !ok {
		return 0, false
	}
	rest = strings.TrimSpace(rest)
	if end := strings.IndexByte(rest, ','); end >= 0 {
		rest = rest[:end]
	}
	seconds, ok := parseClock(rest)
	if !ok || seconds <= 0 {
		return 0, false
	}
	return seconds, true
}

// parseClock parses HH:MM:SS(.frac); "N/A" and negative values are rejected.
func parseClock(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "-") || value == "N/A" {
		return 0, false
	}
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	s, errS := strconv.ParseFloat(parts[2], 64)
	if errH != nil || errM != nil || errS != nil {
		return 0, false
	}
	return float64(h)*3600 + float64(m)*60 + s, true
}
