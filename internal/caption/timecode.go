package caption

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToSubtitleTime formats seconds as H:MM:SS.CC. Hours are unpadded and the
// value is rounded to the nearest centisecond before splitting, so 59.999
// carries into the next minute instead of producing a 100 centisecond field.
func ToSubtitleTime(seconds float64) string {
	cs := roundCentis(seconds)
	h := cs / 360000
	m := (cs / 6000) % 60
	s := (cs / 100) % 60
	c := cs % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, c)
}

// ToCentiseconds converts a duration in seconds to whole centiseconds, never
// less than 1.
func ToCentiseconds(duration float64) int {
	return max(1, int(roundCentis(duration)))
}

// ParseSubtitleTime parses H:MM:SS.CC back into seconds.
func ParseSubtitleTime(value string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("subtitle time %q: want H:MM:SS.CC", value)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("subtitle time %q: bad hours", value)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("subtitle time %q: bad minutes", value)
	}
	s, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || s < 0 || s >= 60 {
		return 0, fmt.Errorf("subtitle time %q: bad seconds", value)
	}
	return float64(h)*3600 + float64(m)*60 + s, nil
}

// FormatClock renders seconds as HH:MM:SS for display, truncating fractions.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

func roundCentis(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	return int64(math.Round(seconds * 100))
}
