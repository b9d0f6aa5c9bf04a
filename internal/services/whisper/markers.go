package whisper

import (
	"regexp"
	"strconv"
	"strings"
)

// Lines the recognizer prints once it has loaded the model and started work.
var stageStartMarkers = []string{
	"-->",
	"Detecting language",
	"Detected language",
	"FP16",
}

// IsStageStartMarker reports whether line shows the recognizer has begun
// processing audio.
func IsStageStartMarker(line string) bool {
	for _, marker := range stageStartMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

var segmentLine = regexp.MustCompile(`^\s*\[(?:(\d+):)?(\d+):(\d+(?:\.\d+)?)\s*-->\s*(?:(\d+):)?(\d+):(\d+(?:\.\d+)?)\]`)

// ParseSegmentEnd extracts the end timestamp in seconds from a verbose
// segment line such as "[00:03.000 --> 00:07.480]  text" or
// "[01:02:03.000 --> 01:02:05.000]  text".
func ParseSegmentEnd(line string) (float64, bool) {
	m := segmentLine.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return clockSeconds(m[4], m[5], m[6]), true
}

func clockSeconds(hours, minutes, seconds string) float64 {
	var total float64
	if hours != "" {
		h, _ := strconv.Atoi(hours)
		total += float64(h) * 3600
	}
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.ParseFloat(seconds, 64)
	return total + float64(m)*60 + s
}
