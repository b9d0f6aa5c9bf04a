package logs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"merlin/internal/logging"
)

// Entry is one decoded JSON log record.
type Entry struct {
	Time      time.Time
	Level     slog.Level
	Message   string
	Component string
	JobID     string
	Stage     string
	Fields    map[string]any
}

// ParseEntry decodes a line written by the JSON handler.
func ParseEntry(line string) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, fmt.Errorf("decode log line: %w", err)
	}
	entry := Entry{Fields: make(map[string]any, len(raw))}
	for key, value := range raw {
		text, _ := value.(string)
		switch key {
		case "ts":
			entry.Time, _ = time.Parse(time.RFC3339Nano, text)
		case "level":
			level, err := logging.ParseLevel(text)
			if err != nil {
				level = slog.LevelInfo
			}
			entry.Level = level
		case "msg":
			entry.Message = text
		case logging.FieldComponent:
			entry.Component = text
		case logging.FieldJobID:
			entry.JobID = text
		case logging.FieldStage:
			entry.Stage = text
		case "source":
		default:
			entry.Fields[key] = value
		}
	}
	return entry, nil
}

// Filter narrows entries to one job and a minimum level.
type Filter struct {
	// JobID matches by prefix so the short ids shown on the console work.
	JobID    string
	MinLevel slog.Level
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Entry) bool {
	if e.Level < f.MinLevel {
		return false
	}
	if id := strings.TrimSpace(f.JobID); id != "" && !strings.HasPrefix(e.JobID, id) {
		return false
	}
	return true
}

// Format renders the entry in the console layout:
// HH:MM:SS LEVEL component [job stage]: message key=value ...
func (e Entry) Format() string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	b.WriteString(levelName(e.Level))
	if e.Component != "" {
		b.WriteByte(' ')
		b.WriteString(e.Component)
	}
	if e.JobID != "" || e.Stage != "" {
		b.WriteString(" [")
		b.WriteString(shortID(e.JobID))
		if e.Stage != "" {
			if e.JobID != "" {
				b.WriteByte(' ')
			}
			b.WriteString(e.Stage)
		}
		b.WriteByte(']')
	}
	b.WriteString(": ")
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(fieldText(e.Fields[key]))
	}
	return b.String()
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN "
	case level >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func fieldText(value any) string {
	switch v := value.(type) {
	case string:
		if v == "" || strings.ContainsAny(v, " \t\"=") {
			return strconv.Quote(v)
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return "null"
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
