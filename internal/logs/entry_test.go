package logs

import (
	"log/slog"
	"strings"
	"testing"
)

const sampleLine = `{"ts":"2024-03-01T10:15:30.5Z","level":"warn","msg":"probe failed","source":"controller.go:150","component":"workflow","job_id":"0f8fad5b-d9cb-469f-a165-70867728950e","stage":"probe","event_type":"probe_fallback","width":1920,"path":"/v/My Clip.mov"}`

func TestParseEntry(t *testing.T) {
	entry, err := ParseEntry(sampleLine)
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if entry.Level != slog.LevelWarn || entry.Message != "probe failed" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.Component != "workflow" || entry.Stage != "probe" || !strings.HasPrefix(entry.JobID, "0f8fad5b") {
		t.Fatalf("context fields not extracted: %+v", entry)
	}
	if _, ok := entry.Fields["source"]; ok {
		t.Fatal("source should be dropped")
	}
	if entry.Fields["width"] != float64(1920) {
		t.Fatalf("width = %v", entry.Fields["width"])
	}
	if entry.Time.IsZero() {
		t.Fatal("timestamp not parsed")
	}
}

func TestParseEntryRejectsGarbage(t *testing.T) {
	if _, err := ParseEntry("not json"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFilterMatch(t *testing.T) {
	entry, _ := ParseEntry(sampleLine)
	tests := []struct {
		filter Filter
		want   bool
	}{
		{Filter{}, true},
		{Filter{JobID: "0f8fad5b"}, true},
		{Filter{JobID: "deadbeef"}, false},
		{Filter{MinLevel: slog.LevelWarn}, true},
		{Filter{MinLevel: slog.LevelError}, false},
	}
	for _, tt := range tests {
		if got := tt.filter.Match(entry); got != tt.want {
			t.Errorf("%+v.Match = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

func TestEntryFormat(t *testing.T) {
	entry, _ := ParseEntry(sampleLine)
	got := entry.Format()
	want := `WARN  workflow [0f8fad5b probe]: probe failed event_type=probe_fallback path="/v/My Clip.mov" width=1920`
	if !strings.HasSuffix(got, want) {
		t.Fatalf("Format() = %q, want suffix %q", got, want)
	}
}
