package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrOutputParse   = errors.New("output parse failed")
	ErrProbeFailed   = errors.New("probe failed")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// StageFailedError reports an external tool that exited unsuccessfully.
// ExitCode is -1 when the process could not be started or was killed by a
// signal. Excerpt holds the tail of the tool's diagnostic output.
type StageFailedError struct {
	// Stage is the pipeline step: "extract", "recognize" or "render".
	Stage    string
	Tool     string
	ExitCode int
	Excerpt  string
	Err      error
}

func (e *StageFailedError) Error() string {
	var b strings.Builder
	b.WriteString(e.Stage)
	if e.Tool != "" {
		fmt.Fprintf(&b, " (%s)", e.Tool)
	}
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " failed with exit code %d", e.ExitCode)
	} else {
		b.WriteString(" failed")
		if e.Err != nil {
			b.WriteString(": ")
			b.WriteString(e.Err.Error())
		}
	}
	if excerpt := strings.TrimSpace(e.Excerpt); excerpt != "" {
		b.WriteString(": ")
		b.WriteString(excerpt)
	}
	return b.String()
}

// Unwrap exposes both the ErrExternalTool marker and the underlying cause.
func (e *StageFailedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExternalTool}
	}
	return []error{ErrExternalTool, e.Err}
}

// OutputParseError reports tool output that was missing or malformed.
type OutputParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *OutputParseError) Error() string {
	msg := "parse tool output"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the ErrOutputParse marker and the underlying cause.
func (e *OutputParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrOutputParse}
	}
	return []error{ErrOutputParse, e.Err}
}

// ErrorHint returns a short operator-facing next step for err, suitable for
// the error_hint log field.
func ErrorHint(err error) string {
	var stageErr *StageFailedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &stageErr):
		tool := stageErr.Tool
		if tool == "" {
			tool = stageErr.Stage
		}
		return "inspect the " + tool + " output excerpt; run 'merlin doctor' to verify tool installation"
	case errors.Is(err, ErrOutputParse):
		return "the recognizer produced no usable word timings; check the audio track and recognizer version"
	case errors.Is(err, ErrConfiguration):
		return "fix the configuration file and rerun 'merlin config validate'"
	case errors.Is(err, ErrValidation):
		return "check the input arguments"
	case errors.Is(err, ErrNotFound):
		return "check that the input path exists"
	default:
		return "check logs for details"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
