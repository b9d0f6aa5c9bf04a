package subtitles

import (
	"fmt"
	"strings"

	"merlin/internal/caption"
	"merlin/internal/fileutil"
	"merlin/internal/services"
)

// Default canvas when the video resolution is unknown.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

const (
	dimOn  = `{\1a&H80&}`
	dimOff = `{\1a&H00&}`

	styleFormat  = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"
	eventsFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"
	outlineColor = "&H00000000"
)

// Resolution is the script canvas size, normally the video's pixel size.
type Resolution struct {
	Width  int
	Height int
}

// OrDefault returns r, or 1920x1080 when either side is not positive.
func (r Resolution) OrDefault() Resolution {
	if r.Width <= 0 || r.Height <= 0 {
		return Resolution{Width: DefaultWidth, Height: DefaultHeight}
	}
	return r
}

// Event is one dialogue line.
type Event struct {
	Start float64
	End   float64
	Text  string
}

// Line formats the event as a Dialogue line.
func (e Event) Line() string {
	return fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s",
		caption.ToSubtitleTime(e.Start), caption.ToSubtitleTime(e.End), e.Text)
}

// Document is a complete subtitle script.
type Document struct {
	Header     string
	Events     []Event
	Resolution Resolution
	Style      caption.Style
}

// String serializes the document: header, a blank line, then one event per
// line with a trailing newline.
func (d Document) String() string {
	var b strings.Builder
	b.WriteString(d.Header)
	b.WriteString("\n")
	for i, ev := range d.Events {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ev.Line())
	}
	b.WriteString("\n")
	return b.String()
}

// WriteFile writes the serialized document atomically.
func (d Document) WriteFile(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(d.String()), 0o644); err != nil {
		return fmt.Errorf("write subtitle document: %w", err)
	}
	return nil
}

// Generate builds the document for words. Words are normalized first so
// consecutive events touch without gaps. Missing style fields take their
// defaults; an invalid style is rejected.
func Generate(words []caption.Word, style caption.Style, res Resolution) (Document, error) {
	normalized, err := caption.Normalize(words)
	if err != nil {
		return Document{}, err
	}
	style = style.WithDefaults()
	if err := style.Validate(); err != nil {
		return Document{}, services.Wrap(services.ErrValidation, "subtitles", "generate", "invalid caption style", err)
	}
	res = res.OrDefault()

	header, err := Header(style, res)
	if err != nil {
		return Document{}, err
	}

	events := make([]Event, len(normalized))
	for i, w := range normalized {
		events[i] = Event{Start: w.Start, End: w.End, Text: WindowText(normalized, i)}
	}
	return Document{Header: header, Events: events, Resolution: res, Style: style}, nil
}

// Header renders the script info, style and events format sections. The
// result ends with the events Format line and no trailing newline.
func Header(style caption.Style, res Resolution) (string, error) {
	primary, err := caption.PackColor(style.FontColor, 0)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "subtitles", "font colour", "", err)
	}
	back, err := caption.PackColorOpacity(style.BgColor, style.BgOpacity)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "subtitles", "background colour", "", err)
	}
	layout := style.Position.Layout()

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", res.Width)
	fmt.Fprintf(&b, "PlayResY: %d\n", res.Height)
	b.WriteString("ScaledBorderAndShadow: yes\n")
	b.WriteString("\n")
	b.WriteString("[V4+ Styles]\n")
	b.WriteString(styleFormat + "\n")
	fmt.Fprintf(&b, "Style: Default,%s,%d,%s,%s,%s,%s,-1,0,0,0,100,100,0,0,4,0,10,%d,20,20,%d,1\n",
		style.FontFamily, style.FontSize, primary, primary, outlineColor, back, layout.Alignment, layout.MarginV)
	b.WriteString("\n")
	b.WriteString("[Events]\n")
	b.WriteString(eventsFormat)
	return b.String(), nil
}

// WindowText renders the caption window around active: the active word as
// is and its neighbours dimmed, separated by single spaces.
func WindowText(words []caption.NormalizedWord, active int) string {
	lo, hi := caption.WindowBounds(len(words), active)
	parts := make([]string, 0, hi-lo)
	for i := lo; i < hi; i++ {
		text := Escape(words[i].Text)
		if i != active {
			text = dimOn + text + dimOff
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

var escaper = strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`)

// Escape protects override-block characters in word text.
func Escape(text string) string {
	return escaper.Replace(text)
}
