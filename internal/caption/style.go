package caption

import (
	"errors"
	"fmt"
	"strings"
)

// Position is the vertical placement of captions.
type Position string

const (
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

// ParsePosition accepts top, middle or bottom in any case. Empty means bottom.
func ParsePosition(value string) (Position, error) {
	switch p := Position(strings.ToLower(strings.TrimSpace(value))); p {
	case "":
		return PositionBottom, nil
	case PositionTop, PositionMiddle, PositionBottom:
		return p, nil
	default:
		return "", fmt.Errorf("position %q: want top, middle or bottom", value)
	}
}

// Layout is the numpad alignment and vertical margin used by the renderer.
type Layout struct {
	Alignment int
	MarginV   int
}

// Layout maps the position onto renderer alignment. Unknown values are
// treated as bottom.
func (p Position) Layout() Layout {
	switch p {
	case PositionTop:
		return Layout{Alignment: 8, MarginV: 120}
	case PositionMiddle:
		return Layout{Alignment: 5, MarginV: 0}
	default:
		return Layout{Alignment: 2, MarginV: 120}
	}
}

// Style describes caption appearance.
type Style struct {
	FontSize   int      `json:"fontSize"`
	FontFamily string   `json:"fontFamily"`
	FontColor  string   `json:"fontColor"`
	BgColor    string   `json:"bgColor"`
	BgOpacity  int      `json:"bgOpacity"`
	Position   Position `json:"position"`
}

// DefaultStyle is the appearance used when nothing else is chosen.
func DefaultStyle() Style {
	return Style{
		FontSize:   64,
		FontFamily: "Arial",
		FontColor:  "#ffffff",
		BgColor:    "#000000",
		BgOpacity:  80,
		Position:   PositionBottom,
	}
}

// WithDefaults fills empty string fields and a non-positive font size from
// DefaultStyle. BgOpacity is kept as is since 0 is a valid opacity.
func (s Style) WithDefaults() Style {
	def := DefaultStyle()
	if s.FontSize <= 0 {
		s.FontSize = def.FontSize
	}
	if strings.TrimSpace(s.FontFamily) == "" {
		s.FontFamily = def.FontFamily
	}
	if strings.TrimSpace(s.FontColor) == "" {
		s.FontColor = def.FontColor
	}
	if strings.TrimSpace(s.BgColor) == "" {
		s.BgColor = def.BgColor
	}
	if s.Position == "" {
		s.Position = def.Position
	}
	return s
}

// Validate reports the first unusable field.
func (s Style) Validate() error {
	if s.FontSize <= 0 {
		return fmt.Errorf("font size %d must be positive", s.FontSize)
	}
	if strings.TrimSpace(s.FontFamily) == "" {
		return errors.New("font family must be set")
	}
	if strings.ContainsAny(s.FontFamily, ",\n\r") {
		return fmt.Errorf("font family %q must not contain commas or newlines", s.FontFamily)
	}
	if _, err := ParseHex(s.FontColor); err != nil {
		return fmt.Errorf("font colour: %w", err)
	}
	if _, err := ParseHex(s.BgColor); err != nil {
		return fmt.Errorf("background colour: %w", err)
	}
	if s.BgOpacity < 0 || s.BgOpacity > 100 {
		return fmt.Errorf("background opacity %d outside 0..100", s.BgOpacity)
	}
	if _, err := ParsePosition(string(s.Position)); err != nil {
		return err
	}
	return nil
}

// Preset is a named style bundle.
type Preset struct {
	Name        string
	Description string
	Style       Style
}

var presets = []Preset{
	{
		Name:        "social-bold",
		Description: "Large high-contrast captions for short social clips",
		Style:       Style{FontSize: 48, FontFamily: "Impact", FontColor: "#ffffff", BgColor: "#000000", BgOpacity: 90, Position: PositionBottom},
	},
	{
		Name:        "youtube",
		Description: "Classic readable captions for long-form video",
		Style:       Style{FontSize: 36, FontFamily: "Verdana", FontColor: "#ffffff", BgColor: "#000000", BgOpacity: 75, Position: PositionBottom},
	},
	{
		Name:        "podcast",
		Description: "Soft serif captions at the top of the frame",
		Style:       Style{FontSize: 32, FontFamily: "Georgia", FontColor: "#1a1a1a", BgColor: "#f5f5dc", BgOpacity: 85, Position: PositionTop},
	},
	{
		Name:        "tiktok",
		Description: "Centred playful captions for vertical video",
		Style:       Style{FontSize: 42, FontFamily: "Comic Sans MS", FontColor: "#ffffff", BgColor: "#ff0050", BgOpacity: 80, Position: PositionMiddle},
	},
	{
		Name:        "minimalist",
		Description: "Small unobtrusive captions",
		Style:       Style{FontSize: 24, FontFamily: "Arial", FontColor: "#ffffff", BgColor: "#000000", BgOpacity: 50, Position: PositionBottom},
	},
	{
		Name:        "professional",
		Description: "Muted corporate palette",
		Style:       Style{FontSize: 32, FontFamily: "Arial", FontColor: "#2c3e50", BgColor: "#ecf0f1", BgOpacity: 90, Position: PositionBottom},
	},
}

// Templates returns the built-in presets in display order.
func Templates() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// Template looks up a preset by name, case-insensitively.
func Template(name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Preset{}, false
	}
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Suggest proposes a style for a video of the given size: font size scales
// with height, portrait video gets a heavy display face, wide video a plain
// sans-serif. Colours and position come from DefaultStyle.
func Suggest(width, height int) Style {
	style := DefaultStyle()
	switch {
	case height >= 1080:
		style.FontSize = 48
	case height >= 720:
		style.FontSize = 36
	case height >= 480:
		style.FontSize = 28
	default:
		style.FontSize = 20
	}
	if width > 0 && height > 0 {
		aspect := float64(width) / float64(height)
		switch {
		case aspect < 1:
			style.FontFamily = "Impact"
		case aspect > 1.5:
			style.FontFamily = "Arial"
		default:
			style.FontFamily = "Verdana"
		}
	}
	style.BgOpacity = 80
	return style
}
