package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Full-word forms users commonly type for the recognizer's --language flag.
var byWord = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
}

// ToISO2 converts a language word, ISO 639 code, or BCP 47 tag (en-US) to the
// short ISO 639 code the recognizer expects. Returns empty string for
// unrecognized input.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if mapped, ok := byWord[code]; ok {
		return mapped
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	return base.String()
}

// DisplayName returns the English name for a recognized code, "Unknown" for
// empty input, or the uppercased input when it cannot be parsed.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	iso := ToISO2(trimmed)
	if iso == "" {
		return strings.ToUpper(trimmed)
	}
	name := display.English.Languages().Name(language.Make(iso))
	if name == "" {
		return strings.ToUpper(trimmed)
	}
	return name
}
