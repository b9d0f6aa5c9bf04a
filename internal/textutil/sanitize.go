package textutil

import "strings"

const maxTokenLength = 48

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens are kept, runs of anything else
// collapse to a single underscore. Long input is cut to 48 bytes. Returns
// "untitled" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	lastUnderscore := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := b.String()
	if len(out) > maxTokenLength {
		out = out[:maxTokenLength]
	}
	out = strings.Trim(out, "_-")
	if out == "" {
		return "untitled"
	}
	return out
}

// Tail returns at most n bytes from the end of s without splitting a UTF-8
// sequence, trimmed of surrounding whitespace.
func Tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && s[cut]&0xC0 == 0x80 {
		cut++
	}
	return strings.TrimSpace(s[cut:])
}
