package caption

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB is a parsed #RRGGBB colour.
type RGB struct {
	R, G, B uint8
}

// ParseHex accepts "#RRGGBB" or "RRGGBB" in any case.
func ParseHex(hex string) (RGB, error) {
	value := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(value) != 6 {
		return RGB{}, fmt.Errorf("colour %q: want #RRGGBB", hex)
	}
	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("colour %q: want #RRGGBB", hex)
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// PackColor encodes hex plus an inverted alpha byte (0 opaque, 255
// transparent) as &HAABBGGRR.
func PackColor(hex string, alpha uint8) (string, error) {
	rgb, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return rgb.Pack(alpha), nil
}

// PackColorOpacity is PackColor with the alpha derived from an opacity
// percentage (100 opaque).
func PackColorOpacity(hex string, opacityPercent int) (string, error) {
	return PackColor(hex, OpacityToAlpha(opacityPercent))
}

// OpacityToAlpha converts an opacity percentage into the inverted alpha byte.
// Inputs outside 0..100 are clamped.
func OpacityToAlpha(opacityPercent int) uint8 {
	p := min(max(opacityPercent, 0), 100)
	return uint8(math.Round((1 - float64(p)/100) * 255))
}

// Pack returns the &HAABBGGRR form.
func (c RGB) Pack(alpha uint8) string {
	return fmt.Sprintf("&H%02X%02X%02X%02X", alpha, c.B, c.G, c.R)
}

// Hex returns the lower-case #rrggbb form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
