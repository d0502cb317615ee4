package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Color is a 32-bit ARGB display color. The exchange format carries it as
// an unsigned integer so it round-trips exactly.
type Color uint32

// Fixed display colors.
const (
	DefaultShelfColor Color = 0xFFB2DFDB
	EmptySlotColor    Color = 0xFFCCCCCC
)

// ErrInvalidColor is returned by ParseColor for malformed input.
var ErrInvalidColor = errors.New("invalid color")

// ParseColor parses "#AARRGGBB" or "#RRGGBB" (alpha FF). The leading '#'
// is optional.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 6:
		hex = "FF" + hex
	case 8:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color(v), nil
}

// A, R, G and B return the individual channels.
func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// String formats the color as "#AARRGGBB".
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// RGBHex formats the color as "#RRGGBB", dropping alpha. Terminal
// renderers take this form.
func (c Color) RGBHex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R(), c.G(), c.B())
}
