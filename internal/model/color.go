package model

import (
	"strconv"
	"strings"
)

// ContrastColor returns black or white text for the given background color,
// whichever reads better. It accepts #rgb and #rrggbb; anything else gets black.
func ContrastColor(hex string) string {
	r, g, b, ok := ParseHexColor(hex)
	if !ok {
		return "#000000"
	}
	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance > 0.5 {
		return "#000000"
	}
	return "#FFFFFF"
}

// ParseHexColor splits a #rgb or #rrggbb color into its components.
func ParseHexColor(hex string) (r, g, b uint8, ok bool) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
