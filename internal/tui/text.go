package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncateString truncates a string to the given width, appending "…" if truncated.
// It handles wide characters correctly using runewidth.
func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}

	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > maxLen-1 { // -1 for ellipsis
			return s[:i] + "…"
		}
		w += rw
	}
	return s
}

// overlay draws box centred over base, replacing the covered lines.
func overlay(base, box string, width int) string {
	boxLines := strings.Split(box, "\n")
	boxWidth := 0
	for _, l := range boxLines {
		if w := runewidth.StringWidth(stripANSI(l)); w > boxWidth {
			boxWidth = w
		}
	}
	leftPad := (width - boxWidth) / 2
	if leftPad < 0 {
		leftPad = 0
	}

	baseLines := strings.Split(base, "\n")
	for len(baseLines) < len(boxLines) {
		baseLines = append(baseLines, "")
	}
	start := (len(baseLines) - len(boxLines)) / 2
	if start < 0 {
		start = 0
	}
	for i, l := range boxLines {
		baseLines[start+i] = strings.Repeat(" ", leftPad) + l
	}
	return strings.Join(baseLines, "\n")
}

// stripANSI drops terminal escape sequences so widths can be measured.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
