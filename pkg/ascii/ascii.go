// Package ascii renders boxed and tabular text for terminal output.
package ascii

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Box builds a box containing the provided lines and returns it as a string.
// Lines are left-aligned with single-space padding on each side. Multi-width
// runes (CJK and the like) are accounted for so the borders stay aligned.
func Box(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	trimmed := make([]string, len(lines))
	maxWidth := 0
	for i, line := range lines {
		trimmed[i] = strings.TrimRight(line, " ")
		if w := StringWidth(trimmed[i]); w > maxWidth {
			maxWidth = w
		}
	}

	innerWidth := maxWidth + 2
	border := strings.Repeat("─", innerWidth)

	var sb strings.Builder
	sb.WriteString("┌" + border + "┐\n")
	for _, line := range trimmed {
		sb.WriteString("│ " + PadRight(line, maxWidth) + " │\n")
	}
	sb.WriteString("└" + border + "┘\n")
	return sb.String()
}

// Table lays out rows in columns separated by two spaces, each column as wide
// as its widest cell. The header, when given, is followed by a rule.
func Table(header []string, rows [][]string) []string {
	cols := len(header)
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	widths := make([]int, cols)
	measure := func(r []string) {
		for i, cell := range r {
			widths[i] = max(widths[i], StringWidth(cell))
		}
	}
	measure(header)
	for _, r := range rows {
		measure(r)
	}

	format := func(r []string) string {
		cells := make([]string, cols)
		for i := range cols {
			var cell string
			if i < len(r) {
				cell = r[i]
			}
			if i == cols-1 {
				cells[i] = cell
			} else {
				cells[i] = PadRight(cell, widths[i])
			}
		}
		return strings.TrimRight(strings.Join(cells, "  "), " ")
	}

	var out []string
	if len(header) > 0 {
		out = append(out, format(header))
		total := 0
		for _, w := range widths {
			total += w
		}
		out = append(out, strings.Repeat("─", total+2*(cols-1)))
	}
	for _, r := range rows {
		out = append(out, format(r))
	}
	return out
}

// PadRight pads s with spaces to the given display width.
func PadRight(s string, width int) string {
	if fill := width - StringWidth(s); fill > 0 {
		return s + strings.Repeat(" ", fill)
	}
	return s
}

// TruncateForBox truncates a string so that its display width fits within the
// provided width. An ellipsis ("...") is appended when truncation occurs and
// there is space for it.
func TruncateForBox(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return substringWithWidth(value, width)
	}
	return substringWithWidth(value, width-3) + "..."
}

func substringWithWidth(s string, target int) string {
	width := 0
	var sb strings.Builder
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if width+w > target {
			break
		}
		width += w
		sb.WriteRune(r)
	}
	return sb.String()
}

// StringWidth returns the display width of a string.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}
