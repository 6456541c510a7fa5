package report

import (
	"fmt"
	"strings"
)

// EscapeBytes renders raw bytes for terminal display. Printable ASCII is
// kept as-is; everything else becomes a \xNN escape. Reverse-engineering
// reports show header fragments and stable-run previews inline, so the
// rendering must never emit control characters into the terminal.
func EscapeBytes(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		if b >= 0x20 && b < 0x7f && b != '\\' {
			sb.WriteByte(b)
		} else {
			fmt.Fprintf(&sb, "\\x%02x", b)
		}
	}
	return sb.String()
}

// HexSnippet renders bytes as space-separated hex pairs, truncated to
// maxBytes with a trailing ellipsis marker when shortened.
func HexSnippet(data []byte, maxBytes int) string {
	truncated := false
	if maxBytes > 0 && len(data) > maxBytes {
		data = data[:maxBytes]
		truncated = true
	}

	parts := make([]string, 0, len(data))
	for _, b := range data {
		parts = append(parts, fmt.Sprintf("%02x", b))
	}

	s := strings.Join(parts, " ")
	if truncated {
		s += " .."
	}
	return s
}
