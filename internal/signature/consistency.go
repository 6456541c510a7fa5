package signature

import (
	"fmt"
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/nao1215/bmtscan/internal/model"
)

// trailingPeekLen is the number of bytes captured after the hypothesized
// pixel block end for inspection.
const trailingPeekLen = 32

// CheckConsistency verifies that a hypothesized header size plus the raw
// pixel byte count for one resolution lands on a plausible boundary within
// the file, and peeks at the bytes following that boundary. The UTF-16-LE
// rendering of the trailing bytes exposes the instrument strings that often
// follow an image payload.
func CheckConsistency(buf []byte, headerSize, width, height int) model.ConsistencyFinding {
	expectedEnd := headerSize + width*height*2

	finding := model.ConsistencyFinding{
		Width:       width,
		Height:      height,
		HeaderSize:  headerSize,
		ExpectedEnd: expectedEnd,
		InBounds:    expectedEnd >= 0 && expectedEnd <= len(buf),
	}

	if !finding.InBounds || expectedEnd == len(buf) {
		return finding
	}

	end := expectedEnd + trailingPeekLen
	if end > len(buf) {
		end = len(buf)
	}
	finding.Trailing = make([]byte, end-expectedEnd)
	copy(finding.Trailing, buf[expectedEnd:end])
	finding.TrailingUTF16 = decodeUTF16LE(finding.Trailing)

	return finding
}

// decodeUTF16LE renders raw bytes as UTF-16-LE text with non-printable
// runes replaced, for display only.
func decodeUTF16LE(b []byte) string {
	decoder := xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM).NewDecoder()
	decoded, err := decoder.Bytes(b)
	if err != nil {
		return ""
	}

	var sb strings.Builder
	for _, r := range string(decoded) {
		if unicode.IsPrint(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// DumpHeader renders the first n bytes of buf as a hex/ASCII dump, sixteen
// bytes per row, for report output.
func DumpHeader(buf []byte, n int) string {
	if n > len(buf) {
		n = len(buf)
	}
	if n <= 0 {
		return ""
	}

	var sb strings.Builder
	for row := 0; row < n; row += 16 {
		end := row + 16
		if end > n {
			end = n
		}

		fmt.Fprintf(&sb, "%08x  ", row)
		for i := row; i < row+16; i++ {
			if i < end {
				fmt.Fprintf(&sb, "%02x ", buf[i])
			} else {
				sb.WriteString("   ")
			}
			if i == row+7 {
				sb.WriteByte(' ')
			}
		}

		sb.WriteString(" |")
		for i := row; i < end; i++ {
			if buf[i] >= 0x20 && buf[i] < 0x7F {
				sb.WriteByte(buf[i])
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}
