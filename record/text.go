package record

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// decodeCP1250 decodes b as CP-1250 (the printer's native text encoding
// for fixed-width fields), trimming a trailing NUL run. It falls back to
// UTF-8 with replacement characters if CP-1250 decoding fails outright,
// so a display surface never errors on malformed text.
func decodeCP1250(b []byte) string {
	trimmed := trimTrailingNUL(b)
	out, err := charmap.Windows1250.NewDecoder().Bytes(trimmed)
	if err != nil {
		return string([]rune(string(trimmed)))
	}
	return string(out)
}

// decodeCP1250Pascal decodes a pascal string: b[0] is the length, b[1:1+n]
// the CP-1250 text.
func decodeCP1250Pascal(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	n := int(b[0])
	if n > len(b)-1 {
		n = len(b) - 1
	}
	if n < 0 {
		return ""
	}
	return decodeCP1250(b[1 : 1+n])
}

func trimTrailingNUL(b []byte) []byte {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	return b[:i]
}

// extractPrintableStrings decodes data as best-effort text (CP-1250
// preferred, falling back to UTF-8 replacement) and returns runs of at
// least minLen printable characters — word characters, punctuation, and
// Latin-1+ characters — so an unrecognized record still yields something
// a human can read.
func extractPrintableStrings(data []byte, minLen int) []string {
	text := decodeCP1250(data)
	pattern := fmt.Sprintf(`[\w\-./:,\\() \x{0080}-\x{FFFF}]{%d,}`, minLen)
	matches := regexp.MustCompile(pattern).FindAllString(text, -1)
	var out []string
	for _, m := range matches {
		m = strings.Trim(m, "\x00")
		if len([]rune(m)) >= minLen && m != "" {
			out = append(out, m)
		}
	}
	return out
}

// asciiTrimmed decodes b as plain ASCII, stripping a trailing NUL run —
// used for currency codes and other fields known to be plain ASCII
// rather than CP-1250.
func asciiTrimmed(b []byte) string {
	return string(trimTrailingNUL(b))
}
