package labels

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// decodeSource returns the source as UTF-8 text. Spreadsheet exports from
// older tooling arrive as Windows-1252, which would mangle the German sex
// words (männlich, weiblich) if read as UTF-8, so invalid UTF-8 input gets
// one transcoding pass before parsing.
func decodeSource(raw []byte) (string, error) {
	// Strip a UTF-8 BOM some exports prepend.
	if len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF {
		raw = raw[3:]
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode label source: %w", err)
	}
	return string(decoded), nil
}
