package subject

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrMalformedIdentifier marks tokens that do not follow the subject ID
// grammar. Callers scanning mixed directory listings should treat it as
// "not a subject", not as a failure.
var ErrMalformedIdentifier = errors.New("malformed subject identifier")

// idPattern accepts IDs like D01, DK03, HC12, K7, K11a: one or more letters,
// one or more digits, optionally a single trailing letter.
var idPattern = regexp.MustCompile(`^([A-Za-z]+)(\d+[A-Za-z]?)$`)

// ID is a parsed subject identifier. Group is the leading letter code and
// Ordinal the digit run with its optional trailing letter. Ordinal stays a
// string so zero-padding survives and lexicographic ordering is preserved.
type ID struct {
	Group   string
	Ordinal string
}

// Parse validates token against the ID grammar and decomposes it.
func Parse(token string) (ID, error) {
	m := idPattern.FindStringSubmatch(token)
	if m == nil {
		return ID{}, fmt.Errorf("%w: %q must look like <Letters><Digits> (e.g. D01, FD03, K11a)", ErrMalformedIdentifier, token)
	}
	return ID{Group: m[1], Ordinal: m[2]}, nil
}

// Valid reports whether token satisfies the ID grammar.
func Valid(token string) bool {
	return idPattern.MatchString(token)
}

// String reassembles the original token.
func (id ID) String() string {
	return id.Group + id.Ordinal
}
