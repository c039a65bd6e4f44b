package labels

import (
	"fmt"
	"strconv"
	"strings"
)

// Sex is the binary sex label emitted to the male_<G>.txt files.
type Sex int

const (
	SexFemale Sex = 0
	SexMale   Sex = 1
)

// Flag returns the 0/1 value written to label files (1 = male).
func (s Sex) Flag() int { return int(s) }

func (s Sex) String() string {
	if s == SexMale {
		return "male"
	}
	return "female"
}

// Convention selects how numeric sex codes are read. Two incompatible
// schemes exist across the label sources and the meaning of "1" differs
// between them, so the active convention is always explicit configuration,
// never inferred from the data.
type Convention int

const (
	// ConventionZeroOne reads 0=female, 1=male.
	ConventionZeroOne Convention = iota
	// ConventionOneTwo reads 1=male, 2=female.
	ConventionOneTwo
)

func (c Convention) String() string {
	if c == ConventionOneTwo {
		return "1=m,2=f"
	}
	return "0=f,1=m"
}

// ParseConvention reads the config spelling of a numeric sex convention.
func ParseConvention(value string) (Convention, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "") {
	case "", "0=f,1=m", "01":
		return ConventionZeroOne, nil
	case "1=m,2=f", "12":
		return ConventionOneTwo, nil
	default:
		return ConventionZeroOne, fmt.Errorf("sex convention: unsupported value %q (use \"0=f,1=m\" or \"1=m,2=f\")", value)
	}
}

// sexWords maps multilingual word spellings. These are unambiguous across
// sources, unlike the numeric codes.
var sexWords = map[string]Sex{
	"m":        SexMale,
	"male":     SexMale,
	"mann":     SexMale,
	"männlich": SexMale,
	"f":        SexFemale,
	"w":        SexFemale,
	"female":   SexFemale,
	"frau":     SexFemale,
	"weiblich": SexFemale,
}

// resolveSex maps one raw sex cell to the binary label under the given
// convention. The second return is false when the cell is unresolvable;
// such rows are skipped, never defaulted.
func resolveSex(raw string, convention Convention) (Sex, bool) {
	cell := strings.ToLower(strings.TrimSpace(raw))
	if cell == "" {
		return 0, false
	}
	if sex, ok := sexWords[cell]; ok {
		return sex, true
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
	if err != nil || value != float64(int(value)) {
		return 0, false
	}
	code := int(value)
	switch convention {
	case ConventionOneTwo:
		switch code {
		case 1:
			return SexMale, true
		case 2:
			return SexFemale, true
		}
	default:
		switch code {
		case 0:
			return SexFemale, true
		case 1:
			return SexMale, true
		}
	}
	return 0, false
}
