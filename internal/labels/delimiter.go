package labels

import "strings"

// sniffLimit bounds how much of the source the delimiter heuristic reads.
const sniffLimit = 64 * 1024

// delimiterCandidates in preference order for ties. Semicolon first: the
// European exports this tool usually sees pair semicolon fields with
// decimal-comma numbers, and commas inside numbers must not win.
var delimiterCandidates = []rune{';', ',', '|', '\t'}

// inferDelimiter picks the candidate that appears a constant, non-zero
// number of times on every sampled line. Among consistent candidates the
// highest per-line count wins; when nothing is consistent the configured
// fallback is used.
func inferDelimiter(sample string, fallback rune) rune {
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return fallback
	}

	best := fallback
	bestCount := 0
	for _, candidate := range delimiterCandidates {
		count, consistent := consistentCount(lines, candidate)
		if consistent && count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

func sampleLines(sample string) []string {
	if len(sample) > sniffLimit {
		sample = sample[:sniffLimit]
		// Drop the trailing partial line so its counts cannot skew the vote.
		if cut := strings.LastIndexByte(sample, '\n'); cut >= 0 {
			sample = sample[:cut]
		}
	}

	var lines []string
	for _, line := range strings.Split(sample, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func consistentCount(lines []string, delimiter rune) (int, bool) {
	expected := -1
	for _, line := range lines {
		count := strings.Count(line, string(delimiter))
		if count == 0 {
			return 0, false
		}
		if expected == -1 {
			expected = count
			continue
		}
		if count != expected {
			return 0, false
		}
	}
	return expected, expected > 0
}
