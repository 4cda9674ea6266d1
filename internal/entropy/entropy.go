// Package entropy flags high-randomness strings that look like credentials.
//
// Candidates are pulled out of each line with a small set of extraction
// patterns, run through a false-positive filter, and kept only when their
// Shannon entropy clears a per-charset threshold.
package entropy

import (
	"math"
	"regexp"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
)

// Charset labels returned by DetectCharset.
const (
	CharsetHex          = "hex"
	CharsetBase64       = "base64"
	CharsetAlphanumeric = "alphanumeric"
	CharsetMixed        = "mixed"
)

// Per-charset entropy thresholds in bits/char. A hex string saturates at
// 4 bits/char, base64 at 6, so the cutoffs differ.
const (
	ThresholdHex          = 3.0
	ThresholdBase64       = 4.5
	ThresholdAlphanumeric = 4.0
)

// MinCandidateLength is the shortest value worth measuring.
const MinCandidateLength = 20

// MaxFindingsPerFile caps candidates emitted for a single file.
const MaxFindingsPerFile = 100

// Finding is one high-entropy candidate within a line.
type Finding struct {
	Value      string
	Entropy    float64
	Charset    string
	LineNumber int // 1-based
	Column     int // 0-based offset within the line
}

var candidatePatterns = []*regexp.Regexp{
	// quoted strings
	regexp.MustCompile(`["']([A-Za-z0-9+/=_-]{20,})["']`),
	// assignment right-hand sides
	regexp.MustCompile(`=\s*["']?([A-Za-z0-9+/=_-]{20,})["']?`),
	// bare hex runs
	regexp.MustCompile(`(?:0x)?([a-fA-F0-9]{32,})`),
}

var ignoreWords = map[string]bool{
	"abcdefghijklmnopqrstuvwxyz":                      true,
	"zyxwvutsrqponmlkjihgfedcba":                      true,
	"0123456789":                                      true,
	"qwertyuiopasdfghjklzxcvbnm":                      true,
	"thequickbrownfoxjumpsoverthelazydog":             true,
	"loremipsumdolorsitametconsecteturadipiscingelit": true,
}

var trivialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]+$`),
	regexp.MustCompile(`^[a-z]+$`),
	regexp.MustCompile(`^[0-9]+$`),
	regexp.MustCompile(`^[a-f0-9]{32}$`), // likely an MD5 of test data
}

// Shannon computes the Shannon entropy of s in bits per character.
// The empty string has entropy 0.
func Shannon(s string) float64 {
	if s == "" {
		return 0
	}
	count := map[rune]int{}
	total := 0
	for _, r := range s {
		count[r]++
		total++
	}
	h := 0.0
	n := float64(total)
	for _, c := range count {
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}

// DetectCharset classifies s by the smallest alphabet that contains it.
func DetectCharset(s string) string {
	hex, b64, alnum := true, true, true
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F':
		default:
			hex = false
		}
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
		case r == '+' || r == '/' || r == '=':
			alnum = false
		case r == '_' || r == '-':
			b64 = false
		default:
			b64 = false
			alnum = false
		}
	}
	switch {
	case hex:
		return CharsetHex
	case b64:
		return CharsetBase64
	case alnum:
		return CharsetAlphanumeric
	default:
		return CharsetMixed
	}
}

// Threshold returns the entropy cutoff for a charset label.
func Threshold(charset string) float64 {
	switch charset {
	case CharsetHex:
		return ThresholdHex
	case CharsetBase64:
		return ThresholdBase64
	default:
		return ThresholdAlphanumeric
	}
}

// IsLikelyFalsePositive reports whether a high-entropy candidate is almost
// certainly benign: a known word, heavy repetition, a mostly sequential run,
// or a trivially structured value.
func IsLikelyFalsePositive(value string) bool {
	if ignoreWords[strings.ToLower(value)] {
		return true
	}
	distinct := map[rune]bool{}
	for _, r := range value {
		distinct[r] = true
	}
	if len(distinct) < len(value)/4 {
		return true
	}
	if isSequential(value) {
		return true
	}
	for _, re := range trivialPatterns {
		if re.MatchString(value) {
			return true
		}
	}
	return hasShortPeriod(value)
}

// hasShortPeriod reports whether value is a 1- or 2-character motif
// repeated end to end, like "aaaa" or "abababab".
func hasShortPeriod(s string) bool {
	if len(s) < 2 {
		return false
	}
	for period := 1; period <= 2; period++ {
		if len(s)%period != 0 {
			continue
		}
		repeats := true
		for i := period; i < len(s); i++ {
			if s[i] != s[i-period] {
				repeats = false
				break
			}
		}
		if repeats {
			return true
		}
	}
	return false
}

// isSequential reports whether >70% of consecutive code-point deltas are
// in {-1, 0, 1}.
func isSequential(s string) bool {
	if len(s) < 4 {
		return false
	}
	runs := 0
	for i := 0; i+1 < len(s); i++ {
		d := int(s[i+1]) - int(s[i])
		if d >= -1 && d <= 1 {
			runs++
		}
	}
	return float64(runs)/float64(len(s)) > 0.7
}

// AnalyzeLine extracts candidates from one line and keeps those that pass
// the false-positive filter and clear the entropy threshold for their
// charset. lineNumber is 1-based.
func AnalyzeLine(line string, lineNumber int) []Finding {
	var out []Finding
	for _, re := range candidatePatterns {
		for _, idx := range re.FindAllStringSubmatchIndex(line, -1) {
			start, end := idx[0], idx[1]
			if len(idx) >= 4 && idx[2] >= 0 {
				start, end = idx[2], idx[3]
			}
			value := line[start:end]
			col := idx[0]
			if len(value) < MinCandidateLength {
				continue
			}
			if IsLikelyFalsePositive(value) {
				continue
			}
			h := Shannon(value)
			charset := DetectCharset(value)
			if h < Threshold(charset) {
				continue
			}
			out = append(out, Finding{
				Value:      value,
				Entropy:    math.Round(h*100) / 100,
				Charset:    charset,
				LineNumber: lineNumber,
				Column:     col,
			})
		}
	}
	return out
}

// AnalyzeContent runs AnalyzeLine over every line of content, capping output
// at MaxFindingsPerFile and deduplicating by exact candidate value.
func AnalyzeContent(content string) []Finding {
	var all []Finding
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if len(strings.TrimSpace(line)) < MinCandidateLength {
			continue
		}
		all = append(all, AnalyzeLine(line, i+1)...)
		if len(all) >= MaxFindingsPerFile {
			break
		}
	}
	seen := map[uint64]bool{}
	out := all[:0]
	for _, f := range all {
		k := xxhash.Sum64String(f.Value)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	return out
}

// RiskFromEntropy maps an entropy measurement to a risk level and a 0-100
// score, normalized against the charset's practical maximum.
func RiskFromEntropy(e float64, charset string) (string, float64) {
	threshold := Threshold(charset)
	maxEntropy := 4.0
	if charset == CharsetBase64 {
		maxEntropy = 6.0
	}
	normalized := math.Min(100, e/maxEntropy*100)
	switch {
	case e >= threshold*1.3:
		return "high", math.Min(90, normalized+20)
	case e >= threshold*1.1:
		return "medium", normalized
	default:
		return "low", math.Max(20, normalized-20)
	}
}
