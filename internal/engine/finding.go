package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/secretscope/secretscope/internal/types"
)

var severityBase = map[types.Severity]float64{
	types.SevCritical: 90,
	types.SevHigh:     70,
	types.SevMedium:   50,
	types.SevLow:      30,
}

// maskSecret keeps the first and last four characters of longer values so a
// reader can recognize which credential leaked without seeing it whole.
func maskSecret(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

// hashSecret is the dedup key: the same secret in two places is one finding.
func hashSecret(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// buildSnippet renders the finding line with two lines of context either
// side. lineNumber is 1-based.
func buildSnippet(lines []string, lineNumber int) string {
	start := lineNumber - 3
	if start < 0 {
		start = 0
	}
	end := lineNumber + 2
	if end > len(lines) {
		end = len(lines)
	}
	var b strings.Builder
	for i := start; i < end; i++ {
		marker := "    "
		if i+1 == lineNumber {
			marker = ">>> "
		}
		fmt.Fprintf(&b, "%s%4d: %s\n", marker, i+1, lines[i])
	}
	return strings.TrimRight(b.String(), "\n")
}

// riskScore weighs severity by detector confidence and path context.
func riskScore(severity types.Severity, confidence float64, path string, isTest bool) float64 {
	base, ok := severityBase[severity]
	if !ok {
		base = 50
	}
	score := base * confidence

	lower := strings.ToLower(path)
	if isTest {
		score *= 0.5
	}
	for _, w := range []string{"example", "sample", "demo"} {
		if strings.Contains(lower, w) {
			score *= 0.6
			break
		}
	}
	for _, w := range []string{"prod", "production", "deploy"} {
		if strings.Contains(lower, w) {
			score *= 1.2
			break
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return math.Round(score*10) / 10
}

// newFinding assembles the common fields every detector shares.
func newFinding(path, value string, lineNumber, colStart, colEnd int, lines []string) types.Finding {
	test := isTestFile(path)
	return types.Finding{
		FindingID:   uuid.NewString(),
		FilePath:    path,
		LineNumber:  lineNumber,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		SecretValue: value,
		SecretMasked: maskSecret(value),
		SecretHash:  hashSecret(value),
		CodeSnippet: buildSnippet(lines, lineNumber),
		IsTestFile:  test,
	}
}
