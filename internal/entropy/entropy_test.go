package entropy

import (
	"math"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestShannon_Deterministic(t *testing.T) {
	if got := Shannon(""); got != 0 {
		t.Fatalf("empty string entropy = %v, want 0", got)
	}
	if got := Shannon("aaaa"); got != 0 {
		t.Fatalf("uniform string entropy = %v, want 0", got)
	}
	// all-distinct characters of length n have entropy log2(n)
	if got, want := Shannon("abcd"), 2.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("Shannon(abcd) = %v, want %v", got, want)
	}
	if got, want := Shannon("abcdefgh"), 3.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("Shannon(abcdefgh) = %v, want %v", got, want)
	}
}

func TestDetectCharset(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"deadBEEF0123", CharsetHex},
		{"abc123XYZ+/=", CharsetBase64},
		{"under_score-ok", CharsetAlphanumeric},
		{"has spaces!", CharsetMixed},
		{"0123456789", CharsetHex},
	}
	for _, c := range cases {
		if got := DetectCharset(c.in); got != c.want {
			t.Errorf("DetectCharset(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestThreshold(t *testing.T) {
	if Threshold(CharsetHex) != 3.0 || Threshold(CharsetBase64) != 4.5 {
		t.Fatal("unexpected hex/base64 thresholds")
	}
	if Threshold(CharsetAlphanumeric) != 4.0 || Threshold(CharsetMixed) != 4.0 {
		t.Fatal("unexpected alphanumeric/mixed thresholds")
	}
}

func TestIsLikelyFalsePositive(t *testing.T) {
	for _, v := range []string{
		"abcdefghijklmnopqrstuvwxyz", // ignore list
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ", // sequential + single-case
		"aaaaaaaaaaaaaaaaaaaabbbb",   // repetition
		"12341234123412341234",       // low distinct count
		"ababababababababababab",     // two-char motif
	} {
		if !IsLikelyFalsePositive(v) {
			t.Errorf("IsLikelyFalsePositive(%q) = false, want true", v)
		}
	}
	if IsLikelyFalsePositive("kD8$fj2LzQ9@mX4vR7pW") {
		t.Error("random mixed value flagged as false positive")
	}
}

func TestAnalyzeLine_QuotedSecret(t *testing.T) {
	line := `api_key = "xK9mQ2vL8pR4tW7zN3jF5hB1dG6sA0cE"`
	fs := AnalyzeLine(line, 7)
	if len(fs) == 0 {
		t.Fatal("expected at least one candidate")
	}
	f := fs[0]
	if f.Value != "xK9mQ2vL8pR4tW7zN3jF5hB1dG6sA0cE" {
		t.Fatalf("unexpected value %q", f.Value)
	}
	if f.LineNumber != 7 {
		t.Fatalf("line = %d, want 7", f.LineNumber)
	}
	if f.Charset != CharsetAlphanumeric {
		t.Fatalf("charset = %q", f.Charset)
	}
}

func TestAnalyzeLine_SkipsPlaceholders(t *testing.T) {
	if fs := AnalyzeLine(`key = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"`, 1); len(fs) != 0 {
		t.Fatalf("uniform value should be suppressed, got %d findings", len(fs))
	}
	if fs := AnalyzeLine(`word = "abcdefghijklmnopqrstuvwxyz"`, 1); len(fs) != 0 {
		t.Fatalf("alphabet should be suppressed, got %d findings", len(fs))
	}
}

func TestAnalyzeContent_DedupesByValue(t *testing.T) {
	secret := `token = "xK9mQ2vL8pR4tW7zN3jF5hB1dG6sA0cE"`
	content := strings.Join([]string{secret, "middle line of nothing much", secret}, "\n")
	fs := AnalyzeContent(content)
	if len(fs) != 1 {
		t.Fatalf("expected 1 deduplicated finding, got %d", len(fs))
	}
	if fs[0].LineNumber != 1 {
		t.Fatalf("first occurrence should win, got line %d", fs[0].LineNumber)
	}
}

func TestRiskFromEntropy_Mapping(t *testing.T) {
	// well above 1.3x the alphanumeric threshold
	level, score := RiskFromEntropy(5.3, CharsetAlphanumeric)
	if level != "high" {
		t.Fatalf("level = %q, want high", level)
	}
	if score > 90 {
		t.Fatalf("high score capped at 90, got %v", score)
	}
	level, _ = RiskFromEntropy(4.5, CharsetAlphanumeric)
	if level != "medium" {
		t.Fatalf("level = %q, want medium", level)
	}
	level, score = RiskFromEntropy(2.0, CharsetAlphanumeric)
	if level != "low" {
		t.Fatalf("level = %q, want low", level)
	}
	if score < 20 {
		t.Fatalf("low score floored at 20, got %v", score)
	}
}

func TestProperty_EntropyBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("entropy is within [0, log2(len)]", prop.ForAll(
		func(s string) bool {
			h := Shannon(s)
			if h < 0 {
				return false
			}
			if s == "" {
				return h == 0
			}
			n := float64(len([]rune(s)))
			return h <= math.Log2(n)+1e-9
		},
		gen.AlphaString(),
	))

	properties.Property("repetition never increases entropy", prop.ForAll(
		func(s string) bool {
			return Shannon(s+s) <= Shannon(s)+1e-9
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
