package patterns

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/secretscope/secretscope/internal/types"
)

// ruleFile is the on-disk YAML shape for custom rules.
type ruleFile struct {
	Rules []customRule `yaml:"rules"`
}

type customRule struct {
	Name           string   `yaml:"name"`
	Regex          string   `yaml:"regex"`
	Category       string   `yaml:"category"`
	Severity       string   `yaml:"severity"`
	Description    string   `yaml:"description"`
	Confidence     float64  `yaml:"confidence"`
	FalsePositives []string `yaml:"false_positives"`
}

// LoadCustom reads additional rules from a YAML file and appends them to the
// built-in set. A rule with an invalid regex is rejected individually and
// reported in the returned problem list; the remaining rules still load.
func LoadCustom(path string) ([]Pattern, []string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read custom rules: %w", err)
	}
	var rf ruleFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return nil, nil, fmt.Errorf("parse custom rules: %w", err)
	}

	out := make([]Pattern, 0, len(all)+len(rf.Rules))
	out = append(out, all...)
	var problems []string
	for _, r := range rf.Rules {
		p, err := compileCustom(r)
		if err != nil {
			problems = append(problems, fmt.Sprintf("rule %q: %v", r.Name, err))
			continue
		}
		out = append(out, p)
	}
	return out, problems, nil
}

func compileCustom(r customRule) (Pattern, error) {
	if r.Name == "" {
		return Pattern{}, fmt.Errorf("missing name")
	}
	re, err := regexp.Compile(`(?im)` + r.Regex)
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid regex: %w", err)
	}
	var fps []*regexp.Regexp
	for _, fp := range r.FalsePositives {
		fpRe, err := regexp.Compile(`(?i)` + fp)
		if err != nil {
			return Pattern{}, fmt.Errorf("invalid false-positive regex %q: %w", fp, err)
		}
		fps = append(fps, fpRe)
	}
	conf := r.Confidence
	if conf <= 0 || conf > 1 {
		conf = 0.9
	}
	return Pattern{
		Name:           r.Name,
		Regex:          re,
		Category:       normalizeCategory(r.Category),
		Severity:       normalizeSeverity(r.Severity),
		Description:    r.Description,
		Confidence:     conf,
		FalsePositives: fps,
	}, nil
}

func normalizeCategory(s string) types.Category {
	switch types.Category(s) {
	case types.CatAWS, types.CatGoogle, types.CatAzure, types.CatGitHub,
		types.CatPrivateKey, types.CatJWT, types.CatDatabase,
		types.CatAPIKey, types.CatPassword, types.CatOAuth:
		return types.Category(s)
	default:
		return types.CatGeneric
	}
}

func normalizeSeverity(s string) types.Severity {
	switch types.Severity(s) {
	case types.SevCritical, types.SevHigh, types.SevLow:
		return types.Severity(s)
	default:
		return types.SevMedium
	}
}
