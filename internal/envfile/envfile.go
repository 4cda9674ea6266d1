// Package envfile analyzes dotenv-style files: it parses KEY=VALUE
// entries, tells placeholders from real values, and classifies each value
// by service shape, key-name sensitivity, and entropy.
package envfile

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/secretscope/secretscope/internal/entropy"
	"github.com/secretscope/secretscope/internal/patterns"
	"github.com/secretscope/secretscope/internal/types"
)

const (
	// entropyThreshold is the floor for flagging a sensitively named
	// variable on entropy alone.
	entropyThreshold = 3.5

	// minSecretLength: shorter values are never classified.
	minSecretLength = 8
)

var sensitiveKeyRes = compileAll(
	`(?i)password`, `(?i)secret`, `(?i)api[_-]?key`, `(?i)access[_-]?key`,
	`(?i)private[_-]?key`, `(?i)token`, `(?i)auth`, `(?i)credential`,
	`(?i)jwt`, `(?i)bearer`, `(?i)oauth`, `(?i)connection[_-]?string`,
	`(?i)database[_-]?url`, `(?i)redis[_-]?url`, `(?i)mongo[_-]?uri`,
	`(?i)smtp[_-]?pass`, `(?i)encryption[_-]?key`, `(?i)signing[_-]?key`,
	`(?i)webhook[_-]?secret`, `(?i)client[_-]?secret`, `(?i)app[_-]?secret`,
)

var placeholderRes = compileAll(
	`(?i)^your[_-]`, `(?i)^<.*>$`, `(?i)^\$\{.*\}$`, `(?i)^\{\{.*\}\}$`,
	`(?i)^xxx+$`, `(?i)^\*+$`, `(?i)^changeme`, `(?i)^placeholder`,
	`(?i)^example`, `(?i)^todo`, `(?i)^CHANGE_ME`, `(?i)^REPLACE_ME`,
	`(?i)^INSERT_`, `(?i)__REPLACE__`,
)

var safeValues = map[string]bool{
	"true": true, "false": true, "yes": true, "no": true, "on": true, "off": true,
	"development": true, "production": true, "staging": true, "test": true, "local": true,
	"localhost": true, "127.0.0.1": true, "0.0.0.0": true,
	"debug": true, "info": true, "warning": true, "error": true,
	"utf-8": true, "utf8": true, "ascii": true,
	"json": true, "xml": true, "html": true, "text": true,
}

// servicePattern ties an uppercase key fragment to the exact shape that
// service's credential takes.
type servicePattern struct {
	key  string
	re   *regexp.Regexp
	typ  string
	risk string
}

var servicePatterns = []servicePattern{
	{"AWS_ACCESS_KEY_ID", regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`), "AWS Access Key", "critical"},
	{"AWS_SECRET_ACCESS_KEY", regexp.MustCompile(`^[A-Za-z0-9/+=]{40}$`), "AWS Secret Key", "critical"},
	{"GITHUB_TOKEN", regexp.MustCompile(`^(ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9_]+$`), "GitHub Token", "high"},
	{"STRIPE_SECRET_KEY", regexp.MustCompile(`^sk_(live|test)_[A-Za-z0-9]+$`), "Stripe Secret Key", "critical"},
	{"GOOGLE_API_KEY", regexp.MustCompile(`^AIza[0-9A-Za-z\-_]{35}$`), "Google API Key", "high"},
	{"SLACK_TOKEN", regexp.MustCompile(`^xox[baprs]-[A-Za-z0-9\-]+$`), "Slack Token", "high"},
	{"SENDGRID_API_KEY", regexp.MustCompile(`^SG\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`), "SendGrid API Key", "high"},
	{"TWILIO_AUTH_TOKEN", regexp.MustCompile(`^[a-f0-9]{32}$`), "Twilio Auth Token", "high"},
}

var envLineRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

func compileAll(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		res[i] = regexp.MustCompile(e)
	}
	return res
}

type rawVar struct {
	key   string
	value string
	line  int
}

// parse reads dotenv content: KEY=value with optional quoting and an
// optional export prefix; comments and malformed lines are skipped.
func parse(content string) []rawVar {
	var out []rawVar
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(line[len("export "):])
		}
		m := envLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[2])
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		out = append(out, rawVar{key: m[1], value: value, line: i + 1})
	}
	return out
}

func isPlaceholder(value string) bool {
	if value == "" {
		return true
	}
	for _, re := range placeholderRes {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

func isSensitiveKey(key string) bool {
	for _, re := range sensitiveKeyRes {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

// matchService checks the per-service table by key fragment first, then
// falls back to the shared pattern library against the bare value.
func matchService(key, value string) (string, string, bool) {
	upper := strings.ToUpper(key)
	for _, sp := range servicePatterns {
		if strings.Contains(upper, sp.key) && sp.re.MatchString(value) {
			return sp.typ, sp.risk, true
		}
	}
	for _, p := range patterns.All() {
		if p.Regex.MatchString(value) {
			return p.Name, string(p.Severity), true
		}
	}
	return "", "", false
}

// classify decides whether a value is a secret and at what risk. The
// entropy score is reported even for values that end up unclassified.
func classify(key, value string) (isSecret bool, secretType, risk string, score float64) {
	if len(value) < minSecretLength {
		return false, "", "info", 0
	}
	if isPlaceholder(value) {
		return false, "", "info", 0
	}
	if safeValues[strings.ToLower(value)] {
		return false, "", "info", 0
	}

	score = entropy.Shannon(value)

	if typ, r, ok := matchService(key, value); ok {
		return true, typ, r, score
	}

	if isSensitiveKey(key) {
		if score >= entropyThreshold {
			return true, "Potential Secret", "medium", score
		}
		if len(value) >= 20 {
			return true, "Possible Secret", "low", score
		}
	}

	if score >= 4.5 && len(value) >= 24 {
		return true, "High Entropy String", "medium", score
	}

	return false, "", "info", score
}

func maskValue(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

func recommendations(v types.EnvVariable) []string {
	if !v.IsSecret || v.IsPlaceholder {
		return nil
	}
	recs := []string{
		fmt.Sprintf("Move %s to a secure secrets manager (e.g. HashiCorp Vault, AWS Secrets Manager)", v.Key),
	}
	if v.RiskLevel == "critical" || v.RiskLevel == "high" {
		typ := v.SecretType
		if typ == "" {
			typ = "secret"
		}
		recs = append(recs,
			fmt.Sprintf("Rotate the %s immediately if this file was committed to version control", typ),
			"Add this file to .gitignore if not already",
		)
	}
	lowerKey := strings.ToLower(v.Key)
	if strings.Contains(lowerKey, "password") {
		recs = append(recs, "Consider using environment-specific password management")
	}
	if strings.Contains(lowerKey, "key") && strings.Contains(lowerKey, "api") {
		recs = append(recs, "Implement API key rotation policy")
	}
	return recs
}

// AnalyzeContent classifies every variable in the given dotenv content.
func AnalyzeContent(content, filePath string) *types.EnvAnalysisResult {
	raws := parse(content)

	result := &types.EnvAnalysisResult{
		FilePath:   filePath,
		Variables:  make([]types.EnvVariable, 0, len(raws)),
		AnalyzedAt: time.Now().UTC(),
	}
	allRecs := map[string]bool{}

	for _, r := range raws {
		secret, typ, risk, score := classify(r.key, r.value)

		v := types.EnvVariable{
			Key:           r.key,
			Value:         r.value,
			LineNumber:    r.line,
			IsSecret:      secret,
			RiskLevel:     "info",
			EntropyScore:  score,
			IsPlaceholder: isPlaceholder(r.value),
		}
		if secret {
			v.Value = maskValue(r.value)
			v.SecretType = typ
			v.RiskLevel = risk
		}
		v.Recommendations = recommendations(v)
		for _, rec := range v.Recommendations {
			allRecs[rec] = true
		}
		result.Variables = append(result.Variables, v)
	}

	for _, v := range result.Variables {
		if !v.IsSecret || v.IsPlaceholder {
			continue
		}
		result.SecretsFound++
		switch v.RiskLevel {
		case "critical", "high":
			result.HighRiskCount++
		case "medium":
			result.MediumRiskCount++
		case "low":
			result.LowRiskCount++
		}
	}
	result.TotalVariables = len(result.Variables)

	if result.SecretsFound > 0 {
		allRecs["Consider using a .env.example file with placeholder values for documentation"] = true
		allRecs["Ensure .env files are listed in .gitignore"] = true
		if result.HighRiskCount > 0 {
			allRecs["CRITICAL: Review your Git history for accidentally committed secrets"] = true
		}
	}

	result.Recommendations = make([]string, 0, len(allRecs))
	for rec := range allRecs {
		result.Recommendations = append(result.Recommendations, rec)
	}
	sort.Strings(result.Recommendations)
	return result
}

// AnalyzeFile reads and analyzes one env file.
func AnalyzeFile(path string) (*types.EnvAnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return AnalyzeContent(string(data), path), nil
}

// defaultGlobs are the file names treated as env files when scanning a
// directory.
var defaultGlobs = []string{".env", ".env.*", "*.env", "env", "environment"}

// AnalyzeDirectory analyzes every env-shaped file under dir. Unreadable
// files are reported in the second return value, not fatal.
func AnalyzeDirectory(dir string, globs []string) ([]*types.EnvAnalysisResult, []string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, fmt.Errorf("directory %s: %w", dir, err)
	}
	if globs == nil {
		globs = defaultGlobs
	}

	var results []*types.EnvAnalysisResult
	var problems []string
	seen := map[string]bool{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		matched := false
		for _, g := range globs {
			if ok, _ := filepath.Match(g, name); ok {
				matched = true
				break
			}
		}
		if !matched || seen[path] {
			return nil
		}
		seen[path] = true
		res, aerr := AnalyzeFile(path)
		if aerr != nil {
			problems = append(problems, aerr.Error())
			return nil
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return results, problems, nil
}
