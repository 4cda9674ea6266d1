// Package engine orchestrates the detectors over a directory tree: it
// enumerates eligible files, fans them out to a worker pool, runs the
// pattern pass and then the entropy pass per file, and collapses the
// combined findings by secret hash.
package engine

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/secretscope/secretscope/internal/entropy"
	"github.com/secretscope/secretscope/internal/ignore"
	"github.com/secretscope/secretscope/internal/patterns"
	"github.com/secretscope/secretscope/internal/types"
)

// DefaultMaxFileSize caps the bytes read per file.
const DefaultMaxFileSize = 10 * 1024 * 1024

// entropyPassCutoff disables the entropy pass for files where the pattern
// pass already found this many secrets; beyond it the extra candidates are
// nearly always duplicates restated in another shape.
const entropyPassCutoff = 10

// Options tunes one Scanner. The zero value gives full defaults.
type Options struct {
	IncludePatterns    []string
	ExcludePatterns    []string
	ExcludedDirs       []string
	ExcludedExtensions []string
	MaxFileSize        int64
	Workers            int
	Recursive          bool
	DisableEntropy     bool
	CustomRulesPath    string
}

// Scanner is safe for concurrent use; all mutable state lives in the
// per-scan job bookkeeping.
type Scanner struct {
	opts     Options
	filter   fileFilter
	patterns []patterns.Pattern
}

// New builds a Scanner. Custom rule problems are reported, not fatal: a
// broken rule is skipped while the rest of the file loads.
func New(opts Options) (*Scanner, []string, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	ps := patterns.All()
	var problems []string
	if opts.CustomRulesPath != "" {
		loaded, probs, err := patterns.LoadCustom(opts.CustomRulesPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading custom rules: %w", err)
		}
		ps = loaded
		problems = probs
	}
	return &Scanner{
		opts:     opts,
		filter:   newFileFilter(opts.ExcludedDirs, opts.ExcludedExtensions, opts.MaxFileSize),
		patterns: ps,
	}, problems, nil
}

type fileOutcome struct {
	path     string
	findings []types.Finding
	err      error
}

// ScanDirectory walks root, scans every eligible file, and returns the
// deduplicated aggregate. Only a root that cannot be enumerated at all is
// a hard error; per-file failures land in the result's Errors.
func (s *Scanner) ScanDirectory(ctx context.Context, root string) (*types.ScanResult, error) {
	started := time.Now()

	ign, err := ignore.Load(root)
	if err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}

	walked, err := s.collectFiles(root, s.opts.Recursive, ign)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", root, err)
	}

	outcomes := make([]fileOutcome, len(walked.paths))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < s.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				label := walked.paths[i]
				if rel, rerr := filepath.Rel(root, label); rerr == nil {
					label = filepath.ToSlash(rel)
				}
				fs, ferr := s.scanFileContent(walked.paths[i], label)
				outcomes[i] = fileOutcome{path: label, findings: fs, err: ferr}
			}
		}()
	}

	dispatch := true
	for i := range walked.paths {
		if dispatch {
			select {
			case jobs <- i:
			case <-ctx.Done():
				dispatch = false
			}
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := s.aggregate(root, outcomes, len(walked.paths), started)
	return result, nil
}

// ScanFile runs the detectors over a single file and aggregates the same
// way a one-file directory scan would.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*types.ScanResult, error) {
	started := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.filter.ShouldSkip(path) {
		return s.aggregate(path, nil, 0, started), nil
	}
	findings, err := s.scanFileContent(path, path)
	outcome := fileOutcome{path: path, findings: findings, err: err}
	return s.aggregate(path, []fileOutcome{outcome}, 1, started), nil
}

// scanFileContent runs both detector passes over one file. The pattern
// pass always runs; the entropy pass is skipped for files the patterns
// already covered heavily, and never re-reports a value the patterns
// found. label is the path recorded on findings and used for the
// test-file and path-context heuristics; for directory scans it is
// relative to the scan root.
func (s *Scanner) scanFileContent(path, label string) ([]types.Finding, error) {
	data, err := readEligible(path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	content := string(data)
	lines := strings.Split(content, "\n")

	findings := s.patternPass(label, content, lines)

	if !s.opts.DisableEntropy && len(findings) < entropyPassCutoff {
		seen := make(map[string]bool, len(findings))
		for _, f := range findings {
			seen[f.SecretHash] = true
		}
		findings = append(findings, s.entropyPass(label, content, lines, seen)...)
	}
	return findings, nil
}

func (s *Scanner) patternPass(path, content string, lines []string) []types.Finding {
	var out []types.Finding
	for pi := range s.patterns {
		p := &s.patterns[pi]
		for _, idx := range p.Regex.FindAllStringSubmatchIndex(content, -1) {
			value := submatchValue(content, idx)
			if value == "" || p.IsFalsePositive(content[idx[0]:idx[1]]) {
				continue
			}
			lineNumber, col := locate(content, idx[0])
			f := newFinding(path, value, lineNumber, col, col+len(value), lines)
			f.Type = typeSlug(p.Name)
			f.Category = p.Category
			f.Severity = p.Severity
			f.MatchRule = p.Name
			f.Confidence = p.Confidence
			f.EntropyScore = math.Round(entropy.Shannon(value)*100) / 100
			f.RiskScore = riskScore(p.Severity, p.Confidence, path, f.IsTestFile)
			out = append(out, f)
		}
	}
	return out
}

func (s *Scanner) entropyPass(path, content string, lines []string, seen map[string]bool) []types.Finding {
	var out []types.Finding
	for _, ef := range entropy.AnalyzeContent(content) {
		hash := hashSecret(ef.Value)
		if seen[hash] {
			continue
		}
		seen[hash] = true

		risk, score := entropy.RiskFromEntropy(ef.Entropy, ef.Charset)

		f := newFinding(path, ef.Value, ef.LineNumber, ef.Column, ef.Column+len(ef.Value), lines)
		if f.IsTestFile {
			score *= 0.5
		}
		f.Type = "high_entropy_string"
		f.Category = types.CatGeneric
		f.Severity = severityFromRisk(risk)
		f.MatchRule = fmt.Sprintf("Entropy Analysis (%s)", ef.Charset)
		f.Confidence = 0.6
		f.EntropyScore = ef.Entropy
		f.RiskScore = score
		f.Metadata = map[string]string{"charset": ef.Charset}
		out = append(out, f)
	}
	return out
}

func severityFromRisk(risk string) types.Severity {
	switch risk {
	case "high":
		return types.SevHigh
	case "medium":
		return types.SevMedium
	default:
		return types.SevLow
	}
}

// submatchValue returns capture group 1 when the pattern has one, else the
// whole match.
func submatchValue(content string, idx []int) string {
	start, end := idx[0], idx[1]
	if len(idx) >= 4 && idx[2] >= 0 {
		start, end = idx[2], idx[3]
	}
	return content[start:end]
}

func typeSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func roundOne(x float64) float64 {
	return math.Round(x*10) / 10
}

// locate converts a byte offset into a 1-based line number and 0-based
// column.
func locate(content string, offset int) (int, int) {
	line := 1 + strings.Count(content[:offset], "\n")
	col := offset
	if i := strings.LastIndexByte(content[:offset], '\n'); i >= 0 {
		col = offset - i - 1
	}
	return line, col
}

// aggregate deduplicates by secret hash in file order (first occurrence
// wins) and fills in the scan-level counters.
func (s *Scanner) aggregate(target string, outcomes []fileOutcome, filesScanned int, started time.Time) *types.ScanResult {
	result := &types.ScanResult{
		ScanID:       uuid.NewString(),
		Target:       target,
		Status:       types.StatusCompleted,
		Findings:     []types.Finding{},
		FilesScanned: filesScanned,
		StartedAt:    started,
	}

	seen := make(map[string]bool)
	for _, o := range outcomes {
		if o.err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", o.path, o.err))
			continue
		}
		for _, f := range o.findings {
			if seen[f.SecretHash] {
				continue
			}
			seen[f.SecretHash] = true
			result.Findings = append(result.Findings, f)
		}
	}

	var total float64
	for _, f := range result.Findings {
		total += f.RiskScore
		switch f.Severity {
		case types.SevCritical, types.SevHigh:
			result.HighRiskCount++
		case types.SevMedium:
			result.MediumRiskCount++
		default:
			result.LowRiskCount++
		}
	}
	result.TotalFindings = len(result.Findings)
	if result.TotalFindings > 0 {
		result.RiskScore = roundOne(total / float64(result.TotalFindings))
	}
	if len(result.Errors) > 0 {
		result.Status = types.StatusCompletedWithErrors
	}

	sort.SliceStable(result.Findings, func(i, j int) bool {
		return result.Findings[i].RiskScore > result.Findings[j].RiskScore
	})

	result.CompletedAt = time.Now()
	result.DurationSeconds = result.CompletedAt.Sub(started).Seconds()
	return result
}
