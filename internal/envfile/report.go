package envfile

import (
	"sort"
	"time"

	"github.com/secretscope/secretscope/internal/types"
)

// ReportSummary aggregates counts across analyzed files.
type ReportSummary struct {
	TotalFilesAnalyzed int            `json:"total_files_analyzed"`
	TotalVariables     int            `json:"total_variables"`
	TotalSecretsFound  int            `json:"total_secrets_found"`
	RiskDistribution   map[string]int `json:"risk_distribution"`
}

// ReportFile is the per-file line of the summary report.
type ReportFile struct {
	Path      string `json:"path"`
	Variables int    `json:"variables"`
	Secrets   int    `json:"secrets"`
	HighRisk  int    `json:"high_risk"`
}

// Report is the cross-file rollup of a directory analysis.
type Report struct {
	Summary         ReportSummary  `json:"summary"`
	SecretTypes     map[string]int `json:"secret_types"`
	Files           []ReportFile   `json:"files"`
	Recommendations []string       `json:"recommendations"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// BuildReport rolls multiple analysis results into one report.
func BuildReport(results []*types.EnvAnalysisResult) *Report {
	rep := &Report{
		Summary: ReportSummary{
			TotalFilesAnalyzed: len(results),
			RiskDistribution:   map[string]int{},
		},
		SecretTypes: map[string]int{},
		GeneratedAt: time.Now().UTC(),
	}

	recs := map[string]bool{}
	for _, r := range results {
		rep.Summary.TotalVariables += r.TotalVariables
		rep.Summary.TotalSecretsFound += r.SecretsFound
		rep.Summary.RiskDistribution["critical_high"] += r.HighRiskCount
		rep.Summary.RiskDistribution["medium"] += r.MediumRiskCount
		rep.Summary.RiskDistribution["low"] += r.LowRiskCount

		for _, rec := range r.Recommendations {
			recs[rec] = true
		}
		for _, v := range r.Variables {
			if v.IsSecret && v.SecretType != "" {
				rep.SecretTypes[v.SecretType]++
			}
		}
		rep.Files = append(rep.Files, ReportFile{
			Path:      r.FilePath,
			Variables: r.TotalVariables,
			Secrets:   r.SecretsFound,
			HighRisk:  r.HighRiskCount,
		})
	}

	rep.Recommendations = make([]string, 0, len(recs))
	for rec := range recs {
		rep.Recommendations = append(rep.Recommendations, rec)
	}
	sort.Strings(rep.Recommendations)
	return rep
}
