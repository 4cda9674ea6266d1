// Package report renders scan results for terminals and writes the
// machine-readable export formats.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/secretscope/secretscope/internal/types"
)

var (
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

// PrintOptions tunes the terminal rendering.
type PrintOptions struct {
	NoColor     bool
	ShowSnippet bool
}

func styleSeverity(s types.Severity, noColor bool) string {
	if noColor {
		return string(s)
	}
	switch s {
	case types.SevCritical:
		return criticalStyle.Render(string(s))
	case types.SevHigh:
		return highStyle.Render(string(s))
	case types.SevMedium:
		return mediumStyle.Render(string(s))
	default:
		return lowStyle.Render(string(s))
	}
}

// PrintResult renders one scan result as a findings table plus a summary
// footer.
func PrintResult(w io.Writer, result *types.ScanResult, opts PrintOptions) {
	if result.TotalFindings == 0 {
		fmt.Fprintln(w, "No secrets found.")
	} else {
		table := tablewriter.NewTable(w)
		table.Header("Severity", "Type", "Location", "Secret", "Risk")
		for _, f := range result.Findings {
			table.Append([]string{
				styleSeverity(f.Severity, opts.NoColor),
				f.MatchRule,
				fmt.Sprintf("%s:%d", f.FilePath, f.LineNumber),
				f.SecretMasked,
				fmt.Sprintf("%.1f", f.RiskScore),
			})
		}
		table.Render()

		if opts.ShowSnippet {
			for _, f := range result.Findings {
				fmt.Fprintf(w, "\n%s:%d\n%s\n", f.FilePath, f.LineNumber, f.CodeSnippet)
			}
		}
	}

	fmt.Fprintln(w)
	title := "Scan summary"
	if !opts.NoColor {
		title = headerStyle.Render(title)
	}
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "  Files scanned:  %d\n", result.FilesScanned)
	fmt.Fprintf(w, "  Findings:       %d (high risk: %d, medium: %d, low: %d)\n",
		result.TotalFindings, result.HighRiskCount, result.MediumRiskCount, result.LowRiskCount)
	fmt.Fprintf(w, "  Risk score:     %.1f\n", result.RiskScore)
	fmt.Fprintf(w, "  Duration:       %.2fs\n", result.DurationSeconds)
	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "  Errors:         %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "    %s\n", e)
		}
	}
}

// PrintBucketResult adds the object-store counters to the standard
// rendering.
func PrintBucketResult(w io.Writer, result *types.BucketScanResult, opts PrintOptions) {
	PrintResult(w, &result.ScanResult, opts)
	fmt.Fprintf(w, "  Bucket:         %s\n", result.BucketName)
	fmt.Fprintf(w, "  Objects:        %d scanned, %d skipped\n",
		result.ObjectsScanned, len(result.SkippedObjects))
	fmt.Fprintf(w, "  Bytes scanned:  %d\n", result.TotalSizeScanned)
}

// PrintEnvResult renders an env-file analysis.
func PrintEnvResult(w io.Writer, result *types.EnvAnalysisResult, opts PrintOptions) {
	if result.SecretsFound == 0 {
		fmt.Fprintf(w, "%s: %d variables, no secrets found.\n", result.FilePath, result.TotalVariables)
		return
	}

	fmt.Fprintf(w, "%s\n", result.FilePath)
	table := tablewriter.NewTable(w)
	table.Header("Line", "Key", "Risk", "Type", "Value")
	for _, v := range result.Variables {
		if !v.IsSecret {
			continue
		}
		table.Append([]string{
			fmt.Sprintf("%d", v.LineNumber),
			v.Key,
			styleSeverity(types.Severity(v.RiskLevel), opts.NoColor),
			v.SecretType,
			v.Value,
		})
	}
	table.Render()

	fmt.Fprintf(w, "\n%d variables, %d secrets (high: %d, medium: %d, low: %d)\n",
		result.TotalVariables, result.SecretsFound,
		result.HighRiskCount, result.MediumRiskCount, result.LowRiskCount)
	if len(result.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
}
