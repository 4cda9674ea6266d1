package secretscope

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/secretscope/secretscope/internal/patterns"
	"github.com/secretscope/secretscope/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List the built-in detection patterns",
		RunE:  runDetectors,
	}
	rootCmd.AddCommand(cmd)
}

type detectorInfo struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Severity   string  `json:"severity"`
	Confidence float64 `json:"confidence"`
}

func runDetectors(_ *cobra.Command, _ []string) error {
	all := patterns.All()
	if flagJSON {
		infos := make([]detectorInfo, 0, len(all))
		for _, p := range all {
			infos = append(infos, detectorInfo{
				Name:       p.Name,
				Category:   string(p.Category),
				Severity:   string(p.Severity),
				Confidence: p.Confidence,
			})
		}
		return report.WriteJSON(os.Stdout, infos)
	}
	for _, p := range all {
		fmt.Printf("%-40s %-12s %-8s %.2f\n", p.Name, p.Category, p.Severity, p.Confidence)
	}
	fmt.Printf("\n%d patterns\n", len(all))
	return nil
}
