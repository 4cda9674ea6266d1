package secretscope

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON    bool
	flagSARIF   bool
	flagNoColor bool
	flagWorkers int

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the secretscope CLI.
var rootCmd = &cobra.Command{
	Use:           "secretscope",
	Short:         "Find exposed secrets in code, env files and buckets",
	Long:          "Secretscope scans directories, env files and S3 buckets for hardcoded credentials using pattern matching and entropy analysis.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the secretscope CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "worker count (0 = number of CPUs)")
}
