package secretscope

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/secretscope/secretscope/internal/envfile"
	"github.com/secretscope/secretscope/internal/report"
)

var (
	flagEnvDir   bool
	flagEnvGlobs string
)

func init() {
	cmd := &cobra.Command{
		Use:   "env <path>",
		Short: "Analyze env files for exposed secrets",
		Long:  "Analyze a dotenv file, or with --dir every env-shaped file under a directory, classifying each variable by service shape, key name and entropy.",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnv,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().BoolVar(&flagEnvDir, "dir", false, "treat the path as a directory and analyze all env files in it")
	cmd.Flags().StringVar(&flagEnvGlobs, "globs", "", "comma-separated filename globs for --dir (default: .env, .env.*, *.env, env, environment)")
}

func runEnv(cmd *cobra.Command, args []string) error {
	if !flagEnvDir {
		res, err := envfile.AnalyzeFile(args[0])
		if err != nil {
			return err
		}
		if flagJSON {
			return report.WriteJSON(os.Stdout, res)
		}
		report.PrintEnvResult(os.Stdout, res, report.PrintOptions{NoColor: flagNoColor})
		return nil
	}

	var globs []string
	if flagEnvGlobs != "" {
		globs = strings.Split(flagEnvGlobs, ",")
		for i := range globs {
			globs[i] = strings.TrimSpace(globs[i])
		}
	}
	results, problems, err := envfile.AnalyzeDirectory(args[0], globs)
	if err != nil {
		return err
	}
	for _, p := range problems {
		fmt.Fprintln(os.Stderr, "warning:", p)
	}

	rep := envfile.BuildReport(results)
	if flagJSON {
		return report.WriteJSON(os.Stdout, rep)
	}
	for _, res := range results {
		report.PrintEnvResult(os.Stdout, res, report.PrintOptions{NoColor: flagNoColor})
		fmt.Fprintln(os.Stdout)
	}
	fmt.Fprintf(os.Stdout, "Analyzed %d files: %d variables, %d secrets\n",
		rep.Summary.TotalFilesAnalyzed, rep.Summary.TotalVariables, rep.Summary.TotalSecretsFound)
	return nil
}
