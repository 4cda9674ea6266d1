package secretscope

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/secretscope/secretscope/internal/cache"
	"github.com/secretscope/secretscope/internal/config"
	"github.com/secretscope/secretscope/internal/engine"
	"github.com/secretscope/secretscope/internal/report"
	"github.com/secretscope/secretscope/internal/types"
)

var (
	flagPath           string
	flagInclude        string
	flagExclude        string
	flagMaxBytes       int64
	flagNoEntropy      bool
	flagNoRecursive    bool
	flagCustomRules    string
	flagShowSnippet    bool
	flagNoCache        bool
	flagFailOnFindings bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory or file for secrets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to scan")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = 10MB default)")
	cmd.Flags().BoolVar(&flagNoEntropy, "no-entropy", false, "disable the entropy pass")
	cmd.Flags().BoolVar(&flagNoRecursive, "no-recursive", false, "do not descend into subdirectories")
	cmd.Flags().StringVar(&flagCustomRules, "rules", "", "path to a custom rules YAML file")
	cmd.Flags().BoolVar(&flagShowSnippet, "snippets", false, "print code snippets for each finding")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "do not save the scan result for 'last'")
	cmd.Flags().BoolVar(&flagFailOnFindings, "fail-on-findings", false, "exit non-zero when secrets are found")
}

func runScan(cmd *cobra.Command, args []string) error {
	target := flagPath
	if len(args) == 1 {
		target = args[0]
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	// CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, gerr := config.LoadGlobal(); gerr == nil {
		gcfg = c
	}
	if c, lerr := config.LoadLocal(abs); lerr == nil {
		lcfg = c
	}
	cfg := config.Merge(gcfg, lcfg)

	opts := engine.Options{
		IncludePatterns: splitGlobs(flagInclude, cfg.Include),
		ExcludePatterns: splitGlobs(flagExclude, cfg.Exclude),
		ExcludedDirs:    cfg.ExcludeDirs,
		MaxFileSize:     flagMaxBytes,
		Workers:         flagWorkers,
		Recursive:       !flagNoRecursive,
		DisableEntropy:  flagNoEntropy,
		CustomRulesPath: flagCustomRules,
	}
	if opts.MaxFileSize == 0 && cfg.MaxBytes != nil {
		opts.MaxFileSize = *cfg.MaxBytes
	}
	if opts.Workers == 0 && cfg.Workers != nil {
		opts.Workers = *cfg.Workers
	}
	if !flagNoEntropy && cfg.NoEntropy != nil {
		opts.DisableEntropy = *cfg.NoEntropy
	}
	if opts.CustomRulesPath == "" && cfg.CustomRules != nil {
		opts.CustomRulesPath = *cfg.CustomRules
	}
	if !cmd.Flags().Changed("no-recursive") && cfg.Recursive != nil {
		opts.Recursive = *cfg.Recursive
	}

	scanner, problems, err := engine.New(opts)
	if err != nil {
		return err
	}
	for _, p := range problems {
		fmt.Fprintln(os.Stderr, "warning:", p)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var result *types.ScanResult
	if info.IsDir() {
		r, serr := scanner.ScanDirectory(ctx, abs)
		if serr != nil {
			return serr
		}
		result = r
	} else {
		r, serr := scanner.ScanFile(ctx, abs)
		if serr != nil {
			return serr
		}
		result = r
	}

	if info.IsDir() && !flagNoCache {
		if cerr := cache.SaveResult(abs, result); cerr != nil {
			fmt.Fprintln(os.Stderr, "warning: could not save scan result:", cerr)
		}
	}

	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, result, version); err != nil {
			return err
		}
	case flagJSON:
		if err := report.WriteJSON(os.Stdout, result); err != nil {
			return err
		}
	default:
		report.PrintResult(os.Stdout, result, report.PrintOptions{
			NoColor:     flagNoColor || noColorConfigured(cfg),
			ShowSnippet: flagShowSnippet,
		})
	}

	failOn := flagFailOnFindings
	if !failOn && cfg.FailOnFindings != nil {
		failOn = *cfg.FailOnFindings
	}
	if failOn && result.TotalFindings > 0 {
		return fmt.Errorf("%d findings", result.TotalFindings)
	}
	return nil
}

func splitGlobs(flag string, fallback []string) []string {
	if flag == "" {
		return fallback
	}
	parts := strings.Split(flag, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func noColorConfigured(cfg config.FileConfig) bool {
	return cfg.NoColor != nil && *cfg.NoColor
}
