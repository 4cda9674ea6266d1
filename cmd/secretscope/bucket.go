package secretscope

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/secretscope/secretscope/internal/config"
	"github.com/secretscope/secretscope/internal/engine"
	"github.com/secretscope/secretscope/internal/remote"
	"github.com/secretscope/secretscope/internal/report"
)

var (
	flagBucketPrefix   string
	flagBucketRegion   string
	flagBucketMaxFiles int
	flagBucketExts     string
	flagBucketKey      string
	flagSimulate       bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "bucket <name>",
		Short: "Scan an S3 bucket for secrets",
		Long:  "Scan the objects of an S3 bucket. With --simulate a deterministic built-in fixture set is scanned instead of live S3, which needs no credentials or network.",
		Args:  cobra.ExactArgs(1),
		RunE:  runBucket,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagBucketPrefix, "prefix", "", "only scan keys with this prefix")
	cmd.Flags().StringVar(&flagBucketRegion, "region", "", "AWS region")
	cmd.Flags().IntVar(&flagBucketMaxFiles, "max-files", 0, "cap the number of objects scanned")
	cmd.Flags().StringVar(&flagBucketExts, "extensions", "", "comma-separated extension allow-list (e.g. .py,.env)")
	cmd.Flags().StringVar(&flagBucketKey, "key", "", "scan a single object key instead of the whole bucket")
	cmd.Flags().BoolVar(&flagSimulate, "simulate", false, "use the built-in simulated bucket instead of live S3")
}

func runBucket(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var fcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		fcfg = c
	}

	simulate := flagSimulate
	region := flagBucketRegion
	maxFiles := flagBucketMaxFiles
	var exts []string
	if flagBucketExts != "" {
		for _, e := range strings.Split(flagBucketExts, ",") {
			if e = strings.TrimSpace(e); e != "" {
				exts = append(exts, strings.ToLower(e))
			}
		}
	}
	if s3cfg := fcfg.S3; s3cfg != nil {
		if !simulate && s3cfg.Simulate != nil {
			simulate = *s3cfg.Simulate
		}
		if region == "" && s3cfg.Region != nil {
			region = *s3cfg.Region
		}
		if maxFiles == 0 && s3cfg.MaxFiles != nil {
			maxFiles = *s3cfg.MaxFiles
		}
		if exts == nil && s3cfg.Extensions != nil {
			exts = s3cfg.Extensions
		}
	}

	var src remote.ObjectSource
	if simulate {
		src = remote.NewSimulatedSource()
	} else {
		s3src, err := remote.NewS3Source(ctx, region)
		if err != nil {
			return err
		}
		src = s3src
	}

	scanner, problems, err := engine.New(engine.Options{Workers: flagWorkers, Recursive: true})
	if err != nil {
		return err
	}
	for _, p := range problems {
		cmd.PrintErrln("warning:", p)
	}

	b := remote.NewBucketScanner(src, scanner)

	if flagBucketKey != "" {
		findings, err := b.ScanObject(ctx, args[0], flagBucketKey)
		if err != nil {
			return err
		}
		return report.WriteJSON(os.Stdout, findings)
	}

	result, err := b.ScanBucket(ctx, remote.ScanConfig{
		Bucket:         args[0],
		Prefix:         flagBucketPrefix,
		MaxFiles:       maxFiles,
		FileExtensions: exts,
	})
	if err != nil {
		return err
	}

	if flagJSON {
		return report.WriteJSON(os.Stdout, result)
	}
	report.PrintBucketResult(os.Stdout, result, report.PrintOptions{NoColor: flagNoColor})
	return nil
}
