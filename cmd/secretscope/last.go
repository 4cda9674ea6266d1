package secretscope

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/secretscope/secretscope/internal/cache"
	"github.com/secretscope/secretscope/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "last [path]",
		Short: "Show the last saved scan result for a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLast,
	}
	rootCmd.AddCommand(cmd)
}

func runLast(_ *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	result, err := cache.LoadResult(abs)
	if err != nil {
		return fmt.Errorf("no saved scan for %s (run 'secretscope scan' first)", abs)
	}

	if flagJSON {
		return report.WriteJSON(os.Stdout, result)
	}
	fmt.Printf("Scan %s of %s (%s)\n\n", result.ScanID, result.Target, result.CompletedAt.Format("2006-01-02 15:04:05"))
	report.PrintResult(os.Stdout, result, report.PrintOptions{NoColor: flagNoColor})
	return nil
}
