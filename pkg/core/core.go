package core

import (
	"context"

	"github.com/secretscope/secretscope/internal/engine"
	"github.com/secretscope/secretscope/internal/envfile"
	"github.com/secretscope/secretscope/internal/patterns"
	"github.com/secretscope/secretscope/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Options           = engine.Options
	Finding           = types.Finding
	ScanResult        = types.ScanResult
	BucketScanResult  = types.BucketScanResult
	EnvAnalysisResult = types.EnvAnalysisResult
)

// Scan is the stable entrypoint for other programs. The zero Options
// value scans only the top level of root; set Recursive to descend.
func Scan(ctx context.Context, root string, opts Options) (*ScanResult, error) {
	s, _, err := engine.New(opts)
	if err != nil {
		return nil, err
	}
	return s.ScanDirectory(ctx, root)
}

// AnalyzeEnv analyzes one env file.
func AnalyzeEnv(path string) (*EnvAnalysisResult, error) {
	return envfile.AnalyzeFile(path)
}

// DetectorNames returns the names of the built-in detection patterns.
// This is exposed for convenience to avoid importing internals directly.
func DetectorNames() []string { return patterns.Names() }
