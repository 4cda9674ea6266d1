package remote

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/secretscope/secretscope/internal/engine"
	"github.com/secretscope/secretscope/internal/types"
)

// BucketScanner materializes bucket objects locally and runs the detector
// engine over each one.
type BucketScanner struct {
	src     ObjectSource
	scanner *engine.Scanner
}

func NewBucketScanner(src ObjectSource, scanner *engine.Scanner) *BucketScanner {
	return &BucketScanner{src: src, scanner: scanner}
}

var bucketWeights = map[types.Severity]float64{
	types.SevCritical: 100,
	types.SevHigh:     75,
	types.SevMedium:   50,
	types.SevLow:      25,
}

// ScanBucket scans every eligible object. Objects that fail to fetch or
// scan are skipped and reported; only a failed listing is fatal. Listing
// defaults are the source's business: the live source fills in the
// extension allow-list, the simulated one serves its fixtures unfiltered
// unless the caller narrows the config.
func (b *BucketScanner) ScanBucket(ctx context.Context, cfg ScanConfig) (*types.BucketScanResult, error) {
	started := time.Now()

	objects, err := b.src.List(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp("", "secretscope-s3-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	result := &types.BucketScanResult{
		ScanResult: types.ScanResult{
			ScanID:    uuid.NewString(),
			Target:    fmt.Sprintf("s3://%s/%s", cfg.Bucket, cfg.Prefix),
			Status:    types.StatusCompleted,
			Findings:  []types.Finding{},
			StartedAt: started,
		},
		BucketName: cfg.Bucket,
	}

	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		findings, size, oerr := b.scanObject(ctx, tmp, obj)
		if oerr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("scanning %s: %v", obj.Key, oerr))
			result.SkippedObjects = append(result.SkippedObjects, obj.Key)
			continue
		}
		result.Findings = append(result.Findings, findings...)
		result.FilesScanned++
		result.ObjectsScanned++
		result.TotalSizeScanned += size
	}

	var total float64
	for _, f := range result.Findings {
		total += bucketWeights[f.Severity]
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
		score := total / float64(result.TotalFindings)
		if score > 100 {
			score = 100
		}
		result.RiskScore = score
	}
	if len(result.Errors) > 0 {
		result.Status = types.StatusCompletedWithErrors
	}
	result.CompletedAt = time.Now()
	result.DurationSeconds = result.CompletedAt.Sub(started).Seconds()
	return result, nil
}

// scanObject fetches one object into the temp tree and scans it, tagging
// the findings with their bucket location.
func (b *BucketScanner) scanObject(ctx context.Context, tmp string, obj Object) ([]types.Finding, int64, error) {
	content, err := b.src.Fetch(ctx, obj.Bucket, obj.Key)
	if err != nil {
		return nil, 0, err
	}

	local := filepath.Join(tmp, filepath.FromSlash(obj.Key))
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return nil, 0, err
	}
	if err := os.WriteFile(local, content, 0o600); err != nil {
		return nil, 0, err
	}

	res, err := b.scanner.ScanFile(ctx, local)
	if err != nil {
		return nil, 0, err
	}

	findings := res.Findings
	for i := range findings {
		findings[i].FilePath = fmt.Sprintf("s3://%s/%s", obj.Bucket, obj.Key)
		if obj.ETag == "" {
			continue
		}
		if findings[i].Metadata == nil {
			findings[i].Metadata = map[string]string{}
		}
		findings[i].Metadata["s3_etag"] = obj.ETag
		findings[i].Metadata["s3_last_modified"] = obj.LastModified.UTC().Format(time.RFC3339)
	}
	return findings, int64(len(content)), nil
}

// ScanObject scans a single object and returns its findings directly.
func (b *BucketScanner) ScanObject(ctx context.Context, bucket, key string) ([]types.Finding, error) {
	tmp, err := os.MkdirTemp("", "secretscope-s3-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	findings, _, err := b.scanObject(ctx, tmp, Object{Bucket: bucket, Key: key})
	if err != nil {
		return nil, err
	}
	return findings, nil
}
