package remote

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretscope/secretscope/internal/engine"
)

func newEngine(t *testing.T) *engine.Scanner {
	t.Helper()
	s, problems, err := engine.New(engine.Options{Recursive: true})
	require.NoError(t, err)
	require.Empty(t, problems)
	return s
}

func TestSimulatedSource_List(t *testing.T) {
	src := NewSimulatedSource()

	objs, err := src.List(context.Background(), ScanConfig{Bucket: "demo-bucket"})
	require.NoError(t, err)
	assert.Len(t, objs, len(simObjects))
	for _, o := range objs {
		assert.Equal(t, "demo-bucket", o.Bucket)
		assert.NotEmpty(t, o.ETag)
	}

	objs, err = src.List(context.Background(), ScanConfig{Bucket: "demo-bucket", Prefix: "config/"})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "config/settings.json", objs[0].Key)

	objs, err = src.List(context.Background(), ScanConfig{
		Bucket:         "demo-bucket",
		FileExtensions: []string{".tf"},
	})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "terraform/main.tf", objs[0].Key)

	objs, err = src.List(context.Background(), ScanConfig{Bucket: "demo-bucket", MaxFiles: 3})
	require.NoError(t, err)
	assert.Len(t, objs, 3)
}

func TestSimulatedSource_FetchDeterministic(t *testing.T) {
	src := NewSimulatedSource()
	a, err := src.Fetch(context.Background(), "demo", "terraform/main.tf")
	require.NoError(t, err)
	b, err := src.Fetch(context.Background(), "demo", "terraform/main.tf")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "wJalrXUtnFEMI")
}

func TestScanBucket_Simulated(t *testing.T) {
	b := NewBucketScanner(NewSimulatedSource(), newEngine(t))

	res, err := b.ScanBucket(context.Background(), ScanConfig{Bucket: "demo-bucket"})
	require.NoError(t, err)

	assert.Equal(t, "demo-bucket", res.BucketName)
	assert.Equal(t, len(simObjects), res.ObjectsScanned)
	assert.Greater(t, res.TotalFindings, 0)
	assert.Empty(t, res.SkippedObjects)

	// every fixture must be fetched, including extension-less keys like
	// .env.production and logs/app.log
	var fixtureBytes int64
	for _, so := range simObjects {
		fixtureBytes += int64(len(so.content))
	}
	assert.Equal(t, fixtureBytes, res.TotalSizeScanned)

	foundRemotePath := false
	for _, f := range res.Findings {
		require.True(t, strings.HasPrefix(f.FilePath, "s3://demo-bucket/"), f.FilePath)
		assert.NotEmpty(t, f.Metadata["s3_etag"])
		if f.FilePath == "s3://demo-bucket/scripts/backup.sh" {
			foundRemotePath = true
		}
	}
	assert.True(t, foundRemotePath, "expected findings from scripts/backup.sh")
}

func TestScanBucket_PrefixNarrowsScan(t *testing.T) {
	b := NewBucketScanner(NewSimulatedSource(), newEngine(t))

	res, err := b.ScanBucket(context.Background(), ScanConfig{
		Bucket: "demo-bucket",
		Prefix: "docs/",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ObjectsScanned)
	assert.Equal(t, 0, res.TotalFindings)
	assert.Equal(t, 0.0, res.RiskScore)
}

func TestScanObject_Simulated(t *testing.T) {
	b := NewBucketScanner(NewSimulatedSource(), newEngine(t))

	findings, err := b.ScanObject(context.Background(), "demo-bucket", "terraform/main.tf")
	require.NoError(t, err)
	require.NotEmpty(t, findings)
	assert.Equal(t, "s3://demo-bucket/terraform/main.tf", findings[0].FilePath)
}

// stubS3 fakes the narrow S3 surface used by S3Source.
type stubS3 struct {
	pages   []*s3.ListObjectsV2Output
	objects map[string]string
	page    int
}

func (s *stubS3) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := s.pages[s.page]
	s.page++
	return out, nil
}

func (s *stubS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body := s.objects[aws.ToString(params.Key)]
	return &s3.GetObjectOutput{Body: newReadCloser(body)}, nil
}

func newReadCloser(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func TestS3Source_ListFilters(t *testing.T) {
	now := time.Now()
	stub := &stubS3{
		pages: []*s3.ListObjectsV2Output{{
			Contents: []s3types.Object{
				{Key: aws.String("app/main.py"), Size: aws.Int64(100), ETag: aws.String(`"e1"`), LastModified: &now},
				{Key: aws.String("assets/logo.png"), Size: aws.Int64(100)},
				{Key: aws.String("node_modules/x/index.js"), Size: aws.Int64(100)},
				{Key: aws.String("huge.json"), Size: aws.Int64(50 * 1024 * 1024)},
				{Key: aws.String("dir/"), Size: aws.Int64(0)},
			},
		}},
	}
	src := &S3Source{client: stub}

	objs, err := src.List(context.Background(), ScanConfig{Bucket: "b"})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "app/main.py", objs[0].Key)
	assert.Equal(t, `"e1"`, objs[0].ETag)
}

func TestS3Source_Fetch(t *testing.T) {
	stub := &stubS3{objects: map[string]string{"a.py": "x = 1\n"}}
	src := &S3Source{client: stub}

	data, err := src.Fetch(context.Background(), "b", "a.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))
}
