package types

import "time"

// Severity is a coarse-grained risk level for a finding.
type Severity string

const (
	SevCritical Severity = "critical"
	SevHigh     Severity = "high"
	SevMedium   Severity = "medium"
	SevLow      Severity = "low"
)

// Category groups patterns by the kind of credential they detect.
type Category string

const (
	CatAWS        Category = "aws"
	CatGoogle     Category = "google"
	CatAzure      Category = "azure"
	CatGitHub     Category = "github"
	CatPrivateKey Category = "private_key"
	CatJWT        Category = "jwt"
	CatDatabase   Category = "database"
	CatAPIKey     Category = "api_key"
	CatPassword   Category = "password"
	CatOAuth      Category = "oauth"
	CatGeneric    Category = "generic"
)

// Scan statuses. A scan that could not enumerate its target at all never
// produces a result; partial per-file failures yield CompletedWithErrors.
const (
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
)

// Finding describes one detected candidate secret occurrence.
//
// SecretValue holds the raw matched text and is never serialized; SecretHash
// (SHA-256 hex of the raw value) is the only persisted identity and the key
// used to collapse duplicates within a scan.
type Finding struct {
	FindingID    string   `json:"finding_id"`
	Type         string   `json:"type"`
	Category     Category `json:"category"`
	Severity     Severity `json:"severity"`
	FilePath     string   `json:"file_path"`
	LineNumber   int      `json:"line_number"`  // 1-based
	ColumnStart  int      `json:"column_start"` // 0-based offset within the line
	ColumnEnd    int      `json:"column_end"`
	SecretValue  string   `json:"-"`
	SecretMasked string   `json:"secret_masked"`
	SecretHash   string   `json:"secret_hash"`
	CodeSnippet  string   `json:"code_snippet"`
	MatchRule    string   `json:"match_rule"`
	RiskScore    float64  `json:"risk_score"`
	EntropyScore float64  `json:"entropy_score"`
	IsTestFile   bool     `json:"is_test_file"`
	Confidence   float64  `json:"confidence"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// ScanResult is the aggregate, deduplicated output of one scan invocation.
// It is mutated only by the owning scan and handed to the caller immutable.
type ScanResult struct {
	ScanID          string    `json:"scan_id"`
	Target          string    `json:"target"`
	Status          string    `json:"status"`
	Findings        []Finding `json:"findings"`
	FilesScanned    int       `json:"files_scanned"`
	TotalFindings   int       `json:"total_findings"`
	HighRiskCount   int       `json:"high_risk_count"`
	MediumRiskCount int       `json:"medium_risk_count"`
	LowRiskCount    int       `json:"low_risk_count"`
	RiskScore       float64   `json:"risk_score"`
	DurationSeconds float64   `json:"duration_seconds"`
	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
	Errors          []string  `json:"errors,omitempty"`
}

// BucketScanResult extends ScanResult with object-store specifics.
type BucketScanResult struct {
	ScanResult

	BucketName       string   `json:"bucket_name"`
	ObjectsScanned   int      `json:"objects_scanned"`
	TotalSizeScanned int64    `json:"total_size_scanned"`
	SkippedObjects   []string `json:"skipped_objects,omitempty"`
}

// EnvVariable is one classified entry of an env-file analysis. The value is
// masked whenever the variable was classified as a secret.
type EnvVariable struct {
	Key             string   `json:"key"`
	Value           string   `json:"value"`
	LineNumber      int      `json:"line_number"`
	IsSecret        bool     `json:"is_secret"`
	SecretType      string   `json:"secret_type,omitempty"`
	RiskLevel       string   `json:"risk_level"`
	EntropyScore    float64  `json:"entropy_score"`
	IsPlaceholder   bool     `json:"is_placeholder"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// EnvAnalysisResult summarizes one env-file analysis.
type EnvAnalysisResult struct {
	FilePath        string        `json:"file_path"`
	TotalVariables  int           `json:"total_variables"`
	SecretsFound    int           `json:"secrets_found"`
	HighRiskCount   int           `json:"high_risk_count"`
	MediumRiskCount int           `json:"medium_risk_count"`
	LowRiskCount    int           `json:"low_risk_count"`
	Variables       []EnvVariable `json:"variables"`
	Recommendations []string      `json:"recommendations"`
	AnalyzedAt      time.Time     `json:"analyzed_at"`
}
