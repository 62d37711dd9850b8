package model

import "time"

// Severity levels, highest first. Rule documents and findings share the
// same vocabulary.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

var SeverityOrder = []string{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// FileRecord is the unit of input handed to the engine by file
// discovery. Content is immutable for the duration of a scan.
type FileRecord struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	Language  string `json:"language"`
	LineCount int    `json:"line_count"`
}

// Dependency types assigned by provenance classification.
const (
	DependencyDirect     = "direct"
	DependencyTransitive = "transitive"
	DependencyVendored   = "vendored"
	DependencyBundled    = "bundled"
)

// Vulnerability is the canonical deduplicated finding shape. At most one
// exists per (FilePath, LineNumber, rule) triple.
type Vulnerability struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Severity         string `json:"severity"`
	Category         string `json:"category,omitempty"`
	Description      string `json:"description"`
	FilePath         string `json:"file_path"`
	LineNumber       int    `json:"line_number"`
	CodeSnippet      string `json:"code_snippet,omitempty"`
	CWEID            string `json:"cwe_id,omitempty"`
	OWASP            string `json:"owasp,omitempty"`
	Exploitability   string `json:"exploitability,omitempty"`
	Remediation      string `json:"remediation"`
	FixPrompt        string `json:"fix_prompt,omitempty"`
	IsThirdParty     bool   `json:"is_third_party,omitempty"`
	ThirdPartySource string `json:"third_party_source,omitempty"`
	DependencyType   string `json:"dependency_type,omitempty"`
	IsTest           bool   `json:"is_test,omitempty"`
	IsGenerated      bool   `json:"is_generated,omitempty"`
	PriorityScore    int    `json:"priority_score"`
}

// ScanReport is the aggregate output handed to report writers.
type ScanReport struct {
	StartedAt        time.Time       `json:"started_at"`
	CompletedAt      time.Time       `json:"completed_at"`
	DurationMS       int64           `json:"duration_ms"`
	RootPath         string          `json:"root_path,omitempty"`
	FilesScanned     int             `json:"files_scanned"`
	RulesApplied     int             `json:"rules_applied"`
	Vulnerabilities  []Vulnerability `json:"vulnerabilities"`
	CountsBySeverity map[string]int  `json:"counts_by_severity"`
	FirstPartyCount  int             `json:"first_party_count"`
	ThirdPartyCount  int             `json:"third_party_count"`
	Warnings         []string        `json:"warnings,omitempty"`
}
