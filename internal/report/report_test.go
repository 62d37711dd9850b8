package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Investorold/arcshield-sub000/internal/model"
)

func sampleReport() model.ScanReport {
	started := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	return model.ScanReport{
		StartedAt:    started,
		CompletedAt:  started.Add(2 * time.Second),
		DurationMS:   2000,
		RootPath:     ".",
		FilesScanned: 12,
		RulesApplied: 10,
		Vulnerabilities: []model.Vulnerability{
			{
				ID:            "eval-call-001",
				Title:         "Eval on user input",
				Severity:      model.SeverityCritical,
				Category:      "injection",
				FilePath:      "src/app.js",
				LineNumber:    3,
				CodeSnippet:   "eval(userInput)",
				Remediation:   "Remove eval.",
				PriorityScore: 100,
			},
			{
				ID:             "weak-hash-algorithm-001",
				Title:          "Weak hash algorithm",
				Severity:       model.SeverityMedium,
				Category:       "cryptography",
				FilePath:       "node_modules/md5/md5.js",
				LineNumber:     8,
				IsThirdParty:   true,
				DependencyType: model.DependencyDirect,
				PriorityScore:  55,
			},
		},
		CountsBySeverity: map[string]int{
			model.SeverityCritical: 1,
			model.SeverityHigh:     0,
			model.SeverityMedium:   1,
			model.SeverityLow:      0,
			model.SeverityInfo:     0,
		},
		FirstPartyCount: 1,
		ThirdPartyCount: 1,
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(path, sampleReport()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got model.ScanReport
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, 12, got.FilesScanned)
	require.Len(t, got.Vulnerabilities, 2)
	assert.Equal(t, "eval-call-001", got.Vulnerabilities[0].ID)
	assert.Equal(t, 100, got.Vulnerabilities[0].PriorityScore)
}

func TestWriteSARIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.sarif")
	require.NoError(t, WriteSARIF(path, sampleReport()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	runs, ok := doc["runs"].([]any)
	require.True(t, ok)
	require.Len(t, runs, 1)

	s := string(b)
	assert.Contains(t, s, `"eval-call"`)
	assert.Contains(t, s, `"weak-hash-algorithm"`)
	assert.Contains(t, s, "src/app.js")
	assert.Contains(t, s, "arcshield")
}

func TestSarifRuleID(t *testing.T) {
	assert.Equal(t, "eval-call", sarifRuleID("eval-call-001"))
	assert.Equal(t, "weak-hash-algorithm", sarifRuleID("weak-hash-algorithm-012"))
	assert.Equal(t, "no-suffix", sarifRuleID("no-suffix"))
	assert.Equal(t, "plain", sarifRuleID("plain"))
}

func TestSarifLevel(t *testing.T) {
	assert.Equal(t, "error", sarifLevel("critical"))
	assert.Equal(t, "error", sarifLevel(" HIGH "))
	assert.Equal(t, "warning", sarifLevel("medium"))
	assert.Equal(t, "note", sarifLevel("low"))
	assert.Equal(t, "note", sarifLevel("info"))
	assert.Equal(t, "note", sarifLevel("whatever"))
}

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleReport(), false)
	out := buf.String()

	assert.Contains(t, out, "eval-call-001")
	assert.Contains(t, out, "src/app.js:3")
	assert.Contains(t, out, "[first-party]")
	assert.Contains(t, out, "[third-party: direct]")
	assert.Contains(t, out, "2 findings across 12 files")
	assert.Contains(t, out, "1 critical")

	// Highest priority renders first.
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("eval-call-001")),
		bytes.Index(buf.Bytes(), []byte("weak-hash-algorithm-001")))
}

func TestProvenanceLabel(t *testing.T) {
	assert.Equal(t, "[first-party]", provenanceLabel(model.Vulnerability{}))
	assert.Equal(t, "[test code]", provenanceLabel(model.Vulnerability{IsTest: true}))
	assert.Equal(t, "[generated]", provenanceLabel(model.Vulnerability{IsGenerated: true}))
	assert.Equal(t, "[third-party: vendored]",
		provenanceLabel(model.Vulnerability{IsThirdParty: true, DependencyType: model.DependencyVendored}))
}
