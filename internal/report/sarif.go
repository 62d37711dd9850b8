package report

import (
	"encoding/json"
	"fmt"
	"strings"

	sarifreport "github.com/owenrumney/go-sarif/v3/pkg/report"
	"github.com/owenrumney/go-sarif/v3/pkg/report/v22/sarif"

	"github.com/Investorold/arcshield-sub000/internal/model"
	"github.com/Investorold/arcshield-sub000/internal/safefile"
)

const (
	toolName    = "arcshield"
	toolVersion = "1.2.0"
	toolURI     = "https://github.com/Investorold/arcshield-sub000"
)

// WriteSARIF exports findings as SARIF 2.2 for code-scanning upload.
func WriteSARIF(path string, rep model.ScanReport) error {
	sr := sarifreport.NewV22Report()
	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	version := toolVersion
	run.Tool.Driver.Version = &version

	seenRules := map[string]struct{}{}
	for _, v := range rep.Vulnerabilities {
		ruleID := sarifRuleID(v.ID)
		if _, seen := seenRules[ruleID]; !seen {
			seenRules[ruleID] = struct{}{}
			rule := run.AddRule(ruleID)
			rule.WithDescription(v.Title)
			rule.WithDefaultConfiguration(
				sarif.NewReportingConfiguration().WithLevel(sarifLevel(v.Severity)).WithEnabled(true),
			)
		}

		message := v.Title
		if v.CodeSnippet != "" {
			message = fmt.Sprintf("%s (found: %s)", v.Title, v.CodeSnippet)
		}

		result := run.CreateResultForRule(ruleID)
		result.WithLevel(sarifLevel(v.Severity))
		result.WithMessage(sarif.NewTextMessage(message))
		result.AddLocation(
			sarif.NewLocationWithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewSimpleArtifactLocation(v.FilePath)).
					WithRegion(sarif.NewRegion().WithStartLine(v.LineNumber)),
			),
		)
		result.WithProperties(sarif.NewPropertyBag().
			Add("severity", v.Severity).
			Add("category", v.Category).
			Add("priority_score", v.PriorityScore).
			Add("is_third_party", v.IsThirdParty))
	}

	sr.AddRun(run)
	if err := sr.Validate(); err != nil {
		return fmt.Errorf("validate sarif report: %w", err)
	}

	b, err := json.MarshalIndent(sr, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sarif report: %w", err)
	}
	if err := safefile.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write sarif report: %w", err)
	}
	return nil
}

// sarifRuleID strips the per-finding sequence suffix so all findings of
// one rule share a SARIF rule entry.
func sarifRuleID(findingID string) string {
	idx := strings.LastIndex(findingID, "-")
	if idx <= 0 {
		return findingID
	}
	suffix := findingID[idx+1:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return findingID
		}
	}
	return findingID[:idx]
}

func sarifLevel(severity string) string {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
