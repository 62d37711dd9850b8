// Package aggregate collapses raw pattern matches into canonical
// vulnerability findings.
package aggregate

import (
	"fmt"

	"github.com/Investorold/arcshield-sub000/internal/engine"
	"github.com/Investorold/arcshield-sub000/internal/model"
	"github.com/Investorold/arcshield-sub000/internal/rules"
)

// Dedupe drops every match after the first for each
// (file path, line number, rule id) key. Input order decides the winner;
// callers pass the engine's sorted output to keep results stable.
func Dedupe(matches []engine.Match) []engine.Match {
	seen := make(map[string]struct{}, len(matches))
	out := make([]engine.Match, 0, len(matches))
	for _, m := range matches {
		key := dedupeKey(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

// ToVulnerabilities converts deduplicated matches into findings. IDs are
// <ruleID>-<NNN> with the sequence assigned per rule in order of first
// appearance, so identical input always yields identical ids. Appending
// a duplicate match for an existing key does not change the output.
func ToVulnerabilities(matches []engine.Match) []model.Vulnerability {
	matches = Dedupe(matches)
	seq := make(map[string]int, 16)
	out := make([]model.Vulnerability, 0, len(matches))

	for _, m := range matches {
		seq[m.Rule.ID]++
		out = append(out, model.Vulnerability{
			ID:             fmt.Sprintf("%s-%03d", m.Rule.ID, seq[m.Rule.ID]),
			Title:          m.Rule.Name,
			Severity:       m.Rule.Severity,
			Category:       m.Rule.Category,
			Description:    m.Rule.Description,
			FilePath:       m.FilePath,
			LineNumber:     m.LineNumber,
			CodeSnippet:    m.CodeSnippet,
			CWEID:          m.Rule.CWE,
			OWASP:          m.Rule.OWASP,
			Exploitability: exploitabilityNote(m.Rule.Confidence),
			Remediation:    m.Rule.Remediation,
			FixPrompt:      fixPrompt(m),
		})
	}
	return out
}

func dedupeKey(m engine.Match) string {
	return fmt.Sprintf("%s|%d|%s", m.FilePath, m.LineNumber, m.Rule.ID)
}

func exploitabilityNote(confidence string) string {
	switch confidence {
	case rules.ConfidenceHigh:
		return "High confidence match; the flagged pattern is a reliable indicator of an exploitable flaw."
	case rules.ConfidenceLow:
		return "Low confidence match; manual review is needed to confirm exploitability."
	default:
		return "Medium confidence match; likely exploitable depending on how the flagged code is reached."
	}
}

// fixPrompt is a deterministic template handed to the remediation agent
// downstream. No model call happens here.
func fixPrompt(m engine.Match) string {
	return fmt.Sprintf(
		"Fix the following %s severity issue in %s at line %d.\nIssue: %s\nFlagged code: %s\nApply this remediation: %s",
		m.Rule.Severity, m.FilePath, m.LineNumber, m.Rule.Name, m.CodeSnippet, m.Rule.Remediation,
	)
}
