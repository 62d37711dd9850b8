package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Investorold/arcshield-sub000/internal/engine"
	"github.com/Investorold/arcshield-sub000/internal/rules"
)

func match(ruleID, path string, line int) engine.Match {
	return engine.Match{
		Rule: rules.Rule{
			ID:          ruleID,
			Name:        "Rule " + ruleID,
			Severity:    "high",
			Category:    "injection",
			Confidence:  rules.ConfidenceHigh,
			Remediation: "fix it",
		},
		FilePath:    path,
		LineNumber:  line,
		CodeSnippet: "eval(x)",
		Pattern:     `eval\(`,
	}
}

func TestDedupeCollapsesSameTriple(t *testing.T) {
	// Two patterns of the same rule hitting the same line produce two raw
	// matches but must collapse to one finding.
	m1 := match("eval-call", "src/app.js", 3)
	m2 := m1
	m2.Pattern = `eval\s*\(`

	out := Dedupe([]engine.Match{m1, m2})
	require.Len(t, out, 1)
	assert.Equal(t, `eval\(`, out[0].Pattern, "first match wins")
}

func TestDedupeKeepsDistinctTriples(t *testing.T) {
	out := Dedupe([]engine.Match{
		match("eval-call", "src/app.js", 3),
		match("eval-call", "src/app.js", 7),
		match("eval-call", "src/other.js", 3),
		match("os-system", "src/app.js", 3),
	})
	assert.Len(t, out, 4)
}

func TestToVulnerabilitiesIDSequence(t *testing.T) {
	vulns := ToVulnerabilities([]engine.Match{
		match("eval-call", "src/a.js", 1),
		match("eval-call", "src/a.js", 5),
		match("os-system", "src/b.py", 2),
		match("eval-call", "src/c.js", 9),
	})

	require.Len(t, vulns, 4)
	assert.Equal(t, "eval-call-001", vulns[0].ID)
	assert.Equal(t, "eval-call-002", vulns[1].ID)
	assert.Equal(t, "os-system-001", vulns[2].ID)
	assert.Equal(t, "eval-call-003", vulns[3].ID)
}

func TestToVulnerabilitiesIdempotentUnderDuplicates(t *testing.T) {
	base := []engine.Match{
		match("eval-call", "src/a.js", 1),
		match("os-system", "src/b.py", 2),
	}
	withDup := append(append([]engine.Match{}, base...), match("eval-call", "src/a.js", 1))

	assert.Equal(t, ToVulnerabilities(base), ToVulnerabilities(withDup))
}

func TestToVulnerabilitiesCopiesRuleFields(t *testing.T) {
	m := match("eval-call", "src/app.js", 3)
	m.Rule.Description = "Eval on user input."
	m.Rule.CWE = "CWE-95"
	m.Rule.OWASP = "A03:2021"

	vulns := ToVulnerabilities([]engine.Match{m})
	require.Len(t, vulns, 1)
	v := vulns[0]

	assert.Equal(t, "Rule eval-call", v.Title)
	assert.Equal(t, "high", v.Severity)
	assert.Equal(t, "injection", v.Category)
	assert.Equal(t, "Eval on user input.", v.Description)
	assert.Equal(t, "CWE-95", v.CWEID)
	assert.Equal(t, "A03:2021", v.OWASP)
	assert.Equal(t, "src/app.js", v.FilePath)
	assert.Equal(t, 3, v.LineNumber)
	assert.Equal(t, "eval(x)", v.CodeSnippet)
	assert.Contains(t, v.Exploitability, "High confidence")
	assert.Contains(t, v.FixPrompt, "src/app.js at line 3")
	assert.Contains(t, v.FixPrompt, "fix it")
}

func TestToVulnerabilitiesEmptyInput(t *testing.T) {
	assert.Empty(t, ToVulnerabilities(nil))
	assert.Empty(t, ToVulnerabilities([]engine.Match{}))
}
