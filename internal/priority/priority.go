// Package priority computes the deterministic triage score used to
// order findings for remediation.
package priority

import (
	"github.com/Investorold/arcshield-sub000/internal/model"
)

var severityBase = map[string]int{
	model.SeverityCritical: 90,
	model.SeverityHigh:     70,
	model.SeverityMedium:   50,
	model.SeverityLow:      30,
	model.SeverityInfo:     10,
}

// Base score for severities outside the known vocabulary. Findings from
// this engine are validated at load time, but findings merged in from
// external tool adapters carry severities we do not control.
const unknownSeverityBase = 25

// Score is a pure function of severity, provenance, and test status.
// The result always lies in [0,100].
func Score(v model.Vulnerability) int {
	score, ok := severityBase[v.Severity]
	if !ok {
		score = unknownSeverityBase
	}

	if !v.IsThirdParty {
		score += 10
	} else {
		switch v.DependencyType {
		case model.DependencyDirect:
			score += 5
		case model.DependencyTransitive:
			score -= 10
		case model.DependencyVendored:
			score += 3
		}
	}

	if v.IsTest {
		score -= 15
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Apply sets PriorityScore on every finding.
func Apply(vulns []model.Vulnerability) []model.Vulnerability {
	out := make([]model.Vulnerability, len(vulns))
	for i, v := range vulns {
		v.PriorityScore = Score(v)
		out[i] = v
	}
	return out
}

// Split partitions findings into first-party and third-party sublists,
// preserving input order.
func Split(vulns []model.Vulnerability) (firstParty, thirdParty []model.Vulnerability) {
	for _, v := range vulns {
		if v.IsThirdParty {
			thirdParty = append(thirdParty, v)
		} else {
			firstParty = append(firstParty, v)
		}
	}
	return firstParty, thirdParty
}

// Summary reduces findings to severity-bucket counts. Every known
// severity appears in the result, zero or not.
func Summary(vulns []model.Vulnerability) map[string]int {
	counts := make(map[string]int, len(model.SeverityOrder))
	for _, sev := range model.SeverityOrder {
		counts[sev] = 0
	}
	for _, v := range vulns {
		counts[v.Severity]++
	}
	return counts
}
