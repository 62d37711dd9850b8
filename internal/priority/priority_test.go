package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Investorold/arcshield-sub000/internal/model"
)

func TestScoreTable(t *testing.T) {
	tests := []struct {
		name string
		v    model.Vulnerability
		want int
	}{
		{
			"critical first-party hits the cap",
			model.Vulnerability{Severity: model.SeverityCritical},
			100,
		},
		{
			"high first-party",
			model.Vulnerability{Severity: model.SeverityHigh},
			80,
		},
		{
			"high direct dependency",
			model.Vulnerability{Severity: model.SeverityHigh, IsThirdParty: true, DependencyType: model.DependencyDirect},
			75,
		},
		{
			"low transitive dependency in a test file",
			model.Vulnerability{Severity: model.SeverityLow, IsThirdParty: true, DependencyType: model.DependencyTransitive, IsTest: true},
			5,
		},
		{
			"medium vendored dependency",
			model.Vulnerability{Severity: model.SeverityMedium, IsThirdParty: true, DependencyType: model.DependencyVendored},
			53,
		},
		{
			"info transitive in test clamps at zero",
			model.Vulnerability{Severity: model.SeverityInfo, IsThirdParty: true, DependencyType: model.DependencyTransitive, IsTest: true},
			0,
		},
		{
			"unknown severity uses the fallback base",
			model.Vulnerability{Severity: "urgent"},
			35,
		},
		{
			"third-party without a dependency type gets no adjustment",
			model.Vulnerability{Severity: model.SeverityHigh, IsThirdParty: true, DependencyType: model.DependencyBundled},
			70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.v))
		})
	}
}

func TestScoreIsPure(t *testing.T) {
	v := model.Vulnerability{Severity: model.SeverityHigh, IsThirdParty: true, DependencyType: model.DependencyDirect}
	first := Score(v)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(v))
	}
}

func TestApply(t *testing.T) {
	in := []model.Vulnerability{
		{ID: "a-001", Severity: model.SeverityCritical},
		{ID: "b-001", Severity: model.SeverityLow, IsTest: true},
	}
	out := Apply(in)

	require.Len(t, out, 2)
	assert.Equal(t, 100, out[0].PriorityScore)
	assert.Equal(t, 25, out[1].PriorityScore)
	assert.Zero(t, in[0].PriorityScore, "input slice is not mutated")
}

func TestSplitPreservesOrder(t *testing.T) {
	in := []model.Vulnerability{
		{ID: "a", IsThirdParty: true},
		{ID: "b"},
		{ID: "c", IsThirdParty: true},
		{ID: "d"},
	}
	firstParty, thirdParty := Split(in)

	require.Len(t, firstParty, 2)
	require.Len(t, thirdParty, 2)
	assert.Equal(t, "b", firstParty[0].ID)
	assert.Equal(t, "d", firstParty[1].ID)
	assert.Equal(t, "a", thirdParty[0].ID)
	assert.Equal(t, "c", thirdParty[1].ID)
}

func TestSummaryInitializesAllSeverities(t *testing.T) {
	counts := Summary([]model.Vulnerability{
		{Severity: model.SeverityHigh},
		{Severity: model.SeverityHigh},
		{Severity: model.SeverityInfo},
	})

	assert.Equal(t, 2, counts[model.SeverityHigh])
	assert.Equal(t, 1, counts[model.SeverityInfo])
	for _, sev := range model.SeverityOrder {
		_, ok := counts[sev]
		assert.True(t, ok, "severity %s missing from summary", sev)
	}
	assert.Equal(t, 0, counts[model.SeverityCritical])
}
