package rules

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeRule(id, severity, category string, enabled bool) Rule {
	return NormalizeRule(Rule{
		ID:          id,
		Severity:    severity,
		Category:    category,
		Languages:   []string{"any"},
		Patterns:    []Pattern{{Pattern: "x"}},
		Remediation: "fix",
		Enabled:     enabled,
	})
}

func seededStore(filter Filter, ruleList ...Rule) *Store {
	s := NewStore(filter)
	s.AddSet(RuleSet{Name: "seed", Version: "1.0.0", Rules: ruleList}, "test")
	return s
}

func TestFilterPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		rule   Rule
		admit  bool
	}{
		{
			"disable list wins over allow list",
			Filter{DisabledRules: []string{"a"}, EnabledRules: []string{"a"}},
			storeRule("a", "high", "injection", true),
			false,
		},
		{
			"allow list admits disabled rule",
			Filter{EnabledRules: []string{"a"}},
			storeRule("a", "high", "injection", false),
			true,
		},
		{
			"allow list rejects unlisted enabled rule",
			Filter{EnabledRules: []string{"a"}},
			storeRule("b", "high", "injection", true),
			false,
		},
		{
			"enabled flag governs without allow list",
			Filter{},
			storeRule("a", "high", "injection", false),
			false,
		},
		{
			"severity filter narrows",
			Filter{Severities: []string{"critical"}},
			storeRule("a", "high", "injection", true),
			false,
		},
		{
			"category filter narrows",
			Filter{Categories: []string{"injection"}},
			storeRule("a", "high", "injection", true),
			true,
		},
		{
			"language filter honors wildcard declaration",
			Filter{Languages: []string{"python"}},
			storeRule("a", "high", "injection", true),
			true,
		},
		{
			"language filter rejects non-matching list",
			Filter{Languages: []string{"python"}},
			func() Rule {
				r := storeRule("a", "high", "injection", true)
				r.Languages = []string{"javascript"}
				return r
			}(),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.admit, tt.filter.Admit(tt.rule))
		})
	}
}

func TestStoreRejectsDuplicateIDs(t *testing.T) {
	s := seededStore(Filter{}, storeRule("dup", "high", "injection", true))
	warnings := s.AddSet(RuleSet{
		Name: "second", Version: "1.0.0",
		Rules: []Rule{storeRule("dup", "low", "other", true)},
	}, "second.rules.yaml")

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "duplicate rule id")
	r, ok := s.ByID("dup")
	require.True(t, ok)
	assert.Equal(t, "high", r.Severity, "first occurrence wins")
}

func TestStoreQueries(t *testing.T) {
	s := seededStore(Filter{},
		storeRule("a", "high", "injection", true),
		storeRule("b", "high", "cryptography", true),
		storeRule("c", "low", "injection", true),
	)

	assert.Equal(t, 3, s.Len())
	assert.Len(t, s.ByCategory("injection"), 2)
	assert.Len(t, s.BySeverity("high"), 2)

	_, ok := s.ByID("missing")
	assert.False(t, ok)

	sets := s.Sets()
	require.Len(t, sets, 1)
	assert.Equal(t, "seed", sets[0].Name)
	assert.Equal(t, 3, sets[0].RuleCount)
}

func TestSnapshotIsImmutableUnderMutation(t *testing.T) {
	s := seededStore(Filter{},
		storeRule("a", "high", "injection", true),
		storeRule("b", "low", "other", true),
	)

	snap := s.Snapshot()
	require.Len(t, snap, 2)

	require.True(t, s.SetEnabled("a", false))
	require.True(t, s.Remove("b"))

	// The captured snapshot still sees the pre-mutation population.
	assert.Len(t, snap, 2)
	assert.True(t, snap[0].Enabled)

	next := s.Snapshot()
	assert.Empty(t, next)
}

func TestSetEnabledRoundTrip(t *testing.T) {
	s := seededStore(Filter{}, storeRule("a", "high", "injection", true))

	require.True(t, s.SetEnabled("a", false))
	assert.Empty(t, s.Snapshot(), "disabled rules drop out of snapshots")
	assert.Equal(t, 1, s.Len(), "but stay in the population")

	require.True(t, s.SetEnabled("a", true))
	assert.Len(t, s.Snapshot(), 1)

	assert.False(t, s.SetEnabled("ghost", true))
}

func TestStoreAddValidatesAndFilters(t *testing.T) {
	s := seededStore(Filter{Severities: []string{"high"}},
		storeRule("a", "high", "injection", true))

	require.Error(t, s.Add(Rule{ID: "bad"}), "invalid rule rejected")
	require.Error(t, s.Add(storeRule("a", "high", "injection", true)), "duplicate rejected")
	require.Error(t, s.Add(storeRule("low-rule", "low", "other", true)), "filter rejected")
	require.NoError(t, s.Add(storeRule("new-rule", "high", "other", true)))

	_, ok := s.ByID("new-rule")
	assert.True(t, ok)
}

func TestStoreRemoveReindexes(t *testing.T) {
	s := seededStore(Filter{},
		storeRule("a", "high", "injection", true),
		storeRule("b", "low", "other", true),
		storeRule("c", "info", "other", true),
	)

	require.True(t, s.Remove("b"))
	assert.False(t, s.Remove("b"))

	for _, id := range []string{"a", "c"} {
		_, ok := s.ByID(id)
		assert.True(t, ok, "rule %s should survive removal of b", id)
	}
}

func TestStoreLoadFromDirs(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "custom.rules.yaml", goodDoc)

	s := NewStore(Filter{})
	warnings, err := s.Load([]string{dir})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 2, s.Len())

	// Reload replaces the population rather than appending.
	_, err = s.Load([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestStoreConcurrentSnapshotAndMutate(t *testing.T) {
	ruleList := make([]Rule, 0, 32)
	for i := 0; i < 32; i++ {
		ruleList = append(ruleList, storeRule(fmt.Sprintf("rule-%02d", i), "high", "other", true))
	}
	s := seededStore(Filter{}, ruleList...)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch j % 3 {
				case 0:
					_ = s.Snapshot()
				case 1:
					s.SetEnabled(fmt.Sprintf("rule-%02d", (i+j)%32), j%2 == 0)
				default:
					_ = s.ByCategory("other")
				}
			}
		}(i)
	}
	wg.Wait()
}
