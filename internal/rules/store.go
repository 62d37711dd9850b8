package rules

import (
	"fmt"
	"strings"
	"sync"
)

// Filter narrows the loaded rule population. Precedence per rule:
// explicit disable list, then the enable allow-list, then the rule's
// own Enabled flag, then the severity/category/language/framework
// narrowing filters.
type Filter struct {
	DisabledRules []string
	EnabledRules  []string
	Severities    []string
	Categories    []string
	Languages     []string
	Frameworks    []string
}

// Admit reports whether a rule passes the inclusion filter.
func (f Filter) Admit(r Rule) bool {
	if containsFold(f.DisabledRules, r.ID) {
		return false
	}
	if len(f.EnabledRules) > 0 {
		if !containsFold(f.EnabledRules, r.ID) {
			return false
		}
	} else if !r.Enabled {
		return false
	}
	if len(f.Severities) > 0 && !containsFold(f.Severities, r.Severity) {
		return false
	}
	if len(f.Categories) > 0 && !containsFold(f.Categories, r.Category) {
		return false
	}
	if len(f.Languages) > 0 && !matchesAnyWildcard(r.Languages, f.Languages) {
		return false
	}
	if len(f.Frameworks) > 0 && len(r.Frameworks) > 0 && !matchesAnyWildcard(r.Frameworks, f.Frameworks) {
		return false
	}
	return true
}

// Store holds the effective rule population. Mutations are copy-on-write:
// every change builds a replacement slice under the write lock, so
// snapshots handed to in-flight scans are never mutated.
type Store struct {
	mu     sync.RWMutex
	filter Filter
	sets   []SetInfo
	rules  []Rule
	index  map[string]int
}

func NewStore(filter Filter) *Store {
	return &Store{
		filter: filter,
		index:  map[string]int{},
	}
}

// Load replaces the current population with the documents found in dirs.
// One bad document degrades the loaded count but never aborts the load.
func (s *Store) Load(dirs []string) ([]string, error) {
	docs, warnings, err := LoadDirs(dirs)
	if err != nil {
		return warnings, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = nil
	s.rules = nil
	s.index = map[string]int{}
	for _, doc := range docs {
		warnings = append(warnings, s.admitSetLocked(doc.Set, doc.Path)...)
	}
	return warnings, nil
}

// AddSet merges one rule set into the population, applying the inclusion
// filter and the unique-id invariant. Returns per-rule warnings.
func (s *Store) AddSet(set RuleSet, origin string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admitSetLocked(set, origin)
}

func (s *Store) admitSetLocked(set RuleSet, origin string) []string {
	warnings := make([]string, 0)
	next := make([]Rule, len(s.rules), len(s.rules)+len(set.Rules))
	copy(next, s.rules)

	admitted := 0
	for _, rule := range set.Rules {
		if _, exists := s.index[rule.ID]; exists {
			warnings = append(warnings, fmt.Sprintf("duplicate rule id %q from %s ignored", rule.ID, origin))
			continue
		}
		if !s.filter.Admit(rule) {
			continue
		}
		s.index[rule.ID] = len(next)
		next = append(next, rule)
		admitted++
	}

	s.rules = next
	s.sets = append(s.sets, SetInfo{
		Name:      set.Name,
		Version:   set.Version,
		Author:    set.Author,
		Path:      origin,
		RuleCount: admitted,
	})
	return warnings
}

// Snapshot returns an immutable copy of the enabled rule population.
// Scans capture one snapshot at start and are unaffected by later
// mutations.
func (s *Store) Snapshot() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.Enabled || containsFold(s.filter.EnabledRules, r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// ByID returns the rule with the given id.
func (s *Store) ByID(id string) (Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Rule{}, false
	}
	return s.rules[idx], true
}

// ByCategory returns all rules in the given category.
func (s *Store) ByCategory(category string) []Rule {
	category = strings.ToLower(strings.TrimSpace(category))
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Rule
	for _, r := range s.rules {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// BySeverity returns all rules with the given severity.
func (s *Store) BySeverity(severity string) []Rule {
	severity = strings.ToLower(strings.TrimSpace(severity))
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Rule
	for _, r := range s.rules {
		if r.Severity == severity {
			out = append(out, r)
		}
	}
	return out
}

// All returns a copy of the whole population, including rules currently
// disabled at runtime.
func (s *Store) All() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Sets returns metadata for every loaded rule-set document.
func (s *Store) Sets() []SetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SetInfo, len(s.sets))
	copy(out, s.sets)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// Add admits a single rule at runtime, subject to the same inclusion
// filter as loaded rules.
func (s *Store) Add(rule Rule) error {
	rule = NormalizeRule(rule)
	if err := ValidateRule(rule); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.index[rule.ID]; exists {
		return fmt.Errorf("rule %q already loaded", rule.ID)
	}
	if !s.filter.Admit(rule) {
		return fmt.Errorf("rule %q rejected by inclusion filter", rule.ID)
	}
	next := make([]Rule, len(s.rules), len(s.rules)+1)
	copy(next, s.rules)
	s.index[rule.ID] = len(next)
	s.rules = append(next, rule)
	return nil
}

// Remove drops a rule by id. Returns false if the rule is not loaded.
func (s *Store) Remove(id string) bool {
	id = strings.ToLower(strings.TrimSpace(id))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[id]; !ok {
		return false
	}
	next := make([]Rule, 0, len(s.rules)-1)
	index := make(map[string]int, len(s.rules)-1)
	for _, r := range s.rules {
		if r.ID == id {
			continue
		}
		index[r.ID] = len(next)
		next = append(next, r)
	}
	s.rules = next
	s.index = index
	return true
}

// SetEnabled flips a rule's enabled flag. Disabled rules stay in the
// population so they can be re-enabled, but drop out of snapshots.
func (s *Store) SetEnabled(id string, enabled bool) bool {
	id = strings.ToLower(strings.TrimSpace(id))
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.index[id]
	if !ok {
		return false
	}
	next := make([]Rule, len(s.rules))
	copy(next, s.rules)
	next[idx].Enabled = enabled
	s.rules = next
	return true
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), value) {
			return true
		}
	}
	return false
}

// matchesAnyWildcard reports whether the declared list intersects the
// wanted list, honoring the "any" wildcard on the declaring side.
func matchesAnyWildcard(declared []string, wanted []string) bool {
	for _, d := range declared {
		if d == LanguageAny {
			return true
		}
		if containsFold(wanted, d) {
			return true
		}
	}
	return false
}
