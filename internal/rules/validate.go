package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var validSeverities = map[string]struct{}{
	"critical": {},
	"high":     {},
	"medium":   {},
	"low":      {},
	"info":     {},
}

var validCategories = map[string]struct{}{
	"injection":        {},
	"authentication":   {},
	"authorization":    {},
	"cryptography":     {},
	"data_exposure":    {},
	"input_validation": {},
	"configuration":    {},
	"smart_contract":   {},
	"prompt_injection": {},
	"api_security":     {},
	"dos":              {},
	"other":            {},
}

var validConfidences = map[string]struct{}{
	ConfidenceHigh:   {},
	ConfidenceMedium: {},
	ConfidenceLow:    {},
}

// NormalizeRule trims and lowercases the enum-like fields so downstream
// comparisons are exact. Missing confidence defaults to medium.
func NormalizeRule(r Rule) Rule {
	r.ID = strings.ToLower(strings.TrimSpace(r.ID))
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		r.Name = r.ID
	}
	r.Description = strings.TrimSpace(r.Description)
	r.Severity = strings.ToLower(strings.TrimSpace(r.Severity))
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.Languages = normalizeList(r.Languages)
	r.Frameworks = normalizeList(r.Frameworks)
	r.CWE = strings.TrimSpace(r.CWE)
	r.OWASP = strings.TrimSpace(r.OWASP)
	r.Remediation = strings.TrimSpace(r.Remediation)
	r.Confidence = strings.ToLower(strings.TrimSpace(r.Confidence))
	if r.Confidence == "" {
		r.Confidence = ConfidenceMedium
	}
	tags := normalizeList(r.Tags)
	sort.Strings(tags)
	r.Tags = tags
	for i := range r.Patterns {
		r.Patterns[i].Pattern = strings.TrimSpace(r.Patterns[i].Pattern)
		r.Patterns[i].Description = strings.TrimSpace(r.Patterns[i].Description)
	}
	for i := range r.ExcludePatterns {
		r.ExcludePatterns[i].Pattern = strings.TrimSpace(r.ExcludePatterns[i].Pattern)
	}
	return r
}

// ValidateRule checks the structural invariants of a single rule.
// Unrecognized severity and category values are rejected here rather
// than silently defaulted downstream.
func ValidateRule(r Rule) error {
	var errs []string

	if r.ID == "" {
		errs = append(errs, "id is required")
	}
	if _, ok := validSeverities[r.Severity]; !ok {
		errs = append(errs, fmt.Sprintf("severity %q must be critical|high|medium|low|info", r.Severity))
	}
	if _, ok := validCategories[r.Category]; !ok {
		errs = append(errs, fmt.Sprintf("unknown category %q", r.Category))
	}
	if len(r.Languages) == 0 {
		errs = append(errs, "languages must list at least one language or \"any\"")
	}
	if len(r.Patterns) == 0 {
		errs = append(errs, "patterns must contain at least one pattern")
	}
	for i, p := range r.Patterns {
		if p.Pattern == "" {
			errs = append(errs, fmt.Sprintf("patterns[%d].pattern is required", i))
			continue
		}
		if _, err := p.Compile(); err != nil {
			errs = append(errs, fmt.Sprintf("patterns[%d]: %v", i, err))
		}
	}
	for i, p := range r.ExcludePatterns {
		if p.Pattern == "" {
			errs = append(errs, fmt.Sprintf("exclude_patterns[%d].pattern is required", i))
			continue
		}
		if _, err := p.Compile(); err != nil {
			errs = append(errs, fmt.Sprintf("exclude_patterns[%d]: %v", i, err))
		}
	}
	if _, ok := validConfidences[r.Confidence]; !ok {
		errs = append(errs, fmt.Sprintf("confidence %q must be high|medium|low", r.Confidence))
	}
	if r.Remediation == "" {
		errs = append(errs, "remediation is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// NormalizeSet normalizes the document header and every rule in it.
func NormalizeSet(set RuleSet) RuleSet {
	set.Name = strings.TrimSpace(set.Name)
	set.Version = strings.TrimSpace(set.Version)
	set.Description = strings.TrimSpace(set.Description)
	set.Author = strings.TrimSpace(set.Author)
	for i := range set.Rules {
		set.Rules[i] = NormalizeRule(set.Rules[i])
	}
	return set
}

// ValidateSet checks the document header. Per-rule problems are handled
// by the loader so one bad rule does not discard its siblings.
func ValidateSet(set RuleSet) error {
	var errs []string
	if set.Name == "" {
		errs = append(errs, "name is required")
	}
	if set.Version == "" {
		errs = append(errs, "version is required")
	}
	if len(set.Rules) == 0 {
		errs = append(errs, "rules must contain at least one rule")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func normalizeList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, item := range in {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
