package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Wildcard accepted in rule language and framework lists.
const LanguageAny = "any"

// Confidence levels carried by a rule and translated into the finding's
// exploitability note.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Pattern is one detector expression inside a rule. Flags is a compact
// regex flag string ("i", "im", ...); Multiline switches the matcher
// from line-by-line to whole-content search.
type Pattern struct {
	Pattern     string `yaml:"pattern" json:"pattern"`
	Flags       string `yaml:"flags,omitempty" json:"flags,omitempty"`
	Multiline   bool   `yaml:"multiline,omitempty" json:"multiline,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Compile translates the pattern plus its flag string into a Go regexp.
// Only the i, m, s and U flags are honored; anything else is rejected by
// validation before this point.
func (p Pattern) Compile() (*regexp.Regexp, error) {
	expr := p.Pattern
	if flags := sanitizeFlags(p.Flags); flags != "" {
		expr = "(?" + flags + ")" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", p.Pattern, err)
	}
	return re, nil
}

func sanitizeFlags(flags string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(flags)) {
		switch r {
		case 'i', 'm', 's':
			b.WriteRune(r)
		case 'u':
			b.WriteRune('U')
		}
	}
	return b.String()
}

// Rule is a declarative vulnerability detector: one or more patterns,
// optional suppression patterns, and the metadata copied onto findings.
type Rule struct {
	ID              string    `yaml:"id" json:"id"`
	Name            string    `yaml:"name" json:"name"`
	Description     string    `yaml:"description,omitempty" json:"description,omitempty"`
	Severity        string    `yaml:"severity" json:"severity"`
	Category        string    `yaml:"category" json:"category"`
	Languages       []string  `yaml:"languages" json:"languages"`
	Frameworks      []string  `yaml:"frameworks,omitempty" json:"frameworks,omitempty"`
	Patterns        []Pattern `yaml:"patterns" json:"patterns"`
	ExcludePatterns []Pattern `yaml:"exclude_patterns,omitempty" json:"exclude_patterns,omitempty"`
	CWE             string    `yaml:"cwe,omitempty" json:"cwe,omitempty"`
	OWASP           string    `yaml:"owasp,omitempty" json:"owasp,omitempty"`
	Remediation     string    `yaml:"remediation" json:"remediation"`
	BadExample      string    `yaml:"bad_example,omitempty" json:"bad_example,omitempty"`
	GoodExample     string    `yaml:"good_example,omitempty" json:"good_example,omitempty"`
	Enabled         bool      `yaml:"enabled" json:"enabled"`
	Tags            []string  `yaml:"tags,omitempty" json:"tags,omitempty"`
	Confidence      string    `yaml:"confidence,omitempty" json:"confidence,omitempty"`
}

// MatchesLanguage reports whether the rule applies to a file of the
// given language. A rule declaring the wildcard applies everywhere.
func (r Rule) MatchesLanguage(language string) bool {
	language = strings.ToLower(strings.TrimSpace(language))
	for _, l := range r.Languages {
		if l == LanguageAny || l == language {
			return true
		}
	}
	return false
}

// MatchesFramework reports whether the rule applies given the file's
// detected framework. Rules without a framework constraint always apply.
func (r Rule) MatchesFramework(framework string) bool {
	if len(r.Frameworks) == 0 {
		return true
	}
	framework = strings.ToLower(strings.TrimSpace(framework))
	for _, f := range r.Frameworks {
		if f == LanguageAny || f == framework {
			return true
		}
	}
	return false
}

// RuleSet is one named, versioned rule document.
type RuleSet struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Author      string `yaml:"author,omitempty" json:"author,omitempty"`
	Rules       []Rule `yaml:"rules" json:"rules"`
}

// SetInfo is the loaded-rule-set metadata exposed by the store.
type SetInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Author    string `json:"author,omitempty"`
	Path      string `json:"path,omitempty"`
	RuleCount int    `json:"rule_count"`
}
