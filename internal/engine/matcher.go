package engine

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Investorold/arcshield-sub000/internal/model"
	"github.com/Investorold/arcshield-sub000/internal/rules"
)

const (
	// Context window around a candidate hit tested against a rule's
	// exclude patterns.
	excludeLinesBefore = 10
	excludeLinesAfter  = 5

	// Rule patterns are end-user supplied; bound each pattern's run
	// against one file so a backtracking-hostile expression cannot
	// stall the scan.
	patternTimeout = 5 * time.Second

	maxSnippetLen = 200
)

// Match is one raw pattern hit. Several matches may share the same
// (file, line, rule) triple; deduplication happens in the aggregator.
type Match struct {
	Rule        rules.Rule
	FilePath    string
	LineNumber  int
	CodeSnippet string
	Pattern     string
}

type compiledPattern struct {
	re  *regexp.Regexp
	src rules.Pattern
}

type compiledRule struct {
	rule     rules.Rule
	patterns []compiledPattern
	excludes []*regexp.Regexp
}

// Scanner applies an immutable rule snapshot to files. Construct one per
// scan from Store.Snapshot(); it holds no global state.
type Scanner struct {
	rules []compiledRule
	log   *zap.SugaredLogger
}

// NewScanner compiles the snapshot. An invalid pattern is diagnosed and
// skipped; the rule's remaining patterns still run.
func NewScanner(snapshot []rules.Rule, log *zap.SugaredLogger) *Scanner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	compiled := make([]compiledRule, 0, len(snapshot))
	for _, rule := range snapshot {
		cr := compiledRule{rule: rule}
		for _, p := range rule.Patterns {
			re, err := p.Compile()
			if err != nil {
				log.Warnw("skipping invalid pattern", "rule", rule.ID, "error", err)
				continue
			}
			cr.patterns = append(cr.patterns, compiledPattern{re: re, src: p})
		}
		for _, p := range rule.ExcludePatterns {
			re, err := p.Compile()
			if err != nil {
				log.Warnw("skipping invalid exclude pattern", "rule", rule.ID, "error", err)
				continue
			}
			cr.excludes = append(cr.excludes, re)
		}
		if len(cr.patterns) == 0 {
			continue
		}
		compiled = append(compiled, cr)
	}
	return &Scanner{rules: compiled, log: log}
}

// RuleCount returns the number of rules that compiled successfully.
func (s *Scanner) RuleCount() int {
	return len(s.rules)
}

// ScanFile returns every non-suppressed pattern hit in one file. Empty
// content yields zero matches.
func (s *Scanner) ScanFile(file model.FileRecord) []Match {
	if strings.TrimSpace(file.Content) == "" {
		return nil
	}

	language := DetectLanguage(file.Path, file.Language)
	framework := DetectFramework(file.Content)
	lines := strings.Split(file.Content, "\n")

	var matches []Match
	for _, cr := range s.rules {
		if !cr.rule.MatchesLanguage(language) || !cr.rule.MatchesFramework(framework) {
			continue
		}
		for _, cp := range cr.patterns {
			hits := s.applyPattern(cp, cr.rule.ID, file.Content, lines)
			for _, hit := range hits {
				if suppressed(cr.excludes, lines, hit.line) {
					continue
				}
				matches = append(matches, Match{
					Rule:        cr.rule,
					FilePath:    file.Path,
					LineNumber:  hit.line,
					CodeSnippet: snippet(hit.text),
					Pattern:     cp.src.Pattern,
				})
			}
		}
	}
	return matches
}

type patternHit struct {
	line int
	text string
}

// applyPattern runs one compiled pattern over the file inside the
// execution time bound. Multiline patterns search the whole content and
// resolve line numbers by counting breaks before the match offset;
// everything else is tested line by line. regexp values are stateless,
// so a compiled pattern is safely reused across lines and files.
func (s *Scanner) applyPattern(cp compiledPattern, ruleID string, content string, lines []string) []patternHit {
	return s.runBounded(ruleID, func() []patternHit {
		if cp.src.Multiline {
			var hits []patternHit
			for _, loc := range cp.re.FindAllStringIndex(content, -1) {
				line := 1 + strings.Count(content[:loc[0]], "\n")
				text := ""
				if line-1 < len(lines) {
					text = lines[line-1]
				}
				hits = append(hits, patternHit{line: line, text: text})
			}
			return hits
		}

		var hits []patternHit
		for i, line := range lines {
			if cp.re.MatchString(line) {
				hits = append(hits, patternHit{line: i + 1, text: line})
			}
		}
		return hits
	})
}

func (s *Scanner) runBounded(ruleID string, fn func() []patternHit) []patternHit {
	ch := make(chan []patternHit, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Warnw("pattern match panic", "rule", ruleID, "panic", r)
				ch <- nil
			}
		}()
		ch <- fn()
	}()

	select {
	case hits := <-ch:
		return hits
	case <-time.After(patternTimeout):
		s.log.Warnw("pattern match timed out", "rule", ruleID, "timeout", patternTimeout)
		return nil
	}
}

// suppressed tests a rule's exclude patterns against the lines
// surrounding the hit. Window bounds are clamped to the file.
func suppressed(excludes []*regexp.Regexp, lines []string, lineNumber int) bool {
	if len(excludes) == 0 {
		return false
	}
	start := lineNumber - 1 - excludeLinesBefore
	if start < 0 {
		start = 0
	}
	end := lineNumber + excludeLinesAfter
	if end > len(lines) {
		end = len(lines)
	}
	window := strings.Join(lines[start:end], "\n")
	for _, re := range excludes {
		if re.MatchString(window) {
			return true
		}
	}
	return false
}

func snippet(line string) string {
	line = strings.TrimSpace(line)
	if len(line) > maxSnippetLen {
		line = line[:maxSnippetLen] + "..."
	}
	return line
}
