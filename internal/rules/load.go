package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is one parsed rule-set file together with its origin path.
type Document struct {
	Set  RuleSet
	Path string
}

// ReadDocument parses and validates a single rule-set file. Rules that
// fail validation are dropped with a warning; the document itself is
// only rejected for structural problems (unreadable, unparseable, or an
// invalid header).
func ReadDocument(path string) (Document, []string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Document{}, nil, fmt.Errorf("read rule set %s: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return Document{}, nil, fmt.Errorf("refusing symlinked rule set: %s", path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, nil, fmt.Errorf("read rule set %s: %w", path, err)
	}

	var set RuleSet
	if err := yaml.Unmarshal(b, &set); err != nil {
		return Document{}, nil, fmt.Errorf("parse rule set %s: %w", path, err)
	}

	set = NormalizeSet(set)
	if err := ValidateSet(set); err != nil {
		return Document{}, nil, fmt.Errorf("invalid rule set %s: %w", path, err)
	}

	warnings := make([]string, 0)
	kept := make([]Rule, 0, len(set.Rules))
	for _, rule := range set.Rules {
		if err := ValidateRule(rule); err != nil {
			warnings = append(warnings, fmt.Sprintf("rule %q in %s skipped: %v", rule.ID, path, err))
			continue
		}
		kept = append(kept, rule)
	}
	set.Rules = kept

	return Document{Set: set, Path: path}, warnings, nil
}

// LoadDir loads every *.rules.yaml / *.rules.yml document in dir.
// A missing directory yields no documents and no error; a structurally
// invalid document is skipped with a warning and loading continues.
func LoadDir(dir string) ([]Document, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read rules dir: %w", err)
	}

	docs := make([]Document, 0, len(entries))
	warnings := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".rules.yaml") && !strings.HasSuffix(name, ".rules.yml") {
			continue
		}

		path := filepath.Join(dir, name)
		doc, docWarnings, loadErr := ReadDocument(path)
		warnings = append(warnings, docWarnings...)
		if loadErr != nil {
			warnings = append(warnings, loadErr.Error())
			continue
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, warnings, nil
}

// LoadDirs loads rule-set documents from every directory in order.
func LoadDirs(dirs []string) ([]Document, []string, error) {
	docs := make([]Document, 0, 8)
	warnings := make([]string, 0)
	for _, dir := range uniquePaths(dirs) {
		dirDocs, dirWarnings, err := LoadDir(dir)
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, dirDocs...)
		warnings = append(warnings, dirWarnings...)
	}
	return docs, warnings, nil
}

func uniquePaths(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, path := range in {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	return out
}
