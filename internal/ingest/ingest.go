// Package ingest is the file-discovery collaborator: it walks a source
// tree and produces the FileRecord list the engine consumes. The engine
// itself never touches the filesystem.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Investorold/arcshield-sub000/internal/engine"
	"github.com/Investorold/arcshield-sub000/internal/model"
)

const defaultMaxFileBytes = 1 * 1024 * 1024

// Directories that never contain scannable source. Dependency and build
// directories are NOT skipped: the provenance classifier needs to see
// them.
var skipDirs = map[string]struct{}{
	".git": {},
	".hg":  {},
	".svn": {},
	".idea": {},
	".vscode": {},
}

var binaryExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".ico": {}, ".svg": {},
	".pdf": {}, ".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".7z": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".a": {}, ".o": {},
	".jar": {}, ".class": {}, ".pyc": {}, ".wasm": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {},
	".mp3": {}, ".mp4": {}, ".mov": {}, ".avi": {},
	".db": {}, ".sqlite": {},
}

type Options struct {
	MaxFileBytes int64
}

// Collect walks root and returns records for every text file under the
// size limit. Unreadable files are reported as warnings, not errors.
func Collect(root string, opts Options) ([]model.FileRecord, []string, error) {
	maxBytes := opts.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxFileBytes
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		record, warning := readRecord(root, root, maxBytes)
		if warning != "" {
			return nil, []string{warning}, nil
		}
		return []model.FileRecord{record}, nil, nil
	}

	var records []model.FileRecord
	var warnings []string

	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("walk %s: %v", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if _, binary := binaryExtensions[strings.ToLower(filepath.Ext(path))]; binary {
			return nil
		}

		record, warning := readRecord(root, path, maxBytes)
		if warning != "" {
			warnings = append(warnings, warning)
			return nil
		}
		records = append(records, record)
		return nil
	})
	if walkErr != nil {
		return nil, warnings, fmt.Errorf("walk scan root: %w", walkErr)
	}
	return records, warnings, nil
}

func readRecord(root, path string, maxBytes int64) (model.FileRecord, string) {
	info, err := os.Stat(path)
	if err != nil {
		return model.FileRecord{}, fmt.Sprintf("stat %s: %v", path, err)
	}
	if info.Size() > maxBytes {
		return model.FileRecord{}, fmt.Sprintf("skipped %s (size=%d exceeds %d)", path, info.Size(), maxBytes)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return model.FileRecord{}, fmt.Sprintf("read %s: %v", path, err)
	}
	if isBinary(b) {
		return model.FileRecord{}, fmt.Sprintf("skipped %s (binary content)", path)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)

	content := string(b)
	return model.FileRecord{
		Path:      rel,
		Content:   content,
		Language:  engine.DetectLanguage(rel, ""),
		LineCount: strings.Count(content, "\n") + 1,
	}, ""
}

// isBinary samples the first KB for NUL bytes.
func isBinary(b []byte) bool {
	limit := len(b)
	if limit > 1024 {
		limit = 1024
	}
	for _, c := range b[:limit] {
		if c == 0 {
			return true
		}
	}
	return false
}
