// Package provenance classifies finding paths as first-party code or a
// specific kind of third-party dependency.
package provenance

import (
	"path"
	"regexp"
	"strings"

	"github.com/Investorold/arcshield-sub000/internal/model"
)

// Classification is the provenance verdict for one file path.
type Classification struct {
	IsThirdParty   bool
	Source         string
	DependencyType string
	IsTest         bool
	IsGenerated    bool
}

// Conventional dependency directory names across common package
// ecosystems.
var thirdPartyDirs = map[string]struct{}{
	"node_modules":     {},
	"bower_components": {},
	"jspm_packages":    {},
	".pnpm":            {},
	"vendor":           {},
	"vendors":          {},
	"third_party":      {},
	"thirdparty":       {},
	"external":         {},
	"externals":        {},
	"site-packages":    {},
	"dist-packages":    {},
	".venv":            {},
	"venv":             {},
	"virtualenv":       {},
	"pods":             {},
	"carthage":         {},
	".nuget":           {},
	".cargo":           {},
	".m2":              {},
	".gradle":          {},
}

// Markers meaning "a copy committed into the repo" rather than a
// package-manager install.
var vendoredDirs = map[string]struct{}{
	"vendor":      {},
	"vendors":     {},
	"third_party": {},
	"thirdparty":  {},
	"external":    {},
	"externals":   {},
}

// Package-manager cache and store segments; anything under these is an
// installed (often transitive) dependency tree.
var cacheDirs = map[string]struct{}{
	".pnpm":         {},
	"site-packages": {},
	"dist-packages": {},
	".cargo":        {},
	".m2":           {},
	".gradle":       {},
	".nuget":        {},
}

// Minified/bundled filename conventions and well-known SDK bundles.
var bundledFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.min\.(js|css)$`),
	regexp.MustCompile(`\.(bundle|pack|chunk)\.js$`),
	regexp.MustCompile(`^vendor[.-].*\.js$`),
	regexp.MustCompile(`^chunk-vendors.*\.js$`),
	regexp.MustCompile(`^(jquery|bootstrap|lodash|moment|angular|react|vue|zone|polyfills)([.-][\w.-]*)?\.js$`),
	regexp.MustCompile(`^(firebase|stripe|analytics|gtag|segment|amplitude)[\w.-]*\.js$`),
	regexp.MustCompile(`[-.]sdk[\w.-]*\.js$`),
}

var testDirs = map[string]struct{}{
	"test":      {},
	"tests":     {},
	"__tests__": {},
	"spec":      {},
	"specs":     {},
	"fixtures":  {},
	"mocks":     {},
	"__mocks__": {},
	"testdata":  {},
	"e2e":       {},
}

var testFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`_test\.go$`),
	regexp.MustCompile(`\.(test|spec)\.(js|jsx|ts|tsx|mjs)$`),
	regexp.MustCompile(`^test_[\w-]+\.py$`),
	regexp.MustCompile(`_spec\.rb$`),
	regexp.MustCompile(`test\.(java|kt)$`),
}

var generatedDirs = map[string]struct{}{
	"dist":        {},
	"build":       {},
	"out":         {},
	".next":       {},
	".nuxt":       {},
	"coverage":    {},
	"target":      {},
	"generated":   {},
	"__pycache__": {},
	"bin":         {},
	"obj":         {},
}

var generatedFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.pb\.go$`),
	regexp.MustCompile(`_generated\.\w+$`),
	regexp.MustCompile(`\.generated\.\w+$`),
	regexp.MustCompile(`_pb2\.py$`),
	regexp.MustCompile(`\.g\.(dart|cs)$`),
}

// Classify evaluates the provenance cascade for a path; the first
// matching stage wins. The path is normalized first, so separator style
// and case do not change the verdict.
func Classify(filePath string) Classification {
	norm := Normalize(filePath)
	if norm == "" {
		return Classification{}
	}
	segments := strings.Split(norm, "/")
	base := path.Base(norm)

	// 1. Third-party directory markers.
	if marker, source, count := thirdPartyMarker(segments); marker != "" {
		return Classification{
			IsThirdParty:   true,
			Source:         source,
			DependencyType: dependencyType(marker, segments, count),
		}
	}

	// 2. Bundled-SDK filename conventions.
	for _, re := range bundledFilePatterns {
		if re.MatchString(base) {
			return Classification{
				IsThirdParty:   true,
				Source:         base,
				DependencyType: model.DependencyBundled,
			}
		}
	}

	// 3. Test paths.
	for _, seg := range segments[:len(segments)-1] {
		if _, ok := testDirs[seg]; ok {
			return Classification{IsTest: true}
		}
	}
	for _, re := range testFilePatterns {
		if re.MatchString(base) {
			return Classification{IsTest: true}
		}
	}

	// 4. Generated and build-output paths.
	for _, seg := range segments[:len(segments)-1] {
		if _, ok := generatedDirs[seg]; ok {
			return Classification{IsGenerated: true}
		}
	}
	for _, re := range generatedFilePatterns {
		if re.MatchString(base) {
			return Classification{IsGenerated: true}
		}
	}

	// 5. First-party.
	return Classification{}
}

// Normalize unifies separators, folds case, and strips leading "./".
func Normalize(filePath string) string {
	p := strings.ToLower(strings.TrimSpace(filePath))
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	return path.Clean(p)
}

// thirdPartyMarker returns the first dependency-directory segment, a
// source label ("marker/package" when the package name is visible), and
// how many marker segments appear in the whole path.
func thirdPartyMarker(segments []string) (marker string, source string, count int) {
	firstIdx := -1
	for i, seg := range segments[:len(segments)-1] {
		if _, ok := thirdPartyDirs[seg]; ok {
			count++
			if firstIdx == -1 {
				firstIdx = i
				marker = seg
			}
		}
	}
	if firstIdx == -1 {
		return "", "", 0
	}
	source = marker
	if firstIdx+1 < len(segments)-1 {
		source = marker + "/" + segments[firstIdx+1]
	}
	return marker, source, count
}

// dependencyType runs the second cascade: vendored marker, then nested
// or cache-resident (transitive), then direct.
func dependencyType(marker string, segments []string, markerCount int) string {
	if _, ok := vendoredDirs[marker]; ok {
		return model.DependencyVendored
	}
	if markerCount > 1 {
		return model.DependencyTransitive
	}
	for _, seg := range segments[:len(segments)-1] {
		if _, ok := cacheDirs[seg]; ok {
			return model.DependencyTransitive
		}
	}
	return model.DependencyDirect
}

// TagVulnerabilities applies Classify to every finding's path and merges
// the provenance fields. No other field is altered.
func TagVulnerabilities(vulns []model.Vulnerability) []model.Vulnerability {
	out := make([]model.Vulnerability, len(vulns))
	for i, v := range vulns {
		c := Classify(v.FilePath)
		v.IsThirdParty = c.IsThirdParty
		v.ThirdPartySource = c.Source
		v.DependencyType = c.DependencyType
		v.IsTest = c.IsTest
		v.IsGenerated = c.IsGenerated
		out[i] = v
	}
	return out
}
