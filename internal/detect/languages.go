// Package detect implements repository structure detection: locating build
// markers, resolving the language and primary source folder, extracting the
// importable library name, and ranking samples-folder candidates.
package detect

import (
	"path/filepath"
	"strings"
)

// LanguageSpec describes one supported language: how to recognize its
// projects and where its source conventionally lives. Specs are immutable and
// statically enumerated in Languages.
type LanguageSpec struct {
	Name        string // canonical identifier: "go", "python", ...
	DisplayName string
	Ext         string // primary source extension, including the dot

	// MarkerPatterns are build-marker filenames, exact or single-level glob,
	// in priority order.
	MarkerPatterns []string

	// SourceCandidates are conventional source paths relative to the project
	// root, in priority order. Entries may contain a single-level glob
	// ("*/src" means any immediate subdirectory's src folder).
	SourceCandidates []string

	// ConventionDir, when non-empty, is a source layout the language's build
	// tool enforces by default; it is trusted even when currently empty so
	// one module's detector cannot claim a sibling module's files.
	ConventionDir string

	// FirstMatchWins stops source resolution at the first candidate that
	// contains any source files instead of scoring every candidate.
	FirstMatchWins bool

	DefaultSamplesDir string
}

// Languages is the static catalog of supported languages.
var Languages = []*LanguageSpec{
	{
		Name:              "go",
		DisplayName:       "Go",
		Ext:               ".go",
		MarkerPatterns:    []string{"go.mod"},
		SourceCandidates:  []string{".", "src"},
		FirstMatchWins:    true,
		DefaultSamplesDir: "examples",
	},
	{
		Name:              "python",
		DisplayName:       "Python",
		Ext:               ".py",
		MarkerPatterns:    []string{"pyproject.toml", "setup.py"},
		SourceCandidates:  []string{"src", ".", "*/src"},
		DefaultSamplesDir: "samples",
	},
	{
		Name:              "java",
		DisplayName:       "Java",
		Ext:               ".java",
		MarkerPatterns:    []string{"pom.xml", "build.gradle", "build.gradle.kts"},
		SourceCandidates:  []string{"src/main/java", "src", ".", "*/src/main/java"},
		ConventionDir:     "src/main/java",
		DefaultSamplesDir: "samples",
	},
	{
		// The generic "script" manifest: a package.json project is assumed
		// JavaScript until ResolveLanguage finds typed-variant evidence.
		Name:              "javascript",
		DisplayName:       "JavaScript",
		Ext:               ".js",
		MarkerPatterns:    []string{"package.json"},
		SourceCandidates:  []string{"src", "lib", ".", "*/src"},
		DefaultSamplesDir: "samples",
	},
	{
		Name:              "typescript",
		DisplayName:       "TypeScript",
		Ext:               ".ts",
		MarkerPatterns:    nil, // reached only by upgrade from javascript
		SourceCandidates:  []string{"src", "lib", ".", "*/src"},
		DefaultSamplesDir: "samples",
	},
	{
		Name:              "csharp",
		DisplayName:       "C#",
		Ext:               ".cs",
		MarkerPatterns:    []string{"*.csproj"},
		SourceCandidates:  []string{"src", "."},
		FirstMatchWins:    true,
		DefaultSamplesDir: "samples",
	},
}

// SpecByName returns the LanguageSpec with the given canonical name, or nil.
func SpecByName(name string) *LanguageSpec {
	for _, spec := range Languages {
		if spec.Name == name {
			return spec
		}
	}
	return nil
}

// SourceExts is the set of recognized source extensions across all supported
// languages, used when a samples candidate must qualify without a known
// language.
var SourceExts = func() map[string]bool {
	exts := make(map[string]bool, len(Languages))
	for _, spec := range Languages {
		exts[spec.Ext] = true
	}
	return exts
}()

// matchesMarker reports whether a filename matches any of the spec's marker
// patterns.
func (s *LanguageSpec) matchesMarker(name string) bool {
	lowered := strings.ToLower(name)
	for _, pattern := range s.MarkerPatterns {
		if ok, err := filepath.Match(strings.ToLower(pattern), lowered); err == nil && ok {
			return true
		}
	}
	return false
}
