package detect

import (
	"os"
	"path/filepath"
	"strings"

	"sdkscout/internal/fswalk"
)

// Marker is a build-marker file discovered during a scan: the file itself,
// the directory containing it (a project-root candidate), and the language
// whose pattern matched.
type Marker struct {
	Path string
	Dir  string
	Lang *LanguageSpec
}

// LocateMarkers walks the repository once and reports every file matching any
// language's marker patterns. A repository normally yields several markers
// (monorepos, a library plus its tests); no dedup happens here — later stages
// select among them.
func LocateMarkers(root string, limits fswalk.Limits) []Marker {
	paths := fswalk.EnumerateFunc(root, limits, func(name string) bool {
		for _, spec := range Languages {
			if spec.matchesMarker(name) {
				return true
			}
		}
		return false
	})

	var markers []Marker
	for _, path := range paths {
		name := filepath.Base(path)
		for _, spec := range Languages {
			if spec.matchesMarker(name) {
				markers = append(markers, Marker{Path: path, Dir: filepath.Dir(path), Lang: spec})
			}
		}
	}
	return markers
}

// ResolveLanguage decides whether to keep a marker, upgrade its language, or
// discard it. The only ambiguous marker is package.json, shared by the static
// and typed variants of the same ecosystem: a tsconfig.json in the same
// directory or one level below upgrades the marker to TypeScript. Without
// one, a package.json declared private with no library-style export fields is
// tooling configuration, not an importable library, and the marker is
// dropped.
func ResolveLanguage(m Marker) (*LanguageSpec, bool) {
	if m.Lang.Name != "javascript" {
		return m.Lang, true
	}

	if hasTypeScriptConfig(m.Dir) {
		return SpecByName("typescript"), true
	}

	pkg, err := parsePackageJSON(m.Path)
	if err != nil {
		// Unparseable manifest: keep the marker, convention-based resolution
		// still applies.
		return m.Lang, true
	}
	if pkg.Private && pkg.Main == "" && pkg.Module == "" && pkg.Types == "" && pkg.Exports == nil {
		return nil, false
	}
	return m.Lang, true
}

// hasTypeScriptConfig checks dir and its immediate subdirectories for a
// tsconfig.json.
func hasTypeScriptConfig(dir string) bool {
	if fileExists(filepath.Join(dir, "tsconfig.json")) {
		return true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || fswalk.Excluded[name] || strings.HasPrefix(name, ".") {
			continue
		}
		if fileExists(filepath.Join(dir, name, "tsconfig.json")) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
