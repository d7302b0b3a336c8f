package detect

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sdkscout/internal/fswalk"
)

// auxDirNames are ancestor directory names that mark a build marker as
// auxiliary (a sample, test, or docs project rather than the library itself).
var auxDirNames = map[string]bool{
	"samples":  true,
	"sample":   true,
	"examples": true,
	"example":  true,
	"demo":     true,
	"demos":    true,
	"tests":    true,
	"test":     true,
	"testing":  true,
	"docs":     true,
	"doc":      true,
	"spec":     true,
	"specs":    true,
}

// isNested reports whether the marker sits beneath an auxiliary-named
// ancestor directory, relative to the scanned root.
func (m Marker) isNested(root string) bool {
	rel, err := filepath.Rel(root, m.Dir)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if auxDirNames[strings.ToLower(part)] {
			return true
		}
	}
	return false
}

// resolveSourceDir determines the folder containing a project's source files.
// An explicit declaration in the marker file wins when it exists and has
// files, or when the build tool enforces it as a fixed convention; otherwise
// the language's conventional candidates are evaluated. Returns ("", 0) when
// no candidate yields any source files.
func resolveSourceDir(m Marker, lang *LanguageSpec, limits fswalk.Limits, logger *slog.Logger) (string, int) {
	if dir, count, ok := explicitSourceDir(m, lang, limits, logger); ok {
		return dir, count
	}

	var bestDir string
	bestCount := 0
	for _, candidate := range expandCandidates(m.Dir, lang.SourceCandidates) {
		count := countSource(m.Dir, candidate, lang.Ext, limits)
		if count == 0 {
			continue
		}
		if lang.FirstMatchWins {
			return candidate, count
		}
		if count > bestCount {
			bestDir, bestCount = candidate, count
		}
	}
	return bestDir, bestCount
}

// explicitSourceDir extracts a source-directory declaration from the marker
// file itself. The bool result reports whether the declaration is confirmed:
// it has source files, or the language's build tool enforces it as the fixed
// default layout (trusted even while empty, so one module's detector does not
// claim a sibling's files).
func explicitSourceDir(m Marker, lang *LanguageSpec, limits fswalk.Limits, logger *slog.Logger) (string, int, bool) {
	var declared string

	switch lang.Name {
	case "python":
		if filepath.Base(m.Path) == "pyproject.toml" {
			pp, err := parsePyproject(m.Path)
			if err != nil {
				logger.Debug("manifest parse failed", "path", m.Path, "err", err)
				break
			}
			declared = pp.sourceDirDecl()
		}
	case "java":
		switch filepath.Base(m.Path) {
		case "pom.xml":
			pom, err := parsePom(m.Path)
			if err != nil {
				logger.Debug("manifest parse failed", "path", m.Path, "err", err)
				break
			}
			declared = pom.Build.SourceDirectory
		default: // build.gradle, build.gradle.kts
			declared = gradleSourceDir(m.Path)
		}
	case "typescript":
		declared = tsconfigRootDir(filepath.Join(m.Dir, "tsconfig.json"))
	}

	if declared != "" {
		abs := filepath.Join(m.Dir, filepath.FromSlash(declared))
		if dirExists(abs) {
			count := fswalk.CountRecursive(abs, lang.Ext, limits)
			if count > 0 || lang.ConventionDir != "" {
				return abs, count, true
			}
		}
	}

	// The convention-enforced layout counts as an explicit declaration even
	// without one written down: Maven/Gradle own src/main/java.
	if lang.ConventionDir != "" {
		conventional := filepath.Join(m.Dir, filepath.FromSlash(lang.ConventionDir))
		if dirExists(conventional) {
			return conventional, fswalk.CountRecursive(conventional, lang.Ext, limits), true
		}
	}

	return "", 0, false
}

// expandCandidates resolves a spec's candidate list to absolute paths,
// expanding single-level glob entries against the project root's immediate
// subdirectories.
func expandCandidates(projectDir string, candidates []string) []string {
	var out []string
	for _, candidate := range candidates {
		if !strings.Contains(candidate, "*") {
			abs := filepath.Join(projectDir, filepath.FromSlash(candidate))
			if dirExists(abs) {
				out = append(out, abs)
			}
			continue
		}
		// "*/rest": each immediate subdirectory's nested path.
		rest := strings.TrimPrefix(candidate, "*/")
		entries, err := os.ReadDir(projectDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !entry.IsDir() || fswalk.Excluded[name] || strings.HasPrefix(name, ".") {
				continue
			}
			abs := filepath.Join(projectDir, name, filepath.FromSlash(rest))
			if dirExists(abs) {
				out = append(out, abs)
			}
		}
	}
	return out
}

// countSource counts source files in a candidate. The bare project root is
// counted shallow so it does not over-claim files that belong to
// subdirectories; named candidates count recursively.
func countSource(projectDir, candidate, ext string, limits fswalk.Limits) int {
	if candidate == projectDir {
		return fswalk.CountShallow(candidate, ext)
	}
	return fswalk.CountRecursive(candidate, ext, limits)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
