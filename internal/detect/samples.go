package detect

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sdkscout/internal/fswalk"
)

// SamplesCandidate is one ranked samples-directory candidate.
type SamplesCandidate struct {
	Dir         string `json:"dir"`
	ImportScore int    `json:"importScore"` // files importing the library
	FileScore   int    `json:"fileScore"`   // source files inside
}

// conventionNames are samples-folder names tested at the repository root and
// one level deep, in priority order. Entries may be single-level globs.
var conventionNames = []string{
	"samples", "examples", "sample", "example", "demo", "demos", "snippets",
	"*samples", "*examples",
}

// nonSampleNames are top-level directories never considered during the
// import-discovery phase: recognizable source, test, and docs layouts.
var nonSampleNames = map[string]bool{
	"src":   true,
	"lib":   true,
	"test":  true,
	"tests": true,
	"docs":  true,
	"doc":   true,
}

// Bounds for the import-discovery phase: per directory, how many files are
// scanned and how many leading lines of each are read.
const (
	maxImportScanFiles = 50
	maxImportScanLines = 80
)

// LibraryName extracts the importable name of the library from the project's
// manifest. An empty result is not an error; it just disables the
// import-based samples heuristic.
func LibraryName(m Marker, lang *LanguageSpec, logger *slog.Logger) string {
	switch lang.Name {
	case "go":
		return goModulePath(m.Path)
	case "python":
		if filepath.Base(m.Path) == "pyproject.toml" {
			pp, err := parsePyproject(m.Path)
			if err != nil {
				logger.Debug("manifest parse failed", "path", m.Path, "err", err)
				return ""
			}
			return pp.libraryName()
		}
		return setupPyName(m.Path)
	case "java":
		if filepath.Base(m.Path) == "pom.xml" {
			pom, err := parsePom(m.Path)
			if err != nil {
				logger.Debug("manifest parse failed", "path", m.Path, "err", err)
				return ""
			}
			return pom.groupID()
		}
		return gradleGroup(m.Path)
	case "javascript", "typescript":
		pkg, err := parsePackageJSON(filepath.Join(m.Dir, "package.json"))
		if err != nil {
			logger.Debug("manifest parse failed", "path", m.Path, "err", err)
			return ""
		}
		return pkg.Name
	case "csharp":
		proj, err := parseCsproj(m.Path)
		if err != nil {
			logger.Debug("manifest parse failed", "path", m.Path, "err", err)
			return ""
		}
		if ns := proj.namespace(); ns != "" {
			return ns
		}
		return strings.TrimSuffix(filepath.Base(m.Path), filepath.Ext(m.Path))
	}
	return ""
}

// resolveSamples produces the ranked candidate list and the best guess.
// Convention-named folders are tested at the root and one level deep;
// when a library name is known, every other top-level folder is scanned for
// import statements referencing it, catching unconventionally named samples
// directories. The repository root itself is never a candidate.
func resolveSamples(root string, lang *LanguageSpec, libName string, limits fswalk.Limits) []SamplesCandidate {
	byDir := make(map[string]*SamplesCandidate)

	addCandidate := func(dir string) *SamplesCandidate {
		if c, ok := byDir[dir]; ok {
			return c
		}
		c := &SamplesCandidate{Dir: dir, FileScore: sampleFileCount(dir, lang, limits)}
		byDir[dir] = c
		return c
	}

	// Convention phase.
	for _, dir := range conventionDirs(root) {
		if c := addCandidate(dir); c.FileScore == 0 {
			delete(byDir, dir)
		}
	}

	// Import-discovery phase.
	if libName != "" {
		entries, err := os.ReadDir(root)
		if err == nil {
			for _, entry := range entries {
				name := entry.Name()
				if !entry.IsDir() || fswalk.Excluded[name] || strings.HasPrefix(name, ".") ||
					nonSampleNames[strings.ToLower(name)] {
					continue
				}
				dir := filepath.Join(root, name)
				score := importScore(dir, lang, libName, limits)
				if score > 0 {
					addCandidate(dir).ImportScore = score
				}
			}
		}
	}

	candidates := make([]SamplesCandidate, 0, len(byDir))
	for dir, c := range byDir {
		if dir == root {
			continue
		}
		candidates = append(candidates, *c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if libName != "" && candidates[i].ImportScore != candidates[j].ImportScore {
			return candidates[i].ImportScore > candidates[j].ImportScore
		}
		if candidates[i].FileScore != candidates[j].FileScore {
			return candidates[i].FileScore > candidates[j].FileScore
		}
		return candidates[i].Dir < candidates[j].Dir
	})
	return candidates
}

// conventionDirs lists existing directories matching the convention names at
// root and one level deep.
func conventionDirs(root string) []string {
	var dirs []string
	seen := make(map[string]bool)

	appendMatches := func(base string) {
		entries, err := os.ReadDir(base)
		if err != nil {
			return
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := strings.ToLower(entry.Name())
			for _, pattern := range conventionNames {
				if ok, err := filepath.Match(pattern, name); err == nil && ok {
					dir := filepath.Join(base, entry.Name())
					if !seen[dir] {
						seen[dir] = true
						dirs = append(dirs, dir)
					}
					break
				}
			}
		}
	}

	appendMatches(root)
	entries, err := os.ReadDir(root)
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() && !fswalk.Excluded[name] && !strings.HasPrefix(name, ".") {
				appendMatches(filepath.Join(root, name))
			}
		}
	}
	return dirs
}

// sampleFileCount counts qualifying source files in a candidate: files of the
// detected extension, or of any recognized source extension when the language
// is unknown.
func sampleFileCount(dir string, lang *LanguageSpec, limits fswalk.Limits) int {
	exts := SourceExts
	if lang != nil {
		exts = map[string]bool{lang.Ext: true}
	}
	return len(fswalk.EnumerateExts(dir, exts, limits))
}

// importScore counts files in dir whose leading lines contain an import of
// the library. Bounded by maxImportScanFiles / maxImportScanLines.
func importScore(dir string, lang *LanguageSpec, libName string, limits fswalk.Limits) int {
	exts := SourceExts
	if lang != nil {
		exts = map[string]bool{lang.Ext: true}
	}
	scanLimits := limits
	if scanLimits.MaxFiles > maxImportScanFiles {
		scanLimits.MaxFiles = maxImportScanFiles
	}

	score := 0
	for _, file := range fswalk.EnumerateExts(dir, exts, scanLimits) {
		if fileImports(file, lang, libName) {
			score++
		}
	}
	return score
}

// fileImports scans the leading lines of a file for an import statement
// referencing libName. Matching is purely string-based per language; no
// regular expressions, no evaluation.
func fileImports(path string, lang *LanguageSpec, libName string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	langName := ""
	if lang != nil {
		langName = lang.Name
	} else {
		if spec := specForExt(filepath.Ext(path)); spec != nil {
			langName = spec.Name
		}
	}

	scanner := bufio.NewScanner(f)
	for lines := 0; scanner.Scan() && lines < maxImportScanLines; lines++ {
		if lineImports(langName, scanner.Text(), libName) {
			return true
		}
	}
	return false
}

// lineImports applies the language's import syntax rules to a single line.
func lineImports(langName, line, libName string) bool {
	trimmed := strings.TrimSpace(line)
	switch langName {
	case "python":
		if rest, ok := strings.CutPrefix(trimmed, "import "); ok {
			return moduleRefMatches(rest, libName)
		}
		if rest, ok := strings.CutPrefix(trimmed, "from "); ok {
			return moduleRefMatches(rest, libName)
		}
	case "go":
		// Both single-line and grouped import forms quote the path.
		return strings.Contains(trimmed, `"`+libName+`"`) ||
			strings.Contains(trimmed, `"`+libName+`/`)
	case "java":
		if rest, ok := strings.CutPrefix(trimmed, "import "); ok {
			rest = strings.TrimPrefix(rest, "static ")
			return strings.HasPrefix(rest, libName)
		}
	case "javascript", "typescript":
		if !strings.Contains(trimmed, "import") && !strings.Contains(trimmed, "require") {
			return false
		}
		for _, quoted := range []string{
			`"` + libName + `"`, `'` + libName + `'`,
			`"` + libName + `/`, `'` + libName + `/`,
		} {
			if strings.Contains(trimmed, quoted) {
				return true
			}
		}
	case "csharp":
		if rest, ok := strings.CutPrefix(trimmed, "using "); ok {
			return strings.HasPrefix(rest, libName)
		}
	}
	return false
}

// moduleRefMatches reports whether a python module reference starts with
// libName as a whole dotted segment. Python package names use underscores
// where project names use dashes.
func moduleRefMatches(ref, libName string) bool {
	normalized := strings.ReplaceAll(libName, "-", "_")
	if !strings.HasPrefix(ref, normalized) {
		return false
	}
	rest := ref[len(normalized):]
	return rest == "" || strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, " ")
}

// specForExt maps a file extension to its language spec, if recognized.
func specForExt(ext string) *LanguageSpec {
	lowered := strings.ToLower(ext)
	for _, spec := range Languages {
		if spec.Ext == lowered {
			return spec
		}
	}
	return nil
}
