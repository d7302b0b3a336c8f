package detect

import (
	"log/slog"
	"path/filepath"

	"sdkscout/internal/fswalk"
)

// Result is the completed detection for one repository root. Computed once
// and cached by the caller; never mutated afterwards.
type Result struct {
	Root        string `json:"root"`
	Language    string `json:"language,omitempty"`
	DisplayName string `json:"displayName,omitempty"`

	SourceDir       string `json:"sourceDir,omitempty"`
	SourceFileCount int    `json:"sourceFileCount"`
	MarkerPath      string `json:"markerPath,omitempty"`

	SamplesDir          string             `json:"samplesDir,omitempty"`
	SuggestedSamplesDir string             `json:"suggestedSamplesDir"`
	SamplesCandidates   []SamplesCandidate `json:"samplesCandidates,omitempty"`

	LibraryName string `json:"libraryName,omitempty"`
}

// resolvedProject pairs a marker with its resolved language and source
// folder.
type resolvedProject struct {
	marker Marker
	lang   *LanguageSpec
	srcDir string
	count  int
}

// Run performs a full detection scan of root. It never fails: a repository
// with no markers or no source files yields a Result with language and
// source folder left empty, and the caller decides whether that is fatal.
func Run(root string, limits fswalk.Limits, logger *slog.Logger) *Result {
	result := &Result{
		Root:                root,
		SuggestedSamplesDir: filepath.Join(root, "samples"),
	}

	markers := LocateMarkers(root, limits)

	var primary, nested []resolvedProject
	for _, m := range markers {
		lang, keep := ResolveLanguage(m)
		if !keep {
			logger.Debug("marker discarded", "path", m.Path)
			continue
		}
		dir, count := resolveSourceDir(m, lang, limits, logger)
		if count == 0 && dir == "" {
			// Aggregator or empty project: excluded from consideration.
			continue
		}
		p := resolvedProject{marker: m, lang: lang, srcDir: dir, count: count}
		if m.isNested(root) {
			nested = append(nested, p)
		} else {
			primary = append(primary, p)
		}
	}

	// Markers not nested under auxiliary directories win; nested ones are a
	// fallback when nothing at the top yields source files. Ties break on
	// highest source-file count.
	best := pickProject(primary)
	if best == nil {
		best = pickProject(nested)
	}

	var lang *LanguageSpec
	var libName string
	if best != nil {
		lang = best.lang
		result.Language = lang.Name
		result.DisplayName = lang.DisplayName
		result.SourceDir = best.srcDir
		result.SourceFileCount = best.count
		result.MarkerPath = best.marker.Path

		libName = LibraryName(best.marker, lang, logger)
		result.LibraryName = libName
		result.SuggestedSamplesDir = filepath.Join(root, lang.DefaultSamplesDir)
	}

	result.SamplesCandidates = resolveSamples(root, lang, libName, limits)
	if len(result.SamplesCandidates) > 0 {
		result.SamplesDir = result.SamplesCandidates[0].Dir
		result.SuggestedSamplesDir = result.SamplesDir
	}

	return result
}

// pickProject returns the project with the most source files, or nil.
func pickProject(projects []resolvedProject) *resolvedProject {
	var best *resolvedProject
	for i := range projects {
		if projects[i].count == 0 {
			continue
		}
		if best == nil || projects[i].count > best.count {
			best = &projects[i]
		}
	}
	return best
}
