package detect

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// maxManifestBytes caps how much of a build-marker file is read. Anything
// larger is almost certainly not a hand-written manifest and is skipped in
// favor of convention-based resolution.
const maxManifestBytes = 1 << 20

// readManifest reads a marker file, enforcing the size cap.
func readManifest(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxManifestBytes {
		return nil, fmt.Errorf("manifest %s exceeds %d bytes", path, maxManifestBytes)
	}
	return os.ReadFile(path)
}

// --- pyproject.toml ---

type pyprojectFile struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Setuptools struct {
			Packages struct {
				Find struct {
					// where is a string or an array of strings.
					Where any `toml:"where"`
				} `toml:"find"`
			} `toml:"packages"`
		} `toml:"setuptools"`
		Poetry struct {
			Name string `toml:"name"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func parsePyproject(path string) (*pyprojectFile, error) {
	data, err := readManifest(path)
	if err != nil {
		return nil, err
	}
	var pp pyprojectFile
	if err := toml.Unmarshal(data, &pp); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &pp, nil
}

// sourceDirDecl returns the declared source directory, if any.
func (pp *pyprojectFile) sourceDirDecl() string {
	switch where := pp.Tool.Setuptools.Packages.Find.Where.(type) {
	case string:
		return where
	case []any:
		if len(where) > 0 {
			if s, ok := where[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

func (pp *pyprojectFile) libraryName() string {
	if pp.Project.Name != "" {
		return pp.Project.Name
	}
	return pp.Tool.Poetry.Name
}

// --- pom.xml ---

type pomFile struct {
	XMLName xml.Name `xml:"project"`
	GroupID string   `xml:"groupId"`
	Parent  struct {
		GroupID string `xml:"groupId"`
	} `xml:"parent"`
	Build struct {
		SourceDirectory string `xml:"sourceDirectory"`
	} `xml:"build"`
}

func parsePom(path string) (*pomFile, error) {
	data, err := readManifest(path)
	if err != nil {
		return nil, err
	}
	var pom pomFile
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &pom, nil
}

func (p *pomFile) groupID() string {
	if p.GroupID != "" {
		return p.GroupID
	}
	return p.Parent.GroupID
}

// --- package.json / tsconfig.json ---

type packageJSONFile struct {
	Name    string `json:"name"`
	Private bool   `json:"private"`
	Main    string `json:"main"`
	Module  string `json:"module"`
	Types   string `json:"types"`
	Exports any    `json:"exports"`
}

func parsePackageJSON(path string) (*packageJSONFile, error) {
	data, err := readManifest(path)
	if err != nil {
		return nil, err
	}
	var pkg packageJSONFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &pkg, nil
}

// tsconfigRootDir extracts compilerOptions.rootDir. tsconfig files often
// carry comments the standard decoder rejects; failures just mean falling
// back to conventions.
func tsconfigRootDir(path string) string {
	data, err := readManifest(path)
	if err != nil {
		return ""
	}
	var ts struct {
		CompilerOptions struct {
			RootDir string `json:"rootDir"`
		} `json:"compilerOptions"`
	}
	if err := json.Unmarshal(data, &ts); err != nil {
		return ""
	}
	return ts.CompilerOptions.RootDir
}

// --- go.mod ---

// goModulePath returns the module path from a go.mod file.
func goModulePath(path string) string {
	data, err := readManifest(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "module "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// --- Gradle (heuristic line scan) ---
//
// Gradle build files are a Groovy/Kotlin DSL that cannot be statically parsed
// without executing it. This is intentionally a best-effort scan of the
// handful of declaration shapes seen in practice; the recognized patterns
// grow only when a real repository needs it.

// gradleSourceDir looks for srcDir/srcDirs declarations.
func gradleSourceDir(path string) string {
	data, err := readManifest(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "srcDir") {
			continue
		}
		if dir := firstQuoted(line); dir != "" {
			return dir
		}
	}
	return ""
}

// gradleGroup looks for a group assignment ("group = 'com.example'").
func gradleGroup(path string) string {
	data, err := readManifest(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "group") {
			rest := strings.TrimPrefix(trimmed, "group")
			rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), "="))
			if g := firstQuoted(rest); g != "" {
				return g
			}
		}
	}
	return ""
}

// firstQuoted returns the first single- or double-quoted string in s.
func firstQuoted(s string) string {
	for _, quote := range []byte{'\'', '"'} {
		start := strings.IndexByte(s, quote)
		if start < 0 {
			continue
		}
		end := strings.IndexByte(s[start+1:], quote)
		if end < 0 {
			continue
		}
		return s[start+1 : start+1+end]
	}
	return ""
}

// --- setup.py (heuristic line scan) ---

// setupPyName extracts the name= argument from a setup.py call.
func setupPyName(path string) string {
	data, err := readManifest(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "name") {
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "name"))
			if strings.HasPrefix(rest, "=") {
				if name := firstQuoted(rest); name != "" {
					return name
				}
			}
		}
	}
	return ""
}

// --- .csproj ---

type csprojFile struct {
	PropertyGroups []struct {
		RootNamespace string `xml:"RootNamespace"`
		AssemblyName  string `xml:"AssemblyName"`
	} `xml:"PropertyGroup"`
}

func parseCsproj(path string) (*csprojFile, error) {
	data, err := readManifest(path)
	if err != nil {
		return nil, err
	}
	var proj csprojFile
	if err := xml.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &proj, nil
}

func (c *csprojFile) namespace() string {
	for _, pg := range c.PropertyGroups {
		if pg.RootNamespace != "" {
			return pg.RootNamespace
		}
	}
	for _, pg := range c.PropertyGroups {
		if pg.AssemblyName != "" {
			return pg.AssemblyName
		}
	}
	return ""
}
