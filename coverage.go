package sdkscout

import (
	"sort"
	"strings"
)

// CoverageOptions tunes the coverage matcher.
type CoverageOptions struct {
	// FileCount is the number of sample files the call sites came from,
	// recorded in the result.
	FileCount int

	// ClientNameMatcher decides whether a call site's receiver text plausibly
	// refers to the named type. Nil selects DefaultClientNameMatcher.
	// Swappable so alternate naming conventions can be plugged in.
	ClientNameMatcher func(receiver, typeName string) bool
}

// DefaultClientNameMatcher matches a receiver against a type name by
// case-insensitive substring on the name with a trailing "AsyncClient" or
// "Client" suffix stripped, or a literal match on the word "client" —
// sample code overwhelmingly names its variable after the client type or
// just "client".
func DefaultClientNameMatcher(receiver, typeName string) bool {
	stripped := strings.TrimSuffix(typeName, "AsyncClient")
	if stripped == typeName {
		stripped = strings.TrimSuffix(typeName, "Client")
	}
	lowered := strings.ToLower(receiver)
	if stripped != "" && strings.Contains(lowered, strings.ToLower(stripped)) {
		return true
	}
	return lowered == "client" || containsWord(lowered, "client")
}

// containsWord reports whether s contains w as a whole word (delimited by
// non-alphanumerics or the string's ends).
func containsWord(s, w string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], w)
		if i < 0 {
			return false
		}
		i += start
		before := i == 0 || !isWordByte(s[i-1])
		afterIdx := i + len(w)
		after := afterIdx == len(s) || !isWordByte(s[afterIdx])
		if before && after {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// MatchCoverage partitions the reachable operation set into covered and
// uncovered using call sites from sample files. An operation is covered the
// first time a call site's receiver plausibly refers to the owning type and
// the called name matches; that first occurrence is the one recorded. Every
// other reachable operation is emitted as uncovered with a placeholder
// signature. An empty reachable set yields a zero-valued result, not an
// error.
func MatchCoverage(reachable map[string][]string, sites []CallSite, opts CoverageOptions) UsageIndex {
	result := UsageIndex{
		Covered:   []CoveredOperation{},
		Uncovered: []UncoveredOperation{},
		Patterns:  []string{},
	}
	if len(reachable) == 0 {
		return result
	}
	result.FileCount = opts.FileCount

	matcher := opts.ClientNameMatcher
	if matcher == nil {
		matcher = DefaultClientNameMatcher
	}

	ops := make(map[string]map[string]bool, len(reachable))
	for typeName, names := range reachable {
		set := make(map[string]bool, len(names))
		for _, op := range names {
			set[op] = true
		}
		ops[typeName] = set
	}

	// Deterministic iteration for stable output.
	typeNames := make([]string, 0, len(ops))
	for name := range ops {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	seen := make(map[string]bool)
	patterns := make(map[string]bool)
	for _, site := range sites {
		tagPatterns(patterns, site)
		for _, typeName := range typeNames {
			if !ops[typeName][site.Method] || !matcher(site.Receiver, typeName) {
				continue
			}
			key := typeName + "." + site.Method
			if seen[key] {
				continue
			}
			seen[key] = true
			result.Covered = append(result.Covered, CoveredOperation{
				Type:      typeName,
				Operation: site.Method,
				File:      site.File,
				Line:      site.Line,
			})
		}
	}

	for _, typeName := range typeNames {
		opNames := make([]string, 0, len(ops[typeName]))
		for op := range ops[typeName] {
			opNames = append(opNames, op)
		}
		sort.Strings(opNames)
		for _, op := range opNames {
			if seen[typeName+"."+op] {
				continue
			}
			result.Uncovered = append(result.Uncovered, UncoveredOperation{
				Type:      typeName,
				Operation: op,
				Signature: op + "(...)",
			})
		}
	}

	for tag := range patterns {
		result.Patterns = append(result.Patterns, tag)
	}
	sort.Strings(result.Patterns)
	return result
}

// tagPatterns records best-effort usage idiom tags from a call site's method
// and receiver text.
func tagPatterns(patterns map[string]bool, site CallSite) {
	method := strings.ToLower(site.Method)
	receiver := strings.ToLower(site.Receiver)

	if strings.Contains(method, "retry") {
		patterns["retry"] = true
	}
	if strings.Contains(method, "page") || strings.Contains(method, "next") ||
		strings.HasPrefix(method, "list") {
		patterns["pagination"] = true
	}
	if strings.Contains(method, "stream") || strings.Contains(receiver, "stream") {
		patterns["streaming"] = true
	}
	if strings.Contains(method, "auth") || strings.Contains(method, "login") ||
		strings.Contains(method, "credential") || strings.Contains(receiver, "credential") ||
		strings.Contains(method, "token") {
		patterns["authentication"] = true
	}
}
