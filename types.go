package sdkscout

import (
	"sdkscout/internal/callscan"
	"sdkscout/internal/detect"
)

// Public type aliases for internal types surfaced through the Detector and
// coverage APIs. These are Go type aliases (=) — identical to the internal
// types at compile time.

// DetectionResult describes one repository: its language, source folder,
// samples folder, ranked samples candidates, and library name. Instances are
// immutable once computed.
type DetectionResult = detect.Result

// SamplesCandidate is one ranked samples-directory candidate.
type SamplesCandidate = detect.SamplesCandidate

// LanguageSpec describes a supported language's markers and conventions.
type LanguageSpec = detect.LanguageSpec

// BuildMarker is a discovered build-marker file.
type BuildMarker = detect.Marker

// CallSite is one receiver.Method(...) occurrence in a sample file.
type CallSite = callscan.CallSite

// TypeKind distinguishes concrete types from interfaces in a type graph.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindInterface TypeKind = "interface"
)

// TypeNode is one type in an externally extracted type graph. Names are
// plain identifiers with generic arguments stripped.
type TypeNode struct {
	Name string   `json:"name"`
	Kind TypeKind `json:"kind"`

	// EntryPoint marks types the SDK exposes as primary starting points.
	EntryPoint bool `json:"entryPoint,omitempty"`

	// Concrete types are eligible root candidates; interfaces and abstract
	// types are reached only through references or implementer edges.
	Concrete bool `json:"concrete,omitempty"`

	// Operations are the type's declared method names. A type with no
	// operations is a graph connector, not an analysis subject.
	Operations []string `json:"operations,omitempty"`

	// References are the names of types this one mentions: base type,
	// implemented interfaces, method signatures, field and property types.
	References []string `json:"references,omitempty"`
}

// TypeGraph is the reachability input: all types plus interface-implementer
// edges that extend reachability across abstraction boundaries.
type TypeGraph struct {
	Types []TypeNode `json:"types"`

	// Implementers maps an interface name to the concrete types implementing
	// it.
	Implementers map[string][]string `json:"implementers,omitempty"`
}

// CoveredOperation is a reachable operation with at least one matching call
// site; the first match wins and is the one recorded.
type CoveredOperation struct {
	Type      string `json:"client"`
	Operation string `json:"method"`
	File      string `json:"file"`
	Line      int    `json:"line"`
}

// UncoveredOperation is a reachable operation no sample exercises.
type UncoveredOperation struct {
	Type      string `json:"client"`
	Operation string `json:"method"`
	Signature string `json:"sig"`
}

// UsageIndex is the coverage result: every reachable operation appears in
// exactly one of Covered and Uncovered. Patterns is a best-effort annotation
// of usage idioms seen in the samples, not a correctness-critical output.
type UsageIndex struct {
	FileCount int                  `json:"fileCount"`
	Covered   []CoveredOperation   `json:"covered"`
	Uncovered []UncoveredOperation `json:"uncovered"`
	Patterns  []string             `json:"patterns"`
}
