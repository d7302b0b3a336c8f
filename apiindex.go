package sdkscout

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIIndex is the interchange format the external per-language extractors
// emit: the public surface of an SDK package as structs/classes, interfaces,
// and their members. Only the fields the reachability engine consumes are
// decoded; extractor output carries more.
type APIIndex struct {
	Package  string       `json:"package"`
	Packages []PackageAPI `json:"packages"`
}

type PackageAPI struct {
	Name       string         `json:"name"`
	Structs    []StructAPI    `json:"structs,omitempty"`
	Interfaces []InterfaceAPI `json:"interfaces,omitempty"`
}

type StructAPI struct {
	Name       string      `json:"name"`
	EntryPoint bool        `json:"entryPoint,omitempty"`
	Embeds     []string    `json:"embeds,omitempty"`
	Fields     []FieldAPI  `json:"fields,omitempty"`
	Methods    []MethodAPI `json:"methods,omitempty"`
}

type InterfaceAPI struct {
	Name       string      `json:"name"`
	EntryPoint bool        `json:"entryPoint,omitempty"`
	Embeds     []string    `json:"embeds,omitempty"`
	Methods    []MethodAPI `json:"methods,omitempty"`
}

type MethodAPI struct {
	Name string `json:"name"`
	Sig  string `json:"sig"`
	Ret  string `json:"ret,omitempty"`
}

type FieldAPI struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// LoadAPIIndex decodes extractor JSON and builds the TypeGraph the
// reachability analyzer consumes: per-type referenced-name sets gathered
// from embeds, field types, and method signatures, plus interface to
// implementer edges computed by method-set inclusion (the extractors do not
// resolve implementations themselves).
func LoadAPIIndex(data []byte) (TypeGraph, error) {
	var index APIIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return TypeGraph{}, fmt.Errorf("decode api index: %w", err)
	}
	return buildTypeGraph(&index), nil
}

func buildTypeGraph(index *APIIndex) TypeGraph {
	var structs []StructAPI
	var interfaces []InterfaceAPI
	known := make(map[string]bool)
	for _, pkg := range index.Packages {
		for _, s := range pkg.Structs {
			s.Name = stripGenerics(s.Name)
			structs = append(structs, s)
			known[s.Name] = true
		}
		for _, iface := range pkg.Interfaces {
			iface.Name = stripGenerics(iface.Name)
			interfaces = append(interfaces, iface)
			known[iface.Name] = true
		}
	}

	graph := TypeGraph{Implementers: make(map[string][]string)}

	for _, s := range structs {
		tokens := make(map[string]bool)
		for _, embed := range s.Embeds {
			tokenize(embed, tokens)
		}
		for _, f := range s.Fields {
			tokenize(f.Type, tokens)
		}
		for _, m := range s.Methods {
			tokenize(m.Sig, tokens)
			tokenize(m.Ret, tokens)
		}
		graph.Types = append(graph.Types, TypeNode{
			Name:       s.Name,
			Kind:       KindClass,
			EntryPoint: s.EntryPoint,
			Concrete:   true,
			Operations: methodNames(s.Methods),
			References: knownRefs(tokens, known, s.Name),
		})
	}

	for _, iface := range interfaces {
		tokens := make(map[string]bool)
		for _, embed := range iface.Embeds {
			tokenize(embed, tokens)
		}
		for _, m := range iface.Methods {
			tokenize(m.Sig, tokens)
			tokenize(m.Ret, tokens)
		}
		graph.Types = append(graph.Types, TypeNode{
			Name:       iface.Name,
			Kind:       KindInterface,
			EntryPoint: iface.EntryPoint,
			Operations: methodNames(iface.Methods),
			References: knownRefs(tokens, known, iface.Name),
		})
	}

	// Interface → implementer edges: a struct implements an interface when it
	// declares every one of the interface's methods by name.
	for _, iface := range interfaces {
		if len(iface.Methods) == 0 {
			continue
		}
		for _, s := range structs {
			structMethods := make(map[string]bool, len(s.Methods))
			for _, m := range s.Methods {
				structMethods[m.Name] = true
			}
			implements := true
			for _, m := range iface.Methods {
				if !structMethods[m.Name] {
					implements = false
					break
				}
			}
			if implements {
				graph.Implementers[iface.Name] = append(graph.Implementers[iface.Name], s.Name)
			}
		}
	}

	return graph
}

func methodNames(methods []MethodAPI) []string {
	if len(methods) == 0 {
		return nil
	}
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name
	}
	return names
}

// knownRefs intersects gathered identifier tokens with the graph's type
// names, dropping the owner itself.
func knownRefs(tokens map[string]bool, known map[string]bool, owner string) []string {
	var refs []string
	for token := range tokens {
		if known[token] && token != owner {
			refs = append(refs, token)
		}
	}
	return refs
}

// tokenize adds identifier tokens (runs of letters, digits, underscores)
// from a type or signature string to tokens.
func tokenize(s string, tokens map[string]bool) {
	start := -1
	for i, ch := range s {
		isIdent := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '_'
		if isIdent && start < 0 {
			start = i
		} else if !isIdent && start >= 0 {
			tokens[s[start:i]] = true
			start = -1
		}
	}
	if start >= 0 {
		tokens[s[start:]] = true
	}
}

// stripGenerics removes a trailing generic argument list from a type name:
// "PagedList[T]" and "PagedList<T>" both become "PagedList".
func stripGenerics(name string) string {
	for _, open := range []string{"[", "<"} {
		if idx := strings.Index(name, open); idx > 0 {
			name = name[:idx]
		}
	}
	return name
}
