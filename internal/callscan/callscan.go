// Package callscan extracts call sites from sample source files using
// tree-sitter. It is purely syntactic: for every call expression whose callee
// is a member access, it records the receiver text, the called name, and the
// position. No type resolution happens here; the coverage matcher applies its
// own heuristics to the receiver text.
package callscan

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// CallSite is one receiver.Method(...) occurrence in a sample file.
type CallSite struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Receiver string `json:"receiver"`
	Method   string `json:"method"`
}

// ScanFile parses one source file and returns its call sites. Unsupported
// extensions return (nil, nil); parse failures are errors the caller may
// choose to skip.
func ScanFile(ctx context.Context, path string) ([]CallSite, error) {
	lang, ok := LanguageForFile(path)
	if !ok {
		return nil, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Scan(ctx, path, lang, src)
}

// Scan extracts call sites from already-read source for a canonical language
// name.
func Scan(ctx context.Context, path, lang string, src []byte) ([]CallSite, error) {
	grammar, ok := grammarForLanguage(lang)
	if !ok {
		return nil, nil
	}
	syntax, ok := syntaxForLanguage(lang)
	if !ok {
		return nil, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	var sites []CallSite
	visit(tree.RootNode(), func(node *sitter.Node) {
		if node.Type() != syntax.callNode {
			return
		}
		var object, member *sitter.Node
		if syntax.memberNode == "" {
			// Java: method_invocation carries object/name fields directly;
			// calls with no object (bare method()) are skipped.
			object = node.ChildByFieldName(syntax.objectField)
			member = node.ChildByFieldName(syntax.memberField)
		} else {
			callee := node.ChildByFieldName(syntax.calleeField)
			if callee == nil || callee.Type() != syntax.memberNode {
				return
			}
			object = callee.ChildByFieldName(syntax.objectField)
			member = callee.ChildByFieldName(syntax.memberField)
		}
		if object == nil || member == nil {
			return
		}
		sites = append(sites, CallSite{
			File:     path,
			Line:     int(node.StartPoint().Row) + 1,
			Receiver: object.Content(src),
			Method:   member.Content(src),
		})
	})
	return sites, nil
}

// visit walks the syntax tree depth-first.
func visit(node *sitter.Node, fn func(*sitter.Node)) {
	fn(node)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		visit(node.NamedChild(i), fn)
	}
}

// callSyntax names the per-language grammar nodes that make up a
// receiver.Method(...) call.
type callSyntax struct {
	callNode    string // the call expression node type
	calleeField string // field holding the callee
	memberNode  string // member-access node type for the callee
	objectField string // field holding the receiver
	memberField string // field holding the called name
}

var callSyntaxes = map[string]callSyntax{
	"go": {
		callNode: "call_expression", calleeField: "function",
		memberNode: "selector_expression", objectField: "operand", memberField: "field",
	},
	"python": {
		callNode: "call", calleeField: "function",
		memberNode: "attribute", objectField: "object", memberField: "attribute",
	},
	"java": {
		// method_invocation carries object/name fields directly.
		callNode: "method_invocation", calleeField: "name",
		memberNode: "", objectField: "object", memberField: "name",
	},
	"javascript": {
		callNode: "call_expression", calleeField: "function",
		memberNode: "member_expression", objectField: "object", memberField: "property",
	},
	"typescript": {
		callNode: "call_expression", calleeField: "function",
		memberNode: "member_expression", objectField: "object", memberField: "property",
	},
	"csharp": {
		callNode: "invocation_expression", calleeField: "function",
		memberNode: "member_access_expression", objectField: "expression", memberField: "name",
	},
}

func syntaxForLanguage(lang string) (callSyntax, bool) {
	s, ok := callSyntaxes[lang]
	return s, ok
}
