package sdkscout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(name string, kind TypeKind, opts ...func(*TypeNode)) TypeNode {
	n := TypeNode{Name: name, Kind: kind, Concrete: kind == KindClass}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

func withOps(ops ...string) func(*TypeNode) {
	return func(n *TypeNode) { n.Operations = ops }
}

func withRefs(refs ...string) func(*TypeNode) {
	return func(n *TypeNode) { n.References = refs }
}

func asEntryPoint() func(*TypeNode) {
	return func(n *TypeNode) { n.EntryPoint = true }
}

func TestReachableFromEntryPoint(t *testing.T) {
	graph := TypeGraph{Types: []TypeNode{
		node("FooClient", KindClass, asEntryPoint(), withOps("GetWidget"), withRefs("Widget")),
		node("Widget", KindClass, withRefs("FooClient")), // back-ref, no ops
		node("Orphan", KindClass, withOps("Hidden"), withRefs("FooClient")),
	}}

	reachable := Reachable(graph)

	// FooClient is an entry-point root; Widget is reached but has no
	// operations so it never appears in the result. Orphan is unreferenced
	// with operations, so it roots itself too.
	require.Contains(t, reachable, "FooClient")
	assert.Equal(t, []string{"GetWidget"}, reachable["FooClient"])
	assert.NotContains(t, reachable, "Widget")
	assert.Contains(t, reachable, "Orphan")
}

func TestReachableUnreferencedConcreteRoots(t *testing.T) {
	// No entry points flagged at all: the unreferenced concrete type that
	// references operations becomes the root.
	graph := TypeGraph{Types: []TypeNode{
		node("FooOptions", KindClass, withRefs("FooClient")),
		node("FooClient", KindClass, withOps("Get", "List"), withRefs("Result")),
		node("Result", KindClass),
	}}

	reachable := Reachable(graph)

	require.Contains(t, reachable, "FooClient")
	assert.Equal(t, []string{"Get", "List"}, reachable["FooClient"])
	// FooOptions declares nothing; it roots the walk but is not reported.
	assert.NotContains(t, reachable, "FooOptions")
	assert.NotContains(t, reachable, "Result")
}

func TestReachableInterfaceImplementers(t *testing.T) {
	graph := TypeGraph{
		Types: []TypeNode{
			node("Client", KindClass, asEntryPoint(), withOps("Pipeline"), withRefs("Runner")),
			node("Runner", KindInterface, withOps("Run")),
			node("BatchRunner", KindClass, withOps("Run", "RunBatch")),
		},
		Implementers: map[string][]string{"Runner": {"BatchRunner"}},
	}

	reachable := Reachable(graph)

	// Reaching the interface pulls in its implementers, whose concrete
	// operations would otherwise be invisible.
	assert.Contains(t, reachable, "Runner")
	require.Contains(t, reachable, "BatchRunner")
	assert.ElementsMatch(t, []string{"Run", "RunBatch"}, reachable["BatchRunner"])
}

func TestReachableCyclicGraphRelaxedFallback(t *testing.T) {
	// Every type references the other, so nothing is unreferenced and no
	// entry point is flagged. The relaxed pass still roots the concrete
	// operation-bearing types instead of returning nothing.
	graph := TypeGraph{Types: []TypeNode{
		node("A", KindClass, withOps("DoA"), withRefs("B")),
		node("B", KindClass, withOps("DoB"), withRefs("A")),
	}}

	reachable := Reachable(graph)

	assert.Contains(t, reachable, "A")
	assert.Contains(t, reachable, "B")
}

func TestReachableNoOperationTypesNeverReported(t *testing.T) {
	graph := TypeGraph{Types: []TypeNode{
		node("Config", KindClass, withRefs("Transport")),
		node("Transport", KindClass),
	}}

	// No type declares or references operations: no roots survive either
	// pass and the result is empty rather than nil-panicking.
	assert.Empty(t, Reachable(graph))
}

func TestReachableSelfReferenceDoesNotBlockRoot(t *testing.T) {
	graph := TypeGraph{Types: []TypeNode{
		node("Tree", KindClass, withOps("Insert"), withRefs("Tree")),
	}}

	reachable := Reachable(graph)
	require.Contains(t, reachable, "Tree")
	assert.Equal(t, []string{"Insert"}, reachable["Tree"])
}

func TestReachableExternalReferencesIgnored(t *testing.T) {
	graph := TypeGraph{Types: []TypeNode{
		node("Client", KindClass, asEntryPoint(), withOps("Get"),
			withRefs("context.Context", "http.Client", "Widget")),
	}}

	// Unknown names carry no edges and must not enqueue phantom types.
	reachable := Reachable(graph)
	assert.Len(t, reachable, 1)
	assert.Contains(t, reachable, "Client")
}
