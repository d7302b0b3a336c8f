package sdkscout

// Reachable computes the set of operation-bearing types reachable from the
// SDK's entry points, as a map from type name to its operation names.
//
// Roots are types explicitly flagged as entry points, plus concrete types
// that nothing else references and that either declare operations or
// reference an operation-declaring type. If that yields no roots at all
// (graphs with no clean dependency leaves), the unreferenced constraint is
// relaxed. Traversal follows referenced-type edges breadth-first and, when a
// reached type is an interface, also its known implementers — concrete
// behavior lives in the implementer, not the declaration.
func Reachable(graph TypeGraph) map[string][]string {
	byName := make(map[string]*TypeNode, len(graph.Types))
	known := make(map[string]bool, len(graph.Types))
	for i := range graph.Types {
		byName[graph.Types[i].Name] = &graph.Types[i]
		known[graph.Types[i].Name] = true
	}

	// Restrict each type's references to types present in the graph;
	// external and builtin names carry no edges.
	references := make(map[string]map[string]bool, len(graph.Types))
	for _, node := range graph.Types {
		refs := make(map[string]bool)
		for _, ref := range node.References {
			if known[ref] {
				refs[ref] = true
			}
		}
		references[node.Name] = refs
	}

	referenced := make(map[string]bool)
	for name, refs := range references {
		for ref := range refs {
			if ref != name { // self-references don't count
				referenced[ref] = true
			}
		}
	}

	declaresOps := func(name string) bool {
		node, ok := byName[name]
		return ok && len(node.Operations) > 0
	}
	refsOps := func(name string) bool {
		for ref := range references[name] {
			if declaresOps(ref) {
				return true
			}
		}
		return false
	}

	var roots []string
	for _, node := range graph.Types {
		switch {
		case node.EntryPoint && len(node.Operations) > 0:
			roots = append(roots, node.Name)
		case node.Concrete && !referenced[node.Name] &&
			(len(node.Operations) > 0 || refsOps(node.Name)):
			roots = append(roots, node.Name)
		}
	}

	// Relaxed fallback: no unreferenced leaves exist (everything cyclic or
	// mutually referenced), so any concrete type near operations is a root.
	// A heuristic, not a proof — see the cyclic-graph tests.
	if len(roots) == 0 {
		for _, node := range graph.Types {
			if node.Concrete && (len(node.Operations) > 0 || refsOps(node.Name)) {
				roots = append(roots, node.Name)
			}
		}
	}

	reachable := make(map[string]bool)
	queue := make([]string, 0, len(roots))
	enqueue := func(name string) {
		if !reachable[name] {
			reachable[name] = true
			queue = append(queue, name)
		}
	}
	for _, root := range roots {
		enqueue(root)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ref := range references[current] {
			enqueue(ref)
		}
		for _, impl := range graph.Implementers[current] {
			if known[impl] {
				enqueue(impl)
			}
		}
	}

	result := make(map[string][]string)
	for name := range reachable {
		if node := byName[name]; node != nil && len(node.Operations) > 0 {
			ops := make([]string, len(node.Operations))
			copy(ops, node.Operations)
			result[name] = ops
		}
	}
	return result
}
