package depgraph

import (
	"slices"

	"ontomap/internal/ontology"
)

// DefaultMaxChainDepth bounds the length of reported chains.
const DefaultMaxChainDepth = 5

// Chains returns dependency paths of at least two fields, starting from
// fields that nothing depends on and following DependsOn edges up to maxDepth
// fields. When every field is depended upon (all in cycles) every field is a
// start. Paths never revisit a field.
func (g *Graph) Chains(maxDepth int) [][]ontology.FieldID {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxChainDepth
	}

	var roots []ontology.FieldID

	for _, n := range g.nodes {
		if len(g.users[n]) == 0 {
			roots = append(roots, n)
		}
	}

	if len(roots) == 0 {
		roots = slices.Clone(g.nodes)
	}

	var (
		chains [][]ontology.FieldID
		walk   func(path []ontology.FieldID)
	)

	walk = func(path []ontology.FieldID) {
		last := path[len(path)-1]

		var next []ontology.FieldID

		if len(path) < maxDepth {
			for _, dep := range g.deps[last] {
				if !slices.Contains(path, dep) {
					next = append(next, dep)
				}
			}
		}

		if len(next) == 0 {
			if len(path) >= 2 {
				chains = append(chains, slices.Clone(path))
			}

			return
		}

		for _, dep := range next {
			walk(append(path, dep))
		}
	}

	for _, r := range roots {
		walk([]ontology.FieldID{r})
	}

	return chains
}
