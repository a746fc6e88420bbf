package depgraph

import (
	"errors"
	"sort"

	"ontomap/internal/ontology"
)

// ErrCycle is returned by EvaluationOrder when the graph has a cycle.
var ErrCycle = errors.New("cycle detected")

// EvaluationOrder returns the nodes ordered so that every field comes after
// the fields its rule reads. Among ready fields the earliest in set order
// goes first. On a cycle ErrCycle is returned and callers should fall back
// to set order.
func (g *Graph) EvaluationOrder() ([]ontology.FieldID, error) {
	waiting := make(map[ontology.FieldID]int, len(g.nodes))

	var ready []ontology.FieldID

	for _, n := range g.nodes {
		waiting[n] = len(g.deps[n])
		if waiting[n] == 0 {
			ready = append(ready, n)
		}
	}

	order := make([]ontology.FieldID, 0, len(g.nodes))

	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)

		for _, u := range g.users[n] {
			if waiting[u]--; waiting[u] == 0 {
				ready = g.insertReady(ready, u)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, ErrCycle
	}

	return order, nil
}

// insertReady adds id to ready, keeping ready in set order.
func (g *Graph) insertReady(ready []ontology.FieldID, id ontology.FieldID) []ontology.FieldID {
	k := sort.Search(len(ready), func(i int) bool { return g.index[ready[i]] > g.index[id] })

	ready = append(ready, "")
	copy(ready[k+1:], ready[k:])
	ready[k] = id

	return ready
}
