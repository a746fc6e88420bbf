package depgraph

import (
	"fmt"
	"strings"

	"ontomap/internal/diagnostic"
	"ontomap/internal/ontology"
)

// CodeDependencyCycle identifies cycle warnings.
const CodeDependencyCycle = "dependency_cycle"

type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

// Cycles returns every distinct dependency cycle. Each cycle starts and ends
// with the same field, e.g. [A, B, A]. Rotations of one cycle are reported once.
func (g *Graph) Cycles() [][]ontology.FieldID {
	state := map[ontology.FieldID]visitState{}
	seen := map[string]bool{}

	var (
		stack  []ontology.FieldID
		cycles [][]ontology.FieldID
		visit  func(n ontology.FieldID)
	)

	visit = func(n ontology.FieldID) {
		state[n] = inProgress
		stack = append(stack, n)

		for _, dep := range g.deps[n] {
			switch state[dep] {
			case inProgress:
				start := indexOf(stack, dep)
				cycle := append(append([]ontology.FieldID{}, stack[start:]...), dep)

				if key := canonicalKey(cycle[:len(cycle)-1]); !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			case unvisited:
				visit(dep)
			}
		}

		stack = stack[:len(stack)-1]
		state[n] = done
	}

	for _, n := range g.nodes {
		if state[n] == unvisited {
			visit(n)
		}
	}

	return cycles
}

// Warnings reports each cycle as a warning-level issue.
func (g *Graph) Warnings() *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	for _, c := range g.Cycles() {
		parts := make([]string, len(c))
		for i, id := range c {
			parts[i] = string(id)
		}

		res.AddWarning(CodeDependencyCycle, string(c[0]),
			fmt.Sprintf("circular rule dependency: %s", strings.Join(parts, " -> ")),
			"break the cycle by sourcing one of the fields from a column or fixed value")
	}

	return res
}

func indexOf(stack []ontology.FieldID, id ontology.FieldID) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == id {
			return i
		}
	}

	return 0
}

// canonicalKey identifies a cycle independent of its starting node.
func canonicalKey(cycle []ontology.FieldID) string {
	minAt := 0
	for i, id := range cycle {
		if id < cycle[minAt] {
			minAt = i
		}
	}

	parts := make([]string, 0, len(cycle))
	for i := range cycle {
		parts = append(parts, string(cycle[(minAt+i)%len(cycle)]))
	}

	return strings.Join(parts, "\x00")
}
