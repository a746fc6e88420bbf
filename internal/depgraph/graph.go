package depgraph

import (
	"slices"
	"sort"

	"ontomap/internal/mapping"
	"ontomap/internal/ontology"
)

// Edge records that From's rule reads Column, which is owned by To.
type Edge struct {
	From   ontology.FieldID `json:"from"`
	To     ontology.FieldID `json:"to"`
	Column string           `json:"column"`
}

// Graph is an immutable dependency graph over mapped fields.
type Graph struct {
	nodes []ontology.FieldID
	index map[ontology.FieldID]int
	deps  map[ontology.FieldID][]ontology.FieldID
	users map[ontology.FieldID][]ontology.FieldID
	edges []Edge
	// unresolved lists rule references with no owning mapped field.
	unresolved map[ontology.FieldID][]string
}

// Build derives the graph from set. Nodes are the mapped fields and any field
// carrying a rule, in set order.
func Build(set mapping.Set) *Graph {
	g := &Graph{
		index:      map[ontology.FieldID]int{},
		deps:       map[ontology.FieldID][]ontology.FieldID{},
		users:      map[ontology.FieldID][]ontology.FieldID{},
		unresolved: map[ontology.FieldID][]string{},
	}

	for _, f := range set.Fields() {
		if f.IsMapped() || f.HasRule() {
			g.index[f.Field] = len(g.nodes)
			g.nodes = append(g.nodes, f.Field)
		}
	}

	for _, f := range set.Fields() {
		if !f.HasRule() {
			continue
		}

		for _, col := range f.Rule.References() {
			owner, ok := set.OwnerOf(col)
			if !ok {
				g.unresolved[f.Field] = append(g.unresolved[f.Field], col)

				continue
			}

			if slices.Contains(g.deps[f.Field], owner.Field) {
				continue
			}

			g.deps[f.Field] = append(g.deps[f.Field], owner.Field)
			g.users[owner.Field] = append(g.users[owner.Field], f.Field)
			g.edges = append(g.edges, Edge{From: f.Field, To: owner.Field, Column: col})
		}
	}

	for id := range g.deps {
		sortIDs(g.deps[id])
	}

	for id := range g.users {
		sortIDs(g.users[id])
	}

	sort.SliceStable(g.edges, func(i, j int) bool {
		if g.edges[i].From != g.edges[j].From {
			return g.edges[i].From < g.edges[j].From
		}

		return g.edges[i].To < g.edges[j].To
	})

	return g
}

// Nodes returns the node identifiers in set order.
func (g *Graph) Nodes() []ontology.FieldID {
	return slices.Clone(g.nodes)
}

// Edges returns every edge sorted by (From, To).
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// DependsOn returns the fields id's rule reads from, sorted.
func (g *Graph) DependsOn(id ontology.FieldID) []ontology.FieldID {
	return slices.Clone(g.deps[id])
}

// UsedBy returns the fields whose rules read id, sorted.
func (g *Graph) UsedBy(id ontology.FieldID) []ontology.FieldID {
	return slices.Clone(g.users[id])
}

// Unresolved returns the columns id's rule references that no mapped field owns.
func (g *Graph) Unresolved(id ontology.FieldID) []string {
	return slices.Clone(g.unresolved[id])
}

// ImpactedFields returns every field that directly or transitively reads id,
// sorted. id itself is not included.
func (g *Graph) ImpactedFields(id ontology.FieldID) []ontology.FieldID {
	seen := map[ontology.FieldID]bool{id: true}
	queue := []ontology.FieldID{id}

	var out []ontology.FieldID

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, u := range g.users[cur] {
			if seen[u] {
				continue
			}

			seen[u] = true
			out = append(out, u)
			queue = append(queue, u)
		}
	}

	sortIDs(out)

	return out
}

func sortIDs(ids []ontology.FieldID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// NodeSummary is the read-only view of one node.
type NodeSummary struct {
	Field     ontology.FieldID   `json:"field" yaml:"field"`
	DependsOn []ontology.FieldID `json:"depends_on" yaml:"depends_on"`
	UsedBy    []ontology.FieldID `json:"used_by" yaml:"used_by"`
	// Impacted are the fields to re-evaluate when this field's value changes.
	Impacted   []ontology.FieldID `json:"impacted,omitempty" yaml:"impacted,omitempty"`
	Unresolved []string           `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// Summary is the read-only view of the whole graph for display.
type Summary struct {
	Nodes  []NodeSummary        `json:"nodes" yaml:"nodes"`
	Edges  []Edge               `json:"edges" yaml:"edges"`
	Cycles [][]ontology.FieldID `json:"cycles" yaml:"cycles"`
	Chains [][]ontology.FieldID `json:"chains" yaml:"chains"`
}

// Summary collects nodes, edges, cycles and chains.
func (g *Graph) Summary() Summary {
	s := Summary{
		Nodes:  make([]NodeSummary, 0, len(g.nodes)),
		Edges:  g.Edges(),
		Cycles: g.Cycles(),
		Chains: g.Chains(DefaultMaxChainDepth),
	}

	for _, n := range g.nodes {
		s.Nodes = append(s.Nodes, NodeSummary{
			Field:      n,
			DependsOn:  g.DependsOn(n),
			UsedBy:     g.UsedBy(n),
			Impacted:   g.ImpactedFields(n),
			Unresolved: g.Unresolved(n),
		})
	}

	return s
}
