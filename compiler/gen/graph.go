package gen

import (
	"sort"

	"github.com/pgcraft/pgcraft"
)

// Graph owns the SQL entities of one extension build and the
// dependency edges between them. Edges are keyed by entity identity,
// never by pointer, so insertion order is insignificant. Dependencies
// on identities absent from the graph are detected at emission time,
// not at insertion.
//
// A Graph is built in a single synchronous pass and must not be
// mutated while Linearize iterates it.
type Graph struct {
	nodes map[string]Entity
}

// NewGraph returns an empty entity graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]Entity)}
}

// Insert adds an entity to the graph. Identities are unique per graph:
// inserting a second entity with an existing identity fails with a
// DuplicateIdentityError and leaves the first entity untouched.
func (g *Graph) Insert(e Entity) error {
	id := e.Identity()
	if _, ok := g.nodes[id]; ok {
		return pgcraft.NewDuplicateIdentityError(id)
	}
	g.nodes[id] = e
	return nil
}

// Lookup returns the entity with the given identity.
func (g *Graph) Lookup(identity string) (Entity, bool) {
	e, ok := g.nodes[identity]
	return e, ok
}

// Entities returns all entities sorted by identity. The sort is for
// deterministic iteration only; emission order is decided by Linearize.
func (g *Graph) Entities() []Entity {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	es := make([]Entity, len(ids))
	for i, id := range ids {
		es[i] = g.nodes[id]
	}
	return es
}

// Len returns the number of entities in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}
