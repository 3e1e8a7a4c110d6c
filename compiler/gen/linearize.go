package gen

import (
	"fmt"
	"sort"

	"github.com/pgcraft/pgcraft"
)

// Linearize returns the graph's entities in dependency order: every
// entity appears after all entities it depends on.
//
// Ties among entities with no relative ordering constraint break
// lexicographically by identity. That tie-break is a property of this
// implementation chosen for reproducible builds; the only contract is
// "dependencies first".
//
// Linearize fails if an entity depends on an identity absent from the
// graph, or with a CycleError if the dependency edges contain a cycle.
func (g *Graph) Linearize() ([]Entity, error) {
	// dependents[a] holds the identities that must come after a.
	dependents := make(map[string][]string, len(g.nodes))
	indegree := make(map[string]int, len(g.nodes))
	for id, e := range g.nodes {
		indegree[id] += 0
		for _, dep := range e.DependsOn() {
			if _, ok := g.nodes[dep]; !ok {
				return nil, fmt.Errorf("pgcraft: entity %q depends on unknown identity %q", id, dep)
			}
			dependents[dep] = append(dependents[dep], id)
			indegree[id]++
		}
	}

	// Kahn's algorithm over a sorted ready set.
	ready := make([]string, 0, len(g.nodes))
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	ordered := make([]Entity, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		ordered = append(ordered, g.nodes[id])
		for _, next := range dependents[id] {
			indegree[next]--
			if indegree[next] == 0 {
				i := sort.SearchStrings(ready, next)
				ready = append(ready, "")
				copy(ready[i+1:], ready[i:])
				ready[i] = next
			}
		}
	}
	if len(ordered) < len(g.nodes) {
		return nil, pgcraft.NewCycleError(g.findCycle(indegree))
	}
	return ordered, nil
}

// findCycle walks the entities still holding unresolved dependencies
// and reconstructs one cycle path for the error message. The entry
// point is repeated at the end of the returned slice.
func (g *Graph) findCycle(indegree map[string]int) []string {
	remaining := make(map[string]bool, len(indegree))
	ids := make([]string, 0, len(indegree))
	for id, deg := range indegree {
		if deg > 0 {
			remaining[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, start := range ids {
		seen := make(map[string]int)
		path := []string{}
		id := start
		for {
			if at, ok := seen[id]; ok {
				return append(path[at:], id)
			}
			seen[id] = len(path)
			path = append(path, id)
			next := ""
			for _, dep := range g.nodes[id].DependsOn() {
				if remaining[dep] {
					next = dep
					break
				}
			}
			if next == "" {
				break
			}
			id = next
		}
	}
	return ids
}
