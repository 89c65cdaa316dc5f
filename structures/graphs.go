// Package structures provides the generic containers the simulation
// kernel is built on: a directed valued graph used by the dependency
// graph's signal-level cycle search, and a time-ordered event queue
// used by the scheduler.
package structures

import "maps"

// DVGraph is a directed valued graph stored as an adjacency map: for
// each node, the map of its direct successors to the value carried by
// that edge. A node with no outgoing edges still appears as a key with
// an empty map, so Nodes/Has see it.
//
// Trimmed to the operations the dependency graph actually needs. The
// cycle search itself lives outside this type: DependencyGraph.ComputeCycles needs
// the offending path, not a yes/no answer, so it runs its own DFS
// directly over this adjacency map (see kernel/dependencygraph.go).
type DVGraph[S comparable, L comparable] map[S]map[S]L

// NewDVGraph returns a new, empty graph.
func NewDVGraph[S comparable, L comparable]() DVGraph[S, L] {
	return make(DVGraph[S, L])
}

// AddNode adds a node with no outgoing edges, returning true if it was
// not already present.
func (d DVGraph[S, L]) AddNode(node S) bool {
	if _, found := d[node]; found {
		return false
	}
	d[node] = make(map[S]L)
	return true
}

// Link adds an edge from source to destination carrying link, creating
// either endpoint if it does not already exist.
func (d DVGraph[S, L]) Link(source, destination S, link L) {
	if _, found := d[destination]; !found {
		d[destination] = make(map[S]L)
	}
	if _, found := d[source]; !found {
		d[source] = make(map[S]L)
	}
	d[source][destination] = link
}

// Has reports whether node is in the graph.
func (d DVGraph[S, L]) Has(node S) bool {
	_, found := d[node]
	return found
}

// Neighbors returns a copy of the direct successors of node and whether
// node is in the graph at all.
func (d DVGraph[S, L]) Neighbors(node S) (map[S]L, bool) {
	values, found := d[node]
	if !found {
		return nil, false
	}
	result := make(map[S]L, len(values))
	maps.Copy(result, values)
	return result, true
}

// Nodes returns every node in the graph, in unspecified order.
func (d DVGraph[S, L]) Nodes() []S {
	result := make([]S, 0, len(d))
	for node := range d {
		result = append(result, node)
	}
	return result
}
