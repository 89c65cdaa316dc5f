package structures

import "testing"

func TestDVGraphLinkAndNeighbors(t *testing.T) {
	g := NewDVGraph[string, int]()
	g.Link("a", "b", 1)
	g.Link("a", "c", 2)

	if !g.Has("a") || !g.Has("b") || !g.Has("c") {
		t.Fatal("expected a, b and c to all be present as nodes")
	}

	neighbors, found := g.Neighbors("a")
	if !found {
		t.Fatal("Neighbors(a) reported not found")
	}
	if neighbors["b"] != 1 || neighbors["c"] != 2 {
		t.Fatalf("neighbors = %v, want b:1, c:2", neighbors)
	}
}

func TestDVGraphAddNodeIsIdempotent(t *testing.T) {
	g := NewDVGraph[string, int]()
	if !g.AddNode("a") {
		t.Fatal("AddNode(a) first call should report true")
	}
	if g.AddNode("a") {
		t.Fatal("AddNode(a) second call should report false")
	}
}

func TestDVGraphNeighborsCopyIsIndependent(t *testing.T) {
	g := NewDVGraph[string, int]()
	g.Link("a", "b", 1)

	neighbors, _ := g.Neighbors("a")
	neighbors["b"] = 99

	fresh, _ := g.Neighbors("a")
	if fresh["b"] != 1 {
		t.Fatalf("mutating a returned map affected the graph: got %d, want 1", fresh["b"])
	}
}

func TestDVGraphMissingNode(t *testing.T) {
	g := NewDVGraph[string, int]()
	if g.Has("missing") {
		t.Fatal("Has(missing) reported true on an empty graph")
	}
	if _, found := g.Neighbors("missing"); found {
		t.Fatal("Neighbors(missing) reported found on an empty graph")
	}
}
