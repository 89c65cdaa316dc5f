package kernel

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/galfurian/digsim/commons"
	"github.com/galfurian/digsim/process"
	"github.com/galfurian/digsim/signals"
	"github.com/galfurian/digsim/structures"
)

// DependencyGraph tracks, for every registered process, which signals it
// reads (through AddSensitivity/AddConsumer) and which it writes (through
// AddProducer), and derives a signal-level graph from that bookkeeping to
// find zero-delay combinational cycles before the simulation runs.
// Registration happens against ports rather than resolved signals, since
// modules typically wire sensitivities in their constructor, before
// their ports are bound to a concrete signal — the port-to-signal
// resolution only needs to have completed by the time ComputeCycles
// runs.
//
// The signal-level graph is a structures.DVGraph adjacency map; the DFS
// cycle search is written fresh here because the kernel needs the
// offending path, not a yes/no answer.
type DependencyGraph struct {
	producers map[signals.AnyPort]process.Info
	consumers map[signals.AnyPort][]process.Info

	moduleInputs  map[*Module][]signals.AnyPort
	moduleOutputs map[*Module][]signals.AnyPort
}

// NewDependencyGraph returns an empty dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		producers:     make(map[signals.AnyPort]process.Info),
		consumers:     make(map[signals.AnyPort][]process.Info),
		moduleInputs:  make(map[*Module][]signals.AnyPort),
		moduleOutputs: make(map[*Module][]signals.AnyPort),
	}
}

// RegisterProducer records that info writes port, on behalf of owner.
// Re-registering the same port is a no-op. This only guards against
// the same port being registered twice; whether two different ports
// that resolve to the same underlying signal is allowed is checked
// later, once bindings are resolved — see checkUniqueProducers.
func (g *DependencyGraph) RegisterProducer(owner *Module, port signals.AnyPort, info process.Info) {
	if _, found := g.producers[port]; found {
		return
	}
	g.producers[port] = info
	g.moduleOutputs[owner] = append(g.moduleOutputs[owner], port)
}

// RegisterConsumer records that info reads port, on behalf of owner. A
// given (port, process) pair is only recorded once.
func (g *DependencyGraph) RegisterConsumer(owner *Module, port signals.AnyPort, info process.Info) {
	for _, existing := range g.consumers[port] {
		if existing.Key == info.Key {
			return
		}
	}
	g.consumers[port] = append(g.consumers[port], info)
	g.moduleInputs[owner] = append(g.moduleInputs[owner], port)
}

// Inputs returns the ports registered as m's consumed signals.
func (g *DependencyGraph) Inputs(m *Module) []signals.AnyPort {
	return append([]signals.AnyPort(nil), g.moduleInputs[m]...)
}

// Outputs returns the ports registered as m's produced signals.
func (g *DependencyGraph) Outputs(m *Module) []signals.AnyPort {
	return append([]signals.AnyPort(nil), g.moduleOutputs[m]...)
}

// buildSignalGraph resolves every registered port to its bound signal
// and returns the signal-level graph: for every module M, and every
// signal c it consumes (through sensitivity or consumer registration),
// an edge from c to every signal o it produces, labelled with o's
// delay. It fails if a registered port is not yet bound, since cycle
// detection needs the concrete signal identity.
func (g *DependencyGraph) buildSignalGraph() (structures.DVGraph[signals.AnySignal, commons.Time], error) {
	resolve := func(port signals.AnyPort) (signals.AnySignal, error) {
		sig, bound := port.Resolve()
		if !bound {
			return nil, fmt.Errorf("kernel: port %q is not bound", port.Name())
		}
		return sig, nil
	}

	if err := g.checkUniqueProducers(resolve); err != nil {
		return nil, err
	}

	graph := structures.NewDVGraph[signals.AnySignal, commons.Time]()

	modules := make(map[*Module]bool, len(g.moduleInputs)+len(g.moduleOutputs))
	for m := range g.moduleInputs {
		modules[m] = true
	}
	for m := range g.moduleOutputs {
		modules[m] = true
	}

	for m := range modules {
		consumed := make([]signals.AnySignal, 0, len(g.moduleInputs[m]))
		for _, port := range g.moduleInputs[m] {
			sig, err := resolve(port)
			if err != nil {
				return nil, err
			}
			consumed = append(consumed, sig)
			graph.AddNode(sig)
		}
		produced := make([]signals.AnySignal, 0, len(g.moduleOutputs[m]))
		for _, port := range g.moduleOutputs[m] {
			sig, err := resolve(port)
			if err != nil {
				return nil, err
			}
			produced = append(produced, sig)
			graph.AddNode(sig)
		}
		for _, c := range consumed {
			for _, o := range produced {
				graph.Link(c, o, o.GetDelay())
			}
		}
	}
	return graph, nil
}

// checkUniqueProducers resolves every registered producer port to its
// bound signal and fails if two different processes claim the same
// signal as producer. A signal may only have one producer: binding
// two different Outputs to the same signal is a configuration error,
// not a silent no-op (see DESIGN.md, Open Question resolutions).
func (g *DependencyGraph) checkUniqueProducers(resolve func(signals.AnyPort) (signals.AnySignal, error)) error {
	bySignal := make(map[signals.AnySignal]process.Info)
	for port, info := range g.producers {
		sig, err := resolve(port)
		if err != nil {
			return err
		}
		if existing, found := bySignal[sig]; found && existing.Key != info.Key {
			return fmt.Errorf("kernel: signal %q has multiple producers: %s and %s", sig.Name(), existing, info)
		}
		bySignal[sig] = info
	}
	return nil
}

// Cycle is one offending path through the signal-level graph, given as
// the ordered sequence of signals it visits before returning to its
// start.
type Cycle []signals.AnySignal

// IsBad reports whether every edge along the cycle carries zero delay:
// a loop a combinational process could never break out of, since every
// signal along it updates within the same delta cycle.
func (c Cycle) IsBad(graph structures.DVGraph[signals.AnySignal, commons.Time]) bool {
	if len(c) == 0 {
		return false
	}
	for i := range c {
		from := c[i]
		to := c[(i+1)%len(c)]
		neighbors, found := graph.Neighbors(from)
		if !found {
			return false
		}
		delay, linked := neighbors[to]
		if !linked {
			return false
		}
		if delay > 0 {
			return false
		}
	}
	return true
}

// String renders the cycle as "a -> b -> c -> a" for diagnostics.
func (c Cycle) String() string {
	if len(c) == 0 {
		return "<empty cycle>"
	}
	names := make([]string, 0, len(c)+1)
	for _, s := range c {
		names = append(names, s.Name())
	}
	names = append(names, c[0].Name())
	return strings.Join(names, " -> ")
}

// canonicalKey returns a rotation-invariant representation of the
// cycle: the same elementary cycle discovered starting from different
// nodes (or from different DFS roots) must dedup to one entry.
func (c Cycle) canonicalKey() string {
	if len(c) == 0 {
		return ""
	}
	min := 0
	for i, s := range c {
		if s.Name() < c[min].Name() {
			min = i
		}
	}
	names := make([]string, len(c))
	for i := range c {
		names[i] = c[(min+i)%len(c)].Name()
	}
	return strings.Join(names, "\x00")
}

// ComputeCycles resolves every registered port and returns every
// elementary cycle in the resulting signal-level graph. It fails if a
// registered port has not yet been bound.
//
// The DFS walks every node as its own root and, within a traversal,
// never lets a node already fully explored down one branch block a
// back edge discovered down a different branch: two branches from the
// same (or different) root can converge on a shared node and still
// close two distinct elementary cycles through it (e.g. A->B->D->A and
// A->C->D->A sharing D). A plain visited/black-marking DFS would find
// only the first such cycle and silently drop the rest, which is
// exactly the kind of bad combinational loop this check exists to
// catch. Nodes are tracked only by current-stack membership, so the
// same node can be revisited across branches; duplicate cycles found
// from multiple roots are deduplicated by canonicalKey.
func (g *DependencyGraph) ComputeCycles() ([]Cycle, structures.DVGraph[signals.AnySignal, commons.Time], error) {
	graph, err := g.buildSignalGraph()
	if err != nil {
		return nil, nil, err
	}

	nodes := graph.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name() < nodes[j].Name() })

	onStack := make(map[signals.AnySignal]bool)
	var stack []signals.AnySignal
	var cycles []Cycle
	seen := make(map[string]bool)

	var visit func(node signals.AnySignal)
	visit = func(node signals.AnySignal) {
		onStack[node] = true
		stack = append(stack, node)

		neighbors, _ := graph.Neighbors(node)
		neighborNames := make([]signals.AnySignal, 0, len(neighbors))
		for n := range neighbors {
			neighborNames = append(neighborNames, n)
		}
		sort.Slice(neighborNames, func(i, j int) bool { return neighborNames[i].Name() < neighborNames[j].Name() })

		for _, next := range neighborNames {
			if onStack[next] {
				// Found a back edge: stack[idx:] is the cycle.
				idx := 0
				for i, n := range stack {
					if n == next {
						idx = i
						break
					}
				}
				cycle := append(Cycle(nil), stack[idx:]...)
				if key := cycle.canonicalKey(); !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
				continue
			}
			visit(next)
		}

		stack = stack[:len(stack)-1]
		onStack[node] = false
	}

	for _, node := range nodes {
		visit(node)
	}
	return cycles, graph, nil
}

// ExportDOT writes the signal-level dependency graph to path in
// Graphviz DOT format, one node per signal and one edge per
// consumed-to-produced dependency, labelled with its delay. Node
// identifiers are minted with commons.NewId() to guarantee valid,
// collision-free DOT identifiers regardless of signal name content.
func (g *DependencyGraph) ExportDOT(path string) error {
	graph, err := g.buildSignalGraph()
	if err != nil {
		return err
	}

	ids := make(map[signals.AnySignal]string)
	nodes := graph.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name() < nodes[j].Name() })
	for _, n := range nodes {
		ids[n] = "n_" + strings.ReplaceAll(commons.NewId(), "-", "")
	}

	var b strings.Builder
	b.WriteString("digraph dependency_graph {\n")
	b.WriteString("  rankdir=LR;\n")
	for _, n := range nodes {
		fmt.Fprintf(&b, "  %s [label=%q];\n", ids[n], n.Name())
	}
	for _, from := range nodes {
		neighbors, _ := graph.Neighbors(from)
		to := make([]signals.AnySignal, 0, len(neighbors))
		for n := range neighbors {
			to = append(to, n)
		}
		sort.Slice(to, func(i, j int) bool { return to[i].Name() < to[j].Name() })
		for _, n := range to {
			delay := neighbors[n]
			fmt.Fprintf(&b, "  %s -> %s [label=%q];\n", ids[from], ids[n], fmt.Sprintf("+%d", delay))
		}
	}
	b.WriteString("}\n")

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
