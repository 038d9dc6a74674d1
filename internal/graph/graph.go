// Package graph provides a small explicit dependency graph of deferred values.
//
// Provisioning code declares resources as named nodes whose inputs are the
// typed outputs of other nodes. Edges are first-class: a node starts only
// after every declared dependency has resolved, and a failed dependency marks
// all transitively dependent nodes as skipped while unrelated nodes proceed.
// The graph performs no retries and no state diffing; it only enforces
// ordering and propagates failures.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrSkipped marks nodes that never ran because a dependency failed.
var ErrSkipped = errors.New("skipped: dependency failed")

// node is the untyped scheduling unit shared by all outputs.
type node struct {
	name string
	deps []*node
	run  func(ctx context.Context) error
	done chan struct{}
	err  error
}

// Dep is anything usable as a dependency edge when adding a node.
type Dep interface {
	depNode() *node
}

// Graph holds named nodes and their dependency edges.
// Nodes are added before Run; Run may be called once.
type Graph struct {
	name  string
	mu    sync.Mutex
	nodes []*node
	ran   bool
}

// New returns an empty graph. The name labels log and error output
// (typically the cluster-target name owning this subgraph).
func New(name string) *Graph {
	return &Graph{name: name}
}

// Name returns the graph's label.
func (g *Graph) Name() string { return g.name }

// Edge is a single declared dependency, for inspection and tests.
type Edge struct {
	From string // dependent node
	To   string // dependency
}

// Edges returns every declared dependency edge.
func (g *Graph) Edges() []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	var edges []Edge
	for _, n := range g.nodes {
		for _, d := range n.deps {
			edges = append(edges, Edge{From: n.name, To: d.name})
		}
	}
	return edges
}

func (g *Graph) add(n *node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ran {
		panic("graph: node added after Run")
	}
	g.nodes = append(g.nodes, n)
}

// Run starts every node concurrently and waits for all of them to settle.
// Each node blocks until its declared dependencies resolve; dependency
// failures short-circuit dependents with ErrSkipped. Run returns the join of
// all node errors, skips excluded (the root cause already covers them).
//
// Cycles are unrepresentable: a dependency must already exist as an Output
// or Node handle when the dependent node is added.
func (g *Graph) Run(ctx context.Context) error {
	g.mu.Lock()
	if g.ran {
		g.mu.Unlock()
		return fmt.Errorf("graph %s: already ran", g.name)
	}
	g.ran = true
	nodes := g.nodes
	g.mu.Unlock()

	var wg sync.WaitGroup
	for _, n := range nodes {
		wg.Add(1)
		go func(n *node) {
			defer wg.Done()
			defer close(n.done)
			for _, d := range n.deps {
				select {
				case <-d.done:
					if d.err != nil {
						n.err = fmt.Errorf("%s: %w (%s)", n.name, ErrSkipped, d.name)
						return
					}
				case <-ctx.Done():
					n.err = fmt.Errorf("%s: %w", n.name, ctx.Err())
					return
				}
			}
			if err := n.run(ctx); err != nil {
				n.err = fmt.Errorf("%s: %w", n.name, err)
			}
		}(n)
	}
	wg.Wait()

	var errs []error
	for _, n := range nodes {
		if n.err != nil && !errors.Is(n.err, ErrSkipped) {
			errs = append(errs, n.err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("graph %s: %w", g.name, errors.Join(errs...))
	}
	return nil
}
