package graph

import (
	"context"
	"fmt"
)

// Output is the typed deferred value produced by a node. It doubles as a
// dependency edge: passing an Output to Add both orders the new node after
// the producer and makes the resolved value readable inside the node body.
type Output[T any] struct {
	n   *node
	val T
}

func (o *Output[T]) depNode() *node { return o.n }

// Name returns the producing node's name.
func (o *Output[T]) Name() string { return o.n.name }

// Value suspends until the producing node settles, then returns its result.
// Inside a node body this never blocks when the output was declared as a
// dependency of that node.
func (o *Output[T]) Value(ctx context.Context) (T, error) {
	select {
	case <-o.n.done:
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("await %s: %w", o.n.name, ctx.Err())
	}
	if o.n.err != nil {
		var zero T
		return zero, o.n.err
	}
	return o.val, nil
}

// Add declares a node named name producing a value of type T, ordered after
// deps. The node body runs once all deps have resolved successfully.
func Add[T any](g *Graph, name string, fn func(ctx context.Context) (T, error), deps ...Dep) *Output[T] {
	out := &Output[T]{}
	n := &node{
		name: name,
		done: make(chan struct{}),
	}
	for _, d := range deps {
		if d == nil {
			continue
		}
		n.deps = append(n.deps, d.depNode())
	}
	n.run = func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out.val = v
		return nil
	}
	out.n = n
	g.add(n)
	return out
}
