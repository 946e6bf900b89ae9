package statemachine

import (
	"fmt"
	"slices"
)

// Graph is an immutable transition table keyed by (from, event).
// Lookups in both directions are O(1) map reads; Graph is safe for
// concurrent use once built.
type Graph[S, E comparable] struct {
	forward  map[S]map[E][]S
	backward map[E]map[S][]S
}

// Can reports whether event moves from into to.
func (g *Graph[S, E]) Can(from S, event E, to S) bool {
	return slices.Contains(g.forward[from][event], to)
}

// Check is Can with an error describing the rejected transition.
func (g *Graph[S, E]) Check(from S, event E, to S) error {
	if g.Can(from, event, to) {
		return nil
	}
	return &ErrNoTransitionAvailable{
		From:  fmt.Sprint(from),
		Event: fmt.Sprint(event),
		To:    fmt.Sprint(to),
	}
}

// Targets lists the states reachable from from on event, in declaration order.
func (g *Graph[S, E]) Targets(from S, event E) []S {
	return slices.Clone(g.forward[from][event])
}

// Sources lists the states from which event leads to to, in declaration order.
// Callers use it to turn a transition rule into a set-membership check, for
// example a SQL "status = ANY($n)" predicate.
func (g *Graph[S, E]) Sources(event E, to S) []S {
	return slices.Clone(g.backward[event][to])
}
