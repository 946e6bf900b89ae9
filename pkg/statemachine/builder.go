package statemachine

import "slices"

// Builder collects transitions with a fluent API:
//
//	g, err := statemachine.NewBuilder[Status, Kind]().
//		From(Trial, Active).On(PaymentFailed).To(PastDue).
//		From(PastDue).On(PaymentSucceeded).To(Active).
//		Build()
type Builder[S, E comparable] struct {
	from   []S
	events []E
	rules  []rule[S, E]
	err    error
}

type rule[S, E comparable] struct {
	from  S
	event E
	to    S
}

// NewBuilder creates an empty builder.
func NewBuilder[S, E comparable]() *Builder[S, E] {
	return &Builder[S, E]{}
}

// From starts a new rule with the given source states.
func (b *Builder[S, E]) From(states ...S) *Builder[S, E] {
	b.from = states
	b.events = nil
	return b
}

// On sets the triggering events of the current rule.
func (b *Builder[S, E]) On(events ...E) *Builder[S, E] {
	b.events = events
	return b
}

// To closes the current rule, adding one transition per (source, event) pair.
// Repeated To calls on the same rule add further targets.
func (b *Builder[S, E]) To(targets ...S) *Builder[S, E] {
	if len(b.from) == 0 || len(b.events) == 0 || len(targets) == 0 {
		if b.err == nil {
			b.err = ErrInvalidTransition
		}
		return b
	}
	for _, f := range b.from {
		for _, e := range b.events {
			for _, t := range targets {
				b.rules = append(b.rules, rule[S, E]{from: f, event: e, to: t})
			}
		}
	}
	return b
}

// Build returns the graph or the first error recorded while building.
func (b *Builder[S, E]) Build() (*Graph[S, E], error) {
	if b.err != nil {
		return nil, b.err
	}
	g := &Graph[S, E]{
		forward:  make(map[S]map[E][]S),
		backward: make(map[E]map[S][]S),
	}
	for _, r := range b.rules {
		if g.forward[r.from] == nil {
			g.forward[r.from] = make(map[E][]S)
		}
		if !slices.Contains(g.forward[r.from][r.event], r.to) {
			g.forward[r.from][r.event] = append(g.forward[r.from][r.event], r.to)
		}
		if g.backward[r.event] == nil {
			g.backward[r.event] = make(map[S][]S)
		}
		if !slices.Contains(g.backward[r.event][r.to], r.from) {
			g.backward[r.event][r.to] = append(g.backward[r.event][r.to], r.from)
		}
	}
	return g, nil
}

// MustBuild is Build that panics on error. Intended for package-level graphs.
func (b *Builder[S, E]) MustBuild() *Graph[S, E] {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
