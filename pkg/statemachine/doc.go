// Package statemachine provides an immutable, generic transition graph.
//
// A Graph answers two questions: may event move a record from one state to
// another (Can, Check), and which source states may reach a given target on an
// event (Sources). The second form lets persistence layers enforce the graph
// inside a single conditional write instead of a read-check-write sequence.
//
// Graphs are built once with Builder and are safe for concurrent readers.
package statemachine
