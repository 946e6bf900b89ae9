package statemachine

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid transition: from, event and to are all required")

// ErrNoTransitionAvailable indicates the graph has no edge for the given triple.
type ErrNoTransitionAvailable struct {
	From  string
	Event string
	To    string
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition from state '%s' to '%s' on event '%s'", e.From, e.To, e.Event)
}

func IsNoTransitionAvailableError(err error) bool {
	var e *ErrNoTransitionAvailable
	return errors.As(err, &e)
}
