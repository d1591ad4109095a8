// Package fsm provides a small transition-table state machine shared by the
// domain modules. Centralizing the tables keeps illegal status changes
// rejected uniformly instead of per-endpoint string comparisons.
package fsm

import (
	"fmt"

	"climstore_backend/platform/apperr"
)

// Machine holds the legal transitions for one entity's status field.
type Machine struct {
	entity      string
	transitions map[string][]string
}

// New creates a machine for the given entity name and transition table.
// A state with no outgoing transitions is terminal.
func New(entity string, transitions map[string][]string) *Machine {
	return &Machine{entity: entity, transitions: transitions}
}

// Known reports whether the state appears in the transition table.
func (m *Machine) Known(state string) bool {
	_, ok := m.transitions[state]
	return ok
}

// Can reports whether from -> to is a legal transition.
func (m *Machine) Can(from, to string) bool {
	for _, next := range m.transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state has no outgoing transitions.
func (m *Machine) IsTerminal(state string) bool {
	return len(m.transitions[state]) == 0
}

// Transition validates from -> to and returns a typed error on failure.
func (m *Machine) Transition(from, to string) error {
	if !m.Known(to) {
		return apperr.Validation(fmt.Sprintf("unknown %s status %q", m.entity, to))
	}
	if !m.Can(from, to) {
		return apperr.InvalidTransition(fmt.Sprintf("cannot change %s status from %q to %q", m.entity, from, to))
	}
	return nil
}
