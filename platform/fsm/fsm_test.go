package fsm

import (
	"testing"

	"climstore_backend/platform/apperr"
)

func testMachine() *Machine {
	return New("quote", map[string][]string{
		"draft":     {"sent", "cancelled"},
		"sent":      {"accepted", "cancelled"},
		"accepted":  {},
		"cancelled": {},
	})
}

func TestTransitionAllowsForwardPath(t *testing.T) {
	m := testMachine()
	if err := m.Transition("draft", "sent"); err != nil {
		t.Fatalf("draft -> sent should be legal, got %v", err)
	}
	if err := m.Transition("sent", "accepted"); err != nil {
		t.Fatalf("sent -> accepted should be legal, got %v", err)
	}
}

func TestTransitionRejectsSkippingStates(t *testing.T) {
	m := testMachine()
	err := m.Transition("draft", "accepted")
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	m := testMachine()
	for _, state := range []string{"accepted", "cancelled"} {
		if !m.IsTerminal(state) {
			t.Fatalf("expected %q to be terminal", state)
		}
		if err := m.Transition(state, "sent"); !apperr.Is(err, apperr.KindInvalidTransition) {
			t.Fatalf("expected invalid transition out of %q, got %v", state, err)
		}
	}
}

func TestTransitionRejectsUnknownTarget(t *testing.T) {
	m := testMachine()
	if err := m.Transition("draft", "archived"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}
