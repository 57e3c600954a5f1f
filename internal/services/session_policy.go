package services

import (
	"fmt"
	"strings"

	"github.com/tbourn/care-scheduler/internal/domain"
)

// TransitionPolicy decides which session status changes are allowed. A
// same-state change is accepted by the ledger before the policy is asked.
type TransitionPolicy interface {
	Name() string
	Allow(from, to domain.SessionStatus) bool
}

// Policy names accepted by PolicyByName.
const (
	PolicyFree     = "free"
	PolicyTerminal = "terminal"
)

type freeTransitions struct{}

func (freeTransitions) Name() string { return PolicyFree }
func (freeTransitions) Allow(_, to domain.SessionStatus) bool { return to.Valid() }

// FreeTransitions lets any status move to any other. It matches how
// professionals correct session records by hand.
var FreeTransitions TransitionPolicy = freeTransitions{}

// tableTransitions allows exactly the listed edges.
type tableTransitions struct {
	name  string
	edges map[domain.SessionStatus][]domain.SessionStatus
}

func (t tableTransitions) Name() string { return t.name }

func (t tableTransitions) Allow(from, to domain.SessionStatus) bool {
	for _, s := range t.edges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TerminalTransitions treats concluido and cancelado as final.
var TerminalTransitions TransitionPolicy = tableTransitions{
	name: PolicyTerminal,
	edges: map[domain.SessionStatus][]domain.SessionStatus{
		domain.SessionScheduled: {domain.SessionStarted, domain.SessionCompleted, domain.SessionCancelled},
		domain.SessionStarted:   {domain.SessionCompleted, domain.SessionCancelled, domain.SessionScheduled},
	},
}

// PolicyByName resolves a configured policy name. Blank selects free.
func PolicyByName(name string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyFree:
		return FreeTransitions, nil
	case PolicyTerminal:
		return TerminalTransitions, nil
	}
	return nil, fmt.Errorf("unknown session policy %q", name)
}
