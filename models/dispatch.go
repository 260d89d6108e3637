package models

import "time"

// Dispatch session states. A session transitions exactly once through the
// machine and never leaves a terminal state.
const (
	StateSearching   = "searching"
	StateFound       = "found"
	StateDispatching = "dispatching"
	StateConfirmed   = "confirmed"
	StateFailed      = "failed"
	StateCancelled   = "cancelled"
)

// IsTerminalState reports whether a session state admits no further transitions.
func IsTerminalState(state string) bool {
	return state == StateConfirmed || state == StateFailed || state == StateCancelled
}

// Attempt outcomes recorded in a session's attempts log.
const (
	OutcomeAccepted    = "accepted"
	OutcomeDeclined    = "declined"
	OutcomeTimedOut    = "timedOut"
	OutcomeUnavailable = "unavailable" // lost the ledger reservation race
	OutcomeStale       = "stale"       // commit rejected after losing ownership
	OutcomeCancelled   = "cancelled"
)

// Attempt records a single solicitation of one contractor.
type Attempt struct {
	ContractorID string    `json:"contractorId"`
	OfferedAt    time.Time `json:"offeredAt"`
	ResolvedAt   time.Time `json:"resolvedAt,omitzero"`
	Outcome      string    `json:"outcome"`
}

// Offer is the live solicitation a session currently holds: one contractor,
// one deadline.
type Offer struct {
	SessionID    string    `json:"sessionId"`
	ContractorID string    `json:"contractorId"`
	Deadline     time.Time `json:"deadline"`
}

// DispatchStatus is the progress view exposed to callers while a session runs.
type DispatchStatus struct {
	SessionID           string    `json:"sessionId"`
	State               string    `json:"state"`
	CurrentContractorID string    `json:"currentContractorId,omitempty"`
	CurrentIndex        int       `json:"currentIndex"`
	Attempts            []Attempt `json:"attempts"`
}

// DispatchResult is the terminal payload of a session. ContractorID, Price and
// EtaMinutes are set only when State is confirmed.
type DispatchResult struct {
	SessionID    string    `json:"sessionId"`
	State        string    `json:"state"`
	ContractorID string    `json:"contractorId,omitempty"`
	Price        float64   `json:"price,omitempty"`
	EtaMinutes   int       `json:"etaMinutes,omitempty"`
	Attempts     []Attempt `json:"attempts"`
	FinishedAt   time.Time `json:"finishedAt"`
}
