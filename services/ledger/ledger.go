package ledger

import (
	"sync"

	"go.uber.org/zap"
)

// entry is the authoritative mutable state for one contractor: the session
// holding an outstanding offer (if any) and the number of committed jobs.
type entry struct {
	offerSessionID string
	activeJobs     int
}

// AssignmentLedger enforces at-most-one-outstanding-offer-per-contractor
// across concurrently running dispatch sessions. Every read-then-write against
// a contractor record happens inside a single critical section, so two
// sessions can never both reserve the same contractor.
//
// The ledger is an injected dependency, never a package global, so tests can
// run many sessions against isolated instances.
type AssignmentLedger struct {
	mu      sync.Mutex
	entries map[string]*entry
	logger  *zap.Logger
}

// NewAssignmentLedger returns an empty ledger.
func NewAssignmentLedger(logger *zap.Logger) *AssignmentLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentLedger{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

func (l *AssignmentLedger) get(contractorID string) *entry {
	e, ok := l.entries[contractorID]
	if !ok {
		e = &entry{}
		l.entries[contractorID] = e
	}
	return e
}

// TryReserveOffer atomically records an outstanding offer for the contractor
// on behalf of sessionID. It succeeds iff the contractor has no outstanding
// offer and spare capacity (activeJobs < maxConcurrent); on failure nothing
// changes. A non-positive maxConcurrent is never reservable.
func (l *AssignmentLedger) TryReserveOffer(contractorID, sessionID string, maxConcurrent int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.get(contractorID)
	if e.offerSessionID != "" {
		return false
	}
	if e.activeJobs >= maxConcurrent {
		return false
	}
	e.offerSessionID = sessionID
	l.logger.Debug("ledger: offer reserved",
		zap.String("contractorId", contractorID),
		zap.String("sessionId", sessionID))
	return true
}

// ReleaseOffer clears the outstanding offer iff it belongs to sessionID.
// Idempotent: releasing an offer that is absent or owned elsewhere is a no-op.
func (l *AssignmentLedger) ReleaseOffer(contractorID, sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[contractorID]
	if !ok || e.offerSessionID != sessionID {
		return
	}
	e.offerSessionID = ""
	l.logger.Debug("ledger: offer released",
		zap.String("contractorId", contractorID),
		zap.String("sessionId", sessionID))
}

// CommitAssignment converts the outstanding offer into an active job. It fails
// when the offer does not belong to sessionID, which signals a stale session
// trying to commit after losing a race.
func (l *AssignmentLedger) CommitAssignment(contractorID, sessionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[contractorID]
	if !ok || e.offerSessionID != sessionID {
		return false
	}
	e.offerSessionID = ""
	e.activeJobs++
	l.logger.Info("ledger: assignment committed",
		zap.String("contractorId", contractorID),
		zap.String("sessionId", sessionID),
		zap.Int("activeJobs", e.activeJobs))
	return true
}

// CompleteJob decrements the contractor's active job count when a committed
// job finishes.
func (l *AssignmentLedger) CompleteJob(contractorID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[contractorID]
	if !ok || e.activeJobs == 0 {
		return
	}
	e.activeJobs--
}

// HasOpenOffer reports whether any session currently holds an outstanding
// offer for the contractor.
func (l *AssignmentLedger) HasOpenOffer(contractorID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[contractorID]
	return ok && e.offerSessionID != ""
}

// ActiveJobs returns the contractor's committed job count.
func (l *AssignmentLedger) ActiveJobs(contractorID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[contractorID]
	if !ok {
		return 0
	}
	return e.activeJobs
}
