package dispatch

import (
	"context"
	"sync"
	"time"

	"fixmate/models"
)

// Session is the mutable record of one premium dispatch. The run loop in
// engine.go is the only writer; all other tasks read through the locked
// accessors. Ranked candidates, the index and the attempts log are owned
// exclusively by the session and never shared.
type Session struct {
	ID      string
	Request models.MatchRequest

	ctx       context.Context
	ctxCancel context.CancelFunc

	mu           sync.Mutex
	state        string
	ranked       []models.MatchScore
	currentIndex int
	currentOffer *models.Offer
	attempts     []models.Attempt
	result       *models.DispatchResult

	cancelOnce sync.Once
	cancelled  chan struct{}
	done       chan struct{}
}

func newSession(id string, req models.MatchRequest) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:        id,
		Request:   req,
		ctx:       ctx,
		ctxCancel: cancel,
		state:     models.StateSearching,
		cancelled: make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Cancel requests cooperative cancellation. Safe to call any number of times
// from any goroutine; the session honours it at its next suspension point.
func (s *Session) Cancel() {
	s.cancelOnce.Do(func() { close(s.cancelled) })
}

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns the current state.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the caller-facing progress view.
func (s *Session) Status() models.DispatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.DispatchStatus{
		SessionID:    s.ID,
		State:        s.state,
		CurrentIndex: s.currentIndex,
		Attempts:     append([]models.Attempt(nil), s.attempts...),
	}
	if s.currentOffer != nil {
		status.CurrentContractorID = s.currentOffer.ContractorID
	}
	return status
}

// Result returns the terminal payload, or nil while the session still runs.
func (s *Session) Result() *models.DispatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	res := *s.result
	return &res
}

func (s *Session) setState(state string) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) setRanked(ranked []models.MatchScore) {
	s.mu.Lock()
	s.ranked = ranked
	s.mu.Unlock()
}

func (s *Session) setCurrentIndex(i int) {
	s.mu.Lock()
	s.currentIndex = i
	s.mu.Unlock()
}

func (s *Session) setCurrentOffer(offer *models.Offer) {
	s.mu.Lock()
	s.currentOffer = offer
	s.mu.Unlock()
}

func (s *Session) logAttempt(contractorID string, offeredAt, resolvedAt time.Time, outcome string) {
	s.mu.Lock()
	s.attempts = append(s.attempts, models.Attempt{
		ContractorID: contractorID,
		OfferedAt:    offeredAt,
		ResolvedAt:   resolvedAt,
		Outcome:      outcome,
	})
	s.mu.Unlock()
}

func (s *Session) attemptsCopy() []models.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Attempt(nil), s.attempts...)
}

func (s *Session) setResult(res *models.DispatchResult) {
	s.mu.Lock()
	s.result = res
	s.mu.Unlock()
}
