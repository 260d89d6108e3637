package dispatch

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"fixmate/models"
)

// Response is a contractor's reply to an outstanding offer.
type Response struct {
	ContractorID string
	Accepted     bool
}

// ResponseSource abstracts the accept/decline round-trip to a solicited
// contractor. The state machine is identical whether the channel is fed by a
// real push/webhook loop or by a simulation; only this interface changes.
type ResponseSource interface {
	// AwaitResponse returns a channel that yields at most one response for the
	// offer. A source that never replies within the offer window simply lets
	// the session's deadline fire.
	AwaitResponse(ctx context.Context, offer models.Offer) <-chan Response
}

// SimulatedResponseSource stands in for the production notification
// round-trip: each offer is answered after a random latency, accepted with a
// fixed probability. Deterministic for a given seed.
type SimulatedResponseSource struct {
	mu                sync.Mutex
	rng               *rand.Rand
	AcceptProbability float64
	MinDelay          time.Duration
	MaxDelay          time.Duration
}

// NewSimulatedResponseSource builds a seeded simulation source.
func NewSimulatedResponseSource(seed int64, acceptProbability float64, minDelay, maxDelay time.Duration) *SimulatedResponseSource {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &SimulatedResponseSource{
		rng:               rand.New(rand.NewSource(seed)),
		AcceptProbability: acceptProbability,
		MinDelay:          minDelay,
		MaxDelay:          maxDelay,
	}
}

func (s *SimulatedResponseSource) AwaitResponse(ctx context.Context, offer models.Offer) <-chan Response {
	s.mu.Lock()
	accepted := s.rng.Float64() < s.AcceptProbability
	delay := s.MinDelay
	if spread := s.MaxDelay - s.MinDelay; spread > 0 {
		delay += time.Duration(s.rng.Int63n(int64(spread)))
	}
	s.mu.Unlock()

	ch := make(chan Response, 1)
	go func() {
		select {
		case <-time.After(delay):
			ch <- Response{ContractorID: offer.ContractorID, Accepted: accepted}
		case <-ctx.Done():
		}
	}()
	return ch
}
