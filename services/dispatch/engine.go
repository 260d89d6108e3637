package dispatch

import (
	"context"
	"sync"
	"time"

	"fixmate/models"
	"fixmate/services/ledger"
	"fixmate/services/matching"
	"fixmate/services/notification"
	"fixmate/services/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config carries the dispatch policy knobs.
type Config struct {
	// OfferWindow is the fixed time budget a solicited contractor has to
	// accept or decline before the offer times out.
	OfferWindow time.Duration
	// SettleDelay is the short display period between ranking and the first
	// offer, letting a consumer render the candidate list.
	SettleDelay time.Duration
	// MaxCandidates truncates the ranking. Zero means no truncation.
	MaxCandidates int
}

// DefaultConfig mirrors the production policy: 30s response window, 2s settle
// period, at most 10 candidates per session.
func DefaultConfig() Config {
	return Config{
		OfferWindow:   30 * time.Second,
		SettleDelay:   2 * time.Second,
		MaxCandidates: 10,
	}
}

// Engine runs premium dispatch sessions. Each session is an independent
// goroutine walking its ranking one contractor at a time; cross-session
// exclusivity is enforced solely by the assignment ledger.
type Engine struct {
	cfg      Config
	ledger   *ledger.AssignmentLedger
	ranker   *matching.Ranker
	pricing  *pricing.Calculator
	source   ResponseSource
	notifier notification.EventNotifier
	clock    Clock
	archive  *Archive
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewEngine wires an engine from its injected collaborators. The archive may
// be nil (no terminal-result persistence); everything else is required.
func NewEngine(
	cfg Config,
	assignments *ledger.AssignmentLedger,
	ranker *matching.Ranker,
	calc *pricing.Calculator,
	source ResponseSource,
	notifier notification.EventNotifier,
	clock Clock,
	archive *Archive,
	logger *zap.Logger,
) *Engine {
	if clock == nil {
		clock = RealClock()
	}
	if notifier == nil {
		notifier = notification.NewLogNotifier(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:      cfg,
		ledger:   assignments,
		ranker:   ranker,
		pricing:  calc,
		source:   source,
		notifier: notifier,
		clock:    clock,
		archive:  archive,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// StartDispatch validates the request synchronously, then begins a session
// asynchronously and returns its id. Malformed input never enters the state
// machine.
func (e *Engine) StartDispatch(ctx context.Context, req models.MatchRequest, pool []models.ContractorProfile) (string, error) {
	if req.ServiceID == "" {
		return "", NewInvalidInputError("missing service id")
	}
	if _, err := pricing.BasePriceFor(req.ServiceID); err != nil {
		return "", NewInvalidInputError(err.Error())
	}
	if !req.CustomerLocation.Valid() {
		return "", NewInvalidInputError("invalid customer coordinates")
	}
	if req.RequestedTime.IsZero() {
		return "", NewInvalidInputError("missing requested time")
	}

	s := newSession(uuid.New().String(), req)
	e.mu.Lock()
	e.sessions[s.ID] = s
	e.mu.Unlock()

	e.logger.Info("dispatch session started",
		zap.String("sessionId", s.ID),
		zap.String("serviceId", req.ServiceID),
		zap.Int("poolSize", len(pool)))

	go e.run(s, pool)
	return s.ID, nil
}

// Cancel requests cancellation of a running session. Always honoured, even
// mid-offer; cancelling a terminal session is a no-op.
func (e *Engine) Cancel(sessionID string) error {
	s, ok := e.session(sessionID)
	if !ok {
		return NewNotFoundError(sessionID)
	}
	s.Cancel()
	return nil
}

// GetStatus returns the progress view for a session, falling back to the
// archive for sessions already evicted from memory.
func (e *Engine) GetStatus(ctx context.Context, sessionID string) (models.DispatchStatus, error) {
	if s, ok := e.session(sessionID); ok {
		return s.Status(), nil
	}
	if e.archive != nil {
		res, err := e.archive.Get(ctx, sessionID)
		if err != nil {
			return models.DispatchStatus{}, err
		}
		if res != nil {
			return models.DispatchStatus{
				SessionID:    res.SessionID,
				State:        res.State,
				CurrentIndex: len(res.Attempts),
				Attempts:     res.Attempts,
			}, nil
		}
	}
	return models.DispatchStatus{}, NewNotFoundError(sessionID)
}

// Result returns the terminal payload of a session, from memory or archive.
// Returns (nil, nil) while the session is still running.
func (e *Engine) Result(ctx context.Context, sessionID string) (*models.DispatchResult, error) {
	if s, ok := e.session(sessionID); ok {
		return s.Result(), nil
	}
	if e.archive != nil {
		res, err := e.archive.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, NewNotFoundError(sessionID)
}

// Done exposes the session's completion channel, mainly for callers that want
// to block until a terminal state.
func (e *Engine) Done(sessionID string) (<-chan struct{}, error) {
	s, ok := e.session(sessionID)
	if !ok {
		return nil, NewNotFoundError(sessionID)
	}
	return s.Done(), nil
}

// Evict drops a terminal session from the in-memory registry. Status and
// result lookups continue to be served from the archive.
func (e *Engine) Evict(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.sessions[sessionID]; ok && models.IsTerminalState(s.State()) {
		delete(e.sessions, sessionID)
	}
}

func (e *Engine) session(sessionID string) (*Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[sessionID]
	return s, ok
}

// run drives one session through its state machine. Candidates are solicited
// strictly in ranked order, one at a time; the only skips are ledger
// reservation failures, which do not consume the response window.
func (e *Engine) run(s *Session, pool []models.ContractorProfile) {
	defer close(s.done)
	defer s.ctxCancel()

	ranked := e.ranker.Rank(s.Request, pool, e.cfg.MaxCandidates)
	s.setRanked(ranked)
	if len(ranked) == 0 {
		e.logger.Info("dispatch found no eligible contractors", zap.String("sessionId", s.ID))
		e.finish(s, models.StateFailed)
		return
	}

	s.setState(models.StateFound)
	select {
	case <-e.clock.After(e.cfg.SettleDelay):
	case <-s.cancelled:
		e.finish(s, models.StateCancelled)
		return
	}

	s.setState(models.StateDispatching)
	for i, ms := range ranked {
		select {
		case <-s.cancelled:
			e.finish(s, models.StateCancelled)
			return
		default:
		}

		s.setCurrentIndex(i)
		c := ms.Contractor

		if !e.ledger.TryReserveOffer(c.ID, s.ID, c.MaxConcurrentJobs) {
			now := e.clock.Now()
			s.logAttempt(c.ID, now, now, models.OutcomeUnavailable)
			continue
		}

		offeredAt := e.clock.Now()
		offer := models.Offer{
			SessionID:    s.ID,
			ContractorID: c.ID,
			Deadline:     offeredAt.Add(e.cfg.OfferWindow),
		}
		s.setCurrentOffer(&offer)
		e.notify(models.DispatchEvent{
			Type:         models.EventOfferExtended,
			SessionID:    s.ID,
			ServiceID:    s.Request.ServiceID,
			UserID:       s.Request.UserID,
			ContractorID: c.ID,
			DeviceToken:  c.DeviceToken,
			EtaMinutes:   ms.EtaMinutes,
			At:           offeredAt,
		})

		respCh := e.source.AwaitResponse(s.ctx, offer)

		var outcome string
		select {
		case resp := <-respCh:
			if resp.Accepted {
				if e.ledger.CommitAssignment(c.ID, s.ID) {
					s.logAttempt(c.ID, offeredAt, e.clock.Now(), models.OutcomeAccepted)
					s.setCurrentOffer(nil)
					e.confirm(s, ms)
					return
				}
				// Commit rejected: this session lost ownership of the offer.
				s.logAttempt(c.ID, offeredAt, e.clock.Now(), models.OutcomeStale)
				s.setCurrentOffer(nil)
				e.finish(s, models.StateFailed)
				return
			}
			outcome = models.OutcomeDeclined
		case <-e.clock.After(e.cfg.OfferWindow):
			outcome = models.OutcomeTimedOut
		case <-s.cancelled:
			e.ledger.ReleaseOffer(c.ID, s.ID)
			s.logAttempt(c.ID, offeredAt, e.clock.Now(), models.OutcomeCancelled)
			s.setCurrentOffer(nil)
			e.finish(s, models.StateCancelled)
			return
		}

		e.ledger.ReleaseOffer(c.ID, s.ID)
		s.logAttempt(c.ID, offeredAt, e.clock.Now(), outcome)
		s.setCurrentOffer(nil)
		e.notify(models.DispatchEvent{
			Type:         models.EventOfferReleased,
			SessionID:    s.ID,
			ContractorID: c.ID,
			Outcome:      outcome,
			At:           e.clock.Now(),
		})
	}

	// Every candidate declined, timed out or was unavailable.
	e.finish(s, models.StateFailed)
}

// confirm finalises a session with an accepted, committed contractor.
func (e *Engine) confirm(s *Session, winner models.MatchScore) {
	basePrice, err := pricing.BasePriceFor(s.Request.ServiceID)
	if err != nil {
		// Validated at StartDispatch; only hit if the catalog changed mid-flight.
		e.logger.Error("confirm: base price lookup failed", zap.String("sessionId", s.ID), zap.Error(err))
	}
	price, err := e.pricing.Price(basePrice, s.Request.IsPremium)
	if err != nil {
		e.logger.Error("confirm: pricing failed", zap.String("sessionId", s.ID), zap.Error(err))
	}

	s.setState(models.StateConfirmed)
	res := models.DispatchResult{
		SessionID:    s.ID,
		State:        models.StateConfirmed,
		ContractorID: winner.Contractor.ID,
		Price:        price,
		EtaMinutes:   winner.EtaMinutes,
		Attempts:     s.attemptsCopy(),
		FinishedAt:   e.clock.Now(),
	}
	s.setResult(&res)
	e.persist(res)

	e.logger.Info("dispatch confirmed",
		zap.String("sessionId", s.ID),
		zap.String("contractorId", winner.Contractor.ID),
		zap.Float64("price", price),
		zap.Int("etaMinutes", winner.EtaMinutes))

	e.notify(models.DispatchEvent{
		Type:         models.EventAssignment,
		SessionID:    s.ID,
		ServiceID:    s.Request.ServiceID,
		UserID:       s.Request.UserID,
		ContractorID: winner.Contractor.ID,
		DeviceToken:  winner.Contractor.DeviceToken,
		Price:        price,
		EtaMinutes:   winner.EtaMinutes,
		At:           e.clock.Now(),
	})
}

// finish finalises a session in a non-confirmed terminal state.
func (e *Engine) finish(s *Session, state string) {
	s.setState(state)
	res := models.DispatchResult{
		SessionID:  s.ID,
		State:      state,
		Attempts:   s.attemptsCopy(),
		FinishedAt: e.clock.Now(),
	}
	s.setResult(&res)
	e.persist(res)

	e.logger.Info("dispatch finished without assignment",
		zap.String("sessionId", s.ID),
		zap.String("state", state),
		zap.Int("attempts", len(res.Attempts)))

	eventType := models.EventDispatchFailed
	if state == models.StateCancelled {
		eventType = models.EventDispatchCancel
	}
	e.notify(models.DispatchEvent{
		Type:      eventType,
		SessionID: s.ID,
		UserID:    s.Request.UserID,
		At:        e.clock.Now(),
	})
}

func (e *Engine) persist(res models.DispatchResult) {
	if e.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.archive.Save(ctx, res); err != nil {
		e.logger.Warn("failed to archive dispatch result",
			zap.String("sessionId", res.SessionID), zap.Error(err))
	}
}

func (e *Engine) notify(ev models.DispatchEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.notifier.Notify(ctx, ev); err != nil {
		e.logger.Warn("failed to publish dispatch event",
			zap.String("sessionId", ev.SessionID),
			zap.String("type", ev.Type),
			zap.Error(err))
	}
}
