package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultReconcileDelay = 2 * time.Second

// Pipeline holds the client-side projections of the document and conflict
// sets and keeps them consistent with the backend. Projections are always
// replaced wholesale from a full snapshot, never merged, so concurrent
// reconciliations are harmless: the last response wins.
//
// Every reconciliation is tagged with the session epoch at initiation.
// Sign-out and identity switches bump the epoch, which lets a response
// arriving for a previous identity be discarded instead of resurrecting
// stale data.
type Pipeline struct {
	identity       Identity
	backend        Backend
	logger         *zap.Logger
	reconcileDelay time.Duration

	mu          sync.Mutex
	session     *Session
	epoch       uint64
	documents   []Document
	conflicts   []Conflict
	timers      map[uint64]*time.Timer
	timerSeq    uint64
	unsubscribe func()
}

type Option func(*Pipeline)

// WithReconcileDelay overrides how long an upload waits before its
// follow-up reconciliation fires.
func WithReconcileDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		p.reconcileDelay = d
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func New(identity Identity, backend Backend, opts ...Option) *Pipeline {
	p := &Pipeline{
		identity:       identity,
		backend:        backend,
		logger:         zap.NewNop(),
		reconcileDelay: defaultReconcileDelay,
		timers:         make(map[uint64]*time.Timer),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Init attempts to resume an existing session and subscribes to session
// changes. With a resumable session present it performs the initial load.
func (p *Pipeline) Init(ctx context.Context) error {
	session, err := p.identity.CurrentSession(ctx)
	if err != nil {
		p.logger.Warn("session resumption failed, starting unauthenticated", zap.Error(err))
		session = nil
	}

	p.unsubscribe = p.identity.OnSessionChange(p.handleSessionChange)

	if session != nil {
		p.adoptSession(session)
		if err := p.Refresh(ctx); err != nil {
			p.logger.Warn("initial load failed", zap.Error(err))
		}
	}
	return nil
}

// Teardown unsubscribes from session changes and drops all local state.
func (p *Pipeline) Teardown() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.clear()
}

func (p *Pipeline) handleSessionChange(session *Session) {
	if session == nil {
		p.clear()
		return
	}
	p.adoptSession(session)
	go func() {
		if err := p.Refresh(context.Background()); err != nil {
			p.logger.Warn("session-change reconciliation failed", zap.Error(err))
		}
	}()
}

// adoptSession installs a session. A different identity invalidates
// everything loaded so far; a token refresh for the same identity keeps
// the projections and the epoch, so in-flight reconciliations stay valid.
func (p *Pipeline) adoptSession(session *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil || p.session.Identity != session.Identity {
		p.epoch++
		p.documents = nil
		p.conflicts = nil
		p.stopTimersLocked()
	}
	p.session = session
}

// clear flushes the session, both projections and any pending
// reconciliation timers, and bumps the epoch so in-flight responses
// are discarded on arrival.
func (p *Pipeline) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epoch++
	p.session = nil
	p.documents = nil
	p.conflicts = nil
	p.stopTimersLocked()
}

func (p *Pipeline) stopTimersLocked() {
	for key, timer := range p.timers {
		timer.Stop()
		delete(p.timers, key)
	}
}

// SignIn exchanges credentials for a session and performs the initial
// load. It never returns an error: failures are logged and reported as
// false so callers can surface them without unwinding.
func (p *Pipeline) SignIn(ctx context.Context, email, password string) bool {
	session, err := p.identity.EstablishSession(ctx, email, password)
	if err != nil {
		p.logger.Warn("sign-in failed", zap.String("email", email), zap.Error(err))
		return false
	}

	p.adoptSession(session)
	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("post-sign-in load failed", zap.Error(err))
	}
	return true
}

// SignUp registers the identity, then signs in. Registration failure
// short-circuits: sign-in is never attempted.
func (p *Pipeline) SignUp(ctx context.Context, name, email, password string) bool {
	if err := p.identity.Register(ctx, name, email, password); err != nil {
		p.logger.Warn("registration failed", zap.String("email", email), zap.Error(err))
		return false
	}
	return p.SignIn(ctx, email, password)
}

// SignOut ends the session and flushes both projections so a later
// sign-in by a different identity never sees the previous user's data.
func (p *Pipeline) SignOut(ctx context.Context) {
	if err := p.identity.EndSession(ctx); err != nil {
		p.logger.Warn("sign-out call failed", zap.Error(err))
	}
	p.clear()
}

// Upload submits a document and optimistically appends it to the
// projection in processing state. It schedules exactly one delayed
// reconciliation so the analysis outcome becomes visible without the
// caller polling.
func (p *Pipeline) Upload(ctx context.Context, upload Upload) (*Document, error) {
	p.mu.Lock()
	session := p.session
	epoch := p.epoch
	p.mu.Unlock()

	if session == nil {
		return nil, ErrAuthFailure
	}

	doc, err := p.backend.SubmitUpload(ctx, session.Token, upload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadRejected, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != epoch {
		// Signed out while the upload was in flight.
		return doc, nil
	}
	p.documents = append(p.documents, *doc)
	p.scheduleReconcileLocked(epoch)
	return doc, nil
}

func (p *Pipeline) scheduleReconcileLocked(epoch uint64) {
	p.timerSeq++
	key := p.timerSeq
	p.timers[key] = time.AfterFunc(p.reconcileDelay, func() {
		p.mu.Lock()
		delete(p.timers, key)
		p.mu.Unlock()

		if err := p.refreshAtEpoch(context.Background(), epoch); err != nil {
			p.logger.Debug("scheduled reconciliation dropped", zap.Error(err))
		}
	})
}

// Refresh fetches the authoritative state and replaces both projections
// wholesale. On failure the previous projections are kept.
func (p *Pipeline) Refresh(ctx context.Context) error {
	p.mu.Lock()
	epoch := p.epoch
	p.mu.Unlock()
	return p.refreshAtEpoch(ctx, epoch)
}

func (p *Pipeline) refreshAtEpoch(ctx context.Context, epoch uint64) error {
	p.mu.Lock()
	session := p.session
	stale := p.epoch != epoch
	p.mu.Unlock()

	if stale {
		return ErrStaleResponse
	}
	if session == nil {
		return ErrAuthFailure
	}

	state, err := p.backend.FetchState(ctx, session.Token)
	if err != nil {
		p.logger.Warn("reconciliation fetch failed, keeping last known state", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != epoch {
		p.logger.Debug("discarding reconciliation for a previous session")
		return ErrStaleResponse
	}
	p.documents = append([]Document(nil), state.Documents...)
	p.conflicts = append([]Conflict(nil), state.Conflicts...)
	return nil
}

// Documents returns a copy of the document projection in insertion order.
func (p *Pipeline) Documents() []Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Document(nil), p.documents...)
}

// Conflicts returns a copy of the conflict projection.
func (p *Pipeline) Conflicts() []Conflict {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Conflict(nil), p.conflicts...)
}

// CurrentSession returns the active session, or nil.
func (p *Pipeline) CurrentSession() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil
	}
	s := *p.session
	return &s
}

// Stats derives the dashboard counters from the projections. A conflict
// referencing a document that no longer exists is treated as stale and
// excluded from the counts, though it stays in the projection itself.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	known := make(map[uuid.UUID]bool, len(p.documents))
	stats := Stats{TotalDocuments: len(p.documents)}
	for _, d := range p.documents {
		known[d.Id] = true
		if d.Status == DocumentStatusProcessing {
			stats.Processing++
		}
	}

	for _, c := range p.conflicts {
		if conflictIsStale(c, known) {
			continue
		}
		if c.Status == ConflictStatusUnresolved {
			stats.UnresolvedConflicts++
			if c.Severity == SeverityHigh {
				stats.HighSeverityUnresolved++
			}
		}
	}
	return stats
}

func conflictIsStale(c Conflict, known map[uuid.UUID]bool) bool {
	for _, id := range c.Documents {
		if !known[id] {
			return true
		}
	}
	return false
}
