package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	mu             sync.Mutex
	current        *Session
	registerErr    error
	establishErr   error
	establishCalls int
	subs           []func(*Session)
}

func (f *fakeIdentity) EstablishSession(ctx context.Context, email, password string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.establishCalls++
	if f.establishErr != nil {
		return nil, f.establishErr
	}
	s := &Session{Identity: uuid.New(), Email: email, Token: "token-" + email}
	f.current = s
	return s, nil
}

func (f *fakeIdentity) Register(ctx context.Context, name, email, password string) error {
	return f.registerErr
}

func (f *fakeIdentity) CurrentSession(ctx context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeIdentity) OnSessionChange(fn func(*Session)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

func (f *fakeIdentity) EndSession(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = nil
	return nil
}

type fakeBackend struct {
	mu         sync.Mutex
	state      State
	fetchErr   error
	uploadErr  error
	fetchCalls int
}

func (f *fakeBackend) FetchState(ctx context.Context, token string) (*State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	s := State{
		Documents: append([]Document(nil), f.state.Documents...),
		Conflicts: append([]Conflict(nil), f.state.Conflicts...),
	}
	return &s, nil
}

func (f *fakeBackend) SubmitUpload(ctx context.Context, token string, upload Upload) (*Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &Document{
		Id:         uuid.New(),
		Name:       upload.Name,
		Type:       upload.Type,
		Status:     DocumentStatusProcessing,
		Version:    1,
		UploadDate: time.Now(),
	}, nil
}

func (f *fakeBackend) setState(state State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
}

func analyzedDoc(name string) Document {
	summary := "summary of " + name
	confidence := 0.9
	return Document{
		Id:         uuid.New(),
		Name:       name,
		Type:       "policy",
		Status:     DocumentStatusAnalyzed,
		Version:    1,
		AiSummary:  &summary,
		Confidence: &confidence,
		UploadDate: time.Now(),
	}
}

func signedIn(t *testing.T, backend Backend, opts ...Option) *Pipeline {
	t.Helper()
	p := New(&fakeIdentity{}, backend, opts...)
	require.True(t, p.SignIn(context.Background(), "a@b.c", "secret"))
	return p
}

func TestRefresh_Idempotent(t *testing.T) {
	doc := analyzedDoc("a.pdf")
	backend := &fakeBackend{state: State{
		Documents: []Document{doc},
		Conflicts: []Conflict{{
			Id:        uuid.New(),
			Type:      "policy",
			Severity:  SeverityHigh,
			Status:    ConflictStatusUnresolved,
			Documents: []uuid.UUID{doc.Id},
		}},
	}}
	p := signedIn(t, backend)

	require.NoError(t, p.Refresh(context.Background()))
	first := p.Documents()
	firstConflicts := p.Conflicts()

	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, first, p.Documents())
	assert.Equal(t, firstConflicts, p.Conflicts())
}

func TestUpload_OptimisticInsertVisibleImmediately(t *testing.T) {
	backend := &fakeBackend{}
	// Long delay keeps the scheduled reconciliation from firing mid-test
	p := signedIn(t, backend, WithReconcileDelay(time.Hour))

	doc, err := p.Upload(context.Background(), Upload{Name: "cv.pdf", Type: "resume", Content: "..."})
	require.NoError(t, err)

	docs := p.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, doc.Id, docs[0].Id)
	assert.Equal(t, DocumentStatusProcessing, docs[0].Status)
	assert.Equal(t, "resume", docs[0].Type)
}

func TestUpload_AppendsAtEnd(t *testing.T) {
	existing := analyzedDoc("first.pdf")
	backend := &fakeBackend{state: State{Documents: []Document{existing}}}
	p := signedIn(t, backend, WithReconcileDelay(time.Hour))
	require.NoError(t, p.Refresh(context.Background()))

	_, err := p.Upload(context.Background(), Upload{Name: "second.pdf", Type: "note", Content: "..."})
	require.NoError(t, err)

	docs := p.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "first.pdf", docs[0].Name)
	assert.Equal(t, "second.pdf", docs[1].Name)
}

func TestUpload_RejectedLeavesStateUntouched(t *testing.T) {
	backend := &fakeBackend{uploadErr: errors.New("payload too large")}
	p := signedIn(t, backend, WithReconcileDelay(time.Hour))

	_, err := p.Upload(context.Background(), Upload{Name: "big.pdf", Type: "other", Content: "..."})
	assert.ErrorIs(t, err, ErrUploadRejected)
	assert.Empty(t, p.Documents())
}

func TestUpload_RequiresSession(t *testing.T) {
	p := New(&fakeIdentity{}, &fakeBackend{})

	_, err := p.Upload(context.Background(), Upload{Name: "x", Type: "note", Content: "..."})
	assert.ErrorIs(t, err, ErrAuthFailure)
}

func TestUpload_ScheduledReconciliationFires(t *testing.T) {
	backend := &fakeBackend{}
	p := signedIn(t, backend, WithReconcileDelay(10*time.Millisecond))

	analyzed := analyzedDoc("cv.pdf")
	backend.setState(State{Documents: []Document{analyzed}})

	_, err := p.Upload(context.Background(), Upload{Name: "cv.pdf", Type: "resume", Content: "..."})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		docs := p.Documents()
		return len(docs) == 1 && docs[0].Status == DocumentStatusAnalyzed
	}, time.Second, 5*time.Millisecond)
}

func TestRefresh_WholesaleReplaceDropsGhosts(t *testing.T) {
	old := analyzedDoc("old.pdf")
	backend := &fakeBackend{state: State{Documents: []Document{old}}}
	p := signedIn(t, backend)
	require.NoError(t, p.Refresh(context.Background()))

	replacement := analyzedDoc("new.pdf")
	backend.setState(State{Documents: []Document{replacement}})
	require.NoError(t, p.Refresh(context.Background()))

	docs := p.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, replacement.Id, docs[0].Id)
}

func TestRefresh_FailureKeepsLastKnownGood(t *testing.T) {
	doc := analyzedDoc("a.pdf")
	backend := &fakeBackend{state: State{Documents: []Document{doc}}}
	p := signedIn(t, backend)
	require.NoError(t, p.Refresh(context.Background()))

	backend.mu.Lock()
	backend.fetchErr = errors.New("connection reset")
	backend.mu.Unlock()

	err := p.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailure)
	assert.Len(t, p.Documents(), 1)
}

type blockingBackend struct {
	fakeBackend
	gate    sync.Mutex
	block   bool
	started chan struct{}
	release chan struct{}
}

func (b *blockingBackend) FetchState(ctx context.Context, token string) (*State, error) {
	b.gate.Lock()
	blocked := b.block
	b.gate.Unlock()
	if blocked {
		close(b.started)
		<-b.release
	}
	return b.fakeBackend.FetchState(ctx, token)
}

func TestRefresh_StaleSessionGuard(t *testing.T) {
	backend := &blockingBackend{
		fakeBackend: fakeBackend{state: State{Documents: []Document{analyzedDoc("leak.pdf")}}},
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	p := New(&fakeIdentity{}, backend)
	require.True(t, p.SignIn(context.Background(), "a@b.c", "pw"))

	backend.gate.Lock()
	backend.block = true
	backend.gate.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Refresh(context.Background())
	}()

	// Sign out while the fetch is in flight, then let the response land.
	<-backend.started
	p.SignOut(context.Background())
	close(backend.release)

	assert.ErrorIs(t, <-errCh, ErrStaleResponse)
	assert.Empty(t, p.Documents())
	assert.Empty(t, p.Conflicts())
}

func TestStats_Aggregation(t *testing.T) {
	d1 := analyzedDoc("a.pdf")
	d2 := analyzedDoc("b.pdf")
	d3 := analyzedDoc("c.pdf")
	d3.Status = DocumentStatusProcessing
	d3.AiSummary = nil
	d3.Confidence = nil

	backend := &fakeBackend{state: State{
		Documents: []Document{d1, d2, d3},
		Conflicts: []Conflict{
			{Id: uuid.New(), Severity: SeverityHigh, Status: ConflictStatusUnresolved, Documents: []uuid.UUID{d1.Id, d2.Id}},
			{Id: uuid.New(), Severity: SeverityLow, Status: ConflictStatusResolved, Documents: []uuid.UUID{d1.Id}},
		},
	}}
	p := signedIn(t, backend)
	require.NoError(t, p.Refresh(context.Background()))

	assert.Equal(t, Stats{
		TotalDocuments:         3,
		UnresolvedConflicts:    1,
		HighSeverityUnresolved: 1,
		Processing:             1,
	}, p.Stats())
}

func TestStats_ExcludesConflictsReferencingDeletedDocuments(t *testing.T) {
	d1 := analyzedDoc("kept.pdf")
	backend := &fakeBackend{state: State{
		Documents: []Document{d1},
		Conflicts: []Conflict{
			{Id: uuid.New(), Severity: SeverityHigh, Status: ConflictStatusUnresolved, Documents: []uuid.UUID{d1.Id}},
			// References a document that is gone; stays in the projection
			// but drops out of the counters.
			{Id: uuid.New(), Severity: SeverityHigh, Status: ConflictStatusUnresolved, Documents: []uuid.UUID{uuid.New()}},
		},
	}}
	p := signedIn(t, backend)
	require.NoError(t, p.Refresh(context.Background()))

	assert.Len(t, p.Conflicts(), 2)
	stats := p.Stats()
	assert.Equal(t, 1, stats.UnresolvedConflicts)
	assert.Equal(t, 1, stats.HighSeverityUnresolved)
}

func TestSignOut_ClearsState(t *testing.T) {
	doc := analyzedDoc("a.pdf")
	backend := &fakeBackend{state: State{
		Documents: []Document{doc},
		Conflicts: []Conflict{{Id: uuid.New(), Status: ConflictStatusUnresolved, Documents: []uuid.UUID{doc.Id}}},
	}}
	p := signedIn(t, backend)
	require.NoError(t, p.Refresh(context.Background()))
	require.NotEmpty(t, p.Documents())

	p.SignOut(context.Background())

	assert.Empty(t, p.Documents())
	assert.Empty(t, p.Conflicts())
	assert.Nil(t, p.CurrentSession())
}

func TestSignUp_RegistrationFailureSkipsSignIn(t *testing.T) {
	identity := &fakeIdentity{registerErr: errors.New("email taken")}
	p := New(identity, &fakeBackend{})

	ok := p.SignUp(context.Background(), "Jo", "jo@b.c", "secret")

	assert.False(t, ok)
	assert.Zero(t, identity.establishCalls)
}

func TestSignUp_SuccessChainsIntoSignIn(t *testing.T) {
	identity := &fakeIdentity{}
	p := New(identity, &fakeBackend{})

	ok := p.SignUp(context.Background(), "Jo", "jo@b.c", "secret")

	assert.True(t, ok)
	assert.Equal(t, 1, identity.establishCalls)
	assert.NotNil(t, p.CurrentSession())
}

func TestSignIn_FailureReturnsFalse(t *testing.T) {
	identity := &fakeIdentity{establishErr: errors.New("bad credentials")}
	p := New(identity, &fakeBackend{})

	assert.False(t, p.SignIn(context.Background(), "a@b.c", "wrong"))
	assert.Nil(t, p.CurrentSession())
}

func TestInit_ResumesExistingSession(t *testing.T) {
	doc := analyzedDoc("resume.pdf")
	identity := &fakeIdentity{current: &Session{Identity: uuid.New(), Token: "t"}}
	backend := &fakeBackend{state: State{Documents: []Document{doc}}}
	p := New(identity, backend)

	require.NoError(t, p.Init(context.Background()))

	assert.NotNil(t, p.CurrentSession())
	assert.Len(t, p.Documents(), 1)
}

func TestInit_NoSessionStaysEmpty(t *testing.T) {
	backend := &fakeBackend{}
	p := New(&fakeIdentity{}, backend)

	require.NoError(t, p.Init(context.Background()))

	assert.Nil(t, p.CurrentSession())
	assert.Zero(t, backend.fetchCalls)
}

func TestSignOut_CancelsPendingReconciliation(t *testing.T) {
	backend := &fakeBackend{}
	p := signedIn(t, backend, WithReconcileDelay(30*time.Millisecond))

	_, err := p.Upload(context.Background(), Upload{Name: "x.pdf", Type: "note", Content: "..."})
	require.NoError(t, err)

	backend.mu.Lock()
	callsBefore := backend.fetchCalls
	backend.mu.Unlock()

	p.SignOut(context.Background())
	time.Sleep(80 * time.Millisecond)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, callsBefore, backend.fetchCalls)
	assert.Empty(t, p.Documents())
}
