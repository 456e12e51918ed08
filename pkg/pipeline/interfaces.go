package pipeline

import "context"

// Identity is the external capability that issues and tracks sessions.
type Identity interface {
	// EstablishSession exchanges credentials for a session.
	EstablishSession(ctx context.Context, email, password string) (*Session, error)

	// Register creates a new identity. It does not sign the user in.
	Register(ctx context.Context, name, email, password string) error

	// CurrentSession returns the resumable session, or nil when none exists.
	CurrentSession(ctx context.Context) (*Session, error)

	// OnSessionChange registers a callback invoked on login, logout and
	// token refresh. The returned function unsubscribes it.
	OnSessionChange(fn func(*Session)) (unsubscribe func())

	// EndSession tears down the current session.
	EndSession(ctx context.Context) error
}

// Backend is the external data capability the projections mirror.
type Backend interface {
	// FetchState returns the complete current document and conflict sets
	// for the session's identity. Always a full snapshot, never a delta.
	FetchState(ctx context.Context, token string) (*State, error)

	// SubmitUpload stores a new document and returns it in processing state.
	SubmitUpload(ctx context.Context, token string, upload Upload) (*Document, error)
}
