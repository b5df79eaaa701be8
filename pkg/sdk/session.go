package sdk

import (
	"context"
	"sync"
)

// Phase is the authentication state of the session.
type Phase string

const (
	// PhaseBootstrapping is the initial phase, before the stored credential
	// has been reconciled with the backend.
	PhaseBootstrapping Phase = "bootstrapping"
	// PhaseUnauthenticated means no trusted credential is held.
	PhaseUnauthenticated Phase = "unauthenticated"
	// PhaseAuthenticating means a credential exists and its identity fetch is in flight.
	PhaseAuthenticating Phase = "authenticating"
	// PhaseAuthenticated means an identity has been fetched and is trusted.
	PhaseAuthenticated Phase = "authenticated"
	// PhaseExpired means the credential was rejected mid-session. It evaluates
	// like PhaseUnauthenticated but preserves the pre-expiry route.
	PhaseExpired Phase = "expired"
)

// Snapshot is an immutable view of the session at one instant.
//
// Invariant: Identity is non-nil if and only if Phase is PhaseAuthenticated.
type Snapshot struct {
	Phase    Phase
	Identity *Identity
	// ReturnTo is the route that was active when the session expired, kept so
	// a subsequent login can restore navigation context.
	ReturnTo string
}

// IdentityFetcher returns the authoritative identity for a credential.
// Implementations must report credential-invalid failures with
// KindAuthentication; any other failure is treated as transient.
type IdentityFetcher interface {
	FetchIdentity(ctx context.Context, creds *Credentials) (*Identity, error)
}

// CredentialIssuer exchanges login details for a credential. The identity is
// returned too when the backend includes it, saving a redundant fetch.
type CredentialIssuer interface {
	IssueCredentials(ctx context.Context, email, password string) (*Credentials, *Identity, error)
}

// CredentialRevoker invalidates a credential remotely. Revocation is
// best-effort by contract; the session ignores its errors.
type CredentialRevoker interface {
	RevokeCredentials(ctx context.Context, creds *Credentials) error
}

// SessionManager is the single source of truth for who the current user is
// and whether that answer can be trusted yet. It owns the credential store
// exclusively; everything else reads the session through Snapshot or an
// observer, never through ambient state.
type SessionManager struct {
	store   CredentialStore
	fetcher IdentityFetcher
	issuer  CredentialIssuer
	revoker CredentialRevoker

	mu       sync.Mutex
	phase    Phase
	creds    *Credentials
	identity *Identity
	returnTo string
	// generation advances whenever outstanding identity fetches become
	// invalid (logout, expiry, a newer refresh). Responses tagged with an
	// older generation are discarded on arrival.
	generation uint64
	observers  []func(Snapshot)
}

// NewSessionManager creates a session in PhaseBootstrapping. Call Bootstrap
// once at application start to reconcile the stored credential.
func NewSessionManager(store CredentialStore, fetcher IdentityFetcher, issuer CredentialIssuer, revoker CredentialRevoker) *SessionManager {
	return &SessionManager{
		store:   store,
		fetcher: fetcher,
		issuer:  issuer,
		revoker: revoker,
		phase:   PhaseBootstrapping,
	}
}

// Snapshot returns the current session state.
func (s *SessionManager) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer called after every phase transition.
// Observers run outside the session lock and must not block.
func (s *SessionManager) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Bootstrap reconciles the stored credential with the backend. With no stored
// credential the session settles in PhaseUnauthenticated. With a credential
// and a cached identity snapshot the session paints the snapshot immediately
// and revalidates it; without a snapshot it passes through PhaseAuthenticating.
// An authentication failure discards the credential and clears the store; a
// transient failure keeps the credential so a later Refresh can retry.
func (s *SessionManager) Bootstrap(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.phase != PhaseBootstrapping {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}

	creds, err := s.store.LoadCredentials()
	if err != nil || creds == nil {
		s.phase = PhaseUnauthenticated
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return snap, err
	}

	s.creds = creds
	if cached, _ := s.store.LoadIdentity(); cached != nil {
		s.phase = PhaseAuthenticated
		s.identity = cached
	} else {
		s.phase = PhaseAuthenticating
	}
	gen := s.advanceLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	return s.resolveIdentity(ctx, creds, gen)
}

// Login authenticates with email and password. Calling Login while already
// authenticated is a no-op that returns the current identity. On failure the
// session returns to PhaseUnauthenticated and the error is surfaced to the
// caller only; login errors are call-scoped, never session state.
func (s *SessionManager) Login(ctx context.Context, email, password string) (*Identity, error) {
	s.mu.Lock()
	switch s.phase {
	case PhaseBootstrapping:
		s.mu.Unlock()
		return nil, NewError(KindProgramming, "session is still bootstrapping; call Bootstrap first")
	case PhaseAuthenticated:
		id := s.identity
		s.mu.Unlock()
		return id, nil
	}
	s.phase = PhaseAuthenticating
	gen := s.advanceLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	creds, identity, err := s.issuer.IssueCredentials(ctx, email, password)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return nil, NewError(KindTransport, "login superseded by a concurrent session change")
	}
	if err != nil {
		s.phase = PhaseUnauthenticated
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return nil, err
	}

	s.creds = creds
	_ = s.store.SaveCredentials(creds)
	if identity != nil {
		s.identity = identity
		s.phase = PhaseAuthenticated
		_ = s.store.SaveIdentity(identity)
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return identity, nil
	}
	s.mu.Unlock()

	final, err := s.resolveIdentity(ctx, creds, gen)
	return final.Identity, err
}

// AdoptCredentials installs an externally issued credential, such as one from
// the OIDC device flow, persists it, and resolves its identity. A currently
// rendered identity stays in place until the new one arrives.
func (s *SessionManager) AdoptCredentials(ctx context.Context, creds *Credentials) (Snapshot, error) {
	s.mu.Lock()
	s.creds = creds
	if s.phase != PhaseAuthenticated {
		s.phase = PhaseAuthenticating
		s.identity = nil
	}
	gen := s.advanceLocked()
	_ = s.store.SaveCredentials(creds)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	return s.resolveIdentity(ctx, creds, gen)
}

// Logout clears the session unconditionally. The remote revocation is
// best-effort: its failure never prevents local state from being cleared.
func (s *SessionManager) Logout(ctx context.Context) {
	s.mu.Lock()
	creds := s.creds
	s.advanceLocked()
	s.phase = PhaseUnauthenticated
	s.creds = nil
	s.identity = nil
	s.returnTo = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if creds != nil && s.revoker != nil {
		_ = s.revoker.RevokeCredentials(ctx, creds)
	}
	_ = s.store.DeleteCredentials()
	_ = s.store.DeleteIdentity()
	s.notify(snap)
}

// Refresh re-validates the current credential. The rendered identity is left
// in place until the new one resolves (stale-while-revalidate). Concurrent
// refreshes do not cancel each other; the most recent initiation wins and
// older responses are discarded on arrival.
func (s *SessionManager) Refresh(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	creds := s.creds
	if creds == nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, NewError(KindProgramming, "no credential to refresh")
	}
	gen := s.advanceLocked()
	s.mu.Unlock()

	return s.resolveIdentity(ctx, creds, gen)
}

// Expire moves an authenticated session to PhaseExpired. It is driven by the
// mutation gateway and the API client when a call reports an authentication
// failure. The pre-expiry route is preserved so login can restore navigation.
func (s *SessionManager) Expire(returnTo string) {
	s.mu.Lock()
	if s.phase != PhaseAuthenticated {
		s.mu.Unlock()
		return
	}
	s.advanceLocked()
	s.phase = PhaseExpired
	s.creds = nil
	s.identity = nil
	if returnTo != "" {
		s.returnTo = returnTo
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	_ = s.store.DeleteCredentials()
	_ = s.store.DeleteIdentity()
	s.notify(snap)
}

// ConsumeReturnTo returns the route preserved at expiry and clears it.
func (s *SessionManager) ConsumeReturnTo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	route := s.returnTo
	s.returnTo = ""
	return route
}

// Credentials returns a copy of the current credential, or nil when the
// session holds none.
func (s *SessionManager) Credentials() *Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return nil
	}
	c := *s.creds
	return &c
}

// resolveIdentity applies the result of an identity fetch issued under gen.
// Results arriving after the generation has advanced are discarded.
func (s *SessionManager) resolveIdentity(ctx context.Context, creds *Credentials, gen uint64) (Snapshot, error) {
	identity, err := s.fetcher.FetchIdentity(ctx, creds)

	s.mu.Lock()
	if s.generation != gen {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}

	if err != nil {
		if IsAuthentication(err) {
			s.phase = PhaseUnauthenticated
			s.creds = nil
			s.identity = nil
			snap := s.snapshotLocked()
			s.mu.Unlock()
			_ = s.store.DeleteCredentials()
			_ = s.store.DeleteIdentity()
			s.notify(snap)
			return snap, err
		}
		// Transient failure: keep the credential for a later retry. A cached
		// identity, if painted, stays rendered; otherwise there is nothing
		// trustworthy to show.
		if s.identity == nil {
			s.phase = PhaseUnauthenticated
		}
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return snap, err
	}

	s.identity = identity
	s.phase = PhaseAuthenticated
	snap := s.snapshotLocked()
	s.mu.Unlock()
	_ = s.store.SaveIdentity(identity)
	s.notify(snap)
	return snap, nil
}

func (s *SessionManager) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:    s.phase,
		Identity: s.identity,
		ReturnTo: s.returnTo,
	}
}

func (s *SessionManager) advanceLocked() uint64 {
	s.generation++
	return s.generation
}

func (s *SessionManager) notify(snap Snapshot) {
	s.mu.Lock()
	observers := make([]func(Snapshot), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}
