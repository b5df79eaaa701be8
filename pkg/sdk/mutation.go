package sdk

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ResourceKind names a mutable resource type exposed by the backend.
type ResourceKind string

const (
	ResourceProfile      ResourceKind = "profile"
	ResourceFamily       ResourceKind = "family"
	ResourceUser         ResourceKind = "user"
	ResourceDocument     ResourceKind = "document"
	ResourceNotification ResourceKind = "notification"
)

// ResourceRef identifies one mutable resource.
type ResourceRef struct {
	Kind ResourceKind
	ID   string
}

func (r ResourceRef) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.ID)
}

// MutationRequest describes one guarded write. ExpectedToken is mandatory for
// every update and delete; its absence is a caller programming error.
type MutationRequest struct {
	Ref           ResourceRef
	Payload       any
	ExpectedToken Token
}

// OutcomeState is the terminal state of a mutation attempt.
type OutcomeState int

const (
	// OutcomeCommitted means the server accepted the write. The next token
	// comes from the caller's next read, never from the outcome itself.
	OutcomeCommitted OutcomeState = iota
	// OutcomeConflicted means the resource changed since the token was
	// derived. The caller must discard its copy and re-fetch before retrying.
	OutcomeConflicted
	// OutcomeRejected covers every other failure; Err carries the kind.
	OutcomeRejected
)

func (s OutcomeState) String() string {
	switch s {
	case OutcomeCommitted:
		return "committed"
	case OutcomeConflicted:
		return "conflicted"
	default:
		return "rejected"
	}
}

// Outcome is the result of one mutation attempt.
type Outcome struct {
	State OutcomeState
	// UpdatedAt is the server's new modification time on commit, when the
	// response carried one. Informational only; derive the next token from a
	// fresh read.
	UpdatedAt time.Time
	Err       error
}

// MutationTransport performs the actual network write with the precondition
// attached. Conflicts and the rest of the failure taxonomy are reported as
// kinded errors.
type MutationTransport interface {
	Send(ctx context.Context, ref ResourceRef, payload any, precondition Token) (updatedAt time.Time, err error)
}

// SessionExpirer is the single integration point between the gateway and the
// session: authentication failures seen on a write drive the session into its
// expired phase. *SessionManager satisfies it.
type SessionExpirer interface {
	Expire(returnTo string)
}

// Gateway enforces the optimistic-concurrency contract on every write. The
// precondition token is the concurrency-control mechanism; the backend, not
// the client, arbitrates conflicting writes, so the gateway needs no locking
// beyond its stale-token bookkeeping.
type Gateway struct {
	transport MutationTransport
	session   SessionExpirer // optional

	mu    sync.Mutex
	stale map[ResourceRef]Token
}

// NewGateway creates a gateway over transport. session may be nil when no
// session coupling is wanted (tests, scripts).
func NewGateway(transport MutationTransport, session SessionExpirer) *Gateway {
	return &Gateway{
		transport: transport,
		session:   session,
		stale:     make(map[ResourceRef]Token),
	}
}

// Mutate runs one guarded write. A missing token never reaches the transport,
// and neither does a token already known to be stale from a prior conflict:
// retrying a stale token would only repeat the conflict, so the caller must
// re-fetch (and Forget) first. Conflicts are never retried automatically.
func (g *Gateway) Mutate(ctx context.Context, req MutationRequest) Outcome {
	if req.ExpectedToken == "" {
		return Outcome{
			State: OutcomeRejected,
			Err:   NewError(KindProgramming, fmt.Sprintf("mutation of %s requires a concurrency token", req.Ref)),
		}
	}

	g.mu.Lock()
	if tok, ok := g.stale[req.Ref]; ok && tok == req.ExpectedToken {
		g.mu.Unlock()
		return Outcome{
			State: OutcomeConflicted,
			Err:   NewError(KindConflict, fmt.Sprintf("token for %s is stale; re-fetch the resource before retrying", req.Ref)),
		}
	}
	g.mu.Unlock()

	updatedAt, err := g.transport.Send(ctx, req.Ref, req.Payload, req.ExpectedToken)
	if err != nil {
		switch KindOf(err) {
		case KindConflict:
			g.mu.Lock()
			g.stale[req.Ref] = req.ExpectedToken
			g.mu.Unlock()
			return Outcome{State: OutcomeConflicted, Err: err}
		case KindAuthentication:
			if g.session != nil {
				g.session.Expire("")
			}
		}
		return Outcome{State: OutcomeRejected, Err: err}
	}

	return Outcome{State: OutcomeCommitted, UpdatedAt: updatedAt}
}

// Forget clears conflict bookkeeping for ref. Call it after re-fetching the
// resource, once a fresh token is in hand.
func (g *Gateway) Forget(ref ResourceRef) {
	g.mu.Lock()
	delete(g.stale, ref)
	g.mu.Unlock()
}
