package sdk_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pytact/docvault/pkg/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu       sync.Mutex
	identity *sdk.Identity
	err      error
	calls    int
	// release, when non-nil, delays each fetch until the channel is closed.
	release chan struct{}
}

func (f *fakeFetcher) FetchIdentity(_ context.Context, _ *sdk.Credentials) (*sdk.Identity, error) {
	f.mu.Lock()
	f.calls++
	identity, err, release := f.identity, f.err, f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	id := *identity
	return &id, nil
}

type fakeIssuer struct {
	creds    *sdk.Credentials
	identity *sdk.Identity
	err      error
	calls    int
}

func (f *fakeIssuer) IssueCredentials(_ context.Context, _, _ string) (*sdk.Credentials, *sdk.Identity, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.creds, f.identity, nil
}

type fakeRevoker struct {
	err   error
	calls int
}

func (f *fakeRevoker) RevokeCredentials(_ context.Context, _ *sdk.Credentials) error {
	f.calls++
	return f.err
}

func validCreds() *sdk.Credentials {
	return &sdk.Credentials{
		AccessToken: "token-abc",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func memberIdentity() *sdk.Identity {
	return &sdk.Identity{
		ID:          "user-1",
		Email:       "pat@example.com",
		DisplayName: "Pat",
		Role:        sdk.RoleMember,
		FamilyID:    "fam-1",
		Permissions: sdk.RoleMember.Permissions(),
	}
}

// assertInvariant checks the session's central invariant: identity is
// non-nil exactly when the phase is authenticated.
func assertInvariant(t *testing.T, snap sdk.Snapshot) {
	t.Helper()
	assert.Equal(t, snap.Phase == sdk.PhaseAuthenticated, snap.Identity != nil,
		"identity presence must match phase %q", snap.Phase)
}

func TestSessionBootstrap(t *testing.T) {
	t.Run("no stored credential settles unauthenticated", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		session := sdk.NewSessionManager(store, &fakeFetcher{}, &fakeIssuer{}, &fakeRevoker{})

		snap, err := session.Bootstrap(context.Background())
		require.NoError(t, err)
		assert.Equal(t, sdk.PhaseUnauthenticated, snap.Phase)
		assertInvariant(t, snap)
	})

	t.Run("stored credential is validated and the identity cached", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		require.NoError(t, store.SaveCredentials(validCreds()))
		fetcher := &fakeFetcher{identity: memberIdentity()}
		session := sdk.NewSessionManager(store, fetcher, &fakeIssuer{}, &fakeRevoker{})

		snap, err := session.Bootstrap(context.Background())
		require.NoError(t, err)
		assert.Equal(t, sdk.PhaseAuthenticated, snap.Phase)
		require.NotNil(t, snap.Identity)
		assert.Equal(t, "user-1", snap.Identity.ID)
		assertInvariant(t, snap)

		cached, err := store.LoadIdentity()
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, "user-1", cached.ID)
	})

	t.Run("rejected credential is discarded and the store cleared", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		require.NoError(t, store.SaveCredentials(validCreds()))
		require.NoError(t, store.SaveIdentity(memberIdentity()))
		fetcher := &fakeFetcher{err: sdk.NewError(sdk.KindAuthentication, "credential expired")}
		session := sdk.NewSessionManager(store, fetcher, &fakeIssuer{}, &fakeRevoker{})

		snap, err := session.Bootstrap(context.Background())
		assert.True(t, sdk.IsAuthentication(err))
		assert.Equal(t, sdk.PhaseUnauthenticated, snap.Phase)
		assertInvariant(t, snap)

		creds, _ := store.LoadCredentials()
		assert.Nil(t, creds)
		cached, _ := store.LoadIdentity()
		assert.Nil(t, cached)
	})

	t.Run("transient failure keeps the cached identity painted", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		require.NoError(t, store.SaveCredentials(validCreds()))
		require.NoError(t, store.SaveIdentity(memberIdentity()))
		fetcher := &fakeFetcher{err: sdk.NewError(sdk.KindTransport, "backend unreachable")}
		session := sdk.NewSessionManager(store, fetcher, &fakeIssuer{}, &fakeRevoker{})

		snap, err := session.Bootstrap(context.Background())
		assert.Error(t, err)
		assert.Equal(t, sdk.PhaseAuthenticated, snap.Phase)
		assertInvariant(t, snap)

		// The credential survives for a later retry.
		creds, _ := store.LoadCredentials()
		assert.NotNil(t, creds)
	})

	t.Run("transient failure without a cache settles unauthenticated", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		require.NoError(t, store.SaveCredentials(validCreds()))
		fetcher := &fakeFetcher{err: sdk.NewError(sdk.KindTransport, "backend unreachable")}
		session := sdk.NewSessionManager(store, fetcher, &fakeIssuer{}, &fakeRevoker{})

		snap, err := session.Bootstrap(context.Background())
		assert.Error(t, err)
		assert.Equal(t, sdk.PhaseUnauthenticated, snap.Phase)
		assertInvariant(t, snap)
	})

	t.Run("bootstrap is idempotent", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		fetcher := &fakeFetcher{}
		session := sdk.NewSessionManager(store, fetcher, &fakeIssuer{}, &fakeRevoker{})

		first, err := session.Bootstrap(context.Background())
		require.NoError(t, err)
		second, err := session.Bootstrap(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first.Phase, second.Phase)
		assert.Zero(t, fetcher.calls)
	})
}

func TestSessionLogin(t *testing.T) {
	t.Run("success with inlined identity authenticates immediately", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		issuer := &fakeIssuer{creds: validCreds(), identity: memberIdentity()}
		fetcher := &fakeFetcher{}
		session := sdk.NewSessionManager(store, fetcher, issuer, &fakeRevoker{})
		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)

		identity, err := session.Login(context.Background(), "pat@example.com", "secret")
		require.NoError(t, err)
		require.NotNil(t, identity)
		assert.Equal(t, sdk.PhaseAuthenticated, session.Snapshot().Phase)
		// The inlined identity spares the redundant fetch.
		assert.Zero(t, fetcher.calls)

		creds, _ := store.LoadCredentials()
		require.NotNil(t, creds)
		assert.Equal(t, "token-abc", creds.AccessToken)
	})

	t.Run("success without inlined identity falls back to a fetch", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		issuer := &fakeIssuer{creds: validCreds()}
		fetcher := &fakeFetcher{identity: memberIdentity()}
		session := sdk.NewSessionManager(store, fetcher, issuer, &fakeRevoker{})
		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)

		identity, err := session.Login(context.Background(), "pat@example.com", "secret")
		require.NoError(t, err)
		require.NotNil(t, identity)
		assert.Equal(t, 1, fetcher.calls)
		assertInvariant(t, session.Snapshot())
	})

	t.Run("failure stays unauthenticated and the error is call-scoped", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		issuer := &fakeIssuer{err: sdk.NewError(sdk.KindAuthentication, "invalid credentials")}
		session := sdk.NewSessionManager(store, &fakeFetcher{}, issuer, &fakeRevoker{})
		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)

		identity, err := session.Login(context.Background(), "pat@example.com", "wrong")
		assert.Error(t, err)
		assert.Nil(t, identity)

		snap := session.Snapshot()
		assert.Equal(t, sdk.PhaseUnauthenticated, snap.Phase)
		assertInvariant(t, snap)

		creds, _ := store.LoadCredentials()
		assert.Nil(t, creds)
	})

	t.Run("login while authenticated is a no-op", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		require.NoError(t, store.SaveCredentials(validCreds()))
		issuer := &fakeIssuer{}
		session := sdk.NewSessionManager(store, &fakeFetcher{identity: memberIdentity()}, issuer, &fakeRevoker{})
		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)

		identity, err := session.Login(context.Background(), "pat@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.ID)
		assert.Zero(t, issuer.calls)
	})
}

func TestSessionLogout(t *testing.T) {
	t.Run("clears local state even when revocation fails", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		require.NoError(t, store.SaveCredentials(validCreds()))
		revoker := &fakeRevoker{err: sdk.NewError(sdk.KindTransport, "backend unreachable")}
		session := sdk.NewSessionManager(store, &fakeFetcher{identity: memberIdentity()}, &fakeIssuer{}, revoker)
		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)

		session.Logout(context.Background())

		snap := session.Snapshot()
		assert.Equal(t, sdk.PhaseUnauthenticated, snap.Phase)
		assertInvariant(t, snap)
		assert.Equal(t, 1, revoker.calls)

		creds, _ := store.LoadCredentials()
		assert.Nil(t, creds)
		cached, _ := store.LoadIdentity()
		assert.Nil(t, cached)
	})

	t.Run("logout without a credential skips revocation", func(t *testing.T) {
		revoker := &fakeRevoker{}
		session := sdk.NewSessionManager(sdk.NewMemoryStore(), &fakeFetcher{}, &fakeIssuer{}, revoker)
		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)

		session.Logout(context.Background())
		assert.Equal(t, sdk.PhaseUnauthenticated, session.Snapshot().Phase)
		assert.Zero(t, revoker.calls)
	})
}

func TestSessionRefresh(t *testing.T) {
	t.Run("identity stays rendered while revalidating", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		require.NoError(t, store.SaveCredentials(validCreds()))
		fetcher := &fakeFetcher{identity: memberIdentity()}
		session := sdk.NewSessionManager(store, fetcher, &fakeIssuer{}, &fakeRevoker{})
		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)

		updated := memberIdentity()
		updated.DisplayName = "Patricia"
		fetcher.mu.Lock()
		fetcher.identity = updated
		fetcher.mu.Unlock()

		snap, err := session.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, sdk.PhaseAuthenticated, snap.Phase)
		assert.Equal(t, "Patricia", snap.Identity.DisplayName)
	})

	t.Run("a stale response arriving after logout is discarded", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		require.NoError(t, store.SaveCredentials(validCreds()))
		fetcher := &fakeFetcher{identity: memberIdentity()}
		session := sdk.NewSessionManager(store, fetcher, &fakeIssuer{}, &fakeRevoker{})
		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)

		release := make(chan struct{})
		fetcher.mu.Lock()
		fetcher.release = release
		fetcher.mu.Unlock()

		done := make(chan sdk.Snapshot, 1)
		go func() {
			snap, _ := session.Refresh(context.Background())
			done <- snap
		}()

		// Wait for the refresh to be in flight, then log out underneath it.
		assert.Eventually(t, func() bool {
			fetcher.mu.Lock()
			defer fetcher.mu.Unlock()
			return fetcher.calls >= 2
		}, time.Second, 5*time.Millisecond)
		session.Logout(context.Background())
		close(release)

		snap := <-done
		assert.Equal(t, sdk.PhaseUnauthenticated, snap.Phase)
		assertInvariant(t, snap)
		assert.Equal(t, sdk.PhaseUnauthenticated, session.Snapshot().Phase)
	})

	t.Run("refresh without a credential is a programming error", func(t *testing.T) {
		session := sdk.NewSessionManager(sdk.NewMemoryStore(), &fakeFetcher{}, &fakeIssuer{}, &fakeRevoker{})
		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)

		_, err = session.Refresh(context.Background())
		assert.Equal(t, sdk.KindProgramming, sdk.KindOf(err))
	})
}

func TestSessionExpire(t *testing.T) {
	t.Run("expiry preserves the route for the next login", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		require.NoError(t, store.SaveCredentials(validCreds()))
		session := sdk.NewSessionManager(store, &fakeFetcher{identity: memberIdentity()}, &fakeIssuer{}, &fakeRevoker{})
		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)

		session.Expire("/families/42")

		snap := session.Snapshot()
		assert.Equal(t, sdk.PhaseExpired, snap.Phase)
		assert.Equal(t, "/families/42", snap.ReturnTo)
		assertInvariant(t, snap)

		creds, _ := store.LoadCredentials()
		assert.Nil(t, creds)

		assert.Equal(t, "/families/42", session.ConsumeReturnTo())
		assert.Empty(t, session.ConsumeReturnTo())
	})

	t.Run("expire outside authenticated is ignored", func(t *testing.T) {
		session := sdk.NewSessionManager(sdk.NewMemoryStore(), &fakeFetcher{}, &fakeIssuer{}, &fakeRevoker{})
		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)

		session.Expire("/anywhere")
		assert.Equal(t, sdk.PhaseUnauthenticated, session.Snapshot().Phase)
	})
}

func TestSessionObservers(t *testing.T) {
	t.Run("every published snapshot satisfies the invariant", func(t *testing.T) {
		store := sdk.NewMemoryStore()
		require.NoError(t, store.SaveCredentials(validCreds()))
		session := sdk.NewSessionManager(store, &fakeFetcher{identity: memberIdentity()}, &fakeIssuer{creds: validCreds(), identity: memberIdentity()}, &fakeRevoker{})

		var mu sync.Mutex
		var seen []sdk.Snapshot
		session.Subscribe(func(snap sdk.Snapshot) {
			mu.Lock()
			seen = append(seen, snap)
			mu.Unlock()
		})

		_, err := session.Bootstrap(context.Background())
		require.NoError(t, err)
		session.Logout(context.Background())
		_, err = session.Login(context.Background(), "pat@example.com", "secret")
		require.NoError(t, err)
		session.Expire("/documents")

		mu.Lock()
		defer mu.Unlock()
		require.NotEmpty(t, seen)
		for _, snap := range seen {
			assertInvariant(t, snap)
		}
	})
}
