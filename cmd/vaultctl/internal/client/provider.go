package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pytact/docvault/cmd/vaultctl/internal/auth"
	"github.com/pytact/docvault/pkg/sdk"
	"golang.org/x/oauth2"
)

// Provider yields the session manager, authenticated API clients and the
// mutation gateway, all backed by the credential store. Construction is lazy;
// each piece is built once and shared by every command in the invocation.
type Provider struct {
	serverURL   string
	bearerToken string // ephemeral token that bypasses the credential store (for testing)

	storeOnce sync.Once
	store     sdk.CredentialStore
	storeErr  error

	sessionOnce sync.Once
	session     *sdk.SessionManager
	sessionErr  error

	apiOnce sync.Once
	api     *sdk.Client
	apiErr  error

	gatewayOnce sync.Once
	gateway     *sdk.Gateway
}

// NewProvider constructs a Provider bound to the given server URL.
func NewProvider(serverURL string) *Provider {
	return &Provider{serverURL: serverURL}
}

// SetBearerToken injects an ephemeral bearer token for testing and CI,
// bypassing the credential store.
func (p *Provider) SetBearerToken(token string) {
	p.bearerToken = token
}

// Store returns the file-backed credential store.
func (p *Provider) Store() (sdk.CredentialStore, error) {
	p.storeOnce.Do(func() {
		if p.bearerToken != "" {
			store := sdk.NewMemoryStore()
			p.storeErr = store.SaveCredentials(&sdk.Credentials{
				AccessToken: p.bearerToken,
				TokenType:   "Bearer",
				ExpiresAt:   time.Now().Add(time.Hour),
			})
			p.store = store
			return
		}
		p.store, p.storeErr = auth.NewFileStore()
	})
	return p.store, p.storeErr
}

// Session returns the bootstrapped session manager. The first call runs the
// bootstrap reconciliation; transient fetch failures are tolerated here so
// `auth status` can still report a cached identity while offline.
func (p *Provider) Session(ctx context.Context) (*sdk.SessionManager, error) {
	p.sessionOnce.Do(func() {
		store, err := p.Store()
		if err != nil {
			p.sessionErr = err
			return
		}
		api := p.baseAPI()
		p.session = sdk.NewSessionManager(store, api, api, api)
		bootCtx, cancel := ensureTimeout(ctx, 10*time.Second)
		defer cancel()
		_, _ = p.session.Bootstrap(bootCtx)
	})
	return p.session, p.sessionErr
}

// API returns an SDK client whose HTTP client attaches the session's bearer
// credential to every request.
func (p *Provider) API(ctx context.Context) (*sdk.Client, error) {
	p.apiOnce.Do(func() {
		session, err := p.Session(ctx)
		if err != nil {
			p.apiErr = err
			return
		}
		creds := session.Credentials()
		if creds == nil {
			// Unauthenticated commands still get a client; the backend
			// answers 401 and the taxonomy does the rest.
			p.api = p.baseAPI()
			return
		}
		source := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken:  creds.AccessToken,
			TokenType:    creds.TokenType,
			RefreshToken: creds.RefreshToken,
			Expiry:       creds.ExpiresAt,
		})
		httpClient := oauth2.NewClient(context.Background(), source)
		p.api = sdk.NewClient(p.serverURL, sdk.WithHTTPClient(httpClient))
	})
	return p.api, p.apiErr
}

// Gateway returns the mutation gateway wired to the session, so an
// authentication failure on any write expires the session.
func (p *Provider) Gateway(ctx context.Context) (*sdk.Gateway, error) {
	api, err := p.API(ctx)
	if err != nil {
		return nil, err
	}
	session, err := p.Session(ctx)
	if err != nil {
		return nil, err
	}
	p.gatewayOnce.Do(func() {
		p.gateway = sdk.NewGateway(api, session)
	})
	return p.gateway, nil
}

// baseAPI is the unauthenticated client used for the session collaborators;
// login and identity fetches carry their credential explicitly.
func (p *Provider) baseAPI() *sdk.Client {
	return sdk.NewClient(p.serverURL, sdk.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}))
}

func ensureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
