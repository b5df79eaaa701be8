package sdk

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/oidc"
	"golang.org/x/oauth2"
)

// DeviceAuthPrompt carries the instructions a user must follow to approve a
// device-code login in their browser.
type DeviceAuthPrompt struct {
	UserCode                string
	VerificationURI         string
	VerificationURIComplete string
}

// DeviceLoginMetadata describes a completed device-code login, for display.
type DeviceLoginMetadata struct {
	// Subject is the 'sub' claim from the ID token.
	Subject string
	// Email is the 'email' claim, if present.
	Email     string
	ExpiresAt time.Time
}

// LoginWithDeviceCode runs the OIDC Device Authorization Flow (RFC 8628)
// against the vault's identity provider and returns a credential the session
// manager can adopt. It is the headless-environment alternative to password
// login: prompt is invoked once with the verification instructions, then the
// token endpoint is polled until the user approves or the flow times out.
func LoginWithDeviceCode(ctx context.Context, issuer, clientID string, prompt func(DeviceAuthPrompt)) (*DeviceLoginMetadata, *Credentials, error) {
	scopes := []string{oidc.ScopeOpenID, oidc.ScopeProfile, oidc.ScopeEmail, oidc.ScopeOfflineAccess}

	// Discovery finds the device authorization and token endpoints from the
	// issuer's /.well-known/openid-configuration.
	relyingParty, err := rp.NewRelyingPartyOIDC(
		ctx,
		issuer,
		clientID,
		"", // public client, no secret
		"", // no redirect URI in the device flow
		scopes,
		rp.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
	)
	if err != nil {
		return nil, nil, WrapError(KindTransport, fmt.Sprintf("failed to discover OIDC provider at %s", issuer), err)
	}

	authResponse, err := rp.DeviceAuthorization(ctx, scopes, relyingParty, nil)
	if err != nil {
		return nil, nil, WrapError(KindTransport, "failed to start device authorization flow", err)
	}

	if prompt != nil {
		prompt(DeviceAuthPrompt{
			UserCode:                authResponse.UserCode,
			VerificationURI:         authResponse.VerificationURI,
			VerificationURIComplete: authResponse.VerificationURIComplete,
		})
	}

	interval := time.Duration(authResponse.Interval) * time.Second
	if interval == 0 {
		interval = 5 * time.Second
	}

	token, err := rp.DeviceAccessToken(ctx, authResponse.DeviceCode, interval, relyingParty)
	if err != nil {
		return nil, nil, WrapError(KindAuthentication, "device authorization was denied or timed out", err)
	}

	metadata := &DeviceLoginMetadata{
		ExpiresAt: time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}
	if token.IDToken != "" {
		claims, err := rp.VerifyIDToken[*oidc.IDTokenClaims](ctx, token.IDToken, relyingParty.IDTokenVerifier())
		if err == nil {
			metadata.Subject = claims.Subject
			metadata.Email = claims.Email
		}
	}

	creds := &Credentials{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    metadata.ExpiresAt,
	}
	return metadata, creds, nil
}

// RefreshCredentials exchanges a refresh token for a fresh credential.
func RefreshCredentials(ctx context.Context, issuer, clientID, refreshToken string) (*Credentials, error) {
	scopes := []string{oidc.ScopeOpenID, oidc.ScopeProfile, oidc.ScopeEmail, oidc.ScopeOfflineAccess}
	relyingParty, err := rp.NewRelyingPartyOIDC(ctx, issuer, clientID, "", "", scopes)
	if err != nil {
		return nil, WrapError(KindTransport, "failed to discover OIDC provider", err)
	}

	tokenSource := relyingParty.OAuthConfig().TokenSource(ctx, &oauth2.Token{
		RefreshToken: refreshToken,
	})
	newToken, err := tokenSource.Token()
	if err != nil {
		return nil, WrapError(KindAuthentication, "failed to refresh credential", err)
	}

	return &Credentials{
		AccessToken:  newToken.AccessToken,
		TokenType:    newToken.TokenType,
		RefreshToken: newToken.RefreshToken,
		ExpiresAt:    newToken.Expiry,
	}, nil
}
