package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is the REST client for the vault API. It implements every external
// collaborator the session and mutation layers depend on: IdentityFetcher,
// CredentialIssuer, CredentialRevoker and MutationTransport.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var (
	_ IdentityFetcher   = (*Client)(nil)
	_ CredentialIssuer  = (*Client)(nil)
	_ CredentialRevoker = (*Client)(nil)
	_ MutationTransport = (*Client)(nil)
)

// ClientOptions configures client construction.
type ClientOptions struct {
	HTTPClient *http.Client
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client used for API calls. Pass an
// oauth2-wrapped client to attach the bearer credential to every request.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// NewClient creates a vault API client for the server at baseURL. An
// http.Client is created automatically when one is not supplied.
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: opts.HTTPClient,
	}
}

// --- collaborator contracts ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Identity     *Identity `json:"identity,omitempty"`
}

// IssueCredentials exchanges email and password for a bearer credential.
// The backend usually includes the identity, saving the follow-up fetch.
func (c *Client) IssueCredentials(ctx context.Context, email, password string) (*Credentials, *Identity, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, nil, err
	}

	var out loginResponse
	if _, err := c.send(req, &out); err != nil {
		return nil, nil, err
	}

	creds := &Credentials{
		AccessToken:  out.AccessToken,
		TokenType:    out.TokenType,
		ExpiresAt:    out.ExpiresAt,
		RefreshToken: out.RefreshToken,
	}
	if out.Identity != nil && len(out.Identity.Permissions) == 0 {
		out.Identity.Permissions = out.Identity.Role.Permissions()
	}
	return creds, out.Identity, nil
}

// FetchIdentity returns the authoritative identity for the credential.
// A 401 surfaces as KindAuthentication, which is the signal the session
// manager uses to discard the credential; anything else is transient.
func (c *Client) FetchIdentity(ctx context.Context, creds *Credentials) (*Identity, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", bearerHeader(creds))

	var identity Identity
	if _, err := c.send(req, &identity); err != nil {
		return nil, err
	}
	if !identity.Role.Valid() {
		return nil, NewError(KindTransport, fmt.Sprintf("backend returned unknown role %q", identity.Role))
	}
	if len(identity.Permissions) == 0 {
		identity.Permissions = identity.Role.Permissions()
	}
	return &identity, nil
}

// RevokeCredentials invalidates the credential server-side. Callers treat
// this as best-effort; the session clears local state regardless.
func (c *Client) RevokeCredentials(ctx context.Context, creds *Credentials) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", bearerHeader(creds))
	_, err = c.send(req, nil)
	return err
}

// Send performs a guarded write with the precondition attached as If-Match.
// It implements MutationTransport; callers go through the gateway, never
// through Send directly.
func (c *Client) Send(ctx context.Context, ref ResourceRef, payload any, precondition Token) (time.Time, error) {
	method, path, err := mutationEndpoint(ref, payload)
	if err != nil {
		return time.Time{}, err
	}

	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return time.Time{}, err
	}
	req.Header.Set("If-Match", string(precondition))

	var out struct {
		UpdatedAt time.Time `json:"updated_at"`
	}
	if _, err := c.send(req, &out); err != nil {
		return time.Time{}, err
	}
	return out.UpdatedAt, nil
}

// mutationEndpoint maps a resource reference to its REST endpoint. A nil
// payload selects the delete form where one exists.
func mutationEndpoint(ref ResourceRef, payload any) (string, string, error) {
	switch ref.Kind {
	case ResourceProfile:
		return http.MethodPut, "/api/v1/me", nil
	case ResourceFamily:
		if payload == nil {
			return http.MethodDelete, "/api/v1/families/" + url.PathEscape(ref.ID), nil
		}
		return http.MethodPut, "/api/v1/families/" + url.PathEscape(ref.ID), nil
	case ResourceUser:
		return http.MethodPut, "/api/v1/users/" + url.PathEscape(ref.ID) + "/family", nil
	case ResourceDocument:
		if payload == nil {
			return http.MethodDelete, "/api/v1/documents/" + url.PathEscape(ref.ID), nil
		}
		return http.MethodPut, "/api/v1/documents/" + url.PathEscape(ref.ID), nil
	case ResourceNotification:
		return http.MethodPut, "/api/v1/notifications/" + url.PathEscape(ref.ID) + "/read", nil
	default:
		return "", "", NewError(KindProgramming, fmt.Sprintf("unknown resource kind %q", ref.Kind))
	}
}

// --- reads ---

// GetProfile returns the caller's own account along with its concurrency token.
func (c *Client) GetProfile(ctx context.Context) (*User, Token, error) {
	return c.getUser(ctx, "/api/v1/me")
}

// GetFamily returns one family along with its concurrency token.
func (c *Client) GetFamily(ctx context.Context, id string) (*Family, Token, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/families/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, "", err
	}
	var family Family
	header, err := c.send(req, &family)
	if err != nil {
		return nil, "", err
	}
	token, err := resourceToken(header, family.UpdatedAt)
	if err != nil {
		return nil, "", err
	}
	return &family, token, nil
}

// ListFamilies returns every family visible to the caller.
func (c *Client) ListFamilies(ctx context.Context) ([]Family, error) {
	var families []Family
	if err := c.getJSON(ctx, "/api/v1/families", &families); err != nil {
		return nil, err
	}
	return families, nil
}

// ListFamilyUsers returns the members of a family. Tokens for reassignment
// are derived per item from UpdatedAt.
func (c *Client) ListFamilyUsers(ctx context.Context, familyID string) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, "/api/v1/families/"+url.PathEscape(familyID)+"/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns one user along with its concurrency token.
func (c *Client) GetUser(ctx context.Context, id string) (*User, Token, error) {
	return c.getUser(ctx, "/api/v1/users/"+url.PathEscape(id))
}

// ListNotifications returns the caller's notifications.
func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	if err := c.getJSON(ctx, "/api/v1/notifications", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetNotification returns one notification along with its concurrency token.
func (c *Client) GetNotification(ctx context.Context, id string) (*Notification, Token, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/notifications/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, "", err
	}
	var notification Notification
	header, err := c.send(req, &notification)
	if err != nil {
		return nil, "", err
	}
	token, err := resourceToken(header, notification.UpdatedAt)
	if err != nil {
		return nil, "", err
	}
	return &notification, token, nil
}

// ListDocuments returns a family's documents.
func (c *Client) ListDocuments(ctx context.Context, familyID string) ([]Document, error) {
	path := "/api/v1/documents"
	if familyID != "" {
		path += "?family_id=" + url.QueryEscape(familyID)
	}
	var documents []Document
	if err := c.getJSON(ctx, path, &documents); err != nil {
		return nil, err
	}
	return documents, nil
}

// GetDocument returns one document along with its concurrency token.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, Token, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, "", err
	}
	var document Document
	header, err := c.send(req, &document)
	if err != nil {
		return nil, "", err
	}
	token, err := resourceToken(header, document.UpdatedAt)
	if err != nil {
		return nil, "", err
	}
	return &document, token, nil
}

// UploadDocument registers a new document. Creation carries no precondition;
// only updates and deletes are token-guarded.
func (c *Client) UploadDocument(ctx context.Context, input UploadDocumentInput) (*Document, error) {
	guid := input.GUID
	if guid == "" {
		guid = uuid.NewString()
	}
	body := map[string]any{
		"id":          guid,
		"family_id":   input.FamilyID,
		"category_id": input.CategoryID,
		"title":       input.Title,
		"file_name":   input.FileName,
		"size_bytes":  input.SizeBytes,
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/documents", body)
	if err != nil {
		return nil, err
	}
	var document Document
	if _, err := c.send(req, &document); err != nil {
		return nil, err
	}
	return &document, nil
}

// ListCategories returns the document taxonomy.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.getJSON(ctx, "/api/v1/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	_, err = c.send(req, out)
	return err
}

func (c *Client) getUser(ctx context.Context, path string) (*User, Token, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	var user User
	header, err := c.send(req, &user)
	if err != nil {
		return nil, "", err
	}
	token, err := resourceToken(header, user.UpdatedAt)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// --- plumbing ---

func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, WrapError(KindProgramming, "failed to encode request payload", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, WrapError(KindProgramming, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send executes the request, classifies the status into the failure taxonomy,
// and decodes a JSON body into out when provided. The response header is
// returned so callers can prefer an opaque server ETag over a derived token.
func (c *Client) send(req *http.Request, out any) (http.Header, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, WrapError(KindTransport, fmt.Sprintf("%s %s failed", req.Method, req.URL.Path), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, WrapError(KindTransport, "failed to read response body", err)
	}

	if err := classifyStatus(resp.StatusCode, data); err != nil {
		return resp.Header, err
	}

	if out != nil && len(data) > 0 && resp.StatusCode != http.StatusNoContent {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.Header, WrapError(KindTransport, "failed to decode response body", err)
		}
	}
	return resp.Header, nil
}

// classifyStatus maps HTTP statuses onto the failure taxonomy: 401 demands a
// re-login, 403 is a role problem, 409/412 are precondition conflicts,
// 400/422 are payload problems, everything else is transport trouble.
func classifyStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	message := http.StatusText(status)
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		message = payload.Error
	}

	switch status {
	case http.StatusUnauthorized:
		return NewError(KindAuthentication, message)
	case http.StatusForbidden:
		return NewError(KindAuthorization, message)
	case http.StatusConflict, http.StatusPreconditionFailed:
		return NewError(KindConflict, message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return NewError(KindValidation, message)
	default:
		return NewError(KindTransport, fmt.Sprintf("%s (status %d)", message, status))
	}
}

// resourceToken picks the precondition token for a read: the server's opaque
// ETag when present, otherwise the derived timestamp token as compatibility
// shim. A response carrying neither fails closed.
func resourceToken(header http.Header, updatedAt time.Time) (Token, error) {
	if etag := strings.Trim(header.Get("ETag"), `"`); etag != "" {
		return Token(etag), nil
	}
	if updatedAt.IsZero() {
		return "", NewError(KindProgramming, "no concurrency token available: response carried neither ETag nor updated_at")
	}
	return EncodeTokenAt(updatedAt), nil
}

func bearerHeader(creds *Credentials) string {
	tokenType := creds.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return tokenType + " " + creds.AccessToken
}
