package sdk

import (
	"sync"
	"time"
)

// Credentials represents the bearer credential issued by the backend.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

func (c *Credentials) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// CredentialStore persists the bearer credential and a cached identity
// snapshot across application loads. The session manager is its sole writer;
// implementations only store and retrieve, they hold no logic.
type CredentialStore interface {
	SaveCredentials(creds *Credentials) error
	// LoadCredentials returns (nil, nil) when no credential is stored.
	LoadCredentials() (*Credentials, error)
	DeleteCredentials() error

	SaveIdentity(identity *Identity) error
	// LoadIdentity returns (nil, nil) when no snapshot is cached.
	LoadIdentity() (*Identity, error)
	DeleteIdentity() error
}

// MemoryStore is an in-process CredentialStore: the single shared mutable
// cell the session manager owns for the lifetime of the application. It is
// also the store used throughout the test suites.
type MemoryStore struct {
	mu       sync.Mutex
	creds    *Credentials
	identity *Identity
}

var _ CredentialStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveCredentials(creds *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *creds
	s.creds = &c
	return nil
}

func (s *MemoryStore) LoadCredentials() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return nil, nil
	}
	c := *s.creds
	return &c, nil
}

func (s *MemoryStore) DeleteCredentials() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	return nil
}

func (s *MemoryStore) SaveIdentity(identity *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := *identity
	s.identity = &id
	return nil
}

func (s *MemoryStore) LoadIdentity() (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil, nil
	}
	id := *s.identity
	return &id, nil
}

func (s *MemoryStore) DeleteIdentity() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	return nil
}
