package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pytact/docvault/pkg/sdk"
)

const (
	credentialsFile = "credentials.json"
	identityFile    = "identity.json"
)

// FileStore implements sdk.CredentialStore using JSON files under the user's
// vault directory. This is the CLI's credential persistence implementation;
// the cached identity snapshot lives next to the credential so `auth status`
// can paint instantly on the next invocation.
type FileStore struct {
	dir string
}

var _ sdk.CredentialStore = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at ~/.docvault.
func NewFileStore() (*FileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return NewFileStoreAt(filepath.Join(home, ".docvault"))
}

// NewFileStoreAt creates a FileStore rooted at dir, creating it if needed.
func NewFileStoreAt(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) SaveCredentials(creds *sdk.Credentials) error {
	return s.writeJSON(credentialsFile, creds)
}

func (s *FileStore) LoadCredentials() (*sdk.Credentials, error) {
	var creds sdk.Credentials
	ok, err := s.readJSON(credentialsFile, &creds)
	if err != nil || !ok {
		return nil, err
	}
	return &creds, nil
}

func (s *FileStore) DeleteCredentials() error {
	return s.remove(credentialsFile)
}

func (s *FileStore) SaveIdentity(identity *sdk.Identity) error {
	return s.writeJSON(identityFile, identity)
}

func (s *FileStore) LoadIdentity() (*sdk.Identity, error) {
	var identity sdk.Identity
	ok, err := s.readJSON(identityFile, &identity)
	if err != nil || !ok {
		return nil, err
	}
	return &identity, nil
}

func (s *FileStore) DeleteIdentity() error {
	return s.remove(identityFile)
}

func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0600)
}

func (s *FileStore) readJSON(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return true, nil
}

func (s *FileStore) remove(name string) error {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path)
}
