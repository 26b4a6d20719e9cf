package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// CurrentVersion is the token record layout written by this package.
const CurrentVersion = 1

var (
	// ErrNoToken means no cached record exists yet; interactive auth is needed.
	ErrNoToken = errors.New("credentials: no cached token")
	// ErrUnsupportedVersion means the cache was written by an incompatible layout.
	ErrUnsupportedVersion = errors.New("credentials: unsupported token record version")
)

// TokenRecord is the on-disk shape of a cached OAuth token.
type TokenRecord struct {
	Version      int       `json:"version"`
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// RecordFromToken converts an oauth2 token into a versioned record.
func RecordFromToken(tok *oauth2.Token) TokenRecord {
	return TokenRecord{
		Version:      CurrentVersion,
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
}

// Token converts the record back into an oauth2 token.
func (r TokenRecord) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		RefreshToken: r.RefreshToken,
		Expiry:       r.Expiry,
	}
}

// FileStore persists one TokenRecord as JSON.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load reads the cached record. A missing file yields ErrNoToken.
func (s *FileStore) Load() (TokenRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return TokenRecord{}, ErrNoToken
	}
	if err != nil {
		return TokenRecord{}, fmt.Errorf("credentials: read %s: %w", s.path, err)
	}
	var rec TokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return TokenRecord{}, fmt.Errorf("credentials: decode %s: %w", s.path, err)
	}
	if rec.Version != CurrentVersion {
		return TokenRecord{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.Version)
	}
	return rec, nil
}

// Save writes the record atomically: a temp file in the same directory is
// renamed over the old one, and the temp file is removed on every failure path.
func (s *FileStore) Save(rec TokenRecord) (err error) {
	rec.Version = CurrentVersion
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("credentials: encode token: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".token-*.json")
	if err != nil {
		return fmt.Errorf("credentials: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credentials: write temp file: %w", err)
	}
	if err = tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credentials: chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("credentials: close temp file: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("credentials: replace %s: %w", s.path, err)
	}
	return nil
}
