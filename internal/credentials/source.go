package credentials

import (
	"sync"

	"golang.org/x/oauth2"

	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

// Store is the persistence the caching token source needs.
type Store interface {
	Load() (TokenRecord, error)
	Save(rec TokenRecord) error
}

// CachingTokenSource rewrites the cached record whenever the wrapped source
// hands out a different access token (a refresh happened).
type CachingTokenSource struct {
	base   oauth2.TokenSource
	store  Store
	logger *logging.Logger

	mu   sync.Mutex
	last string
}

// NewCachingTokenSource wraps base. current is the token already on disk, so
// it is not rewritten on first use.
func NewCachingTokenSource(base oauth2.TokenSource, store Store, current *oauth2.Token, logger *logging.Logger) *CachingTokenSource {
	if logger == nil {
		logger = logging.Default()
	}
	ts := &CachingTokenSource{base: base, store: store, logger: logger}
	if current != nil {
		ts.last = current.AccessToken
	}
	return ts
}

func (c *CachingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := c.base.Token()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if tok.AccessToken == c.last {
		return tok, nil
	}
	if err := c.store.Save(RecordFromToken(tok)); err != nil {
		// The fresh token is still usable for this call.
		c.logger.Warn("failed to persist refreshed token", "error", err)
		return tok, nil
	}
	c.last = tok.AccessToken
	c.logger.Info("cached refreshed oauth token", "expiry", tok.Expiry)
	return tok, nil
}
