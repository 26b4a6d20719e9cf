package credentials

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

// Authorizer obtains a brand new token, usually by asking a human.
type Authorizer func(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)

// LoadOAuthConfig reads an installed-app client secret file.
func LoadOAuthConfig(path string, scopes ...string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("credentials: read client secret %s: %w", path, err)
	}
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("credentials: parse client secret: %w", err)
	}
	return cfg, nil
}

// LoopbackAuthorizer runs the installed-app flow: it listens on an ephemeral
// loopback port, prints the consent URL and waits for the redirect.
type LoopbackAuthorizer struct {
	Logger  *logging.Logger
	OpenURL func(url string) error
	Timeout time.Duration
}

func (a *LoopbackAuthorizer) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	logger := a.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("credentials: listen for oauth redirect: %w", err)
	}

	local := *cfg
	local.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())
	state := uuid.NewString()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			var cbErr error
			switch {
			case q.Get("state") != state:
				cbErr = errors.New("credentials: oauth state mismatch")
			case q.Get("error") != "":
				cbErr = fmt.Errorf("credentials: authorization denied: %s", q.Get("error"))
			case q.Get("code") == "":
				cbErr = errors.New("credentials: authorization code missing")
			}
			if cbErr != nil {
				http.Error(w, "Authentication failed. You may close this window.", http.StatusBadRequest)
				select {
				case errCh <- cbErr:
				default:
				}
				return
			}
			_, _ = fmt.Fprintln(w, "Authentication complete. You may close this window.")
			select {
			case codeCh <- q.Get("code"):
			default:
			}
		}),
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- err:
			default:
			}
		}
	}()
	defer srv.Close()

	authURL := local.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	logger.Info("open this URL to authorize calendar access", "url", authURL)
	if a.OpenURL != nil {
		if err := a.OpenURL(authURL); err != nil {
			logger.Warn("could not open browser", "error", err)
		}
	}

	select {
	case code := <-codeCh:
		tok, err := local.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("credentials: exchange authorization code: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("credentials: waiting for authorization: %w", ctx.Err())
	}
}

// TokenSource returns a refreshing token source backed by the cache. With no
// usable cached token it runs authorize once and caches the result. ctx should
// outlive the returned source; refreshes use it.
func TokenSource(ctx context.Context, cfg *oauth2.Config, store Store, authorize Authorizer, logger *logging.Logger) (oauth2.TokenSource, error) {
	if logger == nil {
		logger = logging.Default()
	}
	rec, err := store.Load()
	var tok *oauth2.Token
	switch {
	case err == nil:
		tok = rec.Token()
		if !tok.Valid() && tok.RefreshToken == "" {
			logger.Warn("cached token expired without refresh token; re-authenticating")
			tok = nil
		}
	case errors.Is(err, ErrNoToken):
		logger.Warn("no credentials found; user needs to authenticate")
	default:
		return nil, err
	}

	if tok == nil {
		if authorize == nil {
			return nil, ErrNoToken
		}
		tok, err = authorize(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := store.Save(RecordFromToken(tok)); err != nil {
			return nil, err
		}
	}

	return NewCachingTokenSource(cfg.TokenSource(ctx, tok), store, tok, logger), nil
}
