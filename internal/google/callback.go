package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/teemow/calendar-mcp/internal/logging"
)

var (
	// ErrInvalidRedirectURL is returned when the redirect URL has no host to listen on.
	ErrInvalidRedirectURL = errors.New("invalid redirect URL")

	// ErrNoRefreshToken is returned when Google grants access without a refresh token.
	ErrNoRefreshToken = errors.New("no refresh token returned; revoke the app's access at https://myaccount.google.com/permissions and run auth again")

	// ErrAuthorizationDenied is returned when the consent screen reports an error.
	ErrAuthorizationDenied = errors.New("authorization denied")
)

const callbackShutdownTimeout = 5 * time.Second

const successPage = `<html><body style="text-align: center; margin-top: 50px;">
<h2>Success!</h2>
<p>You can close this window now.</p>
</body></html>
`

type callbackResult struct {
	token *oauth2.Token
	err   error
}

// AuthFlow is the one-time consent flow that produces a refresh token. It
// serves the redirect URL's path on the redirect URL's host and port.
type AuthFlow struct {
	conf   *oauth2.Config
	state  string
	addr   string
	path   string
	result chan callbackResult
}

// NewAuthFlow prepares a consent flow for conf. A fresh random state is
// generated for every flow.
func NewAuthFlow(conf *oauth2.Config) (*AuthFlow, error) {
	u, err := url.Parse(conf.RedirectURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRedirectURL, conf.RedirectURL)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	return &AuthFlow{
		conf:   conf,
		state:  uuid.NewString(),
		addr:   u.Host,
		path:   path,
		result: make(chan callbackResult, 1),
	}, nil
}

// URL returns the consent URL the user has to open.
func (f *AuthFlow) URL() string {
	return AuthURL(f.conf, f.state)
}

// Addr returns the host:port the callback listener binds to.
func (f *AuthFlow) Addr() string {
	return f.addr
}

// ServeHTTP handles the OAuth redirect. Any path other than the callback
// path is a 404.
func (f *AuthFlow) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != f.path {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query()
	if reason := query.Get("error"); reason != "" {
		http.Error(w, "Authorization failed: "+reason, http.StatusBadRequest)
		f.deliver(callbackResult{err: fmt.Errorf("%w: %s", ErrAuthorizationDenied, reason)})
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Error(w, "Authorization code missing", http.StatusBadRequest)
		return
	}

	if query.Get("state") != f.state {
		http.Error(w, "State token mismatch", http.StatusBadRequest)
		return
	}

	token, err := f.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("failed to exchange authorization code", logging.Err(err))
		http.Error(w, "Error getting tokens", http.StatusInternalServerError)
		f.deliver(callbackResult{err: err})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, successPage)
	f.deliver(callbackResult{token: token})
}

// Exchange trades an authorization code for a token that carries a refresh token.
func (f *AuthFlow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := f.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	return token, nil
}

// Wait blocks until the callback has produced a token or an error, or ctx is done.
func (f *AuthFlow) Wait(ctx context.Context) (*oauth2.Token, error) {
	select {
	case res := <-f.result:
		return res.token, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run listens for the callback, waits for the first complete grant and shuts
// the listener down again.
func (f *AuthFlow) Run(ctx context.Context) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", f.addr, err)
	}
	return f.serve(ctx, ln)
}

func (f *AuthFlow) serve(ctx context.Context, ln net.Listener) (*oauth2.Token, error) {
	srv := &http.Server{
		Handler:           f,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.deliver(callbackResult{err: fmt.Errorf("callback server error: %w", err)})
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), callbackShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return f.Wait(ctx)
}

// deliver keeps the first result and drops the rest.
func (f *AuthFlow) deliver(res callbackResult) {
	select {
	case f.result <- res:
	default:
	}
}
