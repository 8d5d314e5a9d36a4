package google

import (
	"context"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/teemow/calendar-mcp/internal/instrumentation"
	"github.com/teemow/calendar-mcp/internal/logging"
)

// RefreshRecorder receives one call per refresh-token exchange.
type RefreshRecorder interface {
	RecordOAuthTokenRefresh(ctx context.Context, result string)
}

// NewTokenSource returns a token source that trades refreshToken for access
// tokens as they expire. When recorder is non-nil every exchange is counted.
func NewTokenSource(ctx context.Context, conf *oauth2.Config, refreshToken string, recorder RefreshRecorder) oauth2.TokenSource {
	base := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	if recorder == nil {
		return base
	}

	// The outer cache hands out the current token, so the inner source is
	// only reached when a refresh is actually due.
	return oauth2.ReuseTokenSource(nil, &instrumentedTokenSource{
		ctx:      ctx,
		base:     base,
		recorder: recorder,
	})
}

type instrumentedTokenSource struct {
	ctx      context.Context
	base     oauth2.TokenSource
	recorder RefreshRecorder
}

func (s *instrumentedTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		s.recorder.RecordOAuthTokenRefresh(s.ctx, instrumentation.OAuthResultFailure)
		slog.Warn("failed to refresh Google access token", logging.Err(err))
		return nil, err
	}

	s.recorder.RecordOAuthTokenRefresh(s.ctx, instrumentation.OAuthResultSuccess)
	slog.Debug("refreshed Google access token",
		slog.String("access_token", logging.SanitizeToken(token.AccessToken)),
		slog.Time("expiry", token.Expiry),
	)
	return token, nil
}
