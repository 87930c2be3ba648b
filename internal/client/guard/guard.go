// Package guard decides whether a protected command may run.
package guard

import (
	"context"
	"net/url"
	"time"

	"github.com/dmitrijs2005/mailadmin/internal/client/session"
	"github.com/dmitrijs2005/mailadmin/internal/common"
	"github.com/dmitrijs2005/mailadmin/internal/logging"
)

// SessionSource is the part of session.Store the guard reads.
type SessionSource interface {
	Token() string
	DurableToken(ctx context.Context) (string, error)
	Logout(ctx context.Context)
}

// Decision is the outcome of Check. When Allow is false, Redirect is the
// login location and From the destination to return to afterwards.
type Decision struct {
	Allow    bool
	Redirect string
	From     string
}

type Guard struct {
	session SessionSource
	policy  session.ExpiryPolicy
	logger  logging.Logger
	now     func() time.Time
}

func New(src SessionSource, policy session.ExpiryPolicy, logger logging.Logger) *Guard {
	return &Guard{
		session: src,
		policy:  policy,
		logger:  logger.With("component", "guard"),
		now:     time.Now,
	}
}

// Check allows dest when the in-memory session holds a usable token, or,
// on a cold start, when one can be read from durable storage.
func (g *Guard) Check(ctx context.Context, dest string) Decision {
	now := g.now()

	if token := g.session.Token(); token != "" {
		err := g.policy.Validate(token, now)
		if err == nil {
			return Decision{Allow: true}
		}
		g.logger.Info(ctx, "session token rejected", "destination", dest, "reason", err)
		g.session.Logout(ctx)
		return deny(dest)
	}

	token, err := g.session.DurableToken(ctx)
	if err != nil {
		g.logger.Warn(ctx, "read stored token", "error", err)
		return deny(dest)
	}
	if token == "" {
		g.logger.Debug(ctx, "no session, redirecting to login", "destination", dest)
		return deny(dest)
	}
	if err := g.policy.Validate(token, now); err != nil {
		g.logger.Info(ctx, "stored token rejected", "destination", dest, "reason", err)
		g.session.Logout(ctx)
		return deny(dest)
	}
	return Decision{Allow: true}
}

func deny(dest string) Decision {
	return Decision{
		Redirect: common.LoginPath + "?" + common.RedirectParam + "=" + url.QueryEscape(dest),
		From:     dest,
	}
}

// RedirectTarget extracts the destination from a login redirect produced by
// Check. It returns "" when there is none.
func RedirectTarget(redirect string) string {
	u, err := url.Parse(redirect)
	if err != nil {
		return ""
	}
	return u.Query().Get(common.RedirectParam)
}
