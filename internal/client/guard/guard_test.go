package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/client/session"
	"github.com/dmitrijs2005/mailadmin/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	memory     string
	durable    string
	durableErr error
	logouts    int
}

func (f *fakeSession) Token() string { return f.memory }

func (f *fakeSession) DurableToken(context.Context) (string, error) {
	return f.durable, f.durableErr
}

func (f *fakeSession) Logout(context.Context) {
	f.logouts++
	f.memory, f.durable = "", ""
}

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newGuard(src SessionSource, policy session.ExpiryPolicy) *Guard {
	g := New(src, policy, logging.Nop())
	g.now = func() time.Time { return fixedNow }
	return g
}

func jwtExpiring(t *testing.T, at time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(at),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		src       *fakeSession
		wantAllow bool
	}{
		{"memory token", &fakeSession{memory: "tok"}, true},
		{"durable token only", &fakeSession{durable: "tok"}, true},
		{"no token", &fakeSession{}, false},
		{"storage error", &fakeSession{durableErr: errors.New("locked")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newGuard(tt.src, session.ExpiryCheck).Check(context.Background(), "/lists")
			assert.Equal(t, tt.wantAllow, d.Allow)
			if !tt.wantAllow {
				assert.Equal(t, "/login?redirect=%2Flists", d.Redirect)
				assert.Equal(t, "/lists", d.From)
			}
		})
	}
}

func TestCheck_ExpiredToken(t *testing.T) {
	expired := jwtExpiring(t, fixedNow.Add(-time.Minute))

	t.Run("memory, check", func(t *testing.T) {
		src := &fakeSession{memory: expired, durable: expired}
		d := newGuard(src, session.ExpiryCheck).Check(context.Background(), "/templates")
		assert.False(t, d.Allow)
		assert.Equal(t, 1, src.logouts)
	})

	t.Run("durable, check", func(t *testing.T) {
		src := &fakeSession{durable: expired}
		d := newGuard(src, session.ExpiryCheck).Check(context.Background(), "/templates")
		assert.False(t, d.Allow)
		assert.Equal(t, 1, src.logouts)
	})

	t.Run("ignore", func(t *testing.T) {
		src := &fakeSession{memory: expired}
		d := newGuard(src, session.ExpiryIgnore).Check(context.Background(), "/templates")
		assert.True(t, d.Allow)
		assert.Zero(t, src.logouts)
	})

	t.Run("valid jwt", func(t *testing.T) {
		src := &fakeSession{memory: jwtExpiring(t, fixedNow.Add(time.Hour))}
		d := newGuard(src, session.ExpiryCheck).Check(context.Background(), "/templates")
		assert.True(t, d.Allow)
	})
}

func TestCheck_WithRealStore(t *testing.T) {
	ctx := context.Background()
	p := &session.MemoryPersistence{}
	require.NoError(t, p.Save(ctx, "cold-start", &models.User{}))

	store := session.NewStore(nil, p, logging.Nop())
	g := newGuard(store, session.ExpiryCheck)

	assert.True(t, g.Check(ctx, "/campaigns").Allow)
	assert.Equal(t, "cold-start", store.Token(), "an allowed request carries the stored token")

	store.Logout(ctx)
	assert.False(t, g.Check(ctx, "/campaigns").Allow)
}

func TestRedirectTarget(t *testing.T) {
	d := deny("/lists/7/items?search=a b")
	assert.Equal(t, "/lists/7/items?search=a b", RedirectTarget(d.Redirect))
	assert.Empty(t, RedirectTarget("/login"))
}
