package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAuth struct {
	mu sync.Mutex

	loginResp models.LoginResponse
	loginErr  error
	lastLogin models.LoginRequest
	logins    int

	// block, when set, holds Login until closed
	block chan struct{}

	registerErr  error
	lastRegister models.RegisterRequest
}

func (f *fakeAuth) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLogin = req
	f.logins++
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(ctx context.Context, req models.RegisterRequest) error {
	f.lastRegister = req
	return f.registerErr
}

type failingPersistence struct{ MemoryPersistence }

func (f *failingPersistence) Save(context.Context, string, *models.User) error {
	return errors.New("disk full")
}

func (f *failingPersistence) Clear(context.Context) error { return errors.New("disk gone") }

func newStore(auth AuthAPI, p Persistence) *Store {
	return NewStore(auth, p, logging.Nop())
}

// ---- tests ----

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("ann@example.org"))
	assert.False(t, IsEmail("+919876543210"))
	assert.False(t, IsEmail("ann@localhost"))
	assert.False(t, IsEmail("9876543210"))
}

func TestLogin_EmailSuccess_PersistsToken(t *testing.T) {
	auth := &fakeAuth{loginResp: models.LoginResponse{Token: "tok", User: &models.User{ID: "1", Email: "ann@example.org"}}}
	p := &MemoryPersistence{}
	s := newStore(auth, p)

	sess, err := s.Login(context.Background(), " ann@example.org ", []byte("pw"))
	require.NoError(t, err)

	assert.Equal(t, models.LoginRequest{Email: "ann@example.org", Password: "pw"}, auth.lastLogin)
	assert.True(t, sess.IsAuthenticated)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, models.StatusSucceeded, sess.Status)
	assert.Empty(t, sess.Error)

	token, user, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, models.ID("1"), user.ID)
}

func TestLogin_MobileIsSentAsMobile(t *testing.T) {
	auth := &fakeAuth{loginResp: models.LoginResponse{Token: "tok"}}
	s := newStore(auth, &MemoryPersistence{})

	sess, err := s.Login(context.Background(), "9876543210", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, models.LoginRequest{Mobile: "9876543210", Password: "pw"}, auth.lastLogin)
	require.NotNil(t, sess.User, "missing user defaults to an empty record")
}

func TestLogin_FailureKeepsPriorState(t *testing.T) {
	auth := &fakeAuth{loginResp: models.LoginResponse{Token: "first", User: &models.User{ID: "1"}}}
	s := newStore(auth, &MemoryPersistence{})

	_, err := s.Login(context.Background(), "ann@example.org", []byte("pw"))
	require.NoError(t, err)

	auth.loginErr = &client.APIError{Status: 401, Message: "Invalid credentials"}
	sess, err := s.Login(context.Background(), "ann@example.org", []byte("bad"))
	require.Error(t, err)

	assert.True(t, sess.IsAuthenticated)
	assert.Equal(t, "first", sess.Token)
	assert.Equal(t, models.StatusFailed, sess.Status)
	assert.Equal(t, "Invalid credentials", sess.Error)
}

func TestLogin_FailureWithoutServerMessage(t *testing.T) {
	auth := &fakeAuth{loginErr: client.ErrUnavailable}
	s := newStore(auth, &MemoryPersistence{})

	sess, err := s.Login(context.Background(), "ann@example.org", []byte("pw"))
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, "Login failed", sess.Error)
	assert.False(t, sess.IsAuthenticated)
}

func TestLogin_ReentrantFromFailed(t *testing.T) {
	auth := &fakeAuth{loginErr: client.ErrUnauthorized}
	s := newStore(auth, &MemoryPersistence{})

	sess, _ := s.Login(context.Background(), "ann@example.org", []byte("pw"))
	require.Equal(t, models.StatusFailed, sess.Status)

	auth.loginErr = nil
	auth.loginResp = models.LoginResponse{Token: "tok"}
	sess, err := s.Login(context.Background(), "ann@example.org", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusSucceeded, sess.Status)
	assert.Empty(t, sess.Error)
}

func TestLogin_ValidationSkipsNetwork(t *testing.T) {
	auth := &fakeAuth{}
	s := newStore(auth, &MemoryPersistence{})

	_, err := s.Login(context.Background(), "  ", []byte("pw"))
	require.ErrorIs(t, err, client.ErrValidation)

	_, err = s.Login(context.Background(), "ann@example.org", nil)
	require.ErrorIs(t, err, client.ErrValidation)

	assert.Zero(t, auth.logins)
	assert.Equal(t, models.StatusFailed, s.Current().Status)
}

func TestLogin_EmptyTokenIsMalformed(t *testing.T) {
	auth := &fakeAuth{loginResp: models.LoginResponse{}}
	s := newStore(auth, &MemoryPersistence{})

	_, err := s.Login(context.Background(), "ann@example.org", []byte("pw"))
	require.ErrorIs(t, err, client.ErrMalformedResponse)
	assert.False(t, s.Current().IsAuthenticated)
}

func TestLogin_BusyWhileInFlight(t *testing.T) {
	auth := &fakeAuth{loginResp: models.LoginResponse{Token: "tok"}, block: make(chan struct{})}
	s := newStore(auth, &MemoryPersistence{})

	done := make(chan error, 1)
	go func() {
		_, err := s.Login(context.Background(), "ann@example.org", []byte("pw"))
		done <- err
	}()

	require.Eventually(t, func() bool { return s.Current().Status == models.StatusLoading }, time.Second, time.Millisecond)

	_, err := s.Login(context.Background(), "ann@example.org", []byte("pw"))
	require.ErrorIs(t, err, ErrBusy)

	close(auth.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, auth.logins)
}

func TestLogin_PersistFailureStillLogsIn(t *testing.T) {
	auth := &fakeAuth{loginResp: models.LoginResponse{Token: "tok"}}
	s := newStore(auth, &failingPersistence{})

	sess, err := s.Login(context.Background(), "ann@example.org", []byte("pw"))
	require.NoError(t, err)
	assert.True(t, sess.IsAuthenticated)
}

func TestLogout_IsIdempotent(t *testing.T) {
	auth := &fakeAuth{loginResp: models.LoginResponse{Token: "tok", User: &models.User{ID: "1"}}}
	p := &MemoryPersistence{}
	s := newStore(auth, p)
	ctx := context.Background()

	_, err := s.Login(ctx, "ann@example.org", []byte("pw"))
	require.NoError(t, err)

	s.Logout(ctx)
	once := s.Current()
	s.Logout(ctx)
	twice := s.Current()

	assert.Equal(t, once, twice)
	assert.False(t, twice.IsAuthenticated)
	assert.Empty(t, twice.Token)
	assert.Nil(t, twice.User)
	assert.Equal(t, models.StatusIdle, twice.Status)

	token, err := s.DurableToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLogout_StorageFailureIsSwallowed(t *testing.T) {
	s := newStore(&fakeAuth{}, &failingPersistence{})
	s.Logout(context.Background())
	assert.Equal(t, models.StatusIdle, s.Current().Status)
}

func TestHydrate(t *testing.T) {
	ctx := context.Background()
	p := &MemoryPersistence{}
	require.NoError(t, p.Save(ctx, "stored", &models.User{ID: "7"}))

	s := newStore(&fakeAuth{}, p)
	assert.False(t, s.Current().IsAuthenticated)

	require.NoError(t, s.Hydrate(ctx))
	sess := s.Current()
	assert.True(t, sess.IsAuthenticated)
	assert.Equal(t, "stored", s.Token())
	assert.Equal(t, models.ID("7"), sess.User.ID)
}

func TestToken_FallsBackToDurableCopy(t *testing.T) {
	ctx := context.Background()
	p := &MemoryPersistence{}
	require.NoError(t, p.Save(ctx, "stored", &models.User{ID: "7"}))

	s := newStore(&fakeAuth{}, p)
	assert.Equal(t, "stored", s.Token())

	sess := s.Current()
	assert.True(t, sess.IsAuthenticated)
	assert.Equal(t, models.ID("7"), sess.User.ID)
}

// stickyPersistence keeps its token even when Clear is called.
type stickyPersistence struct{ MemoryPersistence }

func (p *stickyPersistence) Clear(context.Context) error { return errors.New("read-only") }

func TestLogout_FailedClearIsNotReadopted(t *testing.T) {
	ctx := context.Background()
	p := &stickyPersistence{}
	require.NoError(t, p.Save(ctx, "stored", nil))

	s := newStore(&fakeAuth{}, p)
	require.Equal(t, "stored", s.Token())

	s.Logout(ctx)
	assert.Empty(t, s.Token())
	token, err := s.DurableToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, s.Current().IsAuthenticated)
}

func TestHydrate_NothingStored(t *testing.T) {
	s := newStore(&fakeAuth{}, &MemoryPersistence{})
	require.NoError(t, s.Hydrate(context.Background()))
	assert.False(t, s.Current().IsAuthenticated)
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	auth := &fakeAuth{loginResp: models.LoginResponse{Token: "tok", User: &models.User{Name: "Ann"}}}
	s := newStore(auth, &MemoryPersistence{})
	_, err := s.Login(context.Background(), "ann@example.org", []byte("pw"))
	require.NoError(t, err)

	snap := s.Current()
	snap.User.Name = "changed"
	assert.Equal(t, "Ann", s.Current().User.Name)
}

func TestInvalidate(t *testing.T) {
	auth := &fakeAuth{loginResp: models.LoginResponse{Token: "tok"}}
	s := newStore(auth, &MemoryPersistence{})
	ctx := context.Background()

	s.Invalidate(ctx) // no session: no-op
	_, err := s.Login(ctx, "ann@example.org", []byte("pw"))
	require.NoError(t, err)

	s.Invalidate(ctx)
	assert.False(t, s.Current().IsAuthenticated)
}

func TestRegister(t *testing.T) {
	valid := models.RegisterRequest{
		Name: "Ann", Email: "ann@example.org", MobileCountryCode: "+91",
		Mobile: "9876543210", Password: "pw", RoleID: models.RoleUser,
	}

	t.Run("valid", func(t *testing.T) {
		auth := &fakeAuth{}
		s := newStore(auth, &MemoryPersistence{})
		require.NoError(t, s.Register(context.Background(), valid))
		assert.Equal(t, valid, auth.lastRegister)
		assert.False(t, s.Current().IsAuthenticated)
	})

	t.Run("backend error", func(t *testing.T) {
		auth := &fakeAuth{registerErr: &client.APIError{Status: 409}}
		s := newStore(auth, &MemoryPersistence{})
		require.Error(t, s.Register(context.Background(), valid))
	})

	bad := map[string]func(r *models.RegisterRequest){
		"no name":      func(r *models.RegisterRequest) { r.Name = "" },
		"no email":     func(r *models.RegisterRequest) { r.Email = " " },
		"no password":  func(r *models.RegisterRequest) { r.Password = "" },
		"short mobile": func(r *models.RegisterRequest) { r.Mobile = "12345" },
		"no plus":      func(r *models.RegisterRequest) { r.MobileCountryCode = "91" },
		"letters":      func(r *models.RegisterRequest) { r.Mobile = "98765abc10" },
	}
	for name, mutate := range bad {
		t.Run(name, func(t *testing.T) {
			req := valid
			mutate(&req)
			auth := &fakeAuth{}
			s := newStore(auth, &MemoryPersistence{})
			require.ErrorIs(t, s.Register(context.Background(), req), client.ErrValidation)
			assert.Empty(t, auth.lastRegister.Email)
		})
	}
}
