// Package session holds the client-side session: who is logged in and the
// bearer token every request carries.
//
// The Store is an explicit object handed to whoever needs it; there is no
// package-level session. Only Login and Logout (and Invalidate, which is a
// logout triggered by the server) mutate it; readers get copies.
//
// Login runs through idle → loading → succeeded | failed. A failed store can
// log in again. While a login is in flight a second one is refused with
// ErrBusy.
package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/common"
	"github.com/dmitrijs2005/mailadmin/internal/logging"
)

var ErrBusy = errors.New("login already in progress")

var (
	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	mobilePattern = regexp.MustCompile(`^\+\d{10,15}$`)
)

const loginFailedMessage = "Login failed"

type Store struct {
	auth    AuthAPI
	durable Persistence
	logger  logging.Logger

	mu    sync.RWMutex
	state models.Session
	// loggedOut stops Token from adopting a durable copy that Logout
	// failed to remove.
	loggedOut bool
}

func NewStore(auth AuthAPI, durable Persistence, logger logging.Logger) *Store {
	return &Store{
		auth:    auth,
		durable: durable,
		logger:  logger.With("component", "session"),
		state:   models.Session{Status: models.StatusIdle},
	}
}

// IsEmail reports whether loginValue is treated as an email address rather
// than a mobile number.
func IsEmail(loginValue string) bool {
	return emailPattern.MatchString(loginValue)
}

// Current returns a snapshot of the session.
func (s *Store) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	if s.state.User != nil {
		u := *s.state.User
		snap.User = &u
	}
	return snap
}

// Token implements client.TokenSource. When memory holds no token the
// durable copy is read and adopted, so a session that was never hydrated
// still authenticates requests.
func (s *Store) Token() string {
	s.mu.RLock()
	token := s.state.Token
	s.mu.RUnlock()
	if token != "" {
		return token
	}
	return s.adoptDurable(context.Background())
}

func (s *Store) adoptDurable(ctx context.Context) string {
	token, user, err := s.durable.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "read stored session", "error", err)
		return ""
	}
	if token == "" {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loggedOut || s.state.Token != "" || s.state.Status == models.StatusLoading {
		return s.state.Token
	}
	s.state.Token = token
	s.state.User = user
	s.state.IsAuthenticated = true
	return token
}

// DurableToken reads the persisted token, bypassing memory. After a
// Logout in this process it reports no token.
func (s *Store) DurableToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	loggedOut := s.loggedOut
	s.mu.RUnlock()
	if loggedOut {
		return "", nil
	}
	token, _, err := s.durable.Load(ctx)
	return token, err
}

// Hydrate restores the persisted session at start-up. A stored token marks
// the session authenticated optimistically; nothing is checked with the
// server.
func (s *Store) Hydrate(ctx context.Context) error {
	token, user, err := s.durable.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	s.state.User = user
	s.state.IsAuthenticated = true
	s.loggedOut = false
	s.logger.Debug(ctx, "session restored from storage")
	return nil
}

// Login authenticates with an email or mobile number. On failure the prior
// session is kept; only Status and Error change.
func (s *Store) Login(ctx context.Context, loginValue string, password []byte) (models.Session, error) {
	s.mu.Lock()
	if s.state.Status == models.StatusLoading {
		s.mu.Unlock()
		return models.Session{}, ErrBusy
	}
	s.state.Status = models.StatusLoading
	s.state.Error = ""
	s.mu.Unlock()

	resp, err := s.login(ctx, strings.TrimSpace(loginValue), password)
	if err != nil {
		msg := client.ServerMessage(err)
		if msg == "" {
			msg = loginFailedMessage
		}
		s.mu.Lock()
		s.state.Status = models.StatusFailed
		s.state.Error = msg
		s.mu.Unlock()
		s.logger.Warn(ctx, "login failed", "error", err)
		return s.Current(), err
	}

	if resp.User == nil {
		resp.User = &models.User{}
	}
	if err := s.durable.Save(ctx, resp.Token, resp.User); err != nil {
		// the session still works for this process
		s.logger.Error(ctx, "persist session", "error", err)
	}

	s.mu.Lock()
	s.state = models.Session{
		IsAuthenticated: true,
		Token:           resp.Token,
		User:            resp.User,
		Status:          models.StatusSucceeded,
	}
	s.loggedOut = false
	s.mu.Unlock()

	s.logger.Info(ctx, "logged in", "user", resp.User.Email)
	return s.Current(), nil
}

func (s *Store) login(ctx context.Context, loginValue string, password []byte) (models.LoginResponse, error) {
	if loginValue == "" {
		return models.LoginResponse{}, fmt.Errorf("%w: %w", client.ErrValidation, common.ErrEmptyLogin)
	}
	if len(password) == 0 {
		return models.LoginResponse{}, fmt.Errorf("%w: %w", client.ErrValidation, common.ErrEmptyPassword)
	}

	req := models.LoginRequest{Password: string(password)}
	if IsEmail(loginValue) {
		req.Email = loginValue
	} else {
		req.Mobile = loginValue
	}

	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return resp, err
	}
	if resp.Token == "" {
		return resp, fmt.Errorf("%w: login response carries no token", client.ErrMalformedResponse)
	}
	return resp, nil
}

// Logout clears the session in memory and in storage. It never fails; a
// storage error is only logged. Calling it twice is the same as once.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.state = models.Session{Status: models.StatusIdle}
	s.loggedOut = true
	s.mu.Unlock()

	if err := s.durable.Clear(ctx); err != nil {
		s.logger.Error(ctx, "clear stored session", "error", err)
	}
	s.logger.Info(ctx, "logged out")
}

// Invalidate drops a session the server refused.
func (s *Store) Invalidate(ctx context.Context) {
	if s.Token() == "" {
		return
	}
	s.logger.Warn(ctx, "server rejected token, clearing session")
	s.Logout(ctx)
}

// Register creates an account. It does not log in.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := ValidateRegistration(req); err != nil {
		return err
	}
	if err := s.auth.Register(ctx, req); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.logger.Info(ctx, "account registered", "email", req.Email)
	return nil
}

// ValidateRegistration checks the fields the backend requires and the
// combined mobile number format (+ followed by 10 to 15 digits).
func ValidateRegistration(req models.RegisterRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return fmt.Errorf("%w: %w", client.ErrValidation, common.ErrNameRequired)
	case strings.TrimSpace(req.Email) == "":
		return fmt.Errorf("%w: %w", client.ErrValidation, common.ErrEmailRequired)
	case req.Password == "":
		return fmt.Errorf("%w: %w", client.ErrValidation, common.ErrEmptyPassword)
	case !mobilePattern.MatchString(req.MobileCountryCode + req.Mobile):
		return fmt.Errorf("%w: %w", client.ErrValidation, common.ErrInvalidMobile)
	}
	return nil
}
