package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/client/session"
	"github.com/dmitrijs2005/mailadmin/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Login prompts for an email or mobile number and a password and opens a
// session. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	loginValue, err := getSimpleText(a.reader, "Enter email or mobile number", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.session.Login(ctx, loginValue, password)
	if err != nil {
		if errors.Is(err, session.ErrBusy) {
			a.notify.Failure("login", err)
			return err
		}
		a.println(errorStyle.Render("✖ " + s.Error))
		return err
	}

	who := loginValue
	if s.User != nil && s.User.Name != "" {
		who = s.User.Name
	}
	a.println(successStyle.Render("✔ Logged in as " + who))
	return nil
}

// Register prompts for the account fields and creates the account. It does
// not log in.
func (a *App) Register(ctx context.Context) error {
	req := models.RegisterRequest{RoleID: models.RoleUser}
	prompts := []struct {
		text string
		dst  *string
	}{
		{"Name", &req.Name},
		{"Email", &req.Email},
		{"Mobile country code (e.g. +91)", &req.MobileCountryCode},
		{"Mobile number", &req.Mobile},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.text, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	if err := a.session.Register(ctx, req); err != nil {
		a.notify.Failure("registration", err)
		return err
	}
	a.println(successStyle.Render("✔ Account created, you can log in now"))
	return nil
}

// Logout ends the session. It always succeeds.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.println("Logged out")
	return nil
}

// Status prints who is logged in.
func (a *App) Status(ctx context.Context) error {
	s := a.session.Current()
	if !s.IsAuthenticated {
		a.printf("Not logged in (server %s)\n", a.config.ServerBaseURL)
		return nil
	}
	name, email := "", ""
	if s.User != nil {
		name, email = s.User.Name, s.User.Email
	}
	a.printf("Logged in as %s <%s> (server %s)\n", withDefault(name, "?"), withDefault(email, "?"), a.config.ServerBaseURL)
	if !a.config.Expiry().Usable(s.Token, time.Now()) {
		a.println(mutedStyle.Render("the stored token has expired; the next command will ask you to log in"))
	}
	return nil
}
