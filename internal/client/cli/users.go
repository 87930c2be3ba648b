package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/common"
)

func roleName(id int) string {
	switch id {
	case models.RoleAdmin:
		return "admin"
	case models.RoleUser:
		return "user"
	case 0:
		return ""
	}
	return strconv.Itoa(id)
}

func (a *App) showUsers() {
	s := a.userView.Snapshot()
	rows := make([][]string, 0, len(s.Rows))
	for _, u := range s.Rows {
		rows = append(rows, []string{u.ID.String(), u.Name, u.Email, u.MobileCountryCode + u.Mobile, roleName(u.RoleID)})
	}
	a.showTable([]string{"ID", "Name", "Email", "Mobile", "Role"}, rows, pageFooter(s))
}

func (a *App) usersCommand(ctx context.Context, verb string, args []string) error {
	if ok, err := a.browse(ctx, a.userView, verb, args, a.showUsers); ok {
		return err
	}

	switch verb {
	case "add":
		fields, err := a.userForm(models.User{}, true)
		if err != nil {
			return err
		}
		if _, err := a.userView.Create(ctx, fields); err != nil {
			return err
		}
		a.showUsers()

	case "edit":
		id, ok := a.requireID(args, "users edit ID")
		if !ok {
			return nil
		}
		current, _ := a.userView.Find(id)
		fields, err := a.userForm(current, false)
		if err != nil {
			return err
		}
		if _, err := a.userView.Update(ctx, id, fields); err != nil {
			return err
		}
		a.showUsers()

	case "passwd":
		id, ok := a.requireID(args, "users passwd ID")
		if !ok {
			return nil
		}
		password, err := getPassword(a.reader, a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)
		if err := a.users.ResetPassword(ctx, id, string(password)); err != nil {
			a.notify.Failure("reset password", err)
			return err
		}
		a.notify.Success("reset password")

	case "rm", "delete":
		id, ok := a.requireID(args, "users rm ID")
		if !ok || !a.confirm(ctx, "Delete user "+id.String()+"?") {
			return nil
		}
		if err := a.userView.Delete(ctx, id); err != nil {
			return err
		}
		return a.reload(ctx, a.userView, a.showUsers)

	default:
		a.println("Unknown users command:", verb)
	}
	return nil
}

// userForm prompts for user fields. New users need a password; existing
// ones may set a new one, blank keeps the current password.
func (a *App) userForm(u models.User, create bool) (models.UserFields, error) {
	var f models.UserFields
	var err error
	if f.Name, err = a.ask("Name", u.Name); err != nil {
		return f, err
	}
	if f.Email, err = a.ask("Email", u.Email); err != nil {
		return f, err
	}
	if f.MobileCountryCode, err = a.ask("Mobile country code", withDefault(u.MobileCountryCode, "+91")); err != nil {
		return f, err
	}
	if f.Mobile, err = a.ask("Mobile number", u.Mobile); err != nil {
		return f, err
	}

	role, err := a.ask("Role (admin/user)", withDefault(roleName(u.RoleID), "user"))
	if err != nil {
		return f, err
	}
	f.RoleID = models.RoleUser
	if role == "admin" {
		f.RoleID = models.RoleAdmin
	}

	if create {
		pw, err := getPassword(a.reader, a.out)
		if err != nil {
			return f, err
		}
		f.Password = string(pw)
		common.WipeByteArray(pw)
		return f, nil
	}

	f.NewPassword, err = a.ask("New password (blank keeps the current one)", "")
	return f, err
}
