package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/mailadmin/internal/client/guard"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Check(ctx context.Context, dest string) guard.Decision
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Resource(ctx context.Context, name string, args []string) error
}

const helpText = `Commands:
  login | register | logout | status | help | exit
  users     [ls|next|prev|page N|search TERM|add|edit ID|passwd ID|rm ID]
  lists     [ls|next|prev|page N|search TERM|add|edit ID|rm ID]
  items ID  [ls|next|prev|page N|search TERM|add|edit ID|rm ID|upload FILE]
  templates [ls|next|prev|page N|search TERM|add|edit ID|rm ID]
  campaigns [ls|next|prev|page N|search TERM|add|edit ID|rm ID|show ID|copy ID|toggle ID]
Without a verb a resource command shows its current page.`

// protected lists the commands that need a session.
var protected = map[string]bool{
	"users": true, "lists": true, "items": true, "templates": true, "campaigns": true,
}

// runREPL starts a read–eval–print loop over reader.
//
// Each line is split into a command and its arguments. Resource commands
// are protected: they are checked by the route guard first, and a denied
// command prompts for login and then runs the original line. The loop exits
// on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are not printed here; handlers and
// the notifier report them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprint(out, statusFn()+" ")
		line, err := reader.ReadString('\n')
		if strings.TrimSpace(line) == "" && err != nil {
			fmt.Fprintln(out)
			return
		}
		if quit := dispatch(ctx, a, strings.TrimSpace(line), out, false); quit {
			return
		}
		if err != nil {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, line string, out io.Writer, redirected bool) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := parts[0], parts[1:]

	if protected[cmd] {
		d := a.Check(ctx, line)
		if !d.Allow {
			if redirected {
				fmt.Fprintln(out, "Still not logged in.")
				return false
			}
			fmt.Fprintln(out, "Please log in first.")
			if err := a.Login(ctx); err != nil {
				return false
			}
			if target := guard.RedirectTarget(d.Redirect); target != "" {
				return dispatch(ctx, a, target, out, true)
			}
			return false
		}
		_ = a.Resource(ctx, cmd, args)
		return false
	}

	switch cmd {
	case "help", "?":
		fmt.Fprintln(out, helpText)
	case "login":
		_ = a.Login(ctx)
	case "register":
		_ = a.Register(ctx)
	case "logout":
		_ = a.Logout(ctx)
	case "status":
		_ = a.Status(ctx)
	case "exit", "quit":
		fmt.Fprintln(out, "Bye!")
		return true
	default:
		fmt.Fprintln(out, "Unknown command:", cmd)
	}
	return false
}

// Check runs the route guard for dest.
func (a *App) Check(ctx context.Context, dest string) guard.Decision {
	return a.guard.Check(ctx, dest)
}
