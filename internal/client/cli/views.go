package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mailadmin/internal/client/controller"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
)

// pager is the paging surface shared by every resource view.
type pager interface {
	Load(ctx context.Context) error
	SetSearch(term string)
	SetPage(n int) bool
	NextPage() bool
	PrevPage() bool
}

// Resource runs a resource command such as "lists rm 4".
func (a *App) Resource(ctx context.Context, name string, args []string) error {
	verb, rest := "", []string(nil)
	if len(args) > 0 {
		verb, rest = args[0], args[1:]
	}

	switch name {
	case "users":
		return a.usersCommand(ctx, verb, rest)
	case "lists":
		return a.listsCommand(ctx, verb, rest)
	case "items":
		if len(args) == 0 {
			a.println("Usage: items LIST_ID [verb]")
			return nil
		}
		listID := models.ID(args[0])
		verb, rest = "", nil
		if len(args) > 1 {
			verb, rest = args[1], args[2:]
		}
		return a.itemsCommand(ctx, listID, verb, rest)
	case "templates":
		return a.templatesCommand(ctx, verb, rest)
	case "campaigns":
		return a.campaignsCommand(ctx, verb, rest)
	}
	a.println("Unknown resource:", name)
	return nil
}

// browse handles the paging verbs. It reports false for any other verb.
func (a *App) browse(ctx context.Context, p pager, verb string, args []string, show func()) (bool, error) {
	switch verb {
	case "", "ls", "list":
	case "next":
		if !p.NextPage() {
			a.println("Already on the last page")
			return true, nil
		}
	case "prev":
		if !p.PrevPage() {
			a.println("Already on the first page")
			return true, nil
		}
	case "page":
		n, err := strconv.Atoi(first(args))
		if err != nil || !p.SetPage(n) {
			a.println("No such page")
			return true, nil
		}
	case "search":
		p.SetSearch(strings.Join(args, " "))
	default:
		return false, nil
	}

	if err := p.Load(ctx); err != nil {
		return true, err
	}
	show()
	return true, nil
}

// reload refreshes a view after a mutation and shows it.
func (a *App) reload(ctx context.Context, p pager, show func()) error {
	if err := p.Load(ctx); err != nil {
		return err
	}
	show()
	return nil
}

func first(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// requireID returns args[0] as an ID, printing usage when it is missing.
func (a *App) requireID(args []string, usage string) (models.ID, bool) {
	if len(args) == 0 || args[0] == "" {
		a.println("Usage:", usage)
		return "", false
	}
	return models.ID(args[0]), true
}

// ask prompts for a value; an empty answer keeps def.
func (a *App) ask(prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	return withDefault(v, def), nil
}

func (a *App) confirm(ctx context.Context, prompt string) bool {
	ok, err := Confirm(a.reader, prompt, a.out)
	if err != nil {
		a.logger.Warn(ctx, "reading confirmation", "error", err)
		return false
	}
	if !ok {
		a.println("Cancelled")
	}
	return ok
}

func pageFooter[T any](s controller.State[T]) string {
	pages := s.TotalPages()
	if pages == 0 {
		pages = 1
	}
	f := fmt.Sprintf("page %d of %d, %d total", s.Page, pages, s.Total)
	if s.Search != "" {
		f += fmt.Sprintf(", search %q", s.Search)
	}
	if s.Err != nil {
		f += " (showing previous results, last load failed)"
	}
	return f
}

func (a *App) showTable(headers []string, rows [][]string, footer string) {
	if len(rows) == 0 {
		a.println(mutedStyle.Render("no rows"))
		a.println(mutedStyle.Render(footer))
		return
	}
	a.println(renderTable(headers, rows, footer))
}
