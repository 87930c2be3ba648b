package cli

import (
	"context"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
)

const cascadeWarning = "List and all items will be removed. This cannot be undone."

func (a *App) showLists() {
	s := a.listView.Snapshot()
	rows := make([][]string, 0, len(s.Rows))
	for _, l := range s.Rows {
		rows = append(rows, []string{l.ID.String(), l.Name})
	}
	a.showTable([]string{"ID", "Name"}, rows, pageFooter(s))
}

func (a *App) listsCommand(ctx context.Context, verb string, args []string) error {
	if ok, err := a.browse(ctx, a.listView, verb, args, a.showLists); ok {
		return err
	}

	switch verb {
	case "add":
		name, err := a.ask("List name", "")
		if err != nil {
			return err
		}
		if _, err := a.listView.Create(ctx, models.ListFields{Name: name}); err != nil {
			return err
		}
		a.showLists()

	case "edit":
		id, ok := a.requireID(args, "lists edit ID")
		if !ok {
			return nil
		}
		current, _ := a.listView.Find(id)
		name, err := a.ask("List name", current.Name)
		if err != nil {
			return err
		}
		if _, err := a.listView.Update(ctx, id, models.ListFields{Name: name}); err != nil {
			return err
		}
		a.showLists()

	case "rm", "delete":
		id, ok := a.requireID(args, "lists rm ID")
		if !ok {
			return nil
		}
		a.println(warnStyle.Render(cascadeWarning))
		if !a.confirm(ctx, "Delete list "+id.String()+"?") {
			return nil
		}
		if err := a.listView.DeleteWith(ctx, id, a.lists.DeleteCascade); err != nil {
			return err
		}
		delete(a.itemPanes, id)
		return a.reload(ctx, a.listView, a.showLists)

	default:
		a.println("Unknown lists command:", verb)
	}
	return nil
}
