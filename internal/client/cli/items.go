package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
)

func (a *App) showItems(p *itemsPane) func() {
	return func() {
		s := p.view.Snapshot()
		rows := make([][]string, 0, len(s.Rows))
		for _, it := range s.Rows {
			rows = append(rows, []string{it.ID.String(), it.Name, it.Email})
		}
		a.println(mutedStyle.Render("list " + p.svc.ListID().String()))
		a.showTable([]string{"ID", "Name", "Email"}, rows, pageFooter(s))
	}
}

func (a *App) itemsCommand(ctx context.Context, listID models.ID, verb string, args []string) error {
	p := a.items(listID)
	show := a.showItems(p)
	if ok, err := a.browse(ctx, p.view, verb, args, show); ok {
		return err
	}

	switch verb {
	case "add":
		fields, err := a.itemForm(models.ListItem{})
		if err != nil {
			return err
		}
		if _, err := p.view.Create(ctx, fields); err != nil {
			return err
		}
		show()

	case "edit":
		id, ok := a.requireID(args, "items LIST_ID edit ID")
		if !ok {
			return nil
		}
		current, _ := p.view.Find(id)
		fields, err := a.itemForm(current)
		if err != nil {
			return err
		}
		if _, err := p.view.Update(ctx, id, fields); err != nil {
			return err
		}
		show()

	case "rm", "delete":
		id, ok := a.requireID(args, "items LIST_ID rm ID")
		if !ok || !a.confirm(ctx, "Delete item "+id.String()+"?") {
			return nil
		}
		if err := p.view.Delete(ctx, id); err != nil {
			return err
		}
		return a.reload(ctx, p.view, show)

	case "upload":
		path := first(args)
		if path == "" {
			a.println("Usage: items LIST_ID upload FILE")
			return nil
		}
		if err := a.upload(ctx, p, path); err != nil {
			a.notify.Failure("upload list items", err)
			return err
		}
		a.notify.Success("upload list items")
		return a.reload(ctx, p.view, show)

	default:
		a.println("Unknown items command:", verb)
	}
	return nil
}

func (a *App) upload(ctx context.Context, p *itemsPane, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return p.svc.Upload(ctx, filepath.Base(path), f)
}

func (a *App) itemForm(it models.ListItem) (models.ListItemFields, error) {
	var f models.ListItemFields
	var err error
	if f.Name, err = a.ask("Name", it.Name); err != nil {
		return f, err
	}
	f.Email, err = a.ask("Email", it.Email)
	return f, err
}
