package cli

import (
	"context"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
)

func (a *App) showTemplates() {
	s := a.templateView.Snapshot()
	rows := make([][]string, 0, len(s.Rows))
	for _, t := range s.Rows {
		rows = append(rows, []string{t.ID.String(), t.Name, truncate(t.Description, 40)})
	}
	a.showTable([]string{"ID", "Name", "Description"}, rows, pageFooter(s))
}

func (a *App) templatesCommand(ctx context.Context, verb string, args []string) error {
	if ok, err := a.browse(ctx, a.templateView, verb, args, a.showTemplates); ok {
		return err
	}

	switch verb {
	case "add":
		fields, err := a.templateForm(models.Template{})
		if err != nil {
			return err
		}
		if _, err := a.templateView.Create(ctx, fields); err != nil {
			return err
		}
		a.showTemplates()

	case "edit":
		id, ok := a.requireID(args, "templates edit ID")
		if !ok {
			return nil
		}
		current, _ := a.templateView.Find(id)
		fields, err := a.templateForm(current)
		if err != nil {
			return err
		}
		if _, err := a.templateView.Update(ctx, id, fields); err != nil {
			return err
		}
		a.showTemplates()

	case "show":
		id, ok := a.requireID(args, "templates show ID")
		if !ok {
			return nil
		}
		t, found := a.templateView.Find(id)
		if !found {
			a.println("Template", id, "is not on the current page")
			return nil
		}
		a.printf("%s\n%s\n\n%s\n", t.Name, mutedStyle.Render(t.Description), t.Content)

	case "rm", "delete":
		id, ok := a.requireID(args, "templates rm ID")
		if !ok || !a.confirm(ctx, "Delete template "+id.String()+"?") {
			return nil
		}
		if err := a.templateView.Delete(ctx, id); err != nil {
			return err
		}
		return a.reload(ctx, a.templateView, a.showTemplates)

	default:
		a.println("Unknown templates command:", verb)
	}
	return nil
}

// templateForm prompts for a template. Blank content keeps the current
// design document.
func (a *App) templateForm(t models.Template) (models.TemplateFields, error) {
	f := models.TemplateFields{Content: t.Content}
	var err error
	if f.Name, err = a.ask("Template name", t.Name); err != nil {
		return f, err
	}
	if f.Description, err = a.ask("Description", t.Description); err != nil {
		return f, err
	}
	content, err := GetMultiline(a.reader, "Content (design JSON or HTML)", a.out)
	if err != nil {
		return f, err
	}
	if content != "" {
		f.Content = content
	}
	return f, nil
}
