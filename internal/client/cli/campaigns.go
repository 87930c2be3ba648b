package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
)

func (a *App) showCampaigns() {
	s := a.campaignView.Snapshot()
	rows := make([][]string, 0, len(s.Rows))
	for _, c := range s.Rows {
		rows = append(rows, []string{c.ID.String(), c.Name, c.Channel, c.StartDate, c.Status})
	}
	a.showTable([]string{"ID", "Name", "Channel", "Start", "Status"}, rows, pageFooter(s))
}

func (a *App) campaignsCommand(ctx context.Context, verb string, args []string) error {
	if ok, err := a.browse(ctx, a.campaignView, verb, args, a.showCampaigns); ok {
		return err
	}

	switch verb {
	case "add":
		fields, err := a.campaignForm(ctx, models.DefaultCampaignFields())
		if err != nil {
			return err
		}
		if _, err := a.campaignView.Create(ctx, fields); err != nil {
			return err
		}
		a.showCampaigns()

	case "edit":
		id, ok := a.requireID(args, "campaigns edit ID")
		if !ok {
			return nil
		}
		current, err := a.campaigns.Details(ctx, id)
		if err != nil {
			a.notify.Failure("load campaign", err)
			return err
		}
		fields, err := a.campaignForm(ctx, current.CampaignFields)
		if err != nil {
			return err
		}
		if _, err := a.campaignView.Update(ctx, id, fields); err != nil {
			return err
		}
		a.showCampaigns()

	case "show":
		id, ok := a.requireID(args, "campaigns show ID")
		if !ok {
			return nil
		}
		c, err := a.campaigns.Details(ctx, id)
		if err != nil {
			a.notify.Failure("load campaign", err)
			return err
		}
		a.printCampaign(c)

	case "copy":
		id, ok := a.requireID(args, "campaigns copy ID")
		if !ok {
			return nil
		}
		if err := a.campaigns.Copy(ctx, id); err != nil {
			a.notify.Failure("copy campaign", err)
			return err
		}
		a.notify.Success("copy campaign")
		return a.reload(ctx, a.campaignView, a.showCampaigns)

	case "toggle":
		id, ok := a.requireID(args, "campaigns toggle ID")
		if !ok {
			return nil
		}
		c, found := a.campaignView.Find(id)
		if !found {
			var err error
			if c, err = a.campaigns.Details(ctx, id); err != nil {
				a.notify.Failure("toggle campaign status", err)
				return err
			}
		}
		updated, err := a.campaigns.ToggleStatus(ctx, c)
		if err != nil {
			a.notify.Failure("toggle campaign status", err)
			return err
		}
		a.campaignView.Replace(id, updated)
		a.notify.Success("set campaign " + updated.Status)
		a.showCampaigns()

	case "rm", "delete":
		id, ok := a.requireID(args, "campaigns rm ID")
		if !ok || !a.confirm(ctx, "Delete campaign "+id.String()+"?") {
			return nil
		}
		if err := a.campaignView.Delete(ctx, id); err != nil {
			return err
		}
		return a.reload(ctx, a.campaignView, a.showCampaigns)

	default:
		a.println("Unknown campaigns command:", verb)
	}
	return nil
}

func (a *App) printCampaign(c models.Campaign) {
	rows := [][]string{
		{"ID", c.ID.String()},
		{"Name", c.Name},
		{"Channel", c.Channel},
		{"Status", c.Status},
		{"Start date", c.StartDate},
		{"From", c.EmailFrom},
		{"To", c.To},
		{"CC", c.CC},
		{"BCC", c.BCC},
		{"Audience list", c.AudienceListID.String()},
		{"Template", c.TemplateID.String()},
	}
	if c.IsRepeat {
		rows = append(rows,
			[]string{"Repeat", c.RepeatType + " every " + strconv.Itoa(c.RepeatEvery)},
			[]string{"Repeat on", c.RepeatOn},
			[]string{"Repeat ends", c.RepeatEndsOn},
		)
	}
	a.println(renderTable([]string{"Field", "Value"}, rows, ""))
}

// pickTemplate lists the cached templates and asks for one by id.
func (a *App) pickTemplate(ctx context.Context, current models.ID) (models.ID, error) {
	tpls, err := a.tplCache.All(ctx)
	if err != nil {
		// the campaign can still be saved with a typed id
		a.logger.Warn(ctx, "template list unavailable", "error", err)
	}
	for _, t := range tpls {
		a.printf("  %s  %s\n", t.ID, t.Name)
	}
	v, err := a.ask("Template id", current.String())
	return models.ID(v), err
}

func (a *App) campaignForm(ctx context.Context, f models.CampaignFields) (models.CampaignFields, error) {
	text := []struct {
		prompt string
		dst    *string
	}{
		{"Campaign name", &f.Name},
		{"Channel", &f.Channel},
		{"Start date (YYYY-MM-DD HH:MM)", &f.StartDate},
		{"From address", &f.EmailFrom},
		{"To", &f.To},
		{"CC", &f.CC},
		{"BCC", &f.BCC},
	}
	for _, p := range text {
		v, err := a.ask(p.prompt, *p.dst)
		if err != nil {
			return f, err
		}
		*p.dst = v
	}

	audience, err := a.ask("Audience list id", f.AudienceListID.String())
	if err != nil {
		return f, err
	}
	f.AudienceListID = models.ID(audience)

	if f.TemplateID, err = a.pickTemplate(ctx, f.TemplateID); err != nil {
		return f, err
	}

	repeat, err := a.ask("Repeat (none/daily/weekly/monthly)", withDefault(f.RepeatType, "none"))
	if err != nil {
		return f, err
	}
	f.RepeatType = repeat
	f.IsRepeat = repeat != "none"
	if !f.IsRepeat {
		f.RepeatEvery, f.RepeatOn, f.RepeatEndsOn = 0, "", ""
		return f, nil
	}

	every, err := a.ask("Repeat every", strconv.Itoa(max(f.RepeatEvery, 1)))
	if err != nil {
		return f, err
	}
	if f.RepeatEvery, err = strconv.Atoi(every); err != nil || f.RepeatEvery < 1 {
		f.RepeatEvery = 1
	}
	if f.RepeatOn, err = a.ask("Repeat on", f.RepeatOn); err != nil {
		return f, err
	}
	f.RepeatEndsOn, err = a.ask("Repeat ends on", f.RepeatEndsOn)
	return f, err
}
