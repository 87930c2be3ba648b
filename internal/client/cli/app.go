package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/config"
	"github.com/dmitrijs2005/mailadmin/internal/client/controller"
	"github.com/dmitrijs2005/mailadmin/internal/client/guard"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/client/services"
	"github.com/dmitrijs2005/mailadmin/internal/client/session"
	"github.com/dmitrijs2005/mailadmin/internal/filex"
	"github.com/dmitrijs2005/mailadmin/internal/logging"
)

// Page sizes and insert positions of the resource views.
var (
	usersView     = controller.Options{Noun: "user", Limit: 5, Insert: controller.Append}
	listsView     = controller.Options{Noun: "list", Limit: 5, Insert: controller.Prepend}
	itemsView     = controller.Options{Noun: "list item", Limit: 10, Insert: controller.Prepend}
	templatesView = controller.Options{Noun: "template", Limit: 10, Insert: controller.Append}
	campaignsView = controller.Options{Noun: "campaign", Limit: 10, Insert: controller.Prepend}
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	api     *client.HTTPClient
	session *session.Store
	guard   *guard.Guard
	notify  controller.Notifier

	users     services.UserService
	lists     services.ListService
	templates services.TemplateService
	campaigns services.CampaignService
	tplCache  *services.TemplateCache

	userView     *controller.Controller[models.User, models.UserFields]
	listView     *controller.Controller[models.List, models.ListFields]
	templateView *controller.Controller[models.Template, models.TemplateFields]
	campaignView *controller.Controller[models.Campaign, models.CampaignFields]
	itemPanes    map[models.ID]*itemsPane

	reader *bufio.Reader
	out    io.Writer
}

func openPersistence(ctx context.Context, path string) (session.Persistence, *sql.DB, error) {
	if path == "" {
		return &session.MemoryPersistence{}, nil, nil
	}
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, nil, fmt.Errorf("create session dir: %w", err)
	}
	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return session.NewSQLitePersistence(db), db, nil
}

// NewApp wires every component from c. The persisted session, if any, is
// restored before it returns.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	persistence, db, err := openPersistence(ctx, c.SessionDB)
	if err != nil {
		logger.Error(ctx, "error initializing session storage", "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, logger)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	store := session.NewStore(session.NewHTTPAuth(api), persistence, logger)
	api.SetTokenSource(store)
	api.OnUnauthorized(store.Invalidate)

	if err := store.Hydrate(ctx); err != nil {
		logger.Warn(ctx, "could not restore session", "error", err)
	}

	a := &App{
		config:  c,
		logger:  logger,
		db:      db,
		api:     api,
		session: store,
		guard:   guard.New(store, c.Expiry(), logger),
		notify:  &printNotifier{out: out},
		reader:  bufio.NewReader(in),
		out:     out,
	}

	a.users = services.NewUserService(api)
	a.lists = services.NewListService(api, c.Cascade(), logger)
	a.tplCache = services.NewTemplateCache(api)
	a.templates = services.NewTemplateService(api, a.tplCache)
	a.campaigns = services.NewCampaignService(api)

	a.userView = controller.New[models.User, models.UserFields](a.users, usersView, a.notify, logger)
	a.listView = controller.New[models.List, models.ListFields](a.lists, listsView, a.notify, logger)
	a.templateView = controller.New[models.Template, models.TemplateFields](a.templates, templatesView, a.notify, logger)
	a.campaignView = controller.New[models.Campaign, models.CampaignFields](a.campaigns, campaignsView, a.notify, logger)
	a.itemPanes = make(map[models.ID]*itemsPane)

	return a, nil
}

// Close releases the session database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Run starts the REPL and blocks until the user leaves it.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "mailadmin console (type 'help' for commands)")
	runREPL(ctx, a, a.prompt, a.reader, a.out)
}

func (a *App) prompt() string {
	s := a.session.Current()
	if !s.IsAuthenticated {
		return "mailadmin>"
	}
	name := "admin"
	if s.User != nil && s.User.Email != "" {
		name = s.User.Email
	}
	return fmt.Sprintf("mailadmin (%s)>", name)
}

// itemsPane is the view over the members of one list.
type itemsPane struct {
	view *controller.Controller[models.ListItem, models.ListItemFields]
	svc  services.ListItemService
}

func (a *App) items(listID models.ID) *itemsPane {
	if p, ok := a.itemPanes[listID]; ok {
		return p
	}
	svc := services.NewListItemService(a.api, a.api, listID)
	p := &itemsPane{
		view: controller.New[models.ListItem, models.ListItemFields](svc, itemsView, a.notify, a.logger.With("list_id", listID.String())),
		svc:  svc,
	}
	a.itemPanes[listID] = p
	return p
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
