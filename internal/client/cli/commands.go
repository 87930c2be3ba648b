package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/spf13/cobra"
)

var (
	ErrNotConfirmed = errors.New("refusing to delete without --yes")
	ErrNotLoggedIn  = errors.New("not logged in; run 'mailadmin login' first")
)

// BuildInfo is printed by the version command.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// DeleteListCascade removes a list and all of its items without prompting.
// It refuses unless yes is set and a usable session exists.
func (a *App) DeleteListCascade(ctx context.Context, id models.ID, yes bool) error {
	if !yes {
		a.println(warnStyle.Render(cascadeWarning))
		return ErrNotConfirmed
	}
	if d := a.Check(ctx, "lists rm "+id.String()); !d.Allow {
		return ErrNotLoggedIn
	}
	if err := a.lists.DeleteCascade(ctx, id); err != nil {
		a.notify.Failure("delete list", err)
		return err
	}
	a.notify.Success("delete list")
	return nil
}

// NewRootCommand builds the command tree. Without a subcommand the
// interactive console starts.
func NewRootCommand(ctx context.Context, a *App, info BuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:           "mailadmin",
		Short:         "Console for the mail campaign backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.Run(ctx)
			return nil
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "repl",
			Short: "Start the interactive console",
			Args:  cobra.NoArgs,
			RunE:  root.RunE,
		},
		&cobra.Command{
			Use:   "login",
			Short: "Log in and store the session",
			RunE:  func(cmd *cobra.Command, args []string) error { return a.Login(ctx) },
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the stored session",
			RunE:  func(cmd *cobra.Command, args []string) error { return a.Logout(ctx) },
		},
		&cobra.Command{
			Use:   "register",
			Short: "Create an account",
			RunE:  func(cmd *cobra.Command, args []string) error { return a.Register(ctx) },
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show who is logged in",
			RunE:  func(cmd *cobra.Command, args []string) error { return a.Status(ctx) },
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Build version: %s\nBuild date: %s\nBuild commit: %s\n",
					withDefault(info.Version, "N/A"), withDefault(info.Date, "N/A"), withDefault(info.Commit, "N/A"))
			},
		},
		listsCommand(ctx, a),
	)
	return root
}

func listsCommand(ctx context.Context, a *App) *cobra.Command {
	lists := &cobra.Command{
		Use:   "lists",
		Short: "Manage mailing lists",
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a list together with all of its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.DeleteListCascade(ctx, models.ID(args[0]), yes)
		},
	}
	del.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	lists.AddCommand(del)
	return lists
}
