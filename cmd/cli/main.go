package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/dmitrijs2005/mailadmin/internal/client/cli"
	"github.com/dmitrijs2005/mailadmin/internal/client/config"
	"github.com/dmitrijs2005/mailadmin/internal/flagx"
	"github.com/dmitrijs2005/mailadmin/internal/logging"
)

// Set with -ldflags "-X main.buildVersion=...".
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	app, err := cli.NewApp(ctx, cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer app.Close()

	root := cli.NewRootCommand(ctx, app, cli.BuildInfo{Version: buildVersion, Date: buildDate, Commit: buildCommit})
	root.SetArgs(flagx.StripArgs(os.Args[1:], slices.Concat(config.Flags, []string{"-c", "-config"})))

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
