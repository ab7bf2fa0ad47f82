// Package main is the command-line grading tool: manage the roster, record
// grades and comments per deliverable, and export CSV, PDF and session files.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/alem-hub/assessment-hub/config"
	"github.com/alem-hub/assessment-hub/internal/application/roster"
	"github.com/alem-hub/assessment-hub/internal/domain/shared"
	"github.com/alem-hub/assessment-hub/internal/infrastructure/persistence"
	"github.com/alem-hub/assessment-hub/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "error: %s\n", shared.UserMessage(err))
		os.Exit(1)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION
// ══════════════════════════════════════════════════════════════════════════════

// app carries what every subcommand needs. The storage backend is opened on
// first use so commands like "catalog" work without one.
type app struct {
	cfg *config.Config
	log *logger.Logger

	in  *bufio.Reader
	out io.Writer
	now func() time.Time

	backend *persistence.Backend
	store   *roster.Store
}

// openStore opens the backend and loads the roster once.
func (a *app) openStore(ctx context.Context) (*roster.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	backend, err := persistence.Open(ctx, a.cfg.Storage, a.log)
	if err != nil {
		return nil, shared.WrapError("storage", "Open", shared.ErrPersistenceRead,
			"storage backend unavailable", err)
	}
	store := roster.NewStore(backend.Slot, roster.WithLogger(a.log))
	if err := store.Init(ctx); err != nil {
		_ = backend.Close()
		return nil, err
	}
	a.backend, a.store = backend, store
	return store, nil
}

func (a *app) close() {
	if a.backend != nil {
		_ = a.backend.Close()
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMAND TREE
// ══════════════════════════════════════════════════════════════════════════════

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a := &app{
		cfg: cfg,
		in:  bufio.NewReader(stdin),
		out: stdout,
		now: time.Now,
	}
	defer a.close()

	rootFS := flag.NewFlagSet("assessment", flag.ContinueOnError)
	rootFS.SetOutput(stderr)
	rootFS.StringVar(&cfg.Storage.Backend, "store", cfg.Storage.Backend, "storage backend: sqlite, postgres, redis, remote or memory")
	rootFS.StringVar(&cfg.Storage.SQLitePath, "sqlite", cfg.Storage.SQLitePath, "SQLite database file")
	rootFS.StringVar(&cfg.Storage.RemoteURL, "remote", cfg.Storage.RemoteURL, "roster server base URL")
	rootFS.StringVar(&cfg.Export.Dir, "export-dir", cfg.Export.Dir, "directory for exported files")
	rootFS.StringVar(&cfg.Observability.LogLevel, "log-level", cfg.Observability.LogLevel, "debug, info, warn or error")
	_ = rootFS.String("config", "", "config file with one flag per line (optional)")

	root := &ffcli.Command{
		Name:       "assessment",
		ShortUsage: "assessment [flags] <subcommand> [flags] [args...]",
		ShortHelp:  "Grade deliverables per competency band and export the results.",
		FlagSet:    rootFS,
		Options: []ff.Option{
			ff.WithEnvVarPrefix("ASSESSMENT"),
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
		},
		Subcommands: []*ffcli.Command{
			a.addCmd(),
			a.removeCmd(),
			a.gradeCmd(),
			a.commentCmd(),
			a.listCmd(),
			a.showCmd(),
			a.clearCmd(),
			a.exportCSVCmd(),
			a.exportPDFCmd(),
			a.exportSessionCmd(),
			a.importSessionCmd(),
			a.catalogCmd(),
		},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}
	setOutput(root, stderr)

	if err := root.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.log = logger.New(logger.Options{
		Output: stderr,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
		Format: logger.ParseFormat(cfg.Observability.LogFormat),
	}).With(logger.String("service", cfg.App.Name))

	return root.Run(ctx)
}

// setOutput routes usage text of every command to w.
func setOutput(cmd *ffcli.Command, w io.Writer) {
	if cmd.FlagSet == nil {
		cmd.FlagSet = flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
	}
	cmd.FlagSet.SetOutput(w)
	for _, sub := range cmd.Subcommands {
		setOutput(sub, w)
	}
}
