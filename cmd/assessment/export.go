package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/pkg/errors"

	"github.com/alem-hub/assessment-hub/internal/application/session"
	"github.com/alem-hub/assessment-hub/internal/domain/shared"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
	"github.com/alem-hub/assessment-hub/internal/infrastructure/report"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

func (a *app) exportCSVCmd() *ffcli.Command {
	fs := flag.NewFlagSet("export-csv", flag.ContinueOnError)
	out := fs.String("o", "", "output file (default: <export-dir>/assessment-export-YYYY-MM-DD.csv)")

	return &ffcli.Command{
		Name:       "export-csv",
		ShortUsage: "assessment export-csv [-o file]",
		ShortHelp:  "Export all students with grades, comments and band averages as CSV.",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := report.WriteCSV(&buf, store.Students(), store.Catalog()); err != nil {
				return err
			}
			return a.writeFile(a.target(*out, report.CSVFileName(a.now())), buf.Bytes())
		},
	}
}

func (a *app) exportPDFCmd() *ffcli.Command {
	fs := flag.NewFlagSet("export-pdf", flag.ContinueOnError)
	out := fs.String("o", "", "output file (single student only)")
	all := fs.Bool("all", false, "export one report per student")

	return &ffcli.Command{
		Name:       "export-pdf",
		ShortUsage: "assessment export-pdf [-o file] <student> | -all",
		ShortHelp:  "Export the individual assessment report as PDF.",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			var targets []student.Student
			if *all {
				targets = store.Students()
				if len(targets) == 0 {
					return shared.ErrNothingToExport
				}
			} else {
				s, err := resolveStudent(store, strings.Join(args, " "))
				if err != nil {
					return err
				}
				targets = []student.Student{s}
			}

			now := a.now()
			names := report.PDFFileNames(targets, now)
			for i, s := range targets {
				var buf bytes.Buffer
				if err := report.WritePDF(&buf, s, store.Catalog(), now); err != nil {
					return err
				}
				path := a.target("", names[i])
				if !*all {
					path = a.target(*out, names[i])
				}
				if err := a.writeFile(path, buf.Bytes()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) exportSessionCmd() *ffcli.Command {
	fs := flag.NewFlagSet("export-session", flag.ContinueOnError)
	out := fs.String("o", "", "output file (default: <export-dir>/session-YYYY-MM-DD.json)")

	return &ffcli.Command{
		Name:       "export-session",
		ShortUsage: "assessment export-session [-o file]",
		ShortHelp:  "Save the whole roster as a session file.",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			now := a.now()
			var buf bytes.Buffer
			if err := session.Encode(&buf, session.Export(store.Students(), now)); err != nil {
				return err
			}
			return a.writeFile(a.target(*out, session.FileName(now)), buf.Bytes())
		},
	}
}

func (a *app) importSessionCmd() *ffcli.Command {
	return &ffcli.Command{
		Name:       "import-session",
		ShortUsage: "assessment import-session <file>",
		ShortHelp:  "Replace the roster with the students of a session file.",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return flag.ErrHelp
			}
			f, err := os.Open(args[0])
			if err != nil {
				return shared.WrapError("session", "Import", shared.ErrExportIO,
					"could not open session file", errors.Wrap(err, "open"))
			}
			defer f.Close()

			students, err := session.ReadFrom(f)
			if err != nil {
				return err
			}
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if err := store.ReplaceAll(ctx, students); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Session imported: %d students.\n", len(students))
			return nil
		},
	}
}

// target resolves an explicit -o path or a default name inside the export dir.
func (a *app) target(explicit, defaultName string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(a.cfg.Export.Dir, defaultName)
}

// writeFile writes data to path, creating parent directories.
func (a *app) writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return shared.WrapError("export", "Write", shared.ErrExportIO,
				"could not create export directory", errors.Wrap(err, dir))
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return shared.WrapError("export", "Write", shared.ErrExportIO,
			"could not write export file", errors.Wrap(err, path))
	}
	fmt.Fprintf(a.out, "Wrote %s\n", path)
	return nil
}
