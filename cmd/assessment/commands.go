package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/alem-hub/assessment-hub/internal/application/roster"
	"github.com/alem-hub/assessment-hub/internal/domain/shared"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

func (a *app) addCmd() *ffcli.Command {
	return &ffcli.Command{
		Name:       "add",
		ShortUsage: "assessment add <name>",
		ShortHelp:  "Add a student to the roster.",
		Exec: func(ctx context.Context, args []string) error {
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			id, err := store.AddStudent(ctx, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %s (%s), %d/%d students.\n",
				strings.TrimSpace(name), id, store.Len(), student.MaxStudents)
			return nil
		},
	}
}

func (a *app) removeCmd() *ffcli.Command {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "do not ask for confirmation")

	return &ffcli.Command{
		Name:       "remove",
		ShortUsage: "assessment remove [-yes] <student>",
		ShortHelp:  "Remove a student and all of their grades.",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			s, err := resolveStudent(store, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if !*yes {
				ok, err := a.confirm(fmt.Sprintf("Really remove %s?", s.Name))
				if err != nil || !ok {
					return err
				}
			}
			if err := store.RemoveStudent(ctx, s.ID); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed %s.\n", s.Name)
			return nil
		},
	}
}

func (a *app) gradeCmd() *ffcli.Command {
	return &ffcli.Command{
		Name:       "grade",
		ShortUsage: "assessment grade <student> <deliverable> <1-6|clear>",
		ShortHelp:  "Record or clear the grade of one deliverable.",
		LongHelp: "Grades are Swiss grades between 1 and 6; a decimal comma is accepted.\n" +
			"\"clear\" removes the grade so it no longer counts towards any average.",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 3 {
				return flag.ErrHelp
			}
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			s, err := resolveStudent(store, args[0])
			if err != nil {
				return err
			}
			deliverable := strings.ToUpper(args[1])

			if strings.EqualFold(args[2], "clear") {
				if err := store.ClearGrade(ctx, s.ID, deliverable); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Cleared %s for %s.\n", deliverable, s.Name)
				return nil
			}

			value, err := parseGrade(args[2])
			if err != nil {
				return err
			}
			if err := store.SetGrade(ctx, s.ID, deliverable, value); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s: %s\n", s.Name, deliverable, formatGrade(value))
			return nil
		},
	}
}

func (a *app) commentCmd() *ffcli.Command {
	return &ffcli.Command{
		Name:       "comment",
		ShortUsage: "assessment comment <student> <deliverable> [text...]",
		ShortHelp:  "Set the comment of one deliverable; no text clears it.",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return flag.ErrHelp
			}
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			s, err := resolveStudent(store, args[0])
			if err != nil {
				return err
			}
			deliverable := strings.ToUpper(args[1])
			text := strings.Join(args[2:], " ")

			if err := store.SetComment(ctx, s.ID, deliverable, text); err != nil {
				return err
			}
			if text == "" {
				fmt.Fprintf(a.out, "Cleared comment %s for %s.\n", deliverable, s.Name)
			} else {
				fmt.Fprintf(a.out, "Saved comment %s for %s.\n", deliverable, s.Name)
			}
			return nil
		},
	}
}

func (a *app) clearCmd() *ffcli.Command {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "do not ask for confirmation")

	return &ffcli.Command{
		Name:       "clear",
		ShortUsage: "assessment clear [-yes]",
		ShortHelp:  "Delete all students and grades.",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if !*yes {
				for _, prompt := range []string{
					"WARNING: Really delete all data? This cannot be undone.",
					"Are you sure? All students and grades will be deleted.",
				} {
					ok, err := a.confirm(prompt)
					if err != nil || !ok {
						return err
					}
				}
			}
			n := store.Len()
			if err := store.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %d students.\n", n)
			return nil
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// resolveStudent finds a student by id, exact name, or a case-insensitive
// name that matches exactly one student.
func resolveStudent(store *roster.Store, ref string) (student.Student, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return student.Student{}, shared.ErrStudentNotFound
	}
	if s, ok := store.Get(student.ID(ref)); ok {
		return s, nil
	}
	if s, ok := store.FindByName(ref); ok {
		return s, nil
	}

	var matches []student.Student
	for _, s := range store.Students() {
		if strings.EqualFold(s.Name, ref) {
			matches = append(matches, s)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return student.Student{}, shared.WrapError("roster", "Find", shared.ErrNotFound,
		fmt.Sprintf("no student %q", ref), nil)
}

// parseGrade accepts "4.5" and "4,5".
func parseGrade(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
	if err != nil {
		return 0, shared.WrapError("roster", "SetGrade", shared.ErrInvalidInput,
			fmt.Sprintf("%q is not a grade", s), nil)
	}
	return v, nil
}

// confirm asks a yes/no question; anything but y/yes/j/ja is a no.
func (a *app) confirm(prompt string) (bool, error) {
	fmt.Fprintf(a.out, "%s [y/N] ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(a.out)
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "j", "ja":
		return true, nil
	}
	fmt.Fprintln(a.out, "Aborted.")
	return false, nil
}
