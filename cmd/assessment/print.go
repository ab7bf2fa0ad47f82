package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/alem-hub/assessment-hub/internal/domain/assessment"
	"github.com/alem-hub/assessment-hub/internal/domain/catalog"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LISTING COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

func (a *app) listCmd() *ffcli.Command {
	return &ffcli.Command{
		Name:       "list",
		ShortUsage: "assessment list",
		ShortHelp:  "List students with their graded count and Swiss grade.",
		Exec: func(ctx context.Context, args []string) error {
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			students := store.Students()
			if len(students) == 0 {
				fmt.Fprintln(a.out, "No students yet.")
				return nil
			}

			c := store.Catalog()
			tw := newTable(a.out)
			fmt.Fprintln(tw, "#\tNAME\tID\tGRADED\tSWISS GRADE")
			for i, s := range students {
				eval := assessment.Evaluate(s, c)
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d/%d\t%s\n",
					i+1, s.Name, s.ID, gradedCount(s, c), c.Len(), overallText(eval))
			}
			fmt.Fprintf(tw, "\t%d/%d students\t\t\t\n", len(students), student.MaxStudents)
			return tw.Flush()
		},
	}
}

func (a *app) showCmd() *ffcli.Command {
	return &ffcli.Command{
		Name:       "show",
		ShortUsage: "assessment show <student>",
		ShortHelp:  "Show grades, comments, band averages and the Swiss grade of one student.",
		Exec: func(ctx context.Context, args []string) error {
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			s, err := resolveStudent(store, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printStudent(a.out, s, store.Catalog())
		},
	}
}

func (a *app) catalogCmd() *ffcli.Command {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	bands := fs.Bool("bands", false, "print the skill matrix instead of the deliverables")

	return &ffcli.Command{
		Name:       "catalog",
		ShortUsage: "assessment catalog [-bands]",
		ShortHelp:  "Print the deliverable catalog or the competency band matrix.",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			c := catalog.Default()
			if *bands {
				return printMatrix(a.out, c)
			}
			return printCatalog(a.out, c)
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// FORMATTING
// ══════════════════════════════════════════════════════════════════════════════

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printStudent(w io.Writer, s student.Student, c *catalog.Catalog) error {
	eval := assessment.Evaluate(s, c)

	fmt.Fprintf(w, "%s (%s)\n", s.Name, s.ID)
	fmt.Fprintf(w, "Swiss grade: %s\n", overallText(eval))

	tw := newTable(w)
	for _, p := range catalog.Phases() {
		fmt.Fprintf(tw, "\n%s Phase\t\t\t\t\n", p)
		for _, d := range c.ByPhase(p) {
			grade := "-"
			if v, ok := s.Grade(d.ID); ok {
				grade = formatGrade(v)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Title, d.Band, grade, s.Comment(d.ID))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nCompetency bands")
	tw = newTable(w)
	for _, b := range catalog.Bands() {
		avg := eval.Band(b)
		average, level := "-", "-"
		if avg.Graded {
			average = strconv.FormatFloat(avg.Average, 'f', 2, 64)
			level = string(avg.Level)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b, c.BandName(b), average, level)
	}
	return tw.Flush()
}

func printCatalog(w io.Writer, c *catalog.Catalog) error {
	tw := newTable(w)
	for _, p := range catalog.Phases() {
		fmt.Fprintf(tw, "%s Phase\t\t\n", p)
		for _, d := range c.ByPhase(p) {
			fmt.Fprintf(tw, "  %s\t%s\tband %s\n", d.ID, d.Title, d.Band)
		}
	}
	return tw.Flush()
}

func printMatrix(w io.Writer, c *catalog.Catalog) error {
	for _, b := range catalog.Bands() {
		e, ok := c.SkillMatrix(b)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "Band %s: %s\n", b, e.Name)
		for _, l := range catalog.SkillLevels() {
			fmt.Fprintf(w, "  %s  %s\n", l.Abbrev(), e.Describe(l))
		}
	}
	return nil
}

// gradedCount counts grades of catalog deliverables only.
func gradedCount(s student.Student, c *catalog.Catalog) int {
	n := 0
	for id := range s.Grades {
		if c.Has(id) {
			n++
		}
	}
	return n
}

func overallText(e assessment.Evaluation) string {
	if !e.HasOverall {
		return "-"
	}
	return formatGrade(e.Overall)
}

func formatGrade(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
