package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/schooldash/core/attendance"
	"github.com/trezcool/schooldash/core/calendar"
	"github.com/trezcool/schooldash/core/user"
)

const defaultSchoolID = "s1"

// reverse video, used to highlight today
const (
	highlightOn  = "\x1b[7m"
	highlightOff = "\x1b[0m"
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

type commandLine struct {
	out         io.Writer
	isTerminal  bool
	userSvc     *user.Service
	calendarSvc *calendar.Service
	schoolID    string
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Inspect the school dashboard fixtures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(cli.out)
	root.AddCommand(cli.calendarCmd(), cli.usersCmd(), cli.cycleCmd())
	return root
}

// run executes args, including the program name.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) school() string {
	if cli.schoolID != "" {
		return cli.schoolID
	}
	return defaultSchoolID
}

func (cli *commandLine) calendarCmd() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month grid of the school's events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			curr := calendar.MonthOf(cli.calendarSvc.Now())
			if !cmd.Flags().Changed("year") {
				year = curr.Year
			}
			if !cmd.Flags().Changed("month") {
				month = curr.Month + 1
			}
			if month < 1 || month > 12 {
				return errors.Errorf("month must be between 1 and 12 (got %d)", month)
			}
			grid, err := cli.calendarSvc.Month(context.Background(), cli.school(), year, month-1)
			if err != nil {
				return err
			}
			cli.printGrid(grid)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year, defaults to the current one")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12, defaults to the current one")
	return cmd
}

// printGrid prints the weeks of the grid followed by the events of the month.
func (cli *commandLine) printGrid(grid calendar.Grid) {
	_, _ = fmt.Fprintf(cli.out, "%s\n", grid.Month)
	_, _ = fmt.Fprintln(cli.out, strings.Join(calendar.Weekdays, " "))

	var line strings.Builder
	for i, c := range grid.Cells {
		if i > 0 && i%len(calendar.Weekdays) == 0 {
			_, _ = fmt.Fprintln(cli.out, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
		cell := "   "
		if !c.Blank {
			mark := " "
			if len(c.Events) > 0 {
				mark = "*"
			}
			cell = fmt.Sprintf("%2d%s", c.Day, mark)
			if c.IsToday && cli.isTerminal {
				cell = highlightOn + cell + highlightOff
			}
		}
		line.WriteString(cell + " ")
	}
	_, _ = fmt.Fprintln(cli.out, strings.TrimRight(line.String(), " "))

	for _, c := range grid.Days() {
		for _, e := range c.Events {
			_, _ = fmt.Fprintf(cli.out, "%s  %-8s  %s\n", e.Date, e.Type, e.Title)
		}
	}
}

func (cli *commandLine) usersCmd() *cobra.Command {
	var search string
	var roles []string
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List the school's users",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			filter := user.QueryFilter{Search: search, SchoolID: cli.school()}
			for _, r := range roles {
				role := user.Role(strings.ToUpper(r))
				if !role.IsValid() {
					return errors.Errorf("unknown role %q", r)
				}
				filter.Roles = append(filter.Roles, role)
			}
			filter.Clean()

			users, err := cli.userSvc.Query(context.Background(), filter, nil)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
			for _, u := range users {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive match on name or email")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "ADMIN, PROFESSOR or STUDENT; repeatable")
	return cmd
}

func (cli *commandLine) cycleCmd() *cobra.Command {
	var times int
	cmd := &cobra.Command{
		Use:   "cycle STATUS",
		Short: "Print the attendance statuses a click cycles through",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			status := attendance.Status(strings.ToUpper(args[0]))
			if !status.IsValid() {
				return errors.Errorf("unknown status %q", args[0])
			}
			if times < 1 {
				return errors.Errorf("times must be positive (got %d)", times)
			}
			steps := []string{string(status)}
			for i := 0; i < times; i++ {
				status = status.Next()
				steps = append(steps, string(status))
			}
			_, _ = fmt.Fprintln(cli.out, strings.Join(steps, " -> "))
			return nil
		},
	}
	cmd.Flags().IntVar(&times, "times", len(attendance.Statuses), "number of clicks")
	return cmd
}
