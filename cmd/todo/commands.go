package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"todoList/internal/service"
	"todoList/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func (c *cli) addCmd() *cobra.Command {
	var form taskForm

	cmd := &cobra.Command{
		Use:   "add [description]",
		Short: "Add a task",
		Long: `Add a task with a deadline.

When the description is omitted and the terminal is interactive,
a form asks for the description, priority and deadline.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				form.Description = args[0]
			}
			if form.Description == "" && c.interactive() {
				if form.Date == "" {
					form.Date = c.now().Format("2006-01-02")
				}
				if err := runTaskForm(&form, true); err != nil {
					return err
				}
			}

			year, month, day := parseDate(form.Date)
			hour, minute := parseClock(form.Time)

			id, err := c.svc.AddTask(cmd.Context(), form.Description, form.Priority, year, month, day, hour, minute)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Added task %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Priority, "priority", "p", "medium", "priority: low, medium or high")
	cmd.Flags().StringVarP(&form.Date, "date", "d", "", "deadline date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&form.Time, "time", "t", "00:00", "deadline time, HH:MM")
	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	var date, clock string

	cmd := &cobra.Command{
		Use:   "edit <id> [description]",
		Short: "Change the description or deadline of a task",
		Long: `Change the description or deadline of a task.

Omitted values keep their current content. With no description and no
flags in an interactive terminal, a form prefilled with the task opens.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			current, err := c.svc.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}

			form := taskForm{
				Description: current.Description,
				Date:        current.DeadlineDate,
				Time:        current.DeadlineTime,
			}
			if len(args) > 1 {
				form.Description = args[1]
			}
			if cmd.Flags().Changed("date") {
				form.Date = date
			}
			if cmd.Flags().Changed("time") {
				form.Time = clock
			}

			untouched := len(args) == 1 && !cmd.Flags().Changed("date") && !cmd.Flags().Changed("time")
			if untouched && c.interactive() {
				if err := runTaskForm(&form, false); err != nil {
					return err
				}
			}

			year, month, day := parseDate(form.Date)
			hour, minute := parseClock(form.Time)

			if err := c.svc.EditTask(cmd.Context(), id, form.Description, year, month, day, hour, minute); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated task %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "new deadline date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&clock, "time", "t", "", "new deadline time, HH:MM")
	return cmd
}

func (c *cli) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"complete"},
		Short:   "Mark a task as done",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			res, err := c.svc.CompleteTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			if res == service.AlreadyComplete {
				fmt.Fprintf(c.out, "Task %d is already complete\n", id)
				return nil
			}
			fmt.Fprintf(c.out, "Completed task %d\n", id)
			return nil
		},
	}
}

func (c *cli) notesCmd() *cobra.Command {
	var clearNotes, edit bool

	cmd := &cobra.Command{
		Use:   "notes <id> [text]",
		Short: "Show, set or clear the notes of a task",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			switch {
			case clearNotes:
				if err := c.svc.SetNotes(cmd.Context(), id, ""); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Cleared notes of task %d\n", id)

			case len(args) > 1:
				if err := c.svc.SetNotes(cmd.Context(), id, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Saved notes of task %d\n", id)

			case edit:
				if !c.interactive() {
					return errors.New("--edit needs an interactive terminal")
				}
				notes, err := c.svc.GetNotes(cmd.Context(), id)
				if err != nil {
					return err
				}
				if err := runNotesForm(id, &notes); err != nil {
					return err
				}
				if err := c.svc.SetNotes(cmd.Context(), id, notes); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Saved notes of task %d\n", id)

			default:
				notes, err := c.svc.GetNotes(cmd.Context(), id)
				if err != nil {
					return err
				}
				if strings.TrimSpace(notes) == "" {
					fmt.Fprintf(c.out, "Task %d has no notes\n", id)
					return nil
				}
				fmt.Fprintln(c.out, notes)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearNotes, "clear", false, "remove the notes")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "edit the notes in a form")
	cmd.MarkFlagsMutuallyExclusive("clear", "edit")
	return cmd
}

func (c *cli) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task; later tasks move up by one id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := c.svc.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted task %d\n", id)
			return nil
		},
	}
}

func (c *cli) clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all tasks and restart ids from 1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !c.interactive() {
					return errors.New("refusing to delete all tasks without --yes")
				}
				confirmed, err := confirmClear()
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(c.out, "Nothing deleted")
					return nil
				}
			}

			if err := c.svc.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Deleted all tasks")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks ordered by deadline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := c.now()
			if at != "" {
				parsed, err := parseNow(at)
				if err != nil {
					return err
				}
				now = parsed
			}

			v, err := c.svc.GetView(cmd.Context(), now)
			if err != nil {
				return err
			}

			if len(v.Rows) == 0 {
				fmt.Fprintln(c.out, "No tasks")
			} else {
				fmt.Fprintln(c.out, tui.RenderTable(v.Rows, -1))
			}
			fmt.Fprintln(c.out, v.Summary.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "now", "", "evaluate overdue tasks at this moment (RFC3339, converted to local time)")
	return cmd
}

func (c *cli) uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.interactive() {
				return errors.New("ui needs an interactive terminal")
			}
			return tui.Run(cmd.Context(), c.svc)
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// parseNow читает момент в RFC3339; дедлайны хранятся в местном времени
func parseNow(s string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: expected RFC3339", s)
	}
	return parsed.In(time.Local), nil
}

func confirmClear() (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title("Delete all tasks?").
		Description("This cannot be undone. Ids start again from 1.").
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirmed).
		Run()
	return confirmed, err
}
