package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/things/internal/app"
	"github.com/sandeepkv93/things/internal/commands"
	"github.com/sandeepkv93/things/internal/model"
	"github.com/sandeepkv93/things/internal/store"
	"github.com/sandeepkv93/things/internal/workflow"
)

func addCmd() *cobra.Command {
	var (
		notes     string
		when      string
		deadline  string
		project   string
		area      string
		tags      []string
		checklist []string
	)
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a to-do",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), false, func(a *app.App) error {
				draft := store.TaskDraft{
					Title:     strings.Join(args, " "),
					Notes:     notes,
					Tags:      tags,
					Checklist: checklist,
				}
				if when != "" {
					w, err := commands.ParseWhen(when, a.Store.Now())
					if err != nil {
						return err
					}
					draft.StartDate, draft.Someday, draft.Evening = w.Start, w.Someday, w.Evening
				}
				if deadline != "" {
					d, err := time.ParseInLocation(time.DateOnly, deadline, a.Location)
					if err != nil {
						return fmt.Errorf("deadline must be YYYY-MM-DD: %w", err)
					}
					draft.Deadline = &d
				}
				db := a.Store.Snapshot()
				if project != "" {
					p, ok := db.ProjectByTitle(project)
					if !ok {
						return fmt.Errorf("no project named %q", project)
					}
					draft.ProjectID = &p.ID
				}
				if area != "" {
					ar, ok := db.AreaByTitle(area)
					if !ok {
						return fmt.Errorf("no area named %q", area)
					}
					draft.AreaID = &ar.ID
				}
				task, err := a.Store.AddTask(draft)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), task.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "notes (markdown)")
	cmd.Flags().StringVarP(&when, "when", "w", "", "today, tonight, tomorrow, someday, YYYY-MM-DD, N days")
	cmd.Flags().StringVarP(&deadline, "deadline", "d", "", "deadline (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&project, "project", "p", "", "project title")
	cmd.Flags().StringVarP(&area, "area", "a", "", "area title")
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "tag names")
	cmd.Flags().StringSliceVar(&checklist, "checklist", nil, "checklist items")
	return cmd
}

func listCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list [list|project|area]",
		Short: "Print the to-dos of a list, project or area",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := string(workflow.ListToday)
			if len(args) == 1 {
				subject = args[0]
			}
			return withApp(cmd.Context(), false, func(a *app.App) error {
				tasks, err := tasksFor(a.Store, subject)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(tasks)
				}
				printTasks(cmd.OutOrStdout(), tasks, a.Location)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	return cmd
}

func tasksFor(st *store.Store, subject string) ([]model.Task, error) {
	if l, ok := workflow.ParseList(subject); ok {
		return st.Tasks(l), nil
	}
	db := st.Snapshot()
	if p, ok := db.ProjectByTitle(subject); ok {
		return st.ProjectTasks(p.ID), nil
	}
	if ar, ok := db.AreaByTitle(subject); ok {
		return st.AreaTasks(ar.ID), nil
	}
	return nil, fmt.Errorf("no list, project or area named %q", subject)
}

func printTasks(w io.Writer, tasks []model.Task, loc *time.Location) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "(nothing here)")
		return
	}
	for i, t := range tasks {
		mark := " "
		switch {
		case t.IsCompleted():
			mark = "x"
		case t.IsCanceled():
			mark = "-"
		}
		line := fmt.Sprintf("%2d. [%s] %s", i+1, mark, t.Title)
		if t.Deadline != nil {
			line += "  due " + t.Deadline.In(loc).Format("Jan 2")
		}
		fmt.Fprintf(w, "%s  (%s)\n", line, t.ID)
	}
}

func doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [task-id]",
		Short: "Complete a to-do, or reopen a completed one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), false, func(a *app.App) error {
				res, err := a.Store.ToggleCompletion(args[0])
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no task with id %q", args[0])
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !res.Completed {
					fmt.Fprintln(out, "reopened")
					return nil
				}
				fmt.Fprintln(out, "completed")
				if res.Spawned != nil && res.Spawned.StartDate != nil {
					fmt.Fprintf(out, "next: %s (%s)\n", res.Spawned.StartDate.In(a.Location).Format(time.DateOnly), res.Spawned.ID)
				}
				return nil
			})
		},
	}
}

func progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress [project]",
		Short: "Show how much of a project is done",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return withApp(cmd.Context(), false, func(a *app.App) error {
				p, ok := a.Store.Snapshot().ProjectByTitle(title)
				if !ok {
					return fmt.Errorf("no project named %q", title)
				}
				progress, err := a.Store.Progress(p.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d%%\n", p.Title, int(progress*100))
				return nil
			})
		},
	}
}
