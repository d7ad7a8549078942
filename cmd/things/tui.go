package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/things/internal/app"
	"github.com/sandeepkv93/things/internal/scheduler"
	"github.com/sandeepkv93/things/internal/update"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive task manager (default)",
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, true, func(a *app.App) error {
		engine := scheduler.NewEngine(a.Config.SchedulerBuffer)
		engine.Start()
		defer engine.Stop()

		m := update.NewModel(a.Store, update.Options{
			Scheduler: engine,
			Keys:      a.Config.Keys,
			Sync:      func() error { return a.Sync(ctx) },
		})
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	})
}
