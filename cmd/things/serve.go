package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/things/internal/app"
	"github.com/sandeepkv93/things/internal/model"
	"github.com/sandeepkv93/things/internal/server"
	"github.com/sandeepkv93/things/internal/urlscheme"
)

func serveCmd() *cobra.Command {
	var (
		addr  string
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for scripts, widgets and push handoff",
		Long: `Start the HTTP API.

Examples:
  things serve
  things serve --addr :8484
  curl -X POST localhost:8484/api/open -d '{"url":"things4:///add?title=Milk"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !debug {
				gin.SetMode(gin.ReleaseMode)
			}
			return withApp(cmd.Context(), false, func(a *app.App) error {
				listen := addr
				if listen == "" {
					listen = a.Config.HTTPAddr
				}
				srv := server.New(a.Store, server.Options{
					Notifier:    a,
					WidgetLimit: a.Config.WidgetLimit,
					Logger:      a.Logger,
					AccessLog:   true,
				})
				return srv.Run(cmd.Context(), listen)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&debug, "debug", false, "gin debug mode")
	return cmd
}

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open [url]",
		Short: "Handle a " + urlscheme.Scheme + ":// link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), false, func(a *app.App) error {
				if id, ok := urlscheme.ShowTarget(args[0]); ok {
					t, err := a.Store.Task(id)
					if err != nil {
						return err
					}
					printTasks(cmd.OutOrStdout(), []model.Task{t}, a.Location)
					return nil
				}
				if !a.Store.OpenURL(args[0]) {
					return fmt.Errorf("link not handled: %s", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			})
		},
	}
}

func notifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify [payload-json]",
		Short: "Reload from the remote store as if a change notification arrived",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{}
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				if err := json.Unmarshal([]byte(args[0]), &payload); err != nil {
					return fmt.Errorf("payload must be a JSON object: %w", err)
				}
			}
			return withApp(cmd.Context(), false, func(a *app.App) error {
				if !a.HandleRemoteNotification(cmd.Context(), payload) {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing reloaded")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "reloaded")
				return nil
			})
		},
	}
}
