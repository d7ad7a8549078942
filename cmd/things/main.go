package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/things/internal/app"
	"github.com/sandeepkv93/things/internal/config"
)

var Version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "things",
		Short:         "things - a personal task manager for the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file (TOML)")

	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(doneCmd())
	rootCmd.AddCommand(progressCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(notifyCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(trashCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "things:", err)
		os.Exit(1)
	}
}

// withApp opens the application for one command and flushes pending saves
// before returning.
func withApp(ctx context.Context, quiet bool, fn func(a *app.App) error) (err error) {
	cfg, err := config.Load(configPath, ".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a, err := app.Open(ctx, cfg, app.Options{Logger: app.NewLogger(quiet)})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
