package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/things/internal/app"
	"github.com/sandeepkv93/things/internal/model"
)

func exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole database to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), false, func(a *app.App) error {
				out, err := exportDatabase(a.Store.Snapshot(), format)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml)")
	return cmd
}

// exportDatabase renders db as JSON or YAML. YAML keys follow the JSON
// field names.
func exportDatabase(db model.Database, format string) ([]byte, error) {
	raw, err := model.Encode(db)
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return append(raw, '\n'), nil
	case "yaml", "yml":
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func trashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Manage canceled to-dos",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "empty",
		Short: "Permanently delete canceled to-dos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), false, func(a *app.App) error {
				n := a.Store.EmptyTrash()
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d to-do(s)\n", n)
				return nil
			})
		},
	})
	return cmd
}
