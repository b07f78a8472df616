package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User commands",
	}
	cmd.AddCommand(newUsersCreateCmd(app))
	return cmd
}

func newUsersCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a user (a no-op if the user exists)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name == "" {
				return writeErr(cmd, errors.New("users create: empty name"))
			}
			c, cfg, closeLog, err := app.client(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = closeLog() }()

			ctx, cancel := withTimeout(cmd.Context(), cfg.Timeout)
			defer cancel()
			if err := c.CreateUser(ctx, name); err != nil {
				return writeErr(cmd, remoteErr(c, "user", name, err))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"name": name}})
		},
	}
}
