package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"checklist-cli/internal/memstore"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var seed string
	var dev bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory task server (development)",
		Long: strings.TrimSpace(`
Run an in-memory task server speaking the same HTTP contract the TUI consumes.

Nothing is persisted: every restart begins from the seed file (or the built-in
template) with no users unless the seed lists some.
`),
		Example: strings.TrimSpace(`
# Serve on the client's default URL
checklist serve --addr 127.0.0.1:3000

# Start with users and a custom task template
checklist serve --seed ./seed.toml
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve: missing --addr"))
			}

			logger, err := newServerLogger(dev)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = logger.Sync() }()

			srv, err := memstore.NewServer(memstore.ServerConfig{Addr: listenAddr, SeedPath: seed}, logger)
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"users":     srv.Store().Names(),
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Task server running at %s\n", url)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Serve(ctx, ln); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3000", "Bind address (host:port or :port)")
	cmd.Flags().StringVar(&seed, "seed", envOr("CHECKLIST_SEED", ""), "TOML seed file (template tasks and initial users)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Human-readable server logs")
	return cmd
}

func newServerLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
