package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"checklist-cli/internal/config"
	"checklist-cli/internal/format"
	"checklist-cli/internal/logging"
	"checklist-cli/internal/remote"
	"checklist-cli/internal/tui"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	envURL         = "CHECKLIST_URL"
	envConfig      = "CHECKLIST_CONFIG"
	envTimeout     = "CHECKLIST_TIMEOUT"
	envSelectDelay = "CHECKLIST_SELECT_DELAY"
	envLog         = "CHECKLIST_LOG"
	envLogLevel    = "CHECKLIST_LOG_LEVEL"
	envFormat      = "CHECKLIST_FORMAT"
	envTheme       = "CHECKLIST_TUI_THEME"
)

type App struct {
	URL         string
	ConfigPath  string
	Timeout     time.Duration
	SelectDelay time.Duration
	LogPath     string
	LogLevel    string
	PrettyJSON  bool
	Format      string

	// envErrs collects unparsable duration env vars; reported on first use.
	envErrs []error
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "checklist",
		Short:        "Per-user checklists kept in sync with a task server",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI against a local task server
  checklist --url http://localhost:3000

  # Run a development task server
  checklist serve --addr 127.0.0.1:3000

  # Scriptable commands
  checklist names
  checklist tasks alice
  checklist users create carol
  checklist toggle 1
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.URL, "url", envOr(envURL, config.DefaultURL), "Task server base URL")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr(envConfig, ""), "Config file (default ~/.checklist/config.toml)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", app.envDuration(envTimeout, config.DefaultTimeout), "Per-request timeout")
	cmd.PersistentFlags().DurationVar(&app.SelectDelay, "select-delay", app.envDuration(envSelectDelay, 0), "Select a created user after this fixed delay instead of on completion (0 = on completion)")
	cmd.PersistentFlags().StringVar(&app.LogPath, "log", envOr(envLog, ""), "Log file (TUI logs are discarded without one)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr(envLogLevel, "info"), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr(envFormat, "json"), "Output format (json|edn)")

	cmd.AddCommand(newNamesCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, err := app.settings(cmd)
	if err != nil {
		return writeErr(cmd, err)
	}
	logger, closeLog, err := logging.Open(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() { _ = closeLog() }()

	client, err := remote.New(cfg.URL, remote.WithLogger(logger))
	if err != nil {
		return writeErr(cmd, err)
	}
	logger.Info("starting tui", "url", client.BaseURL(), "selectDelay", cfg.SelectDelay)
	return tui.Run(tui.Config{
		Store:       client,
		BaseURL:     client.BaseURL(),
		Timeout:     cfg.Timeout,
		UnlockDelay: cfg.UnlockDelay,
		SelectDelay: cfg.SelectDelay,
		Logger:      logger,
		Theme:       cfg.TUI.Theme,
	})
}

// settings merges flags > env > config file > defaults.
func (app *App) settings(cmd *cobra.Command) (config.Config, error) {
	if len(app.envErrs) > 0 {
		return config.Config{}, app.envErrs[0]
	}

	path := strings.TrimSpace(app.ConfigPath)
	explicit := path != ""
	if !explicit {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	cfg, found, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if explicit && !found {
		return cfg, fmt.Errorf("config file not found: %s", path)
	}

	set := func(flag, env string) bool {
		return cmd.Flags().Changed(flag) || os.Getenv(env) != ""
	}
	if set("url", envURL) {
		cfg.URL = app.URL
	}
	if set("timeout", envTimeout) {
		cfg.Timeout = app.Timeout
	}
	if set("select-delay", envSelectDelay) {
		cfg.SelectDelay = app.SelectDelay
	}
	if set("log", envLog) {
		cfg.LogFile = app.LogPath
	}
	if set("log-level", envLogLevel) {
		cfg.LogLevel = app.LogLevel
	}
	if v := strings.TrimSpace(os.Getenv(envTheme)); v != "" {
		cfg.TUI.Theme = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// client builds a remote client for one-shot commands. Logs go to stderr
// at warn level unless a log file is configured.
func (app *App) client(cmd *cobra.Command) (*remote.Client, config.Config, func() error, error) {
	cfg, err := app.settings(cmd)
	if err != nil {
		return nil, cfg, nil, err
	}
	var logger *log.Logger
	closeLog := func() error { return nil }
	if cfg.LogFile != "" {
		logger, closeLog, err = logging.Open(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
		if err != nil {
			return nil, cfg, nil, err
		}
	} else {
		logger = logging.New(cmd.ErrOrStderr(), log.WarnLevel, "checklist")
	}
	c, err := remote.New(cfg.URL, remote.WithLogger(logger))
	if err != nil {
		_ = closeLog()
		return nil, cfg, nil, err
	}
	return c, cfg, closeLog, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func (app *App) envDuration(k string, d time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		app.envErrs = append(app.envErrs, fmt.Errorf("%s: %w", k, err))
		return d
	}
	return parsed
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
