// Package cli implements the interpolate command.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tmplkit/interpolate"
	"github.com/tmplkit/interpolate/config"
)

// app carries the state shared by subcommands once the root has loaded the
// configuration.
type app struct {
	cfgPath  string
	logLevel string

	cfg    *config.Config
	engine *interpolate.Engine
	logger *slog.Logger
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		st := newStyles(os.Stderr)
		fmt.Fprintln(os.Stderr, st.err.Render("error:"), err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "interpolate",
		Short:         "Substitute {{ expression | filter }} placeholders in text",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "", "config yaml path")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(
		newRenderCmd(a),
		newValueCmd(a),
		newValuesCmd(a),
		newPropsCmd(a),
		newCheckCmd(a),
		newFiltersCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup loads the configuration and builds the logger and engine.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	level := a.cfg.Logging.Level
	if strings.TrimSpace(a.logLevel) != "" {
		level = a.logLevel
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	a.rebuildEngine()
	return nil
}

func (a *app) loadConfig() error {
	path := strings.TrimSpace(a.cfgPath)
	if path == "" {
		a.cfg = config.Default()
		return nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) rebuildEngine() {
	a.engine = a.cfg.NewEngine()
	a.engine.SetLogger(a.logger)
}

// reload re-reads the configuration file, keeping the current logger.
func (a *app) reload() error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	a.rebuildEngine()
	return nil
}
