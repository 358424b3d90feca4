package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dendrocli/internal/config"
	apperrors "dendrocli/internal/errors"
	"dendrocli/internal/infrastructure"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every subcommand needs once the root command has loaded configuration
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
	stderr io.Writer
}

// usageError marks bad arguments or flags
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// run executes the command line and returns the process exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	ctx = infrastructure.EnsureRunID(ctx)
	a := &app{stderr: stderr}
	handler := apperrors.NewErrorHandler(slog.New(slog.NewTextHandler(stderr, nil)), false)

	defer func() {
		if r := recover(); r != nil {
			code, _ = a.errorHandler(handler).HandlePanic(ctx, r)
		}
	}()
	defer infrastructure.CloseLogFile()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return apperrors.ExitOK
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if _, ok := err.(*usageError); ok {
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", config.AppName)
		return apperrors.ExitUsage
	}
	return a.errorHandler(handler).HandleError(ctx, err)
}

// errorHandler prefers the configured logger once it exists
func (a *app) errorHandler(fallback *apperrors.ErrorHandler) *apperrors.ErrorHandler {
	if a.logger == nil {
		return fallback
	}
	return apperrors.NewErrorHandler(a.logger, a.cfg.Logging.Level == "debug")
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Read, align and export tree-ring width series",
		Long: `dendro reads tree-ring measurement files (RWL/Tucson, CSV, XLSX) and
aligns every series onto a common calendar-year axis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file (default dendro.yaml or configs/dendro.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the log level: debug, info, warn, error")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(
		newReadCmd(a),
		newExportCmd(a),
		newSummaryCmd(a),
		newBatchCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger
func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return &usageError{err: err}
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return &usageError{err: fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)}
		}
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging, a.stderr); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = infrastructure.LoggerWithContext(ctx)
	a.logger.Debug("Configuration loaded",
		slog.String("config_file", a.configPath),
		slog.String("log_level", cfg.Logging.Level),
		slog.Float64("scale", cfg.Parse.Scale))
	return nil
}

// exactArgs reports a wrong argument count as a usage error
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
