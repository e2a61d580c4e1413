package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-templfill/internal/cli"
	"github.com/goliatone/go-templfill/pkg/config"
	"github.com/goliatone/go-templfill/pkg/orchestrator"
	"github.com/goliatone/go-templfill/pkg/output"
)

const version = "1.0.3"

var (
	cfg         config.Config
	limitsPath  string
	verbose     bool
	showVersion bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "templfill",
	Short: "Batch template instantiation from declared tokens and value rows",
	Long: `templfill renders one output document per (template, value row) pair,
replacing each declared @TOKEN@ occurrence with the row's corresponding value.

Dry-run is the default; pass -r/--run to actually write files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("02Jan06_150405")
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&cfg.Values, "values", "V", "", "inline semicolon-separated values or a value file path")
	flags.StringVarP(&cfg.Patterns, "patterns", "P", "", `comma-separated patterns in @NAME@ format (e.g. "@HOST@,@IP@")`)
	flags.StringVarP(&cfg.Templates, "templates", "T", "", "template file, directory, or wildcard pattern")
	flags.StringVarP(&cfg.Project, "project", "p", "", "project name (default: project_<pid>)")
	flags.StringVarP(&cfg.OutputDir, "output-dir", "o", "", "output base directory (default: current directory)")
	flags.BoolVarP(&cfg.Run, "run", "r", false, "execute replacement (default is dry-run)")
	flags.BoolVarP(&cfg.Force, "force", "f", false, "warn about missing patterns instead of erroring")
	flags.BoolVar(&cfg.RelaxedCase, "relaxed-case", false, "allow lowercase letters in pattern names")
	flags.BoolVar(&cfg.AllowHyphens, "allow-hyphens", false, "allow hyphens in pattern names")
	flags.StringVar(&limitsPath, "limits", "", "YAML profile overriding the built-in size and count limits")
	flags.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flags.BoolVar(&showVersion, "version", false, "show version and exit")
}

func run(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Fprintf(cmd.OutOrStdout(), "templfill %s\n", version)
		return nil
	}
	if cfg.Patterns == "" || cfg.Values == "" || cfg.Templates == "" {
		return &cli.ExitError{
			Code:    cli.ExitInvalidInput,
			Message: "flags --patterns, --values, and --templates are required",
		}
	}

	limits := config.DefaultLimits()
	if limitsPath != "" {
		var err error
		if limits, err = config.LoadLimits(limitsPath); err != nil {
			return cli.Wrap(err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer := output.NewWriter(orchestrator.OutputDir(cfg), cfg.Run, limits, logger)
	orch := orchestrator.New(
		orchestrator.WithLogger(logger),
		orchestrator.WithWriter(writer),
	)

	logger.Info("starting templfill",
		zap.String("version", version),
		zap.String("output_dir", writer.Dir()),
		zap.Bool("run", cfg.Run),
		zap.Bool("force", cfg.Force))

	report, err := orch.Run(ctx, orchestrator.Request{Config: cfg, Limits: limits})
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("process interrupted")
			writer.ConfirmCleanup()
			return &cli.ExitError{Code: cli.ExitInterrupted, Message: "interrupted"}
		}
		return cli.Wrap(err)
	}

	if report.Failed > 0 {
		return &cli.ExitError{
			Code:    cli.ExitProcessingError,
			Message: fmt.Sprintf("completed with %d failure(s), %d success(es)", report.Failed, report.Succeeded),
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitInvalidInput)
	}
}
