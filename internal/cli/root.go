// Package cli provides the command-line interface for shapekit.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reoring/shapekit/i18n"
	"github.com/reoring/shapekit/internal/config"
)

// Version information (set at build time).
var Version = "0.1.0"

// app is the state shared by the commands of one root command.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger

	// newLogger builds the logger once config is known; tests replace it.
	newLogger func(verbose bool) (*zap.Logger, error)
}

func productionLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{newLogger: productionLogger})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shapekit",
		Short: "shapekit - structural validation and CRUD scaffolding",
		Long: `shapekit checks untyped JSON/YAML values against shape rules (numeric
tensors, flat records, training metrics, model configs) and generates Go
types and an HTTP controller from an entity schema.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			i18n.SetLanguage(cfg.Language)

			logger, err := a.newLogger(cfg.Verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			if cfg.File != "" {
				logger.Debug("using config file", zap.String("path", cfg.File))
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./shapekit.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output directory for generated files")
	rootCmd.PersistentFlags().String("language", "", "Message language (en|ja)")

	rootCmd.AddCommand(newGenerateCommand(a))
	rootCmd.AddCommand(newValidateCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shapekit %s\n", Version)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return execute(NewRootCmd(), os.Args[1:], os.Stderr)
}

func execute(rootCmd *cobra.Command, args []string, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
