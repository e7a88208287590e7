// Package cli implements the cobra command tree for cra-watch.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/viankakrisna/create-react-app-extra/internal/config"
	"github.com/viankakrisna/create-react-app-extra/internal/logging"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			// Commands that already explained the failure return a bare code.
			if exitErr.Err != nil {
				_, _ = fmt.Fprintln(os.Stderr, "Error:", exitErr.Err)
			}

			return exitErr.Code
		}

		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)

		return 1
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached. Without a subcommand it runs a watch session.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "cra-watch",
		Short: "Build a create-react-app project in watch mode",
		Long: `cra-watch compiles a create-react-app style project into build/ and
keeps recompiling it while you edit.

After every compilation it removes stale files from build/, copies the
public folder next to the compiled assets and prints the gzipped size of
each script and stylesheet together with the change since the last
successful build. Use it when the assets are served by your own back-end;
for a development server use the start script instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.Setup(cfg)

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.String("appDir", cfg.AppDir),
				slog.String("mode", cfg.Mode),
				slog.String("configFile", cfg.ConfigFile),
				slog.Any("envFiles", cfg.EnvFiles),
			)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .cra-watch.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.String("app-dir", ".", "application root containing public/ and src/")

	registerWatchFlags(cmd)

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	// Register subcommands.
	cmd.AddCommand(
		newVersionCommand(),
		newWatchCommand(),
		newSizesCommand(),
		newCompletionCommand(),
	)

	registerFlagCompletions(cmd)

	return cmd
}
