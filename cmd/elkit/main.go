package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/elkit/internal/config"
	"github.com/vango-dev/elkit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if e, ok := err.(*errors.Error); ok {
			fmt.Fprint(os.Stderr, e.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "elkit",
		Short: "Build HTML element trees from declarative layouts",
		Long: `elkit builds element trees from JSON layout documents.

Layouts describe elements, lists and tables. They can be rendered
to static HTML or served as a live page that accepts new nodes and
appends them on the next frame.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to elkit.json (default: ./elkit.json if present)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		renderCmd(&flags),
		serveCmd(&flags),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads the --config file, or ./elkit.json when present, or the
// defaults.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	if f.configPath != "" {
		return config.LoadFile(f.configPath)
	}
	return config.LoadOrNew(".")
}

// logger returns the command logger. Diagnostics go to stderr.
func (f *globalFlags) logger() *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s\n", fmt.Sprintf(format, args...))
}
