package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/vito/redex/pkg/ioctx"
	"github.com/vito/redex/pkg/project"
)

// Config holds the flags shared by every subcommand.
type Config struct {
	Debug      bool
	ConfigPath string
}

func main() {
	ctx := context.Background()
	ctx = ioctx.WithStreams(ctx, ioctx.Streams{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err := fang.Execute(ctx, newRootCmd(),
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "redex",
		Short: "Weak head normal form reducer",
		Long: `redex reduces terms of a small dependently typed core calculus to weak
head normal form, following the reduction rules of the Lean 4 kernel.`,
		Example: `  # Reduce a constant from the prelude
  redex whnf Nat.two

  # Apply a definition to literal arguments
  redex whnf Nat.double --arg 3

  # Unfold everything, including irreducible definitions
  redex whnf --mode all Nat.secret

  # List the prelude
  redex decls`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(ioctx.Logger(cmd.Context(), cfg.Debug))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigPath, "config", "", "Path to redex.toml (searched upwards from the working directory if not specified)")

	rootCmd.AddCommand(whnfCmd(&cfg))
	rootCmd.AddCommand(declsCmd())

	return rootCmd
}

// loadConfig reads the explicit --config file or the nearest redex.toml,
// falling back to the defaults.
func loadConfig(cfg *Config) (*project.Config, error) {
	if cfg.ConfigPath != "" {
		config, err := project.Load(cfg.ConfigPath)
		if err != nil {
			return nil, err
		}
		slog.Debug("loaded config", append([]any{"path", cfg.ConfigPath}, config.Summary()...)...)
		return config, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, config, err := project.FindProjectConfig(cwd)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return project.Default(), nil
	}
	slog.Debug("loaded config", append([]any{"path", path}, config.Summary()...)...)
	return config, nil
}
