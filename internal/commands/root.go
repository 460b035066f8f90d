package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/simonhull/firebird-suite/wren"
	"github.com/simonhull/firebird-suite/wren/internal/bundle"
	"github.com/simonhull/firebird-suite/wren/internal/config"
	"github.com/simonhull/firebird-suite/wren/internal/input"
	"github.com/simonhull/firebird-suite/wren/internal/logging"
	"github.com/simonhull/firebird-suite/wren/internal/output"
	"github.com/simonhull/firebird-suite/wren/internal/project"
)

// Env holds what the commands share. Tests swap the filesystem and the
// prompter; the CLI uses the real ones.
type Env struct {
	Fs       afero.Fs
	Prompter input.Prompter // nil means a terminal on the command's in/out
	Now      func() time.Time

	Verbose    bool
	Project    string // walked up to the nearest Shopware root unless --project is given
	ConfigPath string
}

// DefaultEnv returns the environment used by the wren binary.
func DefaultEnv() *Env {
	return &Env{Fs: afero.NewOsFs(), Now: time.Now, Project: "."}
}

// RootCmd creates and returns the root command for the wren CLI
func RootCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wren",
		Short: "Interactive scaffolding for Shopware plugins",
		Long: `wren generates Shopware plugin code from templates.

It interviews you for names and namespaces, renders the matching templates
and decides per file what happens when it already exists:
• Overwrite, merge or skip existing files
• Merge services.xml registrations and main.js entries without duplicates
• Preview everything with --dry-run before touching the disk`,
		Version:       wren.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output.SetOutput(cmd.OutOrStdout())
			output.SetVerbose(env.Verbose)

			if cmd.Flags().Changed("project") {
				return nil
			}
			root, found, err := project.FindRoot(env.Fs, env.Project)
			if err != nil {
				return err
			}
			if found {
				output.Verbose("Using Shopware project at " + root)
				env.Project = root
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&env.Verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().StringVarP(&env.Project, "project", "p", env.Project, "Shopware project root")
	cmd.PersistentFlags().StringVarP(&env.ConfigPath, "config", "c", "", "Path to configuration file (default <project>/"+config.FileName+")")

	return cmd
}

// setup loads the configuration and applies its output settings.
func (e *Env) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(e.Fs, e.Project, e.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	output.SetHighlight(cfg.Output.Highlight, cfg.Output.Style)

	logger, err := logging.New(e.Verbose)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("configuration loaded",
		zap.String("project", e.Project),
		zap.Strings("plugin_dirs", cfg.PluginDirs),
		zap.String("conflict", cfg.Conflict.Strategy))
	return cfg, logger, nil
}

func (e *Env) bundles(cfg *config.Config, logger *zap.Logger) ([]bundle.Bundle, error) {
	finder := bundle.NewFinder(e.Fs, e.Project, cfg.PluginDirs)
	finder.Logger = logger

	bundles, err := finder.Find()
	if err != nil {
		return nil, fmt.Errorf("failed to discover bundles: %w", err)
	}
	return bundles, nil
}

func (e *Env) prompter(cmd *cobra.Command) input.Prompter {
	if e.Prompter != nil {
		return e.Prompter
	}
	terminal := input.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
	if ctx := cmd.Context(); ctx != nil {
		terminal.WithContext(ctx)
	}
	return terminal
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
