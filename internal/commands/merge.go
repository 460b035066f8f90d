package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simonhull/firebird-suite/wren/internal/logging"
	"github.com/simonhull/firebird-suite/wren/internal/merge"
	"github.com/simonhull/firebird-suite/wren/internal/output"
)

// MergeCmd creates and returns the 'merge' command, which runs a merge
// strategy on two files outside of a maker
func MergeCmd(env *Env) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "merge <existing> <incoming>",
		Short: "Merge a services.xml or main.js into an existing one",
		Long: `Merge incoming into existing with the strategy registered for the
existing file's name and print the result. Nothing is printed or written
unless both documents parse.

Mergeable files: services.xml (service registrations) and main.js
(imports, declarations and register calls).

Examples:
  wren merge src/Resources/config/services.xml /tmp/services.xml
  wren merge src/Resources/app/storefront/src/main.js other/main.js --write`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			existingPath, incomingPath := args[0], args[1]

			logger, err := loggerFor(env)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			registry := merge.DefaultRegistry()
			strategy, err := registry.ForPath(existingPath)
			if err != nil {
				return err
			}
			kind, _ := registry.KindFor(existingPath)

			existing, err := afero.ReadFile(env.Fs, existingPath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", existingPath, err)
			}
			incoming, err := afero.ReadFile(env.Fs, incomingPath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", incomingPath, err)
			}

			merged, err := strategy.Merge(existing, incoming)
			if err != nil {
				return fmt.Errorf("%s: %w", existingPath, err)
			}
			logger.Debug("merged documents",
				zap.String("kind", string(kind)),
				zap.String("existing", existingPath),
				zap.String("incoming", incomingPath),
				zap.Int("bytes", len(merged)))

			if !write {
				_, err := cmd.OutOrStdout().Write(merged)
				return err
			}

			info, err := env.Fs.Stat(existingPath)
			if err != nil {
				return err
			}
			if err := afero.WriteFile(env.Fs, existingPath, merged, info.Mode().Perm()); err != nil {
				return fmt.Errorf("failed to write %s: %w", existingPath, err)
			}
			output.Success(fmt.Sprintf("Merged %s into %s", incomingPath, existingPath))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to <existing> instead of printing it")

	return cmd
}

// loggerFor builds the logger for commands that need no configuration.
func loggerFor(env *Env) (*zap.Logger, error) {
	return logging.New(env.Verbose)
}
