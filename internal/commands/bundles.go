package commands

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren/internal/output"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// BundlesCmd creates and returns the 'bundles' command listing the plugin
// bundles files can be generated into
func BundlesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "bundles",
		Short: "List the plugin bundles found in the project",
		Long: `List every Shopware plugin bundle below the configured plugin_dirs.

A bundle is found through its composer.json. Framework bundles are never listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := env.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			bundles, err := env.bundles(cfg, logger)
			if err != nil {
				return err
			}
			if len(bundles) == 0 {
				output.Warning(fmt.Sprintf("No plugin bundles found in %v", cfg.PluginDirs))
				return nil
			}

			rows := make([][]string, len(bundles))
			for i, b := range bundles {
				path := b.Path
				if rel, err := filepath.Rel(env.Project, b.Path); err == nil {
					path = rel
				}
				rows[i] = []string{b.Name, b.Namespace, filepath.ToSlash(path)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"NAME", "NAMESPACE", "PATH"}, rows))
			return nil
		},
	}
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}
