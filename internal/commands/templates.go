package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren/internal/generator"
	"github.com/simonhull/firebird-suite/wren/internal/output"
	"github.com/simonhull/firebird-suite/wren/internal/templates"
)

// TemplatesCmd creates and returns the 'templates' command
func TemplatesCmd(env *Env) *cobra.Command {
	var vars map[string]string

	cmd := &cobra.Command{
		Use:   "templates [id]",
		Short: "List templates or print one",
		Long: `Without an argument, list every template id. Templates in templates.dir
shadow the built-in ones with the same id.

With an id, print the template. --set renders it with the given variables.

Examples:
  wren templates
  wren templates event-subscriber/class.template
  wren templates event-subscriber/class.template --set NAMESPACE=Swag\\Example --set CLASSNAME=MySubscriber`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := env.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			store := generator.NewFSStore(templates.FS(), cfg.Templates.Dir)

			if len(args) == 0 {
				ids, err := store.List()
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}

			id := args[0]
			if len(vars) == 0 {
				raw, err := store.Load(id)
				if err != nil {
					return err
				}
				output.Code(templateName(id), raw)
				return nil
			}

			renderer := generator.NewRenderer(store)
			renderer.AllowUnresolved = cfg.Templates.AllowUnresolved
			rendered, err := renderer.Render(id, vars)
			if err != nil {
				return err
			}
			output.Code(templateName(id), []byte(rendered))
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&vars, "set", nil, "Render with a variable, NAME=value (repeatable)")

	return cmd
}

// templateName maps a template id onto a file name whose extension picks
// the highlighting language, e.g. "entity/services-xml.template" becomes
// "entity/services.xml".
func templateName(id string) string {
	name := strings.TrimSuffix(id, generator.TemplateExt)
	switch {
	case strings.HasSuffix(name, "-xml"):
		return strings.TrimSuffix(name, "-xml") + ".xml"
	case strings.HasSuffix(name, "-js"):
		return strings.TrimSuffix(name, "-js") + ".js"
	case strings.HasSuffix(name, ".js"), strings.HasSuffix(name, ".twig"):
		return name
	case strings.HasSuffix(name, "twig"):
		return name + ".html.twig"
	default:
		return name + ".php"
	}
}
