package makers

import (
	"context"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
	"github.com/simonhull/firebird-suite/wren/internal/naming"
	"github.com/simonhull/firebird-suite/wren/internal/templates"
)

// JSPluginMaker generates a storefront JavaScript plugin and registers it
// in the storefront main.js.
type JSPluginMaker struct{}

func (m *JSPluginMaker) Name() string { return "js-plugin" }

func (m *JSPluginMaker) Description() string {
	return "storefront JavaScript plugin, twig mount point and main.js registration"
}

func (m *JSPluginMaker) Plan(ctx context.Context, s *Session) (*Plan, error) {
	b, err := s.PickBundle(ctx)
	if err != nil {
		return nil, err
	}
	class, err := s.Prompter.Ask(`JavaScript plugin class name (e.g. "SuperPlugin")`, "MyPlugin", naming.ValidateJSClassName)
	if err != nil {
		return nil, err
	}
	selector := naming.KebabCase(class)

	vars := map[string]string{
		"CLASSNAME": class,
		"SELECTOR":  selector,
	}

	plan := &Plan{Bundle: b, Next: []string{"bin/build-storefront.sh"}}
	plan.add(templates.JSPlugin, b.File(bundle.StorefrontDir+"/"+selector+"/"+selector+".js"), vars)
	plan.add(templates.JSPluginTwig, b.File(bundle.ViewsDir+"/storefront/page/content/index.html.twig"), vars)
	plan.add(templates.JSPluginMainJS, b.File(bundle.StorefrontDir+"/main.js"), vars)
	return plan, nil
}
