package makers

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
	"github.com/simonhull/firebird-suite/wren/internal/input"
	"github.com/simonhull/firebird-suite/wren/internal/naming"
	"github.com/simonhull/firebird-suite/wren/internal/templates"
)

var adminParents = []input.Option{
	{Value: "sw-product", Label: "sw-product (Products)"},
	{Value: "sw-order", Label: "sw-order (Orders)"},
	{Value: "sw-customer", Label: "sw-customer (Customers)"},
	{Value: "sw-cms", Label: "sw-cms (Content Management)"},
	{Value: "sw-analytics", Label: "sw-analytics (Analytics & Reports)"},
	{Value: "sw-extension", Label: "sw-extension (Extensions & Apps)"},
	{Value: "sw-settings", Label: "sw-settings (Settings)"},
}

const customColor = "custom"

var adminColors = []input.Option{
	{Value: customColor, Label: "Custom color (enter hex code)"},
	{Value: "#189EFF", Label: "#189EFF - Shopware Blue (Primary)"},
	{Value: "#52667A", Label: "#52667A - Shopware Dark Blue"},
	{Value: "#758CA3", Label: "#758CA3 - Shopware Light Blue"},
	{Value: "#FF6900", Label: "#FF6900 - Shopware Orange"},
	{Value: "#37D046", Label: "#37D046 - Shopware Green"},
	{Value: "#DE294C", Label: "#DE294C - Shopware Red"},
	{Value: "#FFB900", Label: "#FFB900 - Shopware Yellow"},
	{Value: "#8B45B6", Label: "#8B45B6 - Shopware Purple"},
	{Value: "#00B8D4", Label: "#00B8D4 - Shopware Cyan"},
	{Value: "#795548", Label: "#795548 - Shopware Brown"},
}

// AdminModuleMaker generates an administration module with list and detail
// pages and imports it from the administration main.js.
type AdminModuleMaker struct{}

func (m *AdminModuleMaker) Name() string { return "admin-module" }

func (m *AdminModuleMaker) Description() string {
	return "administration module with list and detail pages, imported in main.js"
}

func (m *AdminModuleMaker) Plan(ctx context.Context, s *Session) (*Plan, error) {
	b, err := s.PickBundle(ctx)
	if err != nil {
		return nil, err
	}

	name, err := s.Prompter.Ask(`Name of the module (e.g. "MyCustomModule")`, "MyCustomModule", validateModuleName)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	id := naming.ModuleID(name)

	loc, err := s.PickAdminNamespace(b, "module/"+id)
	if err != nil {
		return nil, err
	}
	parent, err := s.Prompter.Choose("Parent module the new module is placed under", adminParents, adminParents[0].Value)
	if err != nil {
		return nil, err
	}
	color, err := askColor(s.Prompter)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Bundle: b, Next: []string{"bin/build-administration.sh"}}
	plan.add(templates.AdminModule, filepath.Join(loc.Path, "index.js"), map[string]string{
		"MODULE_NAME": name,
		"MODULE_ID":   id,
		"COLOR":       color,
		"PARENT":      parent,
	})
	for _, page := range []string{id + "-list", id + "-detail"} {
		vars := componentVars(page)
		dir := filepath.Join(loc.Path, "page", page)
		plan.add(templates.AdminPageJS, filepath.Join(dir, "index.js"), vars)
		plan.add(templates.AdminPageTwig, filepath.Join(dir, page+".html.twig"), vars)
	}
	plan.add(templates.AdminMainJS, b.File(bundle.AdminDir+"/main.js"), map[string]string{
		"MODULE_PATH": loc.Namespace,
	})
	return plan, nil
}

func validateModuleName(name string) error {
	if err := naming.NotEmpty("module name")(name); err != nil {
		return err
	}
	if naming.ModuleID(name) == "" {
		return &naming.ValidationError{Field: "module name", Value: name, Message: "must contain letters or numbers"}
	}
	return nil
}

func askColor(p input.Prompter) (string, error) {
	choice, err := p.Choose("Module color, used for icons and highlights", adminColors, "#189EFF")
	if err != nil {
		return "", err
	}
	if choice != customColor {
		return choice, nil
	}

	hex, err := p.Ask("Hex color code (e.g. #189EFF)", "#189EFF", naming.ValidateHexColor)
	if err != nil {
		return "", err
	}
	return naming.NormalizeHexColor(hex)
}

func componentVars(id string) map[string]string {
	return map[string]string{
		"COMPONENT_ID":       id,
		"COMPONENT_ID_SNAKE": strings.ReplaceAll(id, "-", "_"),
	}
}

var componentTypes = []input.Option{
	{Value: "component", Label: "component - A reusable UI component"},
	{Value: "page", Label: "page - A page component (route endpoint)"},
	{Value: "view", Label: "view - A view component (sub-section of a page)"},
}

// AdminComponentMaker generates a component, page or view inside an
// existing administration module.
type AdminComponentMaker struct{}

func (m *AdminComponentMaker) Name() string { return "admin-component" }

func (m *AdminComponentMaker) Description() string {
	return "administration component, page or view inside an existing module"
}

func (m *AdminComponentMaker) Plan(ctx context.Context, s *Session) (*Plan, error) {
	b, err := s.PickBundle(ctx)
	if err != nil {
		return nil, err
	}

	modules, err := bundle.FindModules(s.Fs, b)
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("%s: no Module.register call found below %s, create a module first", b.Name, bundle.AdminDir)
	}

	options := make([]input.Option, len(modules))
	for i, mod := range modules {
		options[i] = input.Option{Value: mod.File}
	}
	file, err := s.Prompter.Choose("Select an existing module", options, modules[0].File)
	if err != nil {
		return nil, err
	}
	var namespace string
	for _, mod := range modules {
		if mod.File == file {
			namespace = mod.Namespace
		}
	}

	name, err := s.Prompter.Ask(`Name of the component (e.g. "my-custom-component")`, "my-custom-component", naming.ValidateComponentName)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	kind, err := s.Prompter.Choose("Component type", componentTypes, "component")
	if err != nil {
		return nil, err
	}

	loc := b.JoinAdmin(path.Join(namespace, kind, name))
	vars := componentVars(name)

	jsTemplate, twigTemplate := templates.AdminComponentJS, templates.AdminComponentTwig
	switch kind {
	case "page":
		jsTemplate, twigTemplate = templates.AdminPageJS, templates.AdminPageTwig
	case "view":
		jsTemplate = templates.AdminViewJS
	}

	plan := &Plan{Bundle: b, Next: []string{"bin/build-administration.sh"}}
	plan.add(jsTemplate, filepath.Join(loc.Path, name+".js"), vars)
	plan.add(twigTemplate, filepath.Join(loc.Path, name+".html.twig"), vars)
	return plan, nil
}
