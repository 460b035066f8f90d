package makers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
	"github.com/simonhull/firebird-suite/wren/internal/input"
	"github.com/simonhull/firebird-suite/wren/internal/naming"
	"github.com/simonhull/firebird-suite/wren/internal/templates"
)

// EventSubscriberMaker generates an event subscriber class and registers it.
type EventSubscriberMaker struct{}

func (m *EventSubscriberMaker) Name() string { return "event-subscriber" }

func (m *EventSubscriberMaker) Description() string {
	return "event subscriber class tagged in services.xml"
}

func (m *EventSubscriberMaker) Plan(ctx context.Context, s *Session) (*Plan, error) {
	b, err := s.PickBundle(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := s.PickNamespace(b, "Subscriber")
	if err != nil {
		return nil, err
	}
	class, err := s.askClassName(`Subscriber class name including the "Subscriber" suffix (e.g. MySubscriber)`, "MySubscriber")
	if err != nil {
		return nil, err
	}

	vars := map[string]string{
		"NAMESPACE": loc.Namespace,
		"CLASSNAME": class,
	}

	plan := &Plan{Bundle: b, Next: []string{"bin/console cache:clear"}}
	plan.add(templates.SubscriberClass, filepath.Join(loc.Path, class+".php"), vars)
	plan.add(templates.SubscriberServices, b.ServicesXML(), vars)
	return plan, nil
}

// intervals maps the interval choices to ScheduledTask constants.
var intervals = []input.Option{
	{Value: "minutely", Label: "minutely (60s)"},
	{Value: "hourly", Label: "hourly (3600s)"},
	{Value: "daily", Label: "daily (86400s)"},
	{Value: "weekly", Label: "weekly (604800s)"},
	{Value: "custom", Label: "custom (enter seconds)"},
}

// ScheduledTaskMaker generates a scheduled task with its handler.
type ScheduledTaskMaker struct{}

func (m *ScheduledTaskMaker) Name() string { return "scheduled-task" }

func (m *ScheduledTaskMaker) Description() string {
	return "scheduled task and handler classes registered in services.xml"
}

func (m *ScheduledTaskMaker) Plan(ctx context.Context, s *Session) (*Plan, error) {
	b, err := s.PickBundle(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := s.PickNamespace(b, "Storefront/ScheduledTask")
	if err != nil {
		return nil, err
	}
	class, err := s.askClassName("Scheduled task class name (e.g. ExampleScheduledTask)", "ExampleScheduledTask")
	if err != nil {
		return nil, err
	}
	identifier, err := s.Prompter.Ask("Task identifier (e.g. example.scheduled_task)", "example.scheduled_task", naming.ValidateTaskIdentifier)
	if err != nil {
		return nil, err
	}
	interval, err := askInterval(s.Prompter)
	if err != nil {
		return nil, err
	}
	handler, err := s.askClassName("Handler class name", class+"Handler")
	if err != nil {
		return nil, err
	}
	if handler == class {
		return nil, fmt.Errorf("handler class must differ from the task class %s", class)
	}

	vars := map[string]string{
		"NAMESPACE":        loc.Namespace,
		"CLASSNAME":        class,
		"HANDLERCLASSNAME": handler,
		"TASKIDENTIFIER":   identifier,
		"INTERVAL":         interval,
	}

	plan := &Plan{Bundle: b, Next: []string{"bin/console scheduled-task:register"}}
	plan.add(templates.TaskClass, filepath.Join(loc.Path, class+".php"), vars)
	plan.add(templates.TaskHandler, filepath.Join(loc.Path, handler+".php"), vars)
	plan.add(templates.TaskServices, b.ServicesXML(), vars)
	return plan, nil
}

// askInterval returns a PHP expression: a ScheduledTask constant or a
// number of seconds.
func askInterval(p input.Prompter) (string, error) {
	choice, err := p.Choose("Select interval", intervals, "hourly")
	if err != nil {
		return "", err
	}
	if choice != "custom" {
		return "self::" + strings.ToUpper(choice), nil
	}

	seconds, err := p.Ask("Custom interval in seconds (e.g. 3600 for hourly)", "3600", naming.ValidatePositiveInt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(seconds), nil
}

// routeParameters are the optional keys offered for a storefront route.
var routeParameters = map[string][]string{
	"options":  {"seo"},
	"defaults": {"XmlHttpRequest", "_loginRequired", "_loginRequiredAllowGuest", "_captcha", "_httpCache", "_noStore", "allow_maintenance"},
}

var parameterValues = []input.Option{
	{Value: "skip", Label: "leave unset"},
	{Value: "true"},
	{Value: "false"},
}

// StorefrontControllerMaker generates a storefront controller, its route
// import, service registration and twig template.
type StorefrontControllerMaker struct{}

func (m *StorefrontControllerMaker) Name() string { return "storefront-controller" }

func (m *StorefrontControllerMaker) Description() string {
	return "storefront controller with route, services.xml, routes.xml and twig template"
}

func (m *StorefrontControllerMaker) Plan(ctx context.Context, s *Session) (*Plan, error) {
	b, err := s.PickBundle(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := s.PickNamespace(b, "Controller/Storefront")
	if err != nil {
		return nil, err
	}
	class, err := s.askClassName("Controller class name (e.g. ExamplePluginController)", "ExamplePluginController")
	if err != nil {
		return nil, err
	}
	routeName, err := s.Prompter.Ask("Route name (e.g. example.plugin.controller)", "example.plugin.controller", naming.ValidateRouteName)
	if err != nil {
		return nil, err
	}
	routePath, err := s.Prompter.Ask("Route path (e.g. /example/plugin/controller/{id})", "/example/plugin/controller/{id}", naming.ValidateRoutePath)
	if err != nil {
		return nil, err
	}
	methods, err := askMethods(s.Prompter, "GET")
	if err != nil {
		return nil, err
	}
	options, err := askRouteParameters(s.Prompter, "options")
	if err != nil {
		return nil, err
	}
	defaults, err := askRouteParameters(s.Prompter, "defaults")
	if err != nil {
		return nil, err
	}
	twig, err := s.Prompter.Ask("Twig template (e.g. /storefront/page/example/index.html.twig)", "/storefront/page/example/index.html.twig", naming.ValidateTwigTemplate)
	if err != nil {
		return nil, err
	}

	vars := map[string]string{
		"NAMESPACE":     loc.Namespace,
		"CLASSNAME":     class,
		"BUNDLENAME":    b.Name,
		"ROUTENAME":     routeName,
		"ROUTEPATH":     routePath,
		"METHODS":       methods,
		"OPTIONS":       options,
		"DEFAULTS":      defaults,
		"TWIGTEMPLATE":  twig,
		"FUNCTIONNAME":  naming.FunctionName(routeName),
		"CONTROLLERDIR": relativeDir(b, loc),
	}

	plan := &Plan{Bundle: b, Next: []string{"bin/console cache:clear"}}
	plan.add(templates.ControllerClass, filepath.Join(loc.Path, class+".php"), vars)
	plan.add(templates.ControllerServices, b.ServicesXML(), vars)
	plan.add(templates.ControllerRoutes, b.RoutesXML(), vars)
	plan.add(templates.ControllerTwig, b.File(bundle.ViewsDir+twig), vars)
	return plan, nil
}

// askMethods returns the chosen methods quoted for a PHP array: 'GET','POST'.
func askMethods(p input.Prompter, def string) (string, error) {
	answer, err := p.Ask("HTTP methods, comma separated ("+strings.Join(naming.HTTPMethods, ", ")+")", def, naming.ValidateHTTPMethods)
	if err != nil {
		return "", err
	}
	methods, err := naming.ParseHTTPMethods(answer)
	if err != nil {
		return "", err
	}
	quoted := make([]string, len(methods))
	for i, m := range methods {
		quoted[i] = "'" + m + "'"
	}
	return strings.Join(quoted, ","), nil
}

// askRouteParameters returns a route attribute argument such as
// ", defaults: ['_loginRequired' => true]", or "" when nothing is chosen.
func askRouteParameters(p input.Prompter, kind string) (string, error) {
	add, err := p.Confirm(fmt.Sprintf("Add optional route %s?", kind), false)
	if err != nil || !add {
		return "", err
	}

	var pairs []string
	for _, key := range routeParameters[kind] {
		value, err := p.Choose(fmt.Sprintf("Value for %s", key), parameterValues, "skip")
		if err != nil {
			return "", err
		}
		if value != "skip" {
			pairs = append(pairs, fmt.Sprintf("'%s' => %s", key, value))
		}
	}
	if len(pairs) == 0 {
		return "", nil
	}
	return fmt.Sprintf(", %s: [%s]", kind, strings.Join(pairs, ", ")), nil
}

// StoreAPIRouteMaker generates an abstract store API route, its
// implementation and the registrations they need.
type StoreAPIRouteMaker struct{}

func (m *StoreAPIRouteMaker) Name() string { return "store-api-route" }

func (m *StoreAPIRouteMaker) Description() string {
	return "store API route with abstract class, services.xml and routes.xml"
}

func (m *StoreAPIRouteMaker) Plan(ctx context.Context, s *Session) (*Plan, error) {
	b, err := s.PickBundle(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := s.PickNamespace(b, "Core/Content/Example/SalesChannel")
	if err != nil {
		return nil, err
	}
	class, err := s.Prompter.Ask(`Route class name ending in "Route" (e.g. ExampleRoute)`, "ExampleRoute", validateRouteClass)
	if err != nil {
		return nil, err
	}
	routeName, err := s.Prompter.Ask("Route name (e.g. store-api.example.load)", "store-api.example.load", naming.ValidateStoreAPIRouteName)
	if err != nil {
		return nil, err
	}
	routePath, err := s.Prompter.Ask("Route path (e.g. /store-api/example)", "/store-api/example", naming.ValidateStoreAPIRoutePath)
	if err != nil {
		return nil, err
	}
	methods, err := askMethods(s.Prompter, "GET, POST")
	if err != nil {
		return nil, err
	}

	segments := strings.Split(routeName, ".")
	vars := map[string]string{
		"NAMESPACE":    loc.Namespace,
		"CLASSNAME":    class,
		"ROUTENAME":    routeName,
		"ROUTEPATH":    routePath,
		"METHODS":      methods,
		"FUNCTIONNAME": naming.CamelCase(segments[len(segments)-1]),
		"ROUTEDIR":     relativeDir(b, loc),
	}

	plan := &Plan{Bundle: b, Next: []string{"bin/console cache:clear"}}
	plan.add(templates.StoreAPIAbstract, filepath.Join(loc.Path, "Abstract"+class+".php"), vars)
	plan.add(templates.StoreAPIRoute, filepath.Join(loc.Path, class+".php"), vars)
	plan.add(templates.StoreAPIServices, b.ServicesXML(), vars)
	plan.add(templates.StoreAPIRoutes, b.RoutesXML(), vars)
	return plan, nil
}

func validateRouteClass(name string) error {
	if err := naming.ValidateClassName(name); err != nil {
		return err
	}
	if !strings.HasSuffix(name, "Route") || name == "Route" {
		return &naming.ValidationError{
			Field:      "class name",
			Value:      name,
			Message:    `must end with "Route"`,
			Suggestion: name + "Route",
		}
	}
	return nil
}

// relativeDir is loc's directory relative to the bundle, slash separated.
func relativeDir(b bundle.Bundle, loc bundle.Location) string {
	rel, err := filepath.Rel(b.Path, loc.Path)
	if err != nil || rel == "." {
		return "."
	}
	return filepath.ToSlash(rel)
}
