package makers

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
	"github.com/simonhull/firebird-suite/wren/internal/generator"
	"github.com/simonhull/firebird-suite/wren/internal/input"
	"github.com/simonhull/firebird-suite/wren/internal/merge"
	"github.com/simonhull/firebird-suite/wren/internal/naming"
	"github.com/simonhull/firebird-suite/wren/internal/templates"
)

var example = bundle.Bundle{Name: "SwagExample", Path: "/p/src", Namespace: `Swag\Example`}

func newSession(fs afero.Fs, answers ...string) (*Session, *input.Scripted) {
	p := input.NewScripted(answers...)
	return &Session{
		Prompter: p,
		Fs:       fs,
		Bundles:  []bundle.Bundle{example},
		Now:      func() time.Time { return time.Unix(1700000000, 0) },
	}, p
}

func plan(t *testing.T, name string, answers ...string) *Plan {
	t.Helper()
	s, p := newSession(afero.NewMemMapFs(), answers...)
	got, err := Default().Plan(context.Background(), name, s)
	require.NoError(t, err)
	assert.Zero(t, p.Remaining(), "unused answers")
	return got
}

func targets(p *Plan) []string {
	out := make([]string, len(p.Requests))
	for i, r := range p.Requests {
		out[i] = filepath.ToSlash(r.Target)
	}
	return out
}

// mergeOrSkip merges every target the registry knows and skips the rest.
type mergeOrSkip struct {
	merges *merge.Registry
}

func (m mergeOrSkip) Resolve(ctx context.Context, path string, existing, rendered []byte) (generator.Decision, error) {
	if _, ok := m.merges.KindFor(path); ok {
		return generator.DecisionMerge, nil
	}
	return generator.DecisionSkip, nil
}

func newScaffolder(fs afero.Fs) *generator.Scaffolder {
	merges := merge.DefaultRegistry()
	return &generator.Scaffolder{
		Fs:       fs,
		Renderer: generator.NewRenderer(&generator.FSStore{Embedded: templates.FS()}),
		Resolver: generator.NewResolverWithStrategy(mergeOrSkip{merges: merges}),
		Merges:   merges,
	}
}

func execute(t *testing.T, fs afero.Fs, p *Plan) *generator.Report {
	t.Helper()
	report, err := generator.Execute(context.Background(), newScaffolder(fs), p.Requests, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	require.NoError(t, err)
	require.NoError(t, report.Err())
	return report
}

func TestRegistry_Default(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{
		"admin-component", "admin-module", "entity", "event-subscriber",
		"js-plugin", "scheduled-task", "store-api-route", "storefront-controller",
	}, r.List())

	descriptions := r.ListWithDescriptions()
	assert.Len(t, descriptions, 8)
	for name, d := range descriptions {
		assert.NotEmpty(t, d, name)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&EntityMaker{}))

	assert.ErrorContains(t, r.Register(&EntityMaker{}), "already registered")
	assert.ErrorContains(t, r.Register(nil), "nil maker")

	m, ok := r.Get("entity")
	assert.True(t, ok)
	assert.Equal(t, "entity", m.Name())

	_, err := r.Plan(context.Background(), "controller", &Session{})
	assert.ErrorContains(t, err, "maker 'controller' not found")
}

func TestPickBundle(t *testing.T) {
	other := bundle.Bundle{Name: "AcmeShop", Path: "/q/src", Namespace: `Acme\Shop`}
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		s := &Session{Prompter: input.NewScripted()}
		_, err := s.PickBundle(ctx)
		assert.ErrorIs(t, err, bundle.ErrNoBundles)
	})

	t.Run("single bundle is not asked", func(t *testing.T) {
		p := input.NewScripted()
		s := &Session{Prompter: p, Bundles: []bundle.Bundle{example}}
		b, err := s.PickBundle(ctx)
		require.NoError(t, err)
		assert.Equal(t, "SwagExample", b.Name)
		assert.Empty(t, p.Questions)
	})

	t.Run("preselected", func(t *testing.T) {
		s := &Session{Prompter: input.NewScripted(), Bundles: []bundle.Bundle{example, other}, Bundle: "AcmeShop"}
		b, err := s.PickBundle(ctx)
		require.NoError(t, err)
		assert.Equal(t, `Acme\Shop`, b.Namespace)

		s.Bundle = "Missing"
		_, err = s.PickBundle(ctx)
		assert.ErrorContains(t, err, "bundle 'Missing' not found")
	})

	t.Run("chosen", func(t *testing.T) {
		p := input.NewScripted("AcmeShop")
		s := &Session{Prompter: p, Bundles: []bundle.Bundle{example, other}}
		b, err := s.PickBundle(ctx)
		require.NoError(t, err)
		assert.Equal(t, "AcmeShop", b.Name)
		assert.Len(t, p.Questions, 1)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		s := &Session{Prompter: input.NewScripted(), Bundles: []bundle.Bundle{example}}
		_, err := s.PickBundle(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEntityMaker(t *testing.T) {
	p := plan(t, "entity", "ProductReviewEntity", "", "")

	assert.Equal(t, []string{
		"/p/src/Core/Content/ProductReview/ProductReviewDefinition.php",
		"/p/src/Core/Content/ProductReview/ProductReviewEntity.php",
		"/p/src/Core/Content/ProductReview/ProductReviewCollection.php",
		"/p/src/Resources/config/services.xml",
		"/p/src/Migration/Migration1700000000ProductReview.php",
	}, targets(p))

	vars := p.Requests[0].Variables
	assert.Equal(t, `Swag\Example\Core\Content\ProductReview`, vars["NAMESPACE"])
	assert.Equal(t, "ProductReview", vars["ENTITY_NAME"])
	assert.Equal(t, "product_review", vars["ENTITY_TABLE"])

	migration := p.Requests[4].Variables
	assert.Equal(t, `Swag\Example\Migration`, migration["MIGRATION_NAMESPACE"])
	assert.Equal(t, "1700000000", migration["MIGRATION_TIMESTAMP"])
	assert.Equal(t, []string{"bin/console plugin:update SwagExample"}, p.Next)
}

func TestEntityMaker_WithoutMigration(t *testing.T) {
	p := plan(t, "entity", "Review", "Review", "n")

	assert.Len(t, p.Requests, 4)
	assert.Equal(t, `Swag\Example\Review`, p.Requests[0].Variables["NAMESPACE"])
	assert.Empty(t, p.Next)
}

func TestEntityMaker_InvalidName(t *testing.T) {
	s, _ := newSession(afero.NewMemMapFs(), "review")
	_, err := (&EntityMaker{}).Plan(context.Background(), s)

	var verr *naming.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestEventSubscriberMaker(t *testing.T) {
	p := plan(t, "event-subscriber", "", "OrderSubscriber")

	assert.Equal(t, []string{
		"/p/src/Subscriber/OrderSubscriber.php",
		"/p/src/Resources/config/services.xml",
	}, targets(p))
	assert.Equal(t, `Swag\Example\Subscriber`, p.Requests[0].Variables["NAMESPACE"])
	assert.Equal(t, "OrderSubscriber", p.Requests[1].Variables["CLASSNAME"])
}

func TestEventSubscriberMaker_ReservedClass(t *testing.T) {
	s, _ := newSession(afero.NewMemMapFs(), "", "Abstract")
	_, err := (&EventSubscriberMaker{}).Plan(context.Background(), s)
	assert.ErrorContains(t, err, "reserved")
}

func TestScheduledTaskMaker(t *testing.T) {
	t.Run("constant interval", func(t *testing.T) {
		p := plan(t, "scheduled-task", "", "", "", "daily", "")

		assert.Equal(t, []string{
			"/p/src/Storefront/ScheduledTask/ExampleScheduledTask.php",
			"/p/src/Storefront/ScheduledTask/ExampleScheduledTaskHandler.php",
			"/p/src/Resources/config/services.xml",
		}, targets(p))
		vars := p.Requests[0].Variables
		assert.Equal(t, "self::DAILY", vars["INTERVAL"])
		assert.Equal(t, "example.scheduled_task", vars["TASKIDENTIFIER"])
		assert.Equal(t, "ExampleScheduledTaskHandler", vars["HANDLERCLASSNAME"])
	})

	t.Run("custom interval", func(t *testing.T) {
		p := plan(t, "scheduled-task", "", "CleanupTask", "swag.cleanup", "custom", " 900 ", "CleanupHandler")

		vars := p.Requests[1].Variables
		assert.Equal(t, "900", vars["INTERVAL"])
		assert.Equal(t, "swag.cleanup", vars["TASKIDENTIFIER"])
		assert.Equal(t, "/p/src/Storefront/ScheduledTask/CleanupHandler.php", targets(p)[1])
	})

	t.Run("handler equals task", func(t *testing.T) {
		s, _ := newSession(afero.NewMemMapFs(), "", "", "", "", "ExampleScheduledTask")
		_, err := (&ScheduledTaskMaker{}).Plan(context.Background(), s)
		assert.ErrorContains(t, err, "must differ")
	})
}

func TestStorefrontControllerMaker(t *testing.T) {
	p := plan(t, "storefront-controller",
		"", "", "", "",
		"get, post",
		"y", "true",
		"y", "", "true", "", "", "", "", "false",
		"",
	)

	assert.Equal(t, []string{
		"/p/src/Controller/Storefront/ExamplePluginController.php",
		"/p/src/Resources/config/services.xml",
		"/p/src/Resources/config/routes.xml",
		"/p/src/Resources/views/storefront/page/example/index.html.twig",
	}, targets(p))

	vars := p.Requests[0].Variables
	assert.Equal(t, `Swag\Example\Controller\Storefront`, vars["NAMESPACE"])
	assert.Equal(t, "'GET','POST'", vars["METHODS"])
	assert.Equal(t, ", options: ['seo' => true]", vars["OPTIONS"])
	assert.Equal(t, ", defaults: ['_loginRequired' => true, 'allow_maintenance' => false]", vars["DEFAULTS"])
	assert.Equal(t, "examplePluginController", vars["FUNCTIONNAME"])
	assert.Equal(t, "Controller/Storefront", vars["CONTROLLERDIR"])
	assert.Equal(t, "SwagExample", vars["BUNDLENAME"])
}

func TestStorefrontControllerMaker_NoParameters(t *testing.T) {
	p := plan(t, "storefront-controller", "", "", "", "", "", "n", "", "")

	vars := p.Requests[0].Variables
	assert.Equal(t, "'GET'", vars["METHODS"])
	assert.Empty(t, vars["OPTIONS"])
	assert.Empty(t, vars["DEFAULTS"])
}

func TestStoreAPIRouteMaker(t *testing.T) {
	p := plan(t, "store-api-route", "", "", "", "", "")

	assert.Equal(t, []string{
		"/p/src/Core/Content/Example/SalesChannel/AbstractExampleRoute.php",
		"/p/src/Core/Content/Example/SalesChannel/ExampleRoute.php",
		"/p/src/Resources/config/services.xml",
		"/p/src/Resources/config/routes.xml",
	}, targets(p))

	vars := p.Requests[0].Variables
	assert.Equal(t, "load", vars["FUNCTIONNAME"])
	assert.Equal(t, "'GET','POST'", vars["METHODS"])
	assert.Equal(t, "Core/Content/Example/SalesChannel", vars["ROUTEDIR"])
}

func TestStoreAPIRouteMaker_ClassSuffix(t *testing.T) {
	s, _ := newSession(afero.NewMemMapFs(), "", "Example")
	_, err := (&StoreAPIRouteMaker{}).Plan(context.Background(), s)

	var verr *naming.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "ExampleRoute", verr.Suggestion)
}

func TestAdminModuleMaker(t *testing.T) {
	p := plan(t, "admin-module", "Reviews Board", "", "sw-order", "custom", "ff6900")

	admin := "/p/src/Resources/app/administration/src"
	assert.Equal(t, []string{
		admin + "/module/reviews-board/index.js",
		admin + "/module/reviews-board/page/reviews-board-list/index.js",
		admin + "/module/reviews-board/page/reviews-board-list/reviews-board-list.html.twig",
		admin + "/module/reviews-board/page/reviews-board-detail/index.js",
		admin + "/module/reviews-board/page/reviews-board-detail/reviews-board-detail.html.twig",
		admin + "/main.js",
	}, targets(p))

	vars := p.Requests[0].Variables
	assert.Equal(t, "reviews-board", vars["MODULE_ID"])
	assert.Equal(t, "#FF6900", vars["COLOR"])
	assert.Equal(t, "sw-order", vars["PARENT"])
	assert.Equal(t, "module/reviews-board", p.Requests[5].Variables["MODULE_PATH"])
	assert.Equal(t, "reviews_board_list", p.Requests[1].Variables["COMPONENT_ID_SNAKE"])
}

func TestAdminComponentMaker(t *testing.T) {
	fs := afero.NewMemMapFs()
	ctx := context.Background()

	s, _ := newSession(fs, "Reviews", "", "", "")
	module, err := (&AdminModuleMaker{}).Plan(ctx, s)
	require.NoError(t, err)
	execute(t, fs, module)

	s, p := newSession(fs, "module/reviews/index.js", "review-card", "view")
	got, err := (&AdminComponentMaker{}).Plan(ctx, s)
	require.NoError(t, err)
	assert.Zero(t, p.Remaining())

	view := "/p/src/Resources/app/administration/src/module/reviews/view/review-card"
	assert.Equal(t, []string{view + "/review-card.js", view + "/review-card.html.twig"}, targets(got))
	assert.Equal(t, templates.AdminViewJS, got.Requests[0].TemplateID)
	assert.Equal(t, templates.AdminComponentTwig, got.Requests[1].TemplateID)
}

func TestAdminComponentMaker_NoModules(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/p/src/"+bundle.AdminDir, 0o755))

	s, _ := newSession(fs)
	_, err := (&AdminComponentMaker{}).Plan(context.Background(), s)
	assert.ErrorContains(t, err, "create a module first")

	s, _ = newSession(afero.NewMemMapFs())
	_, err = (&AdminComponentMaker{}).Plan(context.Background(), s)
	assert.ErrorIs(t, err, bundle.ErrNoAdministration)
}

func TestJSPluginMaker(t *testing.T) {
	p := plan(t, "js-plugin", "SuperCoolSlider")

	assert.Equal(t, []string{
		"/p/src/Resources/app/storefront/src/super-cool-slider/super-cool-slider.js",
		"/p/src/Resources/views/storefront/page/content/index.html.twig",
		"/p/src/Resources/app/storefront/src/main.js",
	}, targets(p))
	assert.Equal(t, "super-cool-slider", p.Requests[0].Variables["SELECTOR"])
}

func TestJSPlugin_MainJSMergeIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	mainJS := "/p/src/Resources/app/storefront/src/main.js"

	report := execute(t, fs, plan(t, "js-plugin", "SuperCoolSlider"))
	assert.Equal(t, 3, report.Count(generator.OutcomeCreated))
	first, err := afero.ReadFile(fs, mainJS)
	require.NoError(t, err)

	report = execute(t, fs, plan(t, "js-plugin", "SuperCoolSlider"))
	assert.Equal(t, 1, report.Count(generator.OutcomeMerged))
	assert.Equal(t, 2, report.Count(generator.OutcomeSkipped))
	second, err := afero.ReadFile(fs, mainJS)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	execute(t, fs, plan(t, "js-plugin", "OtherSlider"))
	third, err := afero.ReadFile(fs, mainJS)
	require.NoError(t, err)

	content := string(third)
	assert.Contains(t, content, "import SuperCoolSlider from './super-cool-slider/super-cool-slider';")
	assert.Contains(t, content, "import OtherSlider from './other-slider/other-slider';")
	assert.Contains(t, content, "PluginManager.register('OtherSlider', OtherSlider, '[data-other-slider]');")
	assert.Equal(t, 1, strings.Count(content, "const PluginManager = window.PluginManager;"))
}

func TestServicesXMLCollectsRegistrations(t *testing.T) {
	fs := afero.NewMemMapFs()
	services := "/p/src/Resources/config/services.xml"

	execute(t, fs, plan(t, "entity", "ProductReview", "", "n"))
	execute(t, fs, plan(t, "event-subscriber", "", "OrderSubscriber"))

	data, err := afero.ReadFile(fs, services)
	require.NoError(t, err)
	doc, err := merge.ParseServiceDocument(data)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		`Swag\Example\Core\Content\ProductReview\ProductReviewDefinition`,
		`Swag\Example\Subscriber\OrderSubscriber`,
	}, doc.IDs())

	execute(t, fs, plan(t, "event-subscriber", "", "OrderSubscriber"))
	again, err := afero.ReadFile(fs, services)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}
