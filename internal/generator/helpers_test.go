package generator

import (
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/wren/internal/input"
	"github.com/simonhull/firebird-suite/wren/internal/merge"
)

const servicesTemplate = `<?xml version="1.0" ?>
<container xmlns="http://symfony.com/schema/dic/services">
    <services>
        <service id="{{SERVICE_ID}}" class="{{CLASS}}"/>
    </services>
</container>
`

var testTemplates = fstest.MapFS{
	"greet.template":               {Data: []byte("Hello {{NAME}}\n")},
	"config/services.template":     {Data: []byte(servicesTemplate)},
	"storefront/main.template":     {Data: []byte("import {{CLASS}} from './{{SELECTOR}}/{{SELECTOR}}';\nconst PluginManager = window.PluginManager;\nPluginManager.register('{{CLASS}}', {{CLASS}}, '[data-{{SELECTOR}}]');\n")},
	"twig/page.html.twig.template": {Data: []byte("{% block content %}{{ parent() }} {{NAME}}{% endblock %}\n")},
}

func newTestScaffolder(t *testing.T, fs afero.Fs, prompter input.Prompter) *Scaffolder {
	t.Helper()

	resolver, err := NewResolver(ResolverOptions{Prompter: prompter})
	require.NoError(t, err)

	return &Scaffolder{
		Fs:       fs,
		Renderer: NewRenderer(&FSStore{Embedded: testTemplates}),
		Resolver: resolver,
		Merges:   merge.DefaultRegistry(),
	}
}

// failingFs rejects writes to a single path.
type failingFs struct {
	afero.Fs
	path string
}

func (f *failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if name == f.path && flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: errors.New("disk full")}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

// abortingPrompter behaves like an operator pressing Ctrl-C.
type abortingPrompter struct{}

func (abortingPrompter) Ask(string, string, func(string) error) (string, error) {
	return "", input.ErrAborted
}

func (abortingPrompter) Choose(string, []input.Option, string) (string, error) {
	return "", input.ErrAborted
}

func (abortingPrompter) Confirm(string, bool) (bool, error) {
	return false, input.ErrAborted
}
