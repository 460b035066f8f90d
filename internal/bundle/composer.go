package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/simonhull/firebird-suite/wren/internal/naming"
)

// PluginType is the composer package type of Shopware plugins.
const PluginType = "shopware-platform-plugin"

// ErrNotPlugin is returned for composer packages that are not plugins.
var ErrNotPlugin = errors.New("not a shopware plugin")

// Composer is the subset of composer.json needed to locate a bundle.
type Composer struct {
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Require  map[string]string `json:"require"`
	Autoload struct {
		PSR4 map[string]json.RawMessage `json:"psr-4"`
	} `json:"autoload"`
	Extra struct {
		PluginClass string `json:"shopware-plugin-class"`
	} `json:"extra"`
}

// ParseComposer strips comments and trailing commas from data, then
// unmarshals the result.
func ParseComposer(data []byte) (*Composer, error) {
	var c Composer
	if err := json.Unmarshal(jsonc.ToJSON(data), &c); err != nil {
		return nil, fmt.Errorf("parsing composer.json: %w", err)
	}
	return &c, nil
}

// IsPlugin reports whether the package is a Shopware plugin.
func (c *Composer) IsPlugin() bool {
	return c.Type == PluginType || c.Extra.PluginClass != ""
}

// Bundle derives the bundle living in dir from the composer manifest.
func (c *Composer) Bundle(dir string) (Bundle, error) {
	if !c.IsPlugin() {
		return Bundle{}, ErrNotPlugin
	}

	prefixes := c.psr4()
	if len(prefixes) == 0 {
		return Bundle{}, fmt.Errorf("%s: no psr-4 autoload mapping", c.Name)
	}

	var name, namespace string
	if class := strings.Trim(c.Extra.PluginClass, `\`); class != "" {
		i := strings.LastIndex(class, `\`)
		name, namespace = class[i+1:], class[:max(i, 0)]
	} else {
		pkg := c.Name[strings.LastIndex(c.Name, "/")+1:]
		name, namespace = naming.PascalCase(pkg), prefixes[0].namespace
	}
	if name == "" {
		name = naming.PascalCase(filepath.Base(dir))
	}

	for _, p := range prefixes {
		rest, ok := below(namespace, p.namespace)
		if !ok {
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(p.dir))
		if rest != "" {
			path = filepath.Join(path, filepath.FromSlash(strings.ReplaceAll(rest, `\`, "/")))
		}
		return Bundle{Name: name, Path: path, Namespace: namespace}, nil
	}

	return Bundle{}, fmt.Errorf("%s: namespace %s is not covered by psr-4 autoload", c.Name, namespace)
}

type psr4Prefix struct {
	namespace string
	dir       string
}

// psr4 flattens the autoload map, longest namespace first so the most
// specific mapping wins.
func (c *Composer) psr4() []psr4Prefix {
	var out []psr4Prefix
	for ns, raw := range c.Autoload.PSR4 {
		ns = strings.Trim(ns, `\`)

		var dirs []string
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			dirs = []string{single}
		} else if err := json.Unmarshal(raw, &dirs); err != nil {
			continue
		}
		for _, d := range dirs {
			out = append(out, psr4Prefix{namespace: ns, dir: strings.Trim(d, "/")})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].namespace) != len(out[j].namespace) {
			return len(out[i].namespace) > len(out[j].namespace)
		}
		if out[i].namespace != out[j].namespace {
			return out[i].namespace < out[j].namespace
		}
		return out[i].dir < out[j].dir
	})
	return out
}

// below reports whether ns equals prefix or lives beneath it, returning
// the remaining segments.
func below(ns, prefix string) (string, bool) {
	switch {
	case prefix == "":
		return ns, true
	case ns == prefix:
		return "", true
	case strings.HasPrefix(ns, prefix+`\`):
		return ns[len(prefix)+1:], true
	}
	return "", false
}
