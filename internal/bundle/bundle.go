// Package bundle discovers Shopware plugin bundles in a project and maps
// namespace paths to directories inside them.
//
// # Usage
//
//	finder := bundle.NewFinder(afero.NewOsFs(), ".", []string{"custom/plugins"})
//	bundles, err := finder.Find()
//	if err != nil {
//	    return err
//	}
//	loc := bundles[0].Join("Subscriber")
//	fmt.Println(loc.Path, loc.Namespace) // custom/plugins/SwagExample/src/Subscriber Swag\Example\Subscriber
package bundle

import (
	"path/filepath"
	"strings"
)

// Directories relative to a bundle's source path.
const (
	AdminDir      = "Resources/app/administration/src"
	StorefrontDir = "Resources/app/storefront/src"
	ConfigDir     = "Resources/config"
	ViewsDir      = "Resources/views"
	MigrationDir  = "Migration"
)

// builtinBundles are framework bundles that never receive generated code.
var builtinBundles = map[string]struct{}{
	"Framework": {}, "Core": {}, "Storefront": {}, "DbalKernelPluginLoader": {},
	"WebProfilerBundle": {}, "Service": {}, "Elasticsearch": {},
	"PentatrionViteBundle": {}, "Administration": {}, "Maintenance": {},
	"DevOps": {}, "Checkout": {}, "Content": {}, "System": {},
	"DebugBundle": {}, "TwigBundle": {}, "MonologBundle": {}, "Profiling": {},
	"FrameworkBundle": {},
}

// IsBuiltin reports whether name is one of the framework's own bundles.
func IsBuiltin(name string) bool {
	_, ok := builtinBundles[name]
	return ok
}

// Bundle is a plugin bundle found in the project.
type Bundle struct {
	Name      string // bundle class short name, e.g. SwagExample
	Path      string // directory holding the bundle class
	Namespace string // PHP namespace of the bundle class, without trailing separator
	Composer  string // composer.json it was discovered from
}

// Location is a directory inside a bundle together with the namespace
// classes placed there use.
type Location struct {
	Path      string
	Namespace string
}

// Join resolves a namespace path such as "Core/Content/Example" below the
// bundle's source directory.
func (b Bundle) Join(rel string) Location {
	rel = cleanRel(rel)
	if rel == "" {
		return Location{Path: b.Path, Namespace: b.Namespace}
	}
	return Location{
		Path:      filepath.Join(b.Path, filepath.FromSlash(rel)),
		Namespace: b.Namespace + `\` + strings.ReplaceAll(rel, "/", `\`),
	}
}

// JoinAdmin resolves a path below the administration source directory.
// The returned namespace is the slash-separated import path used by
// JavaScript, e.g. "module/my-module".
func (b Bundle) JoinAdmin(rel string) Location {
	rel = cleanRel(rel)
	return Location{
		Path:      filepath.Join(b.Path, filepath.FromSlash(AdminDir), filepath.FromSlash(rel)),
		Namespace: rel,
	}
}

// File returns the path of a file relative to the bundle's source directory.
func (b Bundle) File(rel string) string {
	return filepath.Join(b.Path, filepath.FromSlash(rel))
}

// ServicesXML is the bundle's service registration file.
func (b Bundle) ServicesXML() string {
	return b.File(ConfigDir + "/services.xml")
}

// RoutesXML is the bundle's route import file.
func (b Bundle) RoutesXML() string {
	return b.File(ConfigDir + "/routes.xml")
}

func cleanRel(rel string) string {
	rel = strings.ReplaceAll(strings.TrimSpace(rel), `\`, "/")
	return strings.Trim(rel, "/")
}

// ByName returns the bundle called name.
func ByName(bundles []Bundle, name string) (Bundle, bool) {
	for _, b := range bundles {
		if b.Name == name {
			return b, true
		}
	}
	return Bundle{}, false
}
