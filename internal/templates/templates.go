// Package templates embeds the built-in template set.
//
// Template ids are slash-separated paths ending in ".template", e.g.
// "entity/entity-definition.template". A template directory configured
// with templates.dir shadows any of these by id.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed files
var files embed.FS

// Template ids used by the makers.
const (
	EntityDefinition = "entity/entity-definition.template"
	EntityEntity     = "entity/entity-entity.template"
	EntityCollection = "entity/entity-collection.template"
	EntityServices   = "entity/services-xml.template"
	EntityMigration  = "migration/create-entity-table.template"

	SubscriberClass    = "event-subscriber/class.template"
	SubscriberServices = "event-subscriber/services-xml.template"

	TaskClass    = "scheduled-task/class.template"
	TaskHandler  = "scheduled-task/handler-class.template"
	TaskServices = "scheduled-task/services-xml.template"

	ControllerClass    = "storefront-controller/class.template"
	ControllerServices = "storefront-controller/services-xml.template"
	ControllerRoutes   = "storefront-controller/routes-xml.template"
	ControllerTwig     = "storefront-controller/twig.template"

	StoreAPIAbstract = "store-api-route/abstract.template"
	StoreAPIRoute    = "store-api-route/route.template"
	StoreAPIServices = "store-api-route/services-xml.template"
	StoreAPIRoutes   = "store-api-route/routes-xml.template"

	AdminModule        = "administration/module.js.template"
	AdminMainJS        = "administration/main-js.template"
	AdminComponentJS   = "administration/component.js.template"
	AdminPageJS        = "administration/page.js.template"
	AdminViewJS        = "administration/view.js.template"
	AdminPageTwig      = "administration/page.twig.template"
	AdminComponentTwig = "administration/component.twig.template"

	JSPlugin       = "js-plugin/plugin.js.template"
	JSPluginTwig   = "js-plugin/twig.template"
	JSPluginMainJS = "js-plugin/main-js.template"
)

// FS returns the built-in templates rooted at their ids.
func FS() fs.FS {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		panic(err) // "files" is a fixed, embedded directory
	}
	return sub
}
