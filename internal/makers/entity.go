package makers

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
	"github.com/simonhull/firebird-suite/wren/internal/naming"
	"github.com/simonhull/firebird-suite/wren/internal/templates"
)

// EntityMaker generates a DAL entity: definition, entity, collection,
// its services.xml registration and optionally a migration.
type EntityMaker struct{}

func (m *EntityMaker) Name() string { return "entity" }

func (m *EntityMaker) Description() string {
	return "DAL entity definition, entity and collection classes with an optional migration"
}

func (m *EntityMaker) Plan(ctx context.Context, s *Session) (*Plan, error) {
	b, err := s.PickBundle(ctx)
	if err != nil {
		return nil, err
	}

	name, err := s.Prompter.Ask("Name of the entity (e.g. CustomThing)", "", naming.ValidateEntityName)
	if err != nil {
		return nil, err
	}
	base := naming.EntityBaseName(name)
	table := naming.SnakeCase(base)

	loc, err := s.PickNamespace(b, "Core/Content/"+base)
	if err != nil {
		return nil, err
	}

	vars := map[string]string{
		"NAMESPACE":    loc.Namespace,
		"ENTITY_NAME":  base,
		"ENTITY_TABLE": table,
	}

	plan := &Plan{Bundle: b}
	plan.add(templates.EntityDefinition, filepath.Join(loc.Path, base+"Definition.php"), vars)
	plan.add(templates.EntityEntity, filepath.Join(loc.Path, base+"Entity.php"), vars)
	plan.add(templates.EntityCollection, filepath.Join(loc.Path, base+"Collection.php"), vars)
	plan.add(templates.EntityServices, b.ServicesXML(), vars)

	migrate, err := s.Prompter.Confirm("Generate a matching migration for this entity?", true)
	if err != nil {
		return nil, err
	}
	if migrate {
		ts := strconv.FormatInt(s.now().Unix(), 10)
		class := "Migration" + ts + base
		plan.add(templates.EntityMigration, b.File(bundle.MigrationDir+"/"+class+".php"), map[string]string{
			"MIGRATION_NAMESPACE": b.Namespace + `\` + bundle.MigrationDir,
			"MIGRATION_CLASS":     class,
			"MIGRATION_TIMESTAMP": ts,
			"ENTITY_TABLE":        table,
			"ENTITY_NAME":         base,
		})
		plan.Next = append(plan.Next, "bin/console plugin:update "+b.Name)
	}

	return plan, nil
}
