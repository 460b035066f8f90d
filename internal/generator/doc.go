// Package generator renders templates and writes them into a project tree
// without clobbering work the developer already has.
//
// # Features
//
//   - {{NAME}} placeholder rendering from an embedded store with an
//     optional override directory
//   - Conflict resolution (interactive, --force, --skip, --merge, --diff)
//   - Structural merges dispatched through a merge.Registry
//   - Myers diff for reviewing a conflict before deciding
//   - Batch execution that keeps going when a single file fails
//
// # Scaffolding
//
// A Scaffolder takes one Request at a time:
//
//	s := &generator.Scaffolder{
//	    Fs:       afero.NewOsFs(),
//	    Renderer: generator.NewRenderer(store),
//	    Resolver: resolver,
//	    Merges:   merge.DefaultRegistry(),
//	}
//	res := s.Generate(ctx, generator.Request{
//	    TemplateID: "entity/entity.template",
//	    Variables:  map[string]string{"NAMESPACE": ns, "CLASSNAME": "MyEntity"},
//	    Target:     "src/Core/Content/MyEntity/MyEntityEntity.php",
//	})
//
// The Result reports created, merged, skipped or failed. Execute runs a
// batch of requests and prints one line per file. With DryRun set the batch
// runs against a copy-on-write overlay, so nothing reaches the disk.
package generator
