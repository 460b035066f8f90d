// Package output provides styled terminal output for wren.
//
// # Usage
//
//	output.Success("Created MyEntityDefinition.php")
//	output.Info("Next steps:")
//	output.Step("bin/console plugin:refresh")
//	output.Warning("routes.xml cannot be merged")
//	output.Error("Something went wrong")
//
// # Verbose Mode
//
//	output.SetVerbose(true)
//	output.Verbose("Loading templates from .wren/templates")
//
// # Generated code
//
// Code prints the content of a freshly generated file, syntax highlighted
// with chroma when highlighting is enabled:
//
//	output.SetHighlight(true, "monokai")
//	output.Code("src/MyEntity.php", content)
//
// # Styling
//
//   - Success: ✅ green bold
//   - Error: ❌ red bold
//   - Warning: ⚠️  yellow
//   - Info: ℹ️ cyan
//   - Step: indented gray
//   - Verbose: 🔍 gray (when enabled)
package output
