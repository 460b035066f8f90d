// Package input provides the operator-facing question abstraction.
//
// # Overview
//
// Everything that needs an answer from the developer goes through a
// Prompter, so commands and generators never read the terminal directly:
//
//	p := input.NewTerminal(os.Stdin, os.Stdout)
//	name, err := p.Ask("Entity name", "CustomThing", naming.ValidateEntityName)
//	choice, err := p.Choose("File exists", options, "skip")
//	ok, err := p.Confirm("Generate migration?", true)
//
// # Terminal
//
// Terminal renders questions with lipgloss. Choices use an arrow-key menu
// (bubbletea) when stdin is a terminal and a numbered list otherwise, so the
// tool still works when input is piped.
//
// # Scripted answers
//
// Scripted replays a fixed list of answers and records every question. It
// is what the tests use:
//
//	p := input.NewScripted("MyEntity", "", "y")
package input
