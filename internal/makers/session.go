// Package makers turns interview answers into scaffold requests.
//
// Each Maker asks its questions through an input.Prompter and returns a
// Plan: the requests for generator.Execute plus follow-up hints. Makers
// never touch the filesystem for writing; they only read it to discover
// existing admin modules.
package makers

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
	"github.com/simonhull/firebird-suite/wren/internal/generator"
	"github.com/simonhull/firebird-suite/wren/internal/input"
	"github.com/simonhull/firebird-suite/wren/internal/naming"
)

// Session carries what every interview needs.
type Session struct {
	Prompter input.Prompter
	Fs       afero.Fs
	Bundles  []bundle.Bundle
	Now      func() time.Time

	// Bundle preselects a bundle by name and skips the question.
	Bundle string
}

// Plan is the result of an interview.
type Plan struct {
	Bundle   bundle.Bundle
	Requests []generator.Request
	Next     []string // follow-up commands for the operator
}

func (p *Plan) add(templateID, target string, vars map[string]string) {
	p.Requests = append(p.Requests, generator.Request{
		TemplateID: templateID,
		Variables:  vars,
		Target:     target,
	})
}

func (s *Session) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// PickBundle selects the target bundle: the preselected one, the only one,
// or the operator's choice.
func (s *Session) PickBundle(ctx context.Context) (bundle.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return bundle.Bundle{}, err
	}
	if len(s.Bundles) == 0 {
		return bundle.Bundle{}, bundle.ErrNoBundles
	}

	if s.Bundle != "" {
		b, ok := bundle.ByName(s.Bundles, s.Bundle)
		if !ok {
			return bundle.Bundle{}, fmt.Errorf("bundle '%s' not found", s.Bundle)
		}
		return b, nil
	}
	if len(s.Bundles) == 1 {
		return s.Bundles[0], nil
	}

	options := make([]input.Option, len(s.Bundles))
	for i, b := range s.Bundles {
		options[i] = input.Option{Value: b.Name, Label: fmt.Sprintf("%s (%s)", b.Name, b.Namespace)}
	}
	name, err := s.Prompter.Choose("Which bundle should the files go to?", options, s.Bundles[0].Name)
	if err != nil {
		return bundle.Bundle{}, err
	}
	b, _ := bundle.ByName(s.Bundles, name)
	return b, nil
}

// PickNamespace asks for a namespace path below the bundle's source dir.
func (s *Session) PickNamespace(b bundle.Bundle, def string) (bundle.Location, error) {
	rel, err := s.Prompter.Ask("Namespace path starting from src (e.g. Service/MyService)", def, naming.ValidateNamespacePath)
	if err != nil {
		return bundle.Location{}, err
	}
	return b.Join(rel), nil
}

// PickAdminNamespace asks for a path below the administration sources.
func (s *Session) PickAdminNamespace(b bundle.Bundle, def string) (bundle.Location, error) {
	rel, err := s.Prompter.Ask("Path starting from "+bundle.AdminDir+" (e.g. module/my-module)", def, naming.ValidateNamespacePath)
	if err != nil {
		return bundle.Location{}, err
	}
	return b.JoinAdmin(rel), nil
}

func (s *Session) askClassName(question, def string) (string, error) {
	return s.Prompter.Ask(question, def, naming.ValidateClassName)
}
