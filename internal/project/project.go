// Package project detects the Shopware installation wren runs in.
//
// # Usage
//
//	root, found, err := project.FindRoot(afero.NewOsFs(), cwd)
//	if err != nil {
//	    return err
//	}
//	if !found {
//	    root = cwd
//	}
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
)

// corePackages mark a composer.json as a Shopware installation.
var corePackages = []string{"shopware/core", "shopware/platform", "shopware/production"}

// Info describes a detected installation.
type Info struct {
	Root     string // directory holding composer.json
	Name     string // composer package name, may be empty
	Core     string // the Shopware package that was found
	Version  string // its version constraint
	Composer string // path to composer.json
}

// IsShopwareProject reports whether dir holds a Shopware installation.
func IsShopwareProject(fsys afero.Fs, dir string) bool {
	info, err := Detect(fsys, dir)
	return err == nil && info != nil
}

// Detect reads dir/composer.json. It returns nil without error when the
// file is missing, belongs to a plugin or does not require a Shopware core
// package.
func Detect(fsys afero.Fs, dir string) (*Info, error) {
	path := filepath.Join(dir, "composer.json")
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	c, err := bundle.ParseComposer(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.IsPlugin() {
		return nil, nil
	}

	for _, pkg := range corePackages {
		if version, ok := c.Require[pkg]; ok {
			return &Info{Root: dir, Name: c.Name, Core: pkg, Version: version, Composer: path}, nil
		}
	}
	if c.Name == "shopware/production" || c.Name == "shopware/platform" {
		return &Info{Root: dir, Name: c.Name, Core: c.Name, Composer: path}, nil
	}
	return nil, nil
}

// FindRoot walks up from start to the first Shopware installation. A
// malformed composer.json on the way is skipped, since plugin directories
// below the root carry their own manifests.
func FindRoot(fsys afero.Fs, start string) (string, bool, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		if info, err := Detect(fsys, dir); err == nil && info != nil {
			return dir, true, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
