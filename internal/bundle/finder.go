package bundle

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultPluginDirs are scanned when no plugin dirs are configured.
var DefaultPluginDirs = []string{"custom/plugins", "custom/static-plugins"}

// ErrNoBundles is returned when a project contains no usable bundle.
var ErrNoBundles = errors.New("no plugin bundles found")

// ErrNoAdministration is returned when a bundle has no administration sources.
var ErrNoAdministration = errors.New("no administration directory found")

// Finder locates plugin bundles below a project root.
type Finder struct {
	Fs     afero.Fs
	Root   string
	Dirs   []string // relative to Root
	Logger *zap.Logger
}

// NewFinder creates a Finder; empty dirs fall back to DefaultPluginDirs.
func NewFinder(fsys afero.Fs, root string, dirs []string) *Finder {
	if len(dirs) == 0 {
		dirs = DefaultPluginDirs
	}
	return &Finder{Fs: fsys, Root: root, Dirs: dirs, Logger: zap.NewNop()}
}

// Find scans the plugin dirs for composer.json manifests of Shopware
// plugins. Builtin bundles are excluded, results are sorted by name and
// the first bundle wins when two share a name.
func (f *Finder) Find() ([]Bundle, error) {
	var found []Bundle
	seen := make(map[string]string)

	for _, dir := range f.Dirs {
		root := filepath.Join(f.Root, filepath.FromSlash(dir))
		if ok, _ := afero.DirExists(f.Fs, root); !ok {
			f.Logger.Debug("plugin dir missing", zap.String("dir", root))
			continue
		}

		err := Walk(f.Fs, root, WalkOptions{MaxDepth: 2}, func(path string, info os.FileInfo) error {
			if !info.IsDir() {
				return nil
			}

			manifest := filepath.Join(path, "composer.json")
			data, err := afero.ReadFile(f.Fs, manifest)
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", manifest, err)
			}

			b, err := f.bundleFrom(path, manifest, data)
			if err != nil {
				f.Logger.Debug("skipping package", zap.String("manifest", manifest), zap.Error(err))
				return nil
			}

			if prev, dup := seen[b.Name]; dup {
				f.Logger.Warn("duplicate bundle name", zap.String("bundle", b.Name),
					zap.String("kept", prev), zap.String("ignored", manifest))
			} else {
				seen[b.Name] = manifest
				found = append(found, b)
			}
			// A plugin's own tree never contains further plugins.
			if path != root {
				return filepath.SkipDir
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

func (f *Finder) bundleFrom(dir, manifest string, data []byte) (Bundle, error) {
	c, err := ParseComposer(data)
	if err != nil {
		return Bundle{}, err
	}
	b, err := c.Bundle(dir)
	if err != nil {
		return Bundle{}, err
	}
	if IsBuiltin(b.Name) {
		return Bundle{}, fmt.Errorf("%s is a builtin bundle", b.Name)
	}
	b.Composer = manifest
	return b, nil
}

// Module is an administration module registered in a bundle.
type Module struct {
	File      string // path of the registering file, relative to AdminDir
	Namespace string // directory of that file, relative to AdminDir
}

// FindModules lists the administration files calling Module.register.
func FindModules(fsys afero.Fs, b Bundle) ([]Module, error) {
	base := b.File(AdminDir)
	if ok, _ := afero.DirExists(fsys, base); !ok {
		return nil, fmt.Errorf("%s: %w", b.Name, ErrNoAdministration)
	}

	var modules []Module
	err := Walk(fsys, base, WalkOptions{}, func(path string, info os.FileInfo) error {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".js") {
			return nil
		}
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if !bytes.Contains(data, []byte("Module.register")) {
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		ns := filepath.ToSlash(filepath.Dir(rel))
		if ns == "." {
			ns = ""
		}
		modules = append(modules, Module{File: rel, Namespace: ns})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(modules, func(i, j int) bool { return modules[i].File < modules[j].File })
	return modules, nil
}
