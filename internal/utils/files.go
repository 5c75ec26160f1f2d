package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

const (
	// MetadataFileName is the description file of a module
	MetadataFileName = "metadata.yaml"
	// RegistryFileName declares what a module produces
	RegistryFileName = "annotations.yaml"
)

// Module is a directory holding a description file
type Module struct {
	Name         string
	Dir          string
	MetadataPath string
	RegistryPath string // empty when the module has no registry file
	Plugin       bool
}

// FindModules returns every module directly below modulesDir (built-in
// modules) and pluginsDir (plugins), sorted by name. Either directory may be
// empty or missing. A plugin with the same name as a built-in module
// replaces it.
func FindModules(fs afero.Fs, modulesDir, pluginsDir string) ([]Module, error) {
	byName := make(map[string]Module)

	for _, root := range []struct {
		dir    string
		plugin bool
	}{{modulesDir, false}, {pluginsDir, true}} {
		if root.dir == "" {
			continue
		}
		found, err := scanRoot(fs, root.dir, root.plugin)
		if err != nil {
			return nil, err
		}
		for _, m := range found {
			byName[m.Name] = m
		}
	}

	modules := make([]Module, 0, len(byName))
	for _, m := range byName {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })
	return modules, nil
}

// scanRoot lists the module directories of one root
func scanRoot(fs afero.Fs, dir string, plugin bool) ([]Module, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var modules []Module
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m, ok, err := ModuleAt(fs, filepath.Join(dir, entry.Name()), plugin)
		if err != nil {
			return nil, err
		}
		if ok {
			modules = append(modules, m)
		}
	}
	return modules, nil
}

// ModuleAt describes the module in dir. ok is false if dir has no
// description file.
func ModuleAt(fs afero.Fs, dir string, plugin bool) (Module, bool, error) {
	metadataPath := filepath.Join(dir, MetadataFileName)
	exists, err := afero.Exists(fs, metadataPath)
	if err != nil {
		return Module{}, false, fmt.Errorf("checking %s: %w", metadataPath, err)
	}
	if !exists {
		return Module{}, false, nil
	}

	m := Module{
		Name:         filepath.Base(dir),
		Dir:          dir,
		MetadataPath: metadataPath,
		Plugin:       plugin,
	}

	registryPath := filepath.Join(dir, RegistryFileName)
	if ok, err := afero.Exists(fs, registryPath); err != nil {
		return Module{}, false, fmt.Errorf("checking %s: %w", registryPath, err)
	} else if ok {
		m.RegistryPath = registryPath
	}
	return m, true, nil
}

// ModuleForFile describes the module owning a description file given
// directly, e.g. on the command line
func ModuleForFile(fs afero.Fs, path string, plugin bool) (Module, error) {
	if ok, err := afero.Exists(fs, path); err != nil {
		return Module{}, fmt.Errorf("checking %s: %w", path, err)
	} else if !ok {
		return Module{}, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}

	dir := filepath.Dir(path)
	m := Module{
		Name:         filepath.Base(dir),
		Dir:          dir,
		MetadataPath: path,
		Plugin:       plugin,
	}
	registryPath := filepath.Join(dir, RegistryFileName)
	if ok, _ := afero.Exists(fs, registryPath); ok {
		m.RegistryPath = registryPath
	}
	return m, nil
}

// FindMetadataFiles recursively finds all description files below dir
func FindMetadataFiles(fs afero.Fs, dir string) ([]string, error) {
	var files []string

	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.Name() == MetadataFileName {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
