// Package registry holds what a module declares it produces: the annotations
// its annotators output and the importers and exporters it provides. The
// registry is read from an optional annotations.yaml next to the module's
// metadata.yaml and is used for validation, annotation descriptions and
// analysis unit inference.
package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileName is the registry file expected in a module directory
const FileName = "annotations.yaml"

// Handler kinds
const (
	KindImporter = "importer"
	KindExporter = "exporter"
)

// Annotation describes one annotation a module can produce. Names may
// contain {placeholder} wildcards such as "<token>:misc.{name}".
type Annotation struct {
	Name        string `yaml:"name"`
	Class       string `yaml:"class,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Registry contains the declarations of a single module
type Registry struct {
	Module      string       `yaml:"-"`
	Annotations []Annotation `yaml:"annotations"`
	Importers   []string     `yaml:"importers,omitempty"`
	Exporters   []string     `yaml:"exporters,omitempty"`

	patterns []*regexp.Regexp
}

var placeholder = regexp.MustCompile(`\\\{.+?\\\}`)

// Load parses a registry document
func Load(module string, data []byte) (*Registry, error) {
	r := &Registry{Module: module}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing %s for module %s: %w", FileName, module, err)
	}
	if err := r.compile(); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadFile reads and parses a registry file. A missing file is not an error:
// it returns a nil registry, which disables registry checks.
func LoadFile(fs afero.Fs, module, path string) (*Registry, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	if !exists {
		return nil, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Load(module, data)
}

// compile turns every annotation name into an anchored pattern where each
// {placeholder} matches one or more characters
func (r *Registry) compile() error {
	r.patterns = make([]*regexp.Regexp, len(r.Annotations))
	for i, a := range r.Annotations {
		if a.Name == "" {
			return fmt.Errorf("module %s: annotation %d has no name", r.Module, i)
		}
		expr := placeholder.ReplaceAllString(regexp.QuoteMeta(a.Name), ".+")
		re, err := regexp.Compile("^" + expr + "$")
		if err != nil {
			return fmt.Errorf("module %s: annotation %q: %w", r.Module, a.Name, err)
		}
		r.patterns[i] = re
	}
	return nil
}

// Lookup returns the first declared annotation matching name
func (r *Registry) Lookup(name string) (Annotation, bool) {
	if r == nil {
		return Annotation{}, false
	}
	for i, re := range r.patterns {
		if re.MatchString(name) {
			return r.Annotations[i], true
		}
	}
	return Annotation{}, false
}

// Unknown returns the annotations that match no declaration, sorted. A nil
// registry knows every annotation.
func (r *Registry) Unknown(annotations []string) []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool)
	var unknown []string
	for _, a := range annotations {
		if _, ok := r.Lookup(a); !ok && !seen[a] {
			seen[a] = true
			unknown = append(unknown, a)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// Class returns the unit class of an annotation, or "" if unknown
func (r *Registry) Class(name string) string {
	a, _ := r.Lookup(name)
	return a.Class
}

// Description returns the description of an annotation, or "" if unknown
func (r *Registry) Description(name string) string {
	a, _ := r.Lookup(name)
	return a.Description
}

// HandlerKind reports whether handler is one of the module's importers or
// exporters. With a nil registry the kind is guessed from the handler's
// module part and ok is always true.
func (r *Registry) HandlerKind(handler string) (kind string, ok bool) {
	if r == nil {
		module, _, _ := strings.Cut(handler, ":")
		if strings.Contains(module, "import") {
			return KindImporter, true
		}
		return KindExporter, true
	}
	for _, h := range r.Importers {
		if h == handler {
			return KindImporter, true
		}
	}
	for _, h := range r.Exporters {
		if h == handler {
			return KindExporter, true
		}
	}
	return "", false
}

// Names returns the declared annotation names in declaration order
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.Annotations))
	for i, a := range r.Annotations {
		names[i] = a.Name
	}
	return names
}
