// Package resolver flattens parent/child inheritance between the sections
// of one description file. A section's resolved fields are its parent's
// resolved fields overlaid with its own, so the child always wins key by
// key. Chains may be arbitrarily deep; cycles and references to sections
// that do not exist are reported instead of followed.
package resolver

import (
	"fmt"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
	utilstrings "github.com/spraakbanken/sbxmeta/internal/util/strings"
)

// failure is the root cause of an unresolvable chain, shared by every
// section that inherits from it
type failure struct {
	cycle   []string // cycle path, first and last id equal
	child   string   // section whose parent is missing
	missing string   // the missing parent id
}

// Resolver resolves sections of a single file. Results are memoized, so
// each section is resolved at most once however many children it has.
//
// Thread Safety: Resolver instances are NOT thread-safe.
type Resolver struct {
	sections map[string]*ast.Section
	ids      []string
	file     string

	resolved map[string]ast.Fields
	failed   map[string]*failure
}

// New creates a resolver over the sections of one file
func New(sections []*ast.Section) *Resolver {
	r := &Resolver{
		sections: make(map[string]*ast.Section, len(sections)),
		ids:      make([]string, 0, len(sections)),
		resolved: make(map[string]ast.Fields),
		failed:   make(map[string]*failure),
	}
	for _, s := range sections {
		if _, dup := r.sections[s.ID]; dup {
			continue
		}
		r.sections[s.ID] = s
		r.ids = append(r.ids, s.ID)
	}
	return r
}

// WithFile sets the file name reported in diagnostics
func (r *Resolver) WithFile(file string) *Resolver {
	r.file = file
	return r
}

// Resolve returns the inheritance-free fields of a section passed to New.
// The returned fields are shared with other sections and must not be
// modified.
func (r *Resolver) Resolve(section *ast.Section) (ast.Fields, *errors.MetadataError) {
	id := section.ID
	fields, fail := r.resolve(id, nil)
	if fail == nil {
		return fields, nil
	}

	if fail.cycle != nil {
		return nil, r.withFile(errors.NewInheritanceCycle(section.Loc, id, fail.cycle))
	}

	err := errors.NewMissingParent(section.Loc, fail.child, fail.missing).WithSection(id)
	if similar := utilstrings.FindSimilar(fail.missing, r.ids, nil); len(similar) > 0 {
		err.WithSuggestion(fmt.Sprintf("Did you mean '%s'?", similar[0]))
	}
	return nil, r.withFile(err)
}

// resolve walks up the parent chain. path holds the ids currently being
// resolved and is used to detect cycles.
func (r *Resolver) resolve(id string, path []string) (ast.Fields, *failure) {
	if fields, ok := r.resolved[id]; ok {
		return fields, nil
	}
	if fail, ok := r.failed[id]; ok {
		return nil, fail
	}

	for i, p := range path {
		if p == id {
			cycle := append(append([]string{}, path[i:]...), id)
			return nil, &failure{cycle: cycle}
		}
	}

	section := r.sections[id]
	if !section.HasParent() {
		r.resolved[id] = section.Fields
		return section.Fields, nil
	}

	if _, ok := r.sections[section.Parent]; !ok {
		fail := &failure{child: id, missing: section.Parent}
		r.failed[id] = fail
		return nil, fail
	}

	parent, fail := r.resolve(section.Parent, append(path, id))
	if fail != nil {
		r.failed[id] = fail
		return nil, fail
	}

	fields := parent.Overlay(section.Fields)
	r.resolved[id] = fields
	return fields, nil
}

func (r *Resolver) withFile(err *errors.MetadataError) *errors.MetadataError {
	if r.file != "" {
		err.WithFile(r.file)
	}
	return err
}
