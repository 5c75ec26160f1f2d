package build

import (
	"fmt"
	"strings"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
	"github.com/spraakbanken/sbxmeta/internal/compiler/identifier"
	"github.com/spraakbanken/sbxmeta/internal/compiler/inference"
	"github.com/spraakbanken/sbxmeta/internal/compiler/parser"
	"github.com/spraakbanken/sbxmeta/internal/compiler/registry"
	"github.com/spraakbanken/sbxmeta/internal/compiler/resolver"
	"github.com/spraakbanken/sbxmeta/internal/docs"
	"github.com/spraakbanken/sbxmeta/internal/utils"
)

// CompileSource resolves a description file given its contents. The
// registry source may be nil. Only a malformed registry is returned as an
// error; everything else is reported per section in the result.
func (s *System) CompileSource(m utils.Module, source, registrySource []byte) (*ModuleResult, error) {
	var reg *registry.Registry
	if registrySource != nil {
		var err error
		reg, err = registry.Load(m.Name, registrySource)
		if err != nil {
			return nil, err
		}
	}

	sections, diags := parser.ParseSource(m.MetadataPath, source)
	res := &ModuleResult{
		Module:      m,
		Sections:    len(sections),
		Diagnostics: diags,
	}

	c := &sectionCompiler{
		system:   s,
		module:   m,
		registry: reg,
		resolver: resolver.New(sections).WithFile(m.MetadataPath),
	}

	for _, section := range sections {
		record, sectionDiags := c.compile(section)
		res.Diagnostics = append(res.Diagnostics, sectionDiags...)
		if record != nil {
			res.Records = append(res.Records, record)
		}
	}

	for _, d := range res.Diagnostics {
		d.WithModule(m.Name)
		if d.File == "" {
			d.WithFile(m.MetadataPath)
		}
	}
	return res, nil
}

// sectionCompiler takes one section through
// Loaded → Inheritance-Resolved → Unit-Resolved → Example-Resolved → Emitted.
// The first failing stage ends the section's processing.
type sectionCompiler struct {
	system   *System
	module   utils.Module
	registry *registry.Registry
	resolver *resolver.Resolver
}

func (c *sectionCompiler) compile(section *ast.Section) (*codegen.Record, errors.List) {
	var diags errors.List
	fail := func(err *errors.MetadataError) (*codegen.Record, errors.List) {
		return nil, append(diags, err)
	}

	if err := c.checkIdentifier(section); err != nil {
		return fail(err)
	}

	fields, err := c.resolver.Resolve(section)
	if err != nil {
		return fail(err)
	}

	if section.Abstract {
		return nil, nil
	}

	loc := section.Loc
	id := section.ID

	typ, err := c.recordType(section, fields)
	if err != nil {
		return fail(err)
	}

	computed := ast.Fields{ast.FieldType: typ}
	req := docs.ExampleRequest{
		Type:          typ,
		Module:        c.module.Name,
		Plugin:        c.module.Plugin,
		PluginURL:     fields.String(ast.FieldPluginURL),
		Example:       fields.String(ast.FieldExample),
		ExampleOutput: fields.String(ast.FieldExampleOutput),
		ExampleExtra:  fields.String(ast.FieldExampleExtra),
	}

	switch typ {
	case ast.TypeAnalysis:
		annotations := fields.Strings(ast.FieldAnnotations)
		if len(annotations) == 0 {
			return fail(errors.NewMissingAnnotations(loc, id))
		}
		if unknown := c.registry.Unknown(annotations); len(unknown) > 0 {
			return fail(errors.NewUnknownAnnotations(loc, id, unknown))
		}

		unit, err := c.analysisUnit(section, fields, annotations)
		if err != nil {
			return fail(err)
		}
		if unit != "" {
			computed[ast.FieldAnalysisUnit] = string(unit)
		}
		req.Annotations = annotations

	case ast.TypeUtility:
		if handler := fields.String(ast.FieldSparvHandler); handler != "" {
			kind, ok := c.registry.HandlerKind(handler)
			if !ok {
				return fail(errors.NewUnknownHandler(loc, id, handler))
			}
			req.Handler = handler
			req.HandlerKind = kind
		}
	}

	examples := c.system.examples
	if c.registry != nil {
		examples = docs.NewExampleGenerator(c.system.options.UsageGuide).WithDescriptions(c.registry)
	}
	example, ok := examples.Generate(req)
	if !ok {
		return fail(errors.NewNoExample(loc, id))
	}
	if example != "" {
		computed[ast.FieldExample] = example
	}

	if fields.Has(ast.FieldShortDescription) {
		value, fallback := codegen.ShortDescription(fields)
		diags = append(diags, codegen.LintShortDescription(loc, id, value, fallback)...)
	}

	record := c.system.emitter.Emit(id, fields.Overlay(computed), c.module.Plugin)
	return record, diags
}

// checkIdentifier validates the section id. Abstract sections may use the
// reserved parent suffix; published sections may not.
func (c *sectionCompiler) checkIdentifier(section *ast.Section) *errors.MetadataError {
	if identifier.IsParentOnly(section.ID) {
		if section.Abstract {
			return nil
		}
		return errors.NewReservedSuffix(section.Loc, section.ID, identifier.ParentSuffix)
	}

	if err := identifier.Validate(section.ID); err != nil {
		me, ok := errors.As(err)
		if !ok {
			return errors.NewMalformedSection(section.Loc, err.Error()).WithSection(section.ID)
		}
		return me.WithLocation(section.Loc)
	}
	return nil
}

// recordType decides whether a section describes an analysis or a utility.
// An explicit type wins; otherwise annotations make an analysis and a Sparv
// handler makes a utility. Sections with neither default to analysis.
func (c *sectionCompiler) recordType(section *ast.Section, fields ast.Fields) (string, *errors.MetadataError) {
	switch typ := strings.TrimSpace(fields.String(ast.FieldType)); typ {
	case ast.TypeAnalysis, ast.TypeUtility:
		return typ, nil
	case "":
	default:
		return "", errors.NewUnknownType(section.Loc, section.ID, typ)
	}

	if len(fields.Strings(ast.FieldAnnotations)) > 0 {
		return ast.TypeAnalysis, nil
	}
	if fields.String(ast.FieldSparvHandler) != "" {
		return ast.TypeUtility, nil
	}
	return ast.TypeAnalysis, nil
}

// analysisUnit returns the declared unit after checking it, or infers one
// from the annotations. An empty unit means unspecified.
func (c *sectionCompiler) analysisUnit(section *ast.Section, fields ast.Fields, annotations []string) (inference.Unit, *errors.MetadataError) {
	if declared := fields.String(ast.FieldAnalysisUnit); declared != "" {
		unit, ok := inference.ParseUnit(declared)
		if !ok {
			return "", errors.NewInvalidAnalysisUnit(section.Loc, section.ID, declared, inference.LevelNames())
		}
		return unit, nil
	}

	var classifier inference.Classifier
	if c.registry != nil {
		classifier = c.registry
	}
	unit, _ := inference.InferUnit(annotations, classifier)
	return unit, nil
}

// String describes the module result for logs
func (r *ModuleResult) String() string {
	return fmt.Sprintf("%s: %d records, %d failed sections", r.Module.Name, len(r.Records), r.Failed())
}
