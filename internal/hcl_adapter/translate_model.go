// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/vk/modelgraph/internal/config"
	"github.com/vk/modelgraph/internal/ctxlog"
)

// translateFile converts every block decoded from a single file.
func (l *Loader) translateFile(ctx context.Context, file string, root *fileRoot) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx).With("file", file)
	ctx = ctxlog.WithLogger(ctx, logger)

	m := &config.Model{}
	switch len(root.Projects) {
	case 0:
	case 1:
		m.Project = root.Projects[0].Name
	default:
		return nil, fmt.Errorf("file %s declares %d project blocks, at most one is allowed", file, len(root.Projects))
	}

	for _, t := range root.Types {
		m.Types = append(m.Types, &config.TypeDecl{Name: t.Name, Extends: t.Extends})
	}
	for _, d := range root.Discoverables {
		m.Discoverables = append(m.Discoverables, l.translateDiscoverable(d))
	}
	for _, s := range root.Selections {
		m.Selections = append(m.Selections, l.translateSelect(s))
	}
	for _, e := range root.Elements {
		el, err := l.translateElement(ctx, e)
		if err != nil {
			return nil, err
		}
		m.Elements = append(m.Elements, el)
	}

	logger.Debug("Translated HCL file.", "types", len(m.Types), "elements", len(m.Elements))
	return m, nil
}

// translateDiscoverable converts the HCL-specific discoverable schema into the agnostic model.
func (l *Loader) translateDiscoverable(d *Discoverable) *config.DiscoverableDecl {
	decl := &config.DiscoverableDecl{Type: d.Type}
	for _, e := range d.Elements {
		decl.Elements = append(decl.Elements, &config.DiscoverableElementDecl{
			Name:  e.Name,
			Type:  e.Type,
			Scope: e.Scope,
		})
	}
	return decl
}

// translateSelect converts the HCL-specific select schema into the agnostic model.
func (l *Loader) translateSelect(s *Select) *config.SelectionDecl {
	decl := &config.SelectionDecl{Type: s.Type}
	for _, c := range s.Cases {
		decl.Cases = append(decl.Cases, &config.CaseDecl{Name: c.Name, Match: c.Match, Type: c.Type})
	}
	return decl
}

// translateElement converts the HCL-specific element schema into the agnostic model.
func (l *Loader) translateElement(ctx context.Context, e *Element) (*config.ElementDecl, error) {
	logger := ctxlog.FromContext(ctx).With("element", e.Identifier)

	props, err := evalProperties(ctx, e.Properties, e.Identifier)
	if err != nil {
		return nil, err
	}
	logger.Debug("Translating HCL element to internal config model.", "type", e.Type, "properties", sortedPropertyKeys(props))

	return &config.ElementDecl{
		Identifier: e.Identifier,
		Type:       e.Type,
		Properties: props,
	}, nil
}
