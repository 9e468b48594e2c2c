package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/vk/modelgraph/internal/discover"
	"github.com/vk/modelgraph/internal/graph"
	"github.com/vk/modelgraph/internal/topologystore"
)

// Report is the projected graph after a discovery run.
type Report struct {
	Graph         string               `json:"graph" yaml:"graph"`
	Root          string               `json:"root" yaml:"root"`
	Candidates    int                  `json:"candidates" yaml:"candidates"`
	Elements      []ElementReport      `json:"elements" yaml:"elements"`
	Relationships []RelationshipReport `json:"relationships" yaml:"relationships"`
}

// ElementReport describes one projected element.
type ElementReport struct {
	ID         int64          `json:"id" yaml:"id"`
	Identifier string         `json:"identifier" yaml:"identifier"`
	Type       string         `json:"type" yaml:"type"`
	Status     string         `json:"status" yaml:"status"`
	Labels     []string       `json:"labels" yaml:"labels"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// RelationshipReport describes one projected relationship.
type RelationshipReport struct {
	ID    int64  `json:"id" yaml:"id"`
	Type  string `json:"type" yaml:"type"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// CandidateReport describes one discovery candidate.
type CandidateReport struct {
	Identifier string   `json:"identifier" yaml:"identifier"`
	Type       string   `json:"type" yaml:"type"`
	Known      bool     `json:"known" yaml:"known"`
	Actions    []string `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// CandidateList is the output of the candidates command.
type CandidateList []CandidateReport

func newCandidateList(cs []*discover.CandidateElement) CandidateList {
	out := make(CandidateList, 0, len(cs))
	for _, c := range cs {
		r := CandidateReport{
			Identifier: c.Identifier().String(),
			Type:       c.Type().Name(),
			Known:      c.Known(),
		}
		for _, a := range c.Actions() {
			r.Actions = append(r.Actions, a.String())
		}
		out = append(out, r)
	}
	return out
}

// Properties every projected element carries, left out of the text output.
var builtinProperties = []string{
	topologystore.PropertyIdentifier,
	topologystore.PropertyType,
	topologystore.PropertyName,
}

func (s *session) report(ctx context.Context, candidates int) (*Report, error) {
	r := &Report{Root: s.root.Identifier.String(), Candidates: candidates}

	err := s.topology.View(ctx, func(g *graph.Graph) error {
		r.Graph = g.ID().String()
		identifiers := make(map[int64]string, g.NodeCount())

		for n := range g.Nodes() {
			idValue, err := n.Property(topologystore.PropertyIdentifier)
			if err != nil {
				return err
			}
			identifier, _ := idValue.AsString()
			identity := s.projected[identifier]
			status, err := s.lifecycle.Status(ctx, identity)
			if err != nil {
				return err
			}

			el := ElementReport{
				ID:         n.ID(),
				Identifier: identifier,
				Type:       identity.Type.Name(),
				Status:     status.String(),
				Properties: make(map[string]any),
			}
			for _, l := range n.Labels() {
				el.Labels = append(el.Labels, l.Name())
			}
			for k, v := range n.Properties().All() {
				if !slices.Contains(builtinProperties, k) {
					el.Properties[k] = v.Interface()
				}
			}
			identifiers[n.ID()] = identifier
			r.Elements = append(r.Elements, el)
		}

		for rel := range g.Relationships() {
			r.Relationships = append(r.Relationships, RelationshipReport{
				ID:    rel.ID(),
				Type:  rel.Type().Name(),
				Start: identifiers[rel.StartNode().ID()],
				End:   identifiers[rel.EndNode().ID()],
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	return r, nil
}

type textRenderer interface {
	renderText(w io.Writer) error
}

// writeReport encodes v in the given output format.
func writeReport(w io.Writer, format string, v textRenderer) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case OutputText, "":
		return v.renderText(w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func (r *Report) renderText(w io.Writer) error {
	fmt.Fprintf(w, "graph %s (root %s, %d candidates)\n\n", r.Graph, r.Root, r.Candidates)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tIDENTIFIER\tTYPE\tSTATUS\tLABELS\tPROPERTIES")
	for _, el := range r.Elements {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			el.ID, el.Identifier, el.Type, el.Status, strings.Join(el.Labels, ","), formatProperties(el.Properties))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTART\tTYPE\tEND")
	for _, rel := range r.Relationships {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", rel.ID, rel.Start, rel.Type, rel.End)
	}
	return tw.Flush()
}

func (l CandidateList) renderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IDENTIFIER\tTYPE\tKNOWN\tACTIONS")
	for _, c := range l {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", c.Identifier, c.Type, c.Known, strings.Join(c.Actions, " <- "))
	}
	return tw.Flush()
}

func formatProperties(props map[string]any) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, props[k]))
	}
	return strings.Join(parts, " ")
}
