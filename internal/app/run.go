package app

import (
	"context"
	"fmt"

	"github.com/vk/modelgraph/internal/ctxlog"
	"github.com/vk/modelgraph/internal/modeltype"
	"github.com/vk/modelgraph/internal/nodeid"
)

// Run discovers the model, prints the projected graph and returns.
func (a *App) Run(ctx context.Context) error {
	report, err := a.Discover(ctx)
	if err != nil {
		return err
	}
	return writeReport(a.outW, a.config.Output, report)
}

// Discover drives discovery to its fixed point and returns the projection.
// With Config.Element set only that element is resolved.
func (a *App) Discover(ctx context.Context) (*Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Discover method started.")

	t, err := a.lookupType(a.config.Type)
	if err != nil {
		return nil, err
	}
	s, err := a.newSession(ctx)
	if err != nil {
		return nil, err
	}

	if a.config.Element != "" {
		fqn, err := nodeid.Parse(a.config.Element)
		if err != nil {
			return nil, fmt.Errorf("invalid element: %w", err)
		}
		found, err := s.engine.Resolve(ctx, fqn, t, s)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", fqn, err)
		}
		if !found {
			return nil, fmt.Errorf("element %s of type %s cannot be discovered", fqn, t.Name())
		}
		a.logger.Info("Element resolved.", "element", fqn.String(), "type", t.Name())
	} else {
		if err := s.engine.DiscoverAll(ctx, t, s); err != nil {
			return nil, fmt.Errorf("discovery failed: %w", err)
		}
		a.logger.Info("Discovery finished.", "type", t.Name())
	}

	if a.config.Finalize {
		if err := s.finalizeAll(ctx, a); err != nil {
			return nil, fmt.Errorf("finalization failed: %w", err)
		}
	}

	candidates, err := s.engine.Candidates(ctx)
	if err != nil {
		return nil, err
	}
	report, err := s.report(ctx, len(candidates))
	if err != nil {
		return nil, err
	}
	a.logger.Debug("App.Discover method finished.", "elements", len(report.Elements))
	return report, nil
}

// ListCandidates prints the candidates of Config.Type without realizing
// anything.
func (a *App) ListCandidates(ctx context.Context) error {
	candidates, err := a.Candidates(ctx)
	if err != nil {
		return err
	}
	return writeReport(a.outW, a.config.Output, candidates)
}

// Candidates returns the current candidates of Config.Type.
func (a *App) Candidates(ctx context.Context) (CandidateList, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	t, err := a.lookupType(a.config.Type)
	if err != nil {
		return nil, err
	}
	s, err := a.newSession(ctx)
	if err != nil {
		return nil, err
	}
	found, err := s.engine.FindAll(ctx, t)
	if err != nil {
		return nil, err
	}
	return newCandidateList(found), nil
}

func (a *App) lookupType(name string) (*modeltype.Type, error) {
	t, ok := a.catalog.Universe.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	return t, nil
}
