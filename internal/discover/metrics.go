package discover

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("modelgraph.discover")

var (
	passesTotal     metric.Int64Counter
	candidatesTotal metric.Int64Counter
	cyclesTotal     metric.Int64Counter

	candidatesPerPass metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the counters. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		passesTotal, err = meter.Int64Counter(
			"modelgraph_discovery_passes_total",
			metric.WithDescription("Total number of discovery passes"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		candidatesTotal, err = meter.Int64Counter(
			"modelgraph_discovery_candidates_emitted_total",
			metric.WithDescription("Total number of candidates emitted by rules"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		candidatesPerPass, err = meter.Int64Histogram(
			"modelgraph_discovery_candidates",
			metric.WithDescription("Number of distinct candidates per discovery pass"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cyclesTotal, err = meter.Int64Counter(
			"modelgraph_discovery_cycles_detected_total",
			metric.WithDescription("Total number of discovery cycles detected"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordPass(ctx context.Context, candidates int, err error) {
	if initMetrics() != nil {
		return
	}
	passesTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))
	if err == nil {
		candidatesPerPass.Record(ctx, int64(candidates))
	}
}

func recordEmitted(ctx context.Context) {
	if initMetrics() != nil {
		return
	}
	candidatesTotal.Add(ctx, 1)
}

func recordCycle(ctx context.Context) {
	if initMetrics() != nil {
		return
	}
	cyclesTotal.Add(ctx, 1)
}
