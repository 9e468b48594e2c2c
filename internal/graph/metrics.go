package graph

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "modelgraph.graph"

type metricsListener struct {
	nodes         metric.Int64Counter
	relationships metric.Int64Counter
	labels        metric.Int64Counter
	properties    metric.Int64Counter
}

// MetricsListener returns a Listener that counts mutations on the global
// OpenTelemetry meter provider.
func MetricsListener() (Listener, error) {
	return MetricsListenerFor(otel.GetMeterProvider())
}

// MetricsListenerFor returns a Listener that counts mutations on provider.
func MetricsListenerFor(provider metric.MeterProvider) (Listener, error) {
	var (
		m   metricsListener
		err error
	)
	meter := provider.Meter(meterName)
	if m.nodes, err = meter.Int64Counter(
		"modelgraph_nodes_created_total",
		metric.WithDescription("Total number of graph nodes created"),
	); err != nil {
		return nil, err
	}
	if m.relationships, err = meter.Int64Counter(
		"modelgraph_relationships_created_total",
		metric.WithDescription("Total number of graph relationships created"),
	); err != nil {
		return nil, err
	}
	if m.labels, err = meter.Int64Counter(
		"modelgraph_labels_added_total",
		metric.WithDescription("Total number of labels added to nodes"),
	); err != nil {
		return nil, err
	}
	if m.properties, err = meter.Int64Counter(
		"modelgraph_property_changes_total",
		metric.WithDescription("Total number of property writes"),
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// Events carry no context; the counters are recorded against Background.
func (m *metricsListener) NodeCreated(NodeCreated) {
	m.nodes.Add(context.Background(), 1)
}

func (m *metricsListener) RelationshipCreated(RelationshipCreated) {
	m.relationships.Add(context.Background(), 1)
}

func (m *metricsListener) LabelAdded(e LabelAdded) {
	m.labels.Add(context.Background(), 1, metric.WithAttributes(attribute.String("label", e.Label.Name())))
}

func (m *metricsListener) PropertyChanged(PropertyChanged) {
	m.properties.Add(context.Background(), 1)
}
