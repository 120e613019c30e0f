// Package metrics implements the engine lifecycle hooks on Prometheus
// collectors, exposing node, route and tool activity on a /metrics handler.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ariumhq/arium/pkg/domain"
)

// Collector turns lifecycle events into Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	nodeVisits   *prometheus.CounterVec
	nodeDuration *prometheus.HistogramVec
	nodeErrors   *prometheus.CounterVec
	routes       *prometheus.CounterVec
	toolCalls    *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.NewRegistry())
}

// NewCollectorWithRegistry creates a collector on an existing registry.
func NewCollectorWithRegistry(reg *prometheus.Registry) *Collector {
	c := &Collector{
		registry: reg,
		nodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arium_node_visits_total",
			Help: "Total number of node executions",
		}, []string{"node"}),
		nodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arium_node_duration_seconds",
			Help:    "Duration of node executions",
			Buckets: prometheus.DefBuckets,
		}, []string{"node"}),
		nodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arium_node_errors_total",
			Help: "Total number of failed node executions",
		}, []string{"node"}),
		routes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arium_route_decisions_total",
			Help: "Total number of resolved transitions",
		}, []string{"from", "to", "routed"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arium_tool_calls_total",
			Help: "Total number of tool invocations by agents",
		}, []string{"node", "tool", "is_error"}),
	}
	reg.MustRegister(c.nodeVisits, c.nodeDuration, c.nodeErrors, c.routes, c.toolCalls)
	return c
}

// Hooks returns lifecycle hooks feeding this collector. Pass them to the
// graph builder (directly or merged with logging hooks).
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			c.nodeVisits.WithLabelValues(e.Node).Inc()
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			c.nodeDuration.WithLabelValues(e.Node).Observe(e.Duration.Seconds())
			if e.Err != nil {
				c.nodeErrors.WithLabelValues(e.Node).Inc()
			}
		},
		OnRoute: func(ctx context.Context, e *domain.RouteEvent) {
			c.routes.WithLabelValues(e.From, e.To, strconv.FormatBool(e.Routed)).Inc()
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			c.toolCalls.WithLabelValues(e.Node, e.Tool, strconv.FormatBool(e.IsError)).Inc()
		},
	}
}

// Handler serves the collector's registry over HTTP.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for additional collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
