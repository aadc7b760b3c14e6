// Package telemetry exposes the encounter counters through OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const instrumentationName = "github.com/milk9111/arrowtrap/internal/telemetry"

// Metrics holds the encounter counters. A nil *Metrics records nothing.
type Metrics struct {
	activations metric.Int64Counter
	rejections  metric.Int64Counter
	launches    metric.Int64Counter
	hits        metric.Int64Counter
	blocked     metric.Int64Counter
	stops       metric.Int64Counter
	deaths      metric.Int64Counter

	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

// Counter names reported by Totals.
const (
	ActivationsName = "trap.activations"
	RejectionsName  = "trap.rejections"
	LaunchedName    = "trap.projectiles.launched"
	HitsName        = "trap.projectiles.hits"
	BlockedName     = "trap.projectiles.blocked"
	StoppedName     = "trap.projectiles.stopped"
	DeathsName      = "trap.actor.deaths"
)

// New installs an SDK meter provider with a manual reader as the global
// provider and registers the counters on it. Totals reads them back.
func New() (*Metrics, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	m, err := NewWithMeter(provider.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}
	m.provider = provider
	m.reader = reader
	return m, nil
}

// Nop returns counters backed by the no-op meter.
func Nop() *Metrics {
	m, _ := NewWithMeter(noop.Meter{})
	return m
}

func NewWithMeter(m metric.Meter) (*Metrics, error) {
	out := &Metrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&out.activations, ActivationsName, "Gate activations that fired a volley"},
		{&out.rejections, RejectionsName, "Activations rejected while cooling down"},
		{&out.launches, LaunchedName, "Projectiles spawned"},
		{&out.hits, HitsName, "Projectiles that damaged the actor"},
		{&out.blocked, BlockedName, "Actor hits absorbed by invulnerability"},
		{&out.stops, StoppedName, "Projectiles stopped by the environment"},
		{&out.deaths, DeathsName, "Actors killed"},
	}
	for _, c := range counters {
		counter, err := m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}
	return out, nil
}

func add(c metric.Int64Counter, n int64, trap string) {
	if c == nil || n <= 0 {
		return
	}
	if trap == "" {
		c.Add(context.Background(), n)
		return
	}
	c.Add(context.Background(), n, metric.WithAttributes(attribute.String("trap", trap)))
}

func (m *Metrics) Activation(trap string) {
	if m != nil {
		add(m.activations, 1, trap)
	}
}

func (m *Metrics) Rejection(trap string) {
	if m != nil {
		add(m.rejections, 1, trap)
	}
}

func (m *Metrics) Launched(trap string, n int) {
	if m != nil {
		add(m.launches, int64(n), trap)
	}
}

func (m *Metrics) Hit() {
	if m != nil {
		add(m.hits, 1, "")
	}
}

func (m *Metrics) Blocked() {
	if m != nil {
		add(m.blocked, 1, "")
	}
}

func (m *Metrics) Stopped() {
	if m != nil {
		add(m.stops, 1, "")
	}
}

func (m *Metrics) Death() {
	if m != nil {
		add(m.deaths, 1, "")
	}
}

// Totals collects every counter summed over its attributes. Counters that
// were never incremented are absent. Metrics without a reader report nil.
func (m *Metrics) Totals(ctx context.Context) (map[string]int64, error) {
	if m == nil || m.reader == nil {
		return nil, nil
	}
	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}
	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out[md.Name] += dp.Value
			}
		}
	}
	return out, nil
}

// Shutdown flushes and stops the SDK provider, if any.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
