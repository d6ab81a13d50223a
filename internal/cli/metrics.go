package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/matzehuels/ratiochase/pkg/observability"
)

const metricsNamespace = "ratiochase"

// metrics implements the observability hooks on a private Prometheus
// registry. It is installed for one command run with --metrics.
type metrics struct {
	registry *prometheus.Registry

	// stageSeconds measures pipeline stages. Labels: stage (load, render)
	stageSeconds *prometheus.HistogramVec
	// goalsTotal counts goals by outcome. Labels: status (proved, not_derived, error)
	goalsTotal *prometheus.CounterVec
	// goalSeconds measures individual goal attempts.
	goalSeconds prometheus.Histogram

	// checksTotal counts derivability queries. Labels: predicate, holds
	checksTotal *prometheus.CounterVec
	// addsTotal counts assertions. Labels: predicate, result (ok, rejected)
	addsTotal *prometheus.CounterVec
	// antecedents measures how many facts each derivation cites.
	antecedents prometheus.Histogram
	// contradictionsTotal counts contradictions. Labels: kind
	contradictionsTotal *prometheus.CounterVec

	// memoTotal counts canonical-form memo lookups. Labels: event (hit, miss, set)
	memoTotal *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		stageSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "stage_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
		goalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "goals_total",
			Help:      "Goals attempted by outcome",
		}, []string{"status"}),
		goalSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "goal_seconds",
			Help:      "Duration of single goal attempts in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "deduction",
			Name:      "checks_total",
			Help:      "Derivability queries by predicate and result",
		}, []string{"predicate", "holds"}),
		addsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "deduction",
			Name:      "adds_total",
			Help:      "Assertions by predicate and result",
		}, []string{"predicate", "result"}),
		antecedents: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "deduction",
			Name:      "antecedents",
			Help:      "Facts cited per derivation",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		}),
		contradictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "deduction",
			Name:      "contradictions_total",
			Help:      "Contradictions by quantity kind",
		}, []string{"kind"}),
		memoTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "memo",
			Name:      "events_total",
			Help:      "Canonical-form memo events",
		}, []string{"key_type", "event"}),
	}
	m.registry.MustRegister(
		m.stageSeconds, m.goalsTotal, m.goalSeconds,
		m.checksTotal, m.addsTotal, m.antecedents, m.contradictionsTotal,
		m.memoTotal,
	)
	return m
}

// install registers m as the process-wide hooks. The returned function
// restores the no-op hooks.
func (m *metrics) install() func() {
	observability.SetPipelineHooks(m)
	observability.SetDeductionHooks(m)
	observability.SetCacheHooks(m)
	return observability.Reset
}

// =============================================================================
// Pipeline hooks
// =============================================================================

func (m *metrics) OnLoadStart(context.Context, string) {}

func (m *metrics) OnLoadComplete(_ context.Context, _ string, _, _ int, d time.Duration, _ error) {
	m.stageSeconds.WithLabelValues("load").Observe(d.Seconds())
}

func (m *metrics) OnProveStart(context.Context, string) {}

func (m *metrics) OnProveComplete(_ context.Context, _ string, proved bool, d time.Duration, err error) {
	status := "not_derived"
	switch {
	case err != nil:
		status = "error"
	case proved:
		status = "proved"
	}
	m.goalsTotal.WithLabelValues(status).Inc()
	m.goalSeconds.Observe(d.Seconds())
}

func (m *metrics) OnRenderStart(context.Context, []string) {}

func (m *metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, _ error) {
	m.stageSeconds.WithLabelValues("render").Observe(d.Seconds())
}

// =============================================================================
// Deduction hooks
// =============================================================================

func (m *metrics) OnCheck(predicate string, holds bool) {
	m.checksTotal.WithLabelValues(predicate, fmt.Sprint(holds)).Inc()
}

func (m *metrics) OnAdd(predicate string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.addsTotal.WithLabelValues(predicate, result).Inc()
}

func (m *metrics) OnWhy(_ string, antecedents int) {
	m.antecedents.Observe(float64(antecedents))
}

func (m *metrics) OnContradiction(kind string) {
	m.contradictionsTotal.WithLabelValues(kind).Inc()
}

// =============================================================================
// Cache hooks
// =============================================================================

func (m *metrics) OnCacheHit(keyType string)  { m.memoTotal.WithLabelValues(keyType, "hit").Inc() }
func (m *metrics) OnCacheMiss(keyType string) { m.memoTotal.WithLabelValues(keyType, "miss").Inc() }
func (m *metrics) OnCacheSet(keyType string, _ int) {
	m.memoTotal.WithLabelValues(keyType, "set").Inc()
}

// =============================================================================
// Summary
// =============================================================================

// metricLine is one gathered series.
type metricLine struct {
	name  string // family name with its label pairs
	value string
}

// lines gathers every non-empty series. Counters report their value,
// histograms their sample count and sum.
func (m *metrics) lines() ([]metricLine, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	var out []metricLine
	for _, fam := range families {
		name := strings.TrimPrefix(fam.GetName(), metricsNamespace+"_")
		for _, metric := range fam.GetMetric() {
			series := name + labelString(metric.GetLabel())
			switch fam.GetType() {
			case dto.MetricType_COUNTER:
				if v := metric.GetCounter().GetValue(); v > 0 {
					out = append(out, metricLine{series, fmt.Sprintf("%g", v)})
				}
			case dto.MetricType_HISTOGRAM:
				h := metric.GetHistogram()
				if h.GetSampleCount() > 0 {
					out = append(out, metricLine{series, fmt.Sprintf("n=%d sum=%.4g", h.GetSampleCount(), h.GetSampleSum())})
				}
			}
		}
	}
	return out, nil
}

func labelString(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.GetName() + "=" + p.GetValue()
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

// print writes the gathered series as a styled block.
func (m *metrics) print(w io.Writer) error {
	lines, err := m.lines()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, StyleTitle.Render("metrics"))
	for _, l := range lines {
		fmt.Fprintln(w, "  "+StyleDim.Render(l.name)+" "+StyleNumber.Render(l.value))
	}
	return nil
}
