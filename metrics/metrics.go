// Package metrics implements relkit.Statter on top of Prometheus collectors.
package metrics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "relkit"

// PromStatter is a relkit.Statter which records into its own Prometheus
// registry. Tags of the form "key:value" become labels. The label names of a
// metric are fixed by its first use. It is safe for concurrent use.
type PromStatter struct {
	mu         sync.Mutex
	reg        *prometheus.Registry
	counters   map[string]*vec[*prometheus.CounterVec]
	gauges     map[string]*vec[*prometheus.GaugeVec]
	histograms map[string]*vec[*prometheus.HistogramVec]
}

type vec[V prometheus.Collector] struct {
	v      V
	labels []string
}

// NewPromStatter returns a PromStatter with an empty registry.
func NewPromStatter() *PromStatter {
	return &PromStatter{
		reg:        prometheus.NewRegistry(),
		counters:   make(map[string]*vec[*prometheus.CounterVec]),
		gauges:     make(map[string]*vec[*prometheus.GaugeVec]),
		histograms: make(map[string]*vec[*prometheus.HistogramVec]),
	}
}

// Registry returns the registry holding the collectors, e.g. to serve it.
func (p *PromStatter) Registry() *prometheus.Registry { return p.reg }

// WriteTextfile writes every metric to path in the text exposition format
// read by node_exporter's textfile collector.
func (p *PromStatter) WriteTextfile(path string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, p.reg), "writing metrics to %s", path)
}

// splitTags turns "k:v" tags into sorted label names and a label map. Tags
// without a colon are ignored.
func splitTags(tags []string) ([]string, prometheus.Labels) {
	labels := prometheus.Labels{}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		i := strings.IndexByte(t, ':')
		if i <= 0 {
			continue
		}
		k := t[:i]
		if _, ok := labels[k]; !ok {
			names = append(names, k)
		}
		labels[k] = t[i+1:]
	}
	sort.Strings(names)
	return names, labels
}

// values orders labels by names, using "" for any that are missing.
func values(names []string, labels prometheus.Labels) []string {
	ret := make([]string, len(names))
	for i, n := range names {
		ret[i] = labels[n]
	}
	return ret
}

// Count adds value to the counter relkit_<name>_total.
func (p *PromStatter) Count(name string, value int64, rate float64, tags ...string) {
	names, labels := splitTags(tags)
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.counters[name]
	if !ok {
		c = &vec[*prometheus.CounterVec]{
			v: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      name + "_total",
				Help:      "Total " + strings.ReplaceAll(name, "_", " ") + ".",
			}, names),
			labels: names,
		}
		p.reg.MustRegister(c.v)
		p.counters[name] = c
	}
	c.v.WithLabelValues(values(c.labels, labels)...).Add(float64(value))
}

// Gauge sets the gauge relkit_<name>.
func (p *PromStatter) Gauge(name string, value float64, rate float64, tags ...string) {
	names, labels := splitTags(tags)
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.gauges[name]
	if !ok {
		g = &vec[*prometheus.GaugeVec]{
			v: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      name,
				Help:      "Last " + strings.ReplaceAll(name, "_", " ") + ".",
			}, names),
			labels: names,
		}
		p.reg.MustRegister(g.v)
		p.gauges[name] = g
	}
	g.v.WithLabelValues(values(g.labels, labels)...).Set(value)
}

// Histogram observes value in the histogram relkit_<name>.
func (p *PromStatter) Histogram(name string, value float64, rate float64, tags ...string) {
	p.observe(name, value, prometheus.DefBuckets, tags)
}

// Set has no Prometheus equivalent and does nothing.
func (p *PromStatter) Set(name string, value string, rate float64, tags ...string) {}

// Timing observes value in the histogram relkit_<name>_seconds.
func (p *PromStatter) Timing(name string, value time.Duration, rate float64, tags ...string) {
	p.observe(name+"_seconds", value.Seconds(), prometheus.ExponentialBuckets(0.01, 4, 8), tags)
}

func (p *PromStatter) observe(name string, value float64, buckets []float64, tags []string) {
	names, labels := splitTags(tags)
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.histograms[name]
	if !ok {
		h = &vec[*prometheus.HistogramVec]{
			v: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      name,
				Help:      "Distribution of " + strings.ReplaceAll(name, "_", " ") + ".",
				Buckets:   buckets,
			}, names),
			labels: names,
		}
		p.reg.MustRegister(h.v)
		p.histograms[name] = h
	}
	h.v.WithLabelValues(values(h.labels, labels)...).Observe(value)
}
