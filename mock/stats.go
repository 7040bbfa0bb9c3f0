package mock

import (
	"sync"
	"time"
)

// RecordingStatter is used for testing. It remembers counts and timings by
// name and by name plus tag.
type RecordingStatter struct {
	mu      sync.Mutex
	counts  map[string]int64
	tagged  map[string]int64
	timings map[string][]time.Duration
}

// NewRecordingStatter returns an empty RecordingStatter.
func NewRecordingStatter() *RecordingStatter {
	return &RecordingStatter{
		counts:  make(map[string]int64),
		tagged:  make(map[string]int64),
		timings: make(map[string][]time.Duration),
	}
}

// Count implements Count.
func (r *RecordingStatter) Count(name string, value int64, rate float64, tags ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[name] += value
	for _, tag := range tags {
		r.tagged[name+"|"+tag] += value
	}
}

// Total returns the sum of every Count call for name.
func (r *RecordingStatter) Total(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

// Tagged returns the sum of the Count calls for name which carried tag.
func (r *RecordingStatter) Tagged(name, tag string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tagged[name+"|"+tag]
}

// Timings returns every duration recorded under name.
func (r *RecordingStatter) Timings(name string) []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.timings[name]...)
}

// Gauge implements Gauge.
func (r *RecordingStatter) Gauge(name string, value float64, rate float64, tags ...string) {}

// Histogram implements Histogram.
func (r *RecordingStatter) Histogram(name string, value float64, rate float64, tags ...string) {}

// Set implements Set.
func (r *RecordingStatter) Set(name string, value string, rate float64, tags ...string) {}

// Timing implements Timing.
func (r *RecordingStatter) Timing(name string, value time.Duration, rate float64, tags ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings[name] = append(r.timings[name], value)
}
