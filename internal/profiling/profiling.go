package profiling

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lightweight per-frame CPU profiler. Sections are summed per frame and
// flushed into Prometheus counters when the frame is reset.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
)

var (
	// Registry holds every metric this package exports.
	Registry = prometheus.NewRegistry()

	frameSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "m4k",
		Name:      "frame_seconds",
		Help:      "Wall time spent producing one frame.",
		Buckets:   []float64{0.002, 0.004, 0.008, 0.012, 0.0167, 0.025, 0.033, 0.05, 0.1, 0.25},
	})
	slowFrames = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "m4k",
		Name:      "slow_frames_total",
		Help:      "Frames that took longer than the frame budget.",
	})
	sectionSeconds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "m4k",
		Name:      "section_seconds_total",
		Help:      "Time spent in each tracked section.",
	}, []string{"section"})
)

func init() {
	Registry.MustRegister(frameSeconds, slowFrames, sectionSeconds)
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame flushes the current per-frame totals to the section counters
// and clears them. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	for k, v := range frameTotals {
		sectionSeconds.WithLabelValues(k).Add(v.Seconds())
		delete(frameTotals, k)
	}
	mu.Unlock()
}

// ObserveFrame records the duration of a finished frame and reports
// whether it went over budget. A zero budget never counts as slow.
func ObserveFrame(d, budget time.Duration) bool {
	frameSeconds.Observe(d.Seconds())
	if budget > 0 && d > budget {
		slowFrames.Inc()
		return true
	}
	return false
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// TopN formats top N durations from the current frame totals.
// Example: "render.Frame:4.2ms, player.Update:0.1ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	n = max(0, min(n, len(list)))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		parts = append(parts, p.name+":"+formatMs(p.dur))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0".
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}

// Handler serves the metrics in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
