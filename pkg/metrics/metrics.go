// Package metrics exports fx.Manager statistics to prometheus.
package metrics

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/decker502/fx/pkg/fx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsSource provides pool statistics. *fx.Manager implements it.
type StatsSource interface {
	Stats() fx.Stats
}

type lockedSource struct {
	mu  *sync.Mutex
	src StatsSource
}

func (l lockedSource) Stats() fx.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Stats()
}

// Locked reads src while holding mu. Use it when the manager is driven
// from a goroutine other than the scrape handler.
func Locked(src StatsSource, mu *sync.Mutex) StatsSource {
	return lockedSource{mu: mu, src: src}
}

var (
	instancesDesc = prometheus.NewDesc("fx_instances", "Particle system instances by status", []string{"status"}, nil)
	particlesDesc = prometheus.NewDesc("fx_particles", "Live particles across all instances", nil, nil)
	stepsDesc     = prometheus.NewDesc("fx_simulation_steps_total", "Fixed simulation steps run", nil, nil)
	droppedDesc   = prometheus.NewDesc("fx_dropped_steps_total", "Steps discarded by the catch-up cap", nil, nil)
	groupsDesc    = prometheus.NewDesc("fx_snapshot_groups", "Snapshot groups held in the cache", nil, nil)
)

// Collector reads a StatsSource on every scrape.
type Collector struct {
	src StatsSource
}

// NewCollector returns a collector for src.
func NewCollector(src StatsSource) *Collector {
	return &Collector{src: src}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- instancesDesc
	ch <- particlesDesc
	ch <- stepsDesc
	ch <- droppedDesc
	ch <- groupsDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	// Dead instances are valid until the next simulation step reaps them.
	dead := st.Instances - st.Emitting - st.Dying

	ch <- prometheus.MustNewConstMetric(instancesDesc, prometheus.GaugeValue, float64(st.Emitting), "emitting")
	ch <- prometheus.MustNewConstMetric(instancesDesc, prometheus.GaugeValue, float64(st.Dying), "dying")
	ch <- prometheus.MustNewConstMetric(instancesDesc, prometheus.GaugeValue, float64(dead), "dead")
	ch <- prometheus.MustNewConstMetric(particlesDesc, prometheus.GaugeValue, float64(st.Particles))
	ch <- prometheus.MustNewConstMetric(stepsDesc, prometheus.CounterValue, float64(st.Steps))
	ch <- prometheus.MustNewConstMetric(droppedDesc, prometheus.CounterValue, float64(st.DroppedSteps))
	ch <- prometheus.MustNewConstMetric(groupsDesc, prometheus.GaugeValue, float64(st.SnapshotGroups))
}

// Recorder holds timing metrics observed by the frame loop.
type Recorder struct {
	frameDuration prometheus.Histogram
	stepsPerFrame prometheus.Histogram
}

// NewRecorder registers the collector for src and the frame histograms on reg.
func NewRecorder(reg prometheus.Registerer, src StatsSource) *Recorder {
	reg.MustRegister(NewCollector(src))
	factory := promauto.With(reg)
	return &Recorder{
		frameDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fx_frame_duration_seconds",
			Help:    "Time spent simulating and batching one frame",
			Buckets: []float64{0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05},
		}),
		stepsPerFrame: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fx_steps_per_frame",
			Help:    "Fixed steps run per frame",
			Buckets: []float64{0, 1, 2, 3, 4, 8, 16},
		}),
	}
}

// RecordFrame records one frame of work.
func (r *Recorder) RecordFrame(duration time.Duration, steps int) {
	r.frameDuration.Observe(duration.Seconds())
	r.stepsPerFrame.Observe(float64(steps))
}

// Handler serves /metrics and /health for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// Serve starts the metrics endpoint in the background. An empty addr
// disables it.
func Serve(addr string, gatherer prometheus.Gatherer) {
	if addr == "" {
		return
	}
	go func() {
		log.Printf("[Metrics] serving http://%s/metrics", addr)
		if err := http.ListenAndServe(addr, Handler(gatherer)); err != nil {
			log.Printf("[Metrics] server error: %v", err)
		}
	}()
}
