package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lockdrop"

// Metrics are the counters exported by the node and the offchain driver.
type Metrics struct {
	Submissions   *prometheus.CounterVec
	Verifications *prometheus.CounterVec
	Rejections    *prometheus.CounterVec
	Blocks        prometheus.Counter
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "submissions_total",
			Help:      "Signed submissions sent by the offchain driver.",
		}, []string{"kind", "result"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "verifications_total",
			Help:      "Lock transaction checks by asset and verdict.",
		}, []string{"asset", "verdict"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mempool",
			Name:      "rejections_total",
			Help:      "Submissions refused by the admission gate.",
		}, []string{"kind"}),
		Blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Blocks executed by the devnet producer.",
		}),
	}
	for _, c := range []prometheus.Collector{m.Submissions, m.Verifications, m.Rejections, m.Blocks} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewUnregistered returns metrics that are not exported anywhere.
func NewUnregistered() *Metrics {
	m, _ := New(prometheus.NewRegistry())
	return m
}
