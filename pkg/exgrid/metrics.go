package exgrid

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics exposes a document's counters. The document copies its values
// into the atomics after each mutation; collectors only read the atomics,
// so a scrape never touches the document itself.
type metrics struct {
	reg        prometheus.Registerer
	collectors []prometheus.Collector

	hits    atomic.Uint64
	misses  atomic.Uint64
	formats atomic.Uint64
	strings atomic.Uint64
	written atomic.Uint64
}

// registerMetrics registers the style cache and grid collectors, labelled
// with the document name.
func registerMetrics(reg prometheus.Registerer, name string) (*metrics, error) {
	labels := prometheus.Labels{"document": name}
	m := &metrics{reg: reg}
	load := func(v *atomic.Uint64) func() float64 {
		return func() float64 { return float64(v.Load()) }
	}
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "exgrid_style_cache_hits_total",
			Help:        "Style resolutions answered from the memo.",
			ConstLabels: labels,
		}, load(&m.hits)),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "exgrid_style_cache_misses_total",
			Help:        "Style resolutions that appended a cell format.",
			ConstLabels: labels,
		}, load(&m.misses)),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "exgrid_cell_formats",
			Help:        "Records in the cell-format table.",
			ConstLabels: labels,
		}, load(&m.formats)),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "exgrid_shared_strings",
			Help:        "Entries in the shared-string table.",
			ConstLabels: labels,
		}, load(&m.strings)),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "exgrid_cells_written_total",
			Help:        "Cell value writes across all sheets.",
			ConstLabels: labels,
		}, load(&m.written)),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			m.unregister()
			return nil, err
		}
		m.collectors = append(m.collectors, c)
	}
	return m, nil
}

// observe copies d's current counters. It runs on the goroutine that
// mutates d.
func (m *metrics) observe(d *Document) {
	stats := d.styles.Stats()
	m.hits.Store(stats.Hits)
	m.misses.Store(stats.Misses)
	m.formats.Store(uint64(d.styles.Len()))
	m.strings.Store(uint64(d.strings.Len()))
	var n uint64
	for _, s := range d.dir.Each() {
		n += s.Grid.Written()
	}
	m.written.Store(n)
}

func (m *metrics) unregister() {
	for _, c := range m.collectors {
		m.reg.Unregister(c)
	}
	m.collectors = nil
}
