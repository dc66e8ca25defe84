// Package stats adapts a cache's counters to the prometheus.Collector
// interface so they can be scraped alongside a process's other
// metrics.
package stats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arynux/tickcache/internal/cache"
)

// statsSource is satisfied by *cache.Store[K, V] for any K, V: the
// method set doesn't depend on the type parameters since cache.Stats
// itself is concrete.
type statsSource interface {
	Stats() cache.Stats
}

var (
	sizeDesc = prometheus.NewDesc(
		"tickcache_entries", "Number of live entries currently held.", nil, nil)
	hitsDesc = prometheus.NewDesc(
		"tickcache_hits_total", "Total Get calls that found a live entry.", nil, nil)
	missesDesc = prometheus.NewDesc(
		"tickcache_misses_total", "Total Get calls that found no live entry.", nil, nil)
	evictionsDesc = prometheus.NewDesc(
		"tickcache_evictions_total", "Total entries removed by LRU eviction.", nil, nil)
	ttlExpirationsDesc = prometheus.NewDesc(
		"tickcache_ttl_expirations_total", "Total entries removed by TTL expiration.", nil, nil)
	deletesDesc = prometheus.NewDesc(
		"tickcache_deletes_total", "Total entries removed by explicit Delete.", nil, nil)
)

// Collector reports a cache's size and hit/miss/eviction counters as
// Prometheus metrics.
type Collector struct {
	source statsSource
}

// NewCollector builds a Collector around any cache.Store, regardless
// of its key/value type parameters.
func NewCollector(source statsSource) *Collector {
	return &Collector{source: source}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- sizeDesc
	ch <- hitsDesc
	ch <- missesDesc
	ch <- evictionsDesc
	ch <- ttlExpirationsDesc
	ch <- deletesDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(sizeDesc, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(hitsDesc, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(missesDesc, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(evictionsDesc, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(ttlExpirationsDesc, prometheus.CounterValue, float64(s.TTLExpirations))
	ch <- prometheus.MustNewConstMetric(deletesDesc, prometheus.CounterValue, float64(s.Deletes))
}
