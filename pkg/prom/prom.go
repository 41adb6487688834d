package prom

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/nimasrn/transaction-eda/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	SystemGenerator = "generator"
	SystemQuery     = "query"
	SystemReport    = "report"
)

const (
	MetricRowsTotal            = "rows_total"
	MetricQueryDurationSeconds = "duration_seconds"
	MetricChartsTotal          = "charts_total"
	MetricRunsTotal            = "runs_total"
)

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var registry = prometheus.NewRegistry()

var MetricCollectionCounters = make(map[string]prometheus.Counter)
var MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
var MetricCollectionHistogramVec = make(map[string]*prometheus.HistogramVec)

var defaultLabels prometheus.Labels

// Create resets the registry and registers the toolkit's metrics. Calling it
// again starts from an empty registry.
func Create(host string, env string, nameSpace string) error {
	lockCreateMetricLock.Lock()
	registry = prometheus.NewRegistry()
	MetricCollectionCounters = make(map[string]prometheus.Counter)
	MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
	MetricCollectionHistogramVec = make(map[string]*prometheus.HistogramVec)
	defaultLabels = make(prometheus.Labels)
	defaultLabels["env"] = env
	defaultLabels["instance"] = host
	namespace = nameSpace
	lockCreateMetricLock.Unlock()

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounter(SystemGenerator, MetricRowsTotal))
	hasError(createHistogramVec(SystemQuery, MetricQueryDurationSeconds, []string{"query"}))
	hasError(createCounterVec(SystemReport, MetricChartsTotal, []string{"kind"}))
	hasError(createCounterVec(SystemReport, MetricRunsTotal, []string{"status"}))

	MetricSystemEnabled = err == nil
	return err
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node-exporter textfile collector.
func WriteTextfile(path string) error {
	if !MetricSystemEnabled {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return err
	}
	logger.Info("[metrics] textfile written", "path", path)
	return nil
}

func Gatherer() prometheus.Gatherer {
	return registry
}

func createCounter(subsystem, name string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionCounters[subsystem+name] = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	})
	return registry.Register(MetricCollectionCounters[subsystem+name])
}

func createCounterVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionCounterVec[subsystem+name] = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	}, labels)
	return registry.Register(MetricCollectionCounterVec[subsystem+name])
}

func createHistogramVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionHistogramVec[subsystem+name] = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
		Buckets:     prometheus.ExponentialBuckets(0.001, 4, 10),
	}, labels)
	return registry.Register(MetricCollectionHistogramVec[subsystem+name])
}

func AddCounter(subsystem, name string, number float64) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounters[subsystem+name]; ok {
		v.Add(number)
		return
	}
	logger.Warn("[metrics] counter not found", "subsystem", subsystem, "name", name)
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics] counter vec not found", "subsystem", subsystem, "name", name)
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionHistogramVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Observe(number)
		return
	}
	logger.Warn("[metrics] histogram vec not found", "subsystem", subsystem, "name", name)
}

func AddGeneratedRows(rows float64) {
	AddCounter(SystemGenerator, MetricRowsTotal, rows)
}

func AddQueryDuration(seconds float64, query string) {
	AddHistogramVec(SystemQuery, MetricQueryDurationSeconds, seconds, query)
}

func IncChartRendered(kind string) {
	IncCounterVec(SystemReport, MetricChartsTotal, kind)
}

func IncReportRun(status string) {
	IncCounterVec(SystemReport, MetricRunsTotal, status)
}
