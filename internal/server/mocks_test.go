package server

import (
	"time"

	"dettrace/internal/metrics"
)

func mockDiscoverer(results []metrics.Metric) Discoverer {
	return func(name string, ns []string, mt metrics.MetricType) []metrics.Metric {
		return results
	}
}

func mockDataSearcher(results []metrics.Metric) DataSearcher {
	return func(name string, ns []string, start, end time.Time) []metrics.Metric {
		return results
	}
}
