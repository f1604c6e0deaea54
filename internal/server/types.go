package server

import (
	"context"
	"time"

	metricGlb "dettrace/internal/metrics"
)

type httpLogWriter struct {
	ctx context.Context
}

type Jerror struct {
	Msg string `json:"error"`
}

type DataSearcher func(name string, namespacePrefix []string, start, end time.Time) []metricGlb.Metric
type Discoverer func(name string, namespacePrefix []string, metricType metricGlb.MetricType) []metricGlb.Metric

// Snapshot of the tracer's aggregate counters plus current occupancy
type JStatistics struct {
	Program     string `json:"program"`
	Version     string `json:"version"`
	LiveRecords int    `json:"liveRecords"`

	TotalEvents      uint64 `json:"totalEvents"`
	UniqueSignatures uint64 `json:"uniqueSignatures"`
	Overflows        uint64 `json:"overflows"`
	RuntimeErrors    uint64 `json:"runtimeErrors"`
	TransientFaults  uint64 `json:"transientFaults"`
	Suppressed       uint64 `json:"suppressed"`
	Warnings         uint64 `json:"warnings"`
	Errors           uint64 `json:"errors"`
	Fatals           uint64 `json:"fatals"`
	CallbackFailures uint64 `json:"callbackFailures"`
	ForcedAcquires   uint64 `json:"forcedAcquires"`
}
