package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"dettrace/internal/export"
	"dettrace/internal/global"
	"dettrace/internal/logctx"
	"dettrace/internal/metrics"
	"dettrace/pkg/tracer"
)

// Handles aggregate counter requests
func handleStatistics(baseCtx context.Context, sourceTracer *tracer.Tracer, serverResponder http.ResponseWriter) {
	snap := sourceTracer.Statistics()

	results := JStatistics{
		Program:          global.ProgBaseName,
		Version:          global.ProgVersion,
		LiveRecords:      sourceTracer.LiveRecords(),
		TotalEvents:      snap.TotalEvents,
		UniqueSignatures: snap.UniqueSignatures,
		Overflows:        snap.Overflows,
		RuntimeErrors:    snap.RuntimeErrors,
		TransientFaults:  snap.TransientFaults,
		Suppressed:       snap.Suppressed,
		Warnings:         snap.Warnings,
		Errors:           snap.Errors,
		Fatals:           snap.Fatals,
		CallbackFailures: snap.CallbackFailures,
		ForcedAcquires:   snap.ForcedAcquires,
	}

	jResp(baseCtx, serverResponder, results)
}

// Handles live event record requests.
// Record iteration snapshots the store, so requests are safe while
// injection is still running. Responses use the same JSON lines layout
// as dump files.
func handleEvents(baseCtx context.Context, sourceTracer *tracer.Tracer, serverResponder http.ResponseWriter) {
	records := export.CollectRecords(sourceTracer)

	dump, err := export.EncodeDump(sourceTracer, records)
	if err != nil {
		serverResponder.WriteHeader(http.StatusInternalServerError)
		logctx.LogEvent(baseCtx, global.VerbosityStandard, global.ErrorLog, "Failed encoding event records: %v\n", err)
		return
	}

	serverResponder.Header().Set("Content-Type", "application/x-ndjson")
	serverResponder.WriteHeader(http.StatusOK)
	serverResponder.Write(dump)
}

// Handles metric search requests based on time for data
func handleData(baseCtx context.Context, search DataSearcher, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	if search == nil {
		jResp(baseCtx, serverResponder, Jerror{Msg: "Metric collection is not enabled"})
		return
	}

	reqNamespace := pathNamespace(clientRequest.URL.Path, global.DataPath)

	reqName := clientRequest.FormValue("name")

	var err error

	rawStartTime := clientRequest.FormValue("starttime")
	var reqStartTime time.Time
	if rawStartTime == "" {
		// Default start is last minute
		reqStartTime = time.Now().Add(-1 * time.Minute)
	} else if rawStartTime[0] == '-' || rawStartTime[0] == '+' {
		dur, err := time.ParseDuration(rawStartTime)
		if err == nil {
			reqStartTime = time.Now().Add(dur)
		} else {
			// Default start is last minute
			reqStartTime = time.Now().Add(-1 * time.Minute)
		}
	} else {
		reqStartTime, err = time.Parse(time.RFC3339Nano, rawStartTime)
		if err != nil {
			serverResponder.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	rawEndTime := clientRequest.FormValue("endtime")
	var reqEndTime time.Time
	if rawEndTime == "now" || rawEndTime == "" {
		reqEndTime = time.Now() // Default end is now
	} else {
		reqEndTime, err = time.Parse(time.RFC3339Nano, rawEndTime)
		if err != nil {
			serverResponder.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	// Query internal metric registry
	rawResults := search(reqName, reqNamespace, reqStartTime, reqEndTime)

	var results []metrics.JMetric
	for _, rawResult := range rawResults {
		results = append(results, rawResult.Convert())
	}

	if len(results) == 0 {
		jResp(baseCtx, serverResponder, Jerror{Msg: "Search returned no results"})
	} else {
		jResp(baseCtx, serverResponder, results)
	}
}

// Handles metric shape discovery requests (time-independent)
func handleDiscovery(baseCtx context.Context, discover Discoverer, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	if discover == nil {
		jResp(baseCtx, serverResponder, Jerror{Msg: "Metric collection is not enabled"})
		return
	}

	reqNamespace := pathNamespace(clientRequest.URL.Path, global.DiscoveryPath)

	reqName := clientRequest.FormValue("name")
	reqType := metrics.MetricType(clientRequest.FormValue("type"))

	rawResults := discover(reqName, reqNamespace, reqType)

	var results []metrics.JMetric
	for _, rawResult := range rawResults {
		results = append(results, rawResult.Convert())
	}

	if len(results) == 0 {
		jResp(baseCtx, serverResponder, Jerror{Msg: "Discovery returned no results"})
	} else {
		jResp(baseCtx, serverResponder, results)
	}
}

// Extracts an optional namespace filter from the path suffix after the base route
func pathNamespace(requestPath, basePath string) (namespace []string) {
	rawNamespace := strings.TrimPrefix(requestPath, basePath)
	rawNamespace = strings.Trim(rawNamespace, "/")
	if rawNamespace == "" {
		return
	}
	namespace = strings.Split(rawNamespace, "/")
	return
}
