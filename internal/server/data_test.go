package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dettrace/internal/global"
	"dettrace/internal/metrics"
	"dettrace/pkg/tracer"
)

func startedTracer(t *testing.T) (testTracer *tracer.Tracer) {
	t.Helper()

	testTracer = tracer.New(tracer.Config{Capacity: 8})
	if err := testTracer.Init(); err != nil {
		t.Fatalf("expected no error initializing tracer, but got '%v'", err)
	}
	if err := testTracer.Start(); err != nil {
		t.Fatalf("expected no error starting tracer, but got '%v'", err)
	}
	return
}

func TestHandleData(t *testing.T) {
	ctx := context.Background()

	sampleResults := []metrics.Metric{
		{
			Name:      "reports_sent",
			Namespace: []string{global.NSHarness, global.NSInjector},
			Type:      metrics.Counter,
			Timestamp: time.Now(),
			Value:     metrics.MetricValue{Raw: uint64(5), Unit: "count", Interval: time.Second},
		},
	}

	tests := []struct {
		name       string
		path       string
		search     DataSearcher
		wantStatus int
	}{
		{
			name:       "data default times",
			path:       global.DataPath + "?name=reports_sent",
			search:     mockDataSearcher(sampleResults),
			wantStatus: http.StatusOK,
		},
		{
			name:       "data invalid starttime",
			path:       global.DataPath + "?starttime=badtime",
			search:     mockDataSearcher(nil),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "data invalid triggers default relative start time",
			path:       global.DataPath + "?starttime=-5w",
			search:     mockDataSearcher(nil),
			wantStatus: http.StatusOK,
		},
		{
			name:       "data invalid absolute end time",
			path:       global.DataPath + "?endtime=tomorrow",
			search:     mockDataSearcher(nil),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "data relative start time past",
			path:       global.DataPath + "?starttime=-5m",
			search:     mockDataSearcher(nil),
			wantStatus: http.StatusOK,
		},
		{
			name:       "data absolute start time",
			path:       global.DataPath + "?starttime=2001-01-02T01:02:03.001Z",
			search:     mockDataSearcher(nil),
			wantStatus: http.StatusOK,
		},
		{
			name:       "data namespace path suffix",
			path:       global.DataPath + "/" + global.NSHarness + "/" + global.NSInjector,
			search:     mockDataSearcher(sampleResults),
			wantStatus: http.StatusOK,
		},
		{
			name:       "data collection disabled",
			path:       global.DataPath,
			search:     nil,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)

			handleData(ctx, tt.search, rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleDiscovery(t *testing.T) {
	ctx := context.Background()

	sampleResults := []metrics.Metric{
		{
			Name:      "total_events",
			Namespace: []string{global.NSHarness, global.NSTracer},
			Type:      metrics.Counter,
			Value:     metrics.MetricValue{Unit: "count"},
		},
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, global.DiscoveryPath+"?type=counter", nil)
	handleDiscovery(ctx, mockDiscoverer(sampleResults), rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rr.Code, http.StatusOK)
	}

	var results []metrics.JMetric
	if err := json.Unmarshal(rr.Body.Bytes(), &results); err != nil {
		t.Fatalf("expected JSON metric list, but got '%v'", err)
	}
	if len(results) != 1 || results[0].Name != "total_events" {
		t.Fatalf("discovery results wrong: %+v", results)
	}
}

func TestHandleStatistics(t *testing.T) {
	ctx := context.Background()
	testTracer := startedTracer(t)

	testTracer.ReportEvent(1, 0, 0, 10, tracer.SeverityError)
	testTracer.ReportEvent(1, 0, 0, 10, tracer.SeverityError)

	rr := httptest.NewRecorder()
	handleStatistics(ctx, testTracer, rr)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rr.Code, http.StatusOK)
	}

	var results JStatistics
	if err := json.Unmarshal(rr.Body.Bytes(), &results); err != nil {
		t.Fatalf("expected JSON statistics, but got '%v'", err)
	}
	if results.TotalEvents != 2 || results.UniqueSignatures != 1 || results.LiveRecords != 1 {
		t.Fatalf("statistics wrong: %+v", results)
	}
	if results.Program != global.ProgBaseName {
		t.Fatalf("program name missing from statistics")
	}
}

func TestHandleEvents(t *testing.T) {
	ctx := context.Background()
	testTracer := startedTracer(t)

	testTracer.ReportEvent(1, 0, 0, 10, tracer.SeverityError)
	testTracer.ReportEvent(2, 0, 0, 20, tracer.SeverityWarning)

	rr := httptest.NewRecorder()
	handleEvents(ctx, testTracer, rr)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rr.Code, http.StatusOK)
	}
	if rr.Header().Get("Content-Type") != "application/x-ndjson" {
		t.Fatalf("content type wrong: '%s'", rr.Header().Get("Content-Type"))
	}

	// Header line then one line per record
	scanner := bufio.NewScanner(rr.Body)
	var lineCount int
	for scanner.Scan() {
		lineCount++
	}
	if lineCount != 3 {
		t.Fatalf("expected 3 JSON lines, got %d", lineCount)
	}
}

func TestPathNamespace(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		base    string
		wantLen int
	}{
		{"NoSuffix", global.DataPath, global.DataPath, 0},
		{"TrailingSlash", global.DataPath + "/", global.DataPath, 0},
		{"SingleComponent", global.DataPath + "/" + global.NSHarness, global.DataPath, 1},
		{"TwoComponents", global.DataPath + "/" + global.NSHarness + "/" + global.NSTracer, global.DataPath, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pathNamespace(tt.path, tt.base)
			if len(got) != tt.wantLen {
				t.Fatalf("want %d components, got %d (%v)", tt.wantLen, len(got), got)
			}
		})
	}
}
