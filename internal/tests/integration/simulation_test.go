// Integration tests for the simulation harness, query server, and export path
package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"testing"
	"time"

	"dettrace/internal/export"
	"dettrace/internal/global"
	"dettrace/internal/harness"
	"dettrace/internal/logctx"
	"dettrace/internal/server"
)

// Off the default port so a concurrently running simulation doesn't clash
const testServerPort int = 18999

// Tests the full simulation pipeline including harness startup/shutdown,
// live HTTP queries, and the dump export round trip
func TestSimulationPipeline(t *testing.T) {
	testDir := t.TempDir()

	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			if !strings.Contains(fmt.Sprintf("%v", fatalError), "test timed out after") {
				t.Fatalf("Error: panic in integration test: %v\n%s\n", fatalError, stack)
			}
		}
	}()

	// Setup logging with in memory
	logVerbosity := 1 // Set to standard for tests
	globalCtx, globalCancel := context.WithCancel(context.Background())
	defer globalCancel()
	logger := logctx.NewLogger("global", logVerbosity, globalCtx.Done())
	globalCtx = logctx.WithLogger(globalCtx, logger)
	var logOutput bytes.Buffer
	logctx.StartWatcher(logger, &logOutput)

	// Harness config
	cfg := global.SimConfig{
		Cores:   3,
		RunTime: "400ms",
		Faults: global.Faults{
			UniqueSignatures: 10,
			ReportInterval:   "1ms",
			RuntimeShare:     25,
			TransientShare:   25,
		},
		Tracer: global.Tracer{
			Capacity:               16,
			MultiCore:              true,
			FilterEnabled:          true,
			DuplicateCallbackCheck: true,
		},
		Filters: []global.Rule{
			{Global: true, MinSeverity: "warning"},
		},
		Metrics: global.Metric{
			Enabled:  true,
			Interval: "100ms", // Setting super fast just for test data collection
			MaxAge:   "5m",
		},
	}

	simHarness, err := harness.New(cfg)
	if err != nil {
		t.Fatalf("expected no error creating harness, but got '%v'", err)
	}

	err = simHarness.Start(globalCtx)
	if err != nil {
		t.Fatalf("expected no error starting harness, but got '%v'", err)
	}

	// Launch query server in background
	queryServer := server.SetupListener(globalCtx, testServerPort, simHarness.Tracer,
		simHarness.MetricDataSearcher, simHarness.MetricDiscoverer)
	go server.Start(globalCtx, queryServer)
	defer queryServer.Shutdown(globalCtx)

	// Wait for the bounded run to complete
	simHarness.Run()
	simHarness.Shutdown()

	summary := simHarness.Summarize()
	if summary.ReportsSent == 0 {
		t.Fatalf("expected reports during the run, got none")
	}

	baseURL := "http://" + global.HTTPListenAddr + ":" + strconv.Itoa(testServerPort)

	// Statistics endpoint must agree with the harness's own view
	var stats server.JStatistics
	fetchJSON(t, baseURL+global.StatisticsPath, &stats)
	if stats.TotalEvents == 0 || stats.UniqueSignatures == 0 {
		t.Fatalf("statistics endpoint empty: %+v", stats)
	}
	if stats.LiveRecords != summary.LiveRecords {
		t.Fatalf("live records mismatch: endpoint=%d harness=%d", stats.LiveRecords, summary.LiveRecords)
	}

	// Metric data must have been collected during the run
	var metricResults []json.RawMessage
	response, err := http.Get(baseURL + global.DataPath + "?starttime=-5m")
	if err != nil {
		t.Fatalf("expected no error querying metric data, but got '%v'", err)
	}
	body, err := io.ReadAll(response.Body)
	response.Body.Close()
	if err != nil {
		t.Fatalf("expected no error reading metric data, but got '%v'", err)
	}
	if err = json.Unmarshal(body, &metricResults); err == nil && len(metricResults) == 0 {
		t.Fatalf("expected metric data results, got empty list")
	}

	// Events endpoint serves the dump layout, header line first
	response, err = http.Get(baseURL + global.EventsPath)
	if err != nil {
		t.Fatalf("expected no error querying events, but got '%v'", err)
	}
	eventDump, err := io.ReadAll(response.Body)
	response.Body.Close()
	if err != nil {
		t.Fatalf("expected no error reading events, but got '%v'", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(eventDump))
	if !scanner.Scan() {
		t.Fatalf("event response missing header line")
	}
	var header export.JHeader
	if err = json.Unmarshal(scanner.Bytes(), &header); err != nil {
		t.Fatalf("expected no error decoding dump header, but got '%v'", err)
	}
	if header.LiveRecords != summary.LiveRecords {
		t.Fatalf("dump header live records mismatch: %d != %d", header.LiveRecords, summary.LiveRecords)
	}

	// Sealed dump file round trip
	dumpPath := filepath.Join(testDir, "events.sealed")
	err = export.WriteDump(dumpPath, eventDump, "integration passphrase")
	if err != nil {
		t.Fatalf("expected no error writing sealed dump, but got '%v'", err)
	}

	sealed, err := os.ReadFile(dumpPath)
	if err != nil {
		t.Fatalf("expected no error reading sealed dump, but got '%v'", err)
	}
	recovered, err := export.Open(sealed, "integration passphrase")
	if err != nil {
		t.Fatalf("expected no error opening sealed dump, but got '%v'", err)
	}
	if !bytes.Equal(recovered, eventDump) {
		t.Fatalf("sealed dump round trip mismatch")
	}

	// Flush log watcher
	globalCancel()
	logger.Wake()
	logger.Wait()

	if !strings.Contains(logOutput.String(), "Startup complete") {
		t.Fatalf("expected harness startup log, got:\n%s", logOutput.String())
	}
}

// Gives the server a moment to bind before the first query
func fetchJSON(t *testing.T, url string, target any) {
	t.Helper()

	var response *http.Response
	var err error
	for attempt := 0; attempt < 20; attempt++ {
		response, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("expected no error querying %s, but got '%v'", url, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("expected no error reading response, but got '%v'", err)
	}
	if err = json.Unmarshal(body, target); err != nil {
		t.Fatalf("expected JSON response from %s, but got '%v'", url, err)
	}
}
