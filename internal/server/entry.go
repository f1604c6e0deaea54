// HTTP server exposing event and metric querying to other programs only on the local system
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"dettrace/internal/global"
	"dettrace/internal/logctx"
	"dettrace/pkg/tracer"
)

// Sets up HTTP listener configuration for event and metric querying
func SetupListener(ctx context.Context, port int, sourceTracer *tracer.Tracer, search DataSearcher, discover Discoverer) (server *http.Server) {
	requestMultiplexer := http.NewServeMux()

	indexPage := fmt.Sprintf("%s %s local query server\n\n"+
		"  GET %s           aggregate counters\n"+
		"  GET %s               live event records (JSON lines, header first)\n"+
		"  GET %s[/ns...]  metric data (params: name, starttime, endtime)\n"+
		"  GET %s[/ns...]  metric discovery (params: name, type)\n",
		global.ProgBaseName, global.ProgVersion,
		global.StatisticsPath, global.EventsPath, global.DataPath, global.DiscoveryPath)

	// Root index page
	requestMultiplexer.HandleFunc("/", func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if clientRequest.URL.Path != "/" {
			serverResponder.WriteHeader(http.StatusNotFound)
			return
		}

		serverResponder.Header().Set("Content-Type", "text/plain; charset=utf-8")
		serverResponder.WriteHeader(http.StatusOK)
		serverResponder.Write([]byte(indexPage))
	})

	// Aggregate counter requests
	requestMultiplexer.HandleFunc(global.StatisticsPath, func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleStatistics(ctx, sourceTracer, serverResponder)
	})

	// Live event record requests
	requestMultiplexer.HandleFunc(global.EventsPath, func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleEvents(ctx, sourceTracer, serverResponder)
	})

	// Metric Data Requests
	requestMultiplexer.HandleFunc(global.DataPath, func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleData(ctx, search, serverResponder, clientRequest)
	})
	requestMultiplexer.HandleFunc(global.DataPath+"/", func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleData(ctx, search, serverResponder, clientRequest)
	})

	// Metric Discovery Requests
	requestMultiplexer.HandleFunc(global.DiscoveryPath, func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleDiscovery(ctx, discover, serverResponder, clientRequest)
	})
	requestMultiplexer.HandleFunc(global.DiscoveryPath+"/", func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleDiscovery(ctx, discover, serverResponder, clientRequest)
	})

	// Server configuration
	server = &http.Server{
		Addr:         global.HTTPListenAddr + ":" + strconv.Itoa(port),
		Handler:      requestMultiplexer,
		ReadTimeout:  global.HTTPReadTimeout,
		WriteTimeout: global.HTTPWriteTimeout,
		IdleTimeout:  global.HTTPIdleTimeout,
		ErrorLog:     log.New(httpLogWriter{ctx: ctx}, "", 0),
	}

	return
}

// Starts the query HTTP server and waits for requests
func Start(ctx context.Context, server *http.Server) {
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Query server starting on %s (http://%s/)\n",
		server.Addr,
		server.Addr,
	)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Query server failed to start: %v\n", err)
	}
}

// Encodes JSON and sends as response body
func jResp(ctx context.Context, serverResponder http.ResponseWriter, content any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(content); err != nil {
		serverResponder.WriteHeader(http.StatusInternalServerError)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed marshaling query results: %v\n", err)
		return
	}
	serverResponder.Header().Set("Content-Type", "application/json")
	serverResponder.WriteHeader(http.StatusOK)
	serverResponder.Write(buf.Bytes())
}

// Logs HTTP server errors to internal program buffer (via context logger)
func (logWriter httpLogWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	if n == 0 {
		return
	}
	logctx.LogEvent(
		logWriter.ctx,
		global.VerbosityStandard,
		global.ErrorLog,
		"%s\n", strings.TrimSpace(string(p)),
	)
	return
}
