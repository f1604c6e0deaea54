package cli

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"dettrace/internal/export"
	"dettrace/internal/global"
	"dettrace/internal/harness"
	"dettrace/internal/lifecycle"
	"dettrace/internal/logctx"
	"dettrace/internal/server"
)

// Runs the synthetic fault simulation until the configured run time or a signal
func SimulateMode(ctx context.Context, cliOpts *global.CommandSet, commandname string, args []string) {
	var configPath string
	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	SetCommon(commandFlags, &configPath)

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
	}
	commandFlags.Parse(args[0:])

	// Verbosity flag parsed after logger creation, apply it now
	logctx.SetLogLevel(ctx, global.Verbosity)

	jsonCfg, err := harness.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	simHarness, err := harness.New(jsonCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = simHarness.Start(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting simulation harness: %v\n", err)
		os.Exit(1)
	}

	// Query server
	var queryServer *http.Server
	if jsonCfg.Server.Enabled {
		port := jsonCfg.Server.Port
		if port == 0 {
			port = global.HTTPListenPort
		}

		// Top level tags for query server logs (copy so return doesn't strip ns tags)
		serverCtx := ctx
		serverCtx = logctx.AppendCtxTag(serverCtx, global.NSMetric)
		serverCtx = logctx.AppendCtxTag(serverCtx, global.NSMetricSrv)

		queryServer = server.SetupListener(serverCtx, port, simHarness.Tracer,
			simHarness.MetricDataSearcher, simHarness.MetricDiscoverer)
		go server.Start(serverCtx, queryServer)
	}

	go lifecycle.SignalHandler(ctx, simHarness, simHarness.Tracer)

	err = lifecycle.NotifyReady(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify failed: %v\n", err)
	}

	simHarness.Run()
	simHarness.Shutdown()

	err = lifecycle.NotifyStopping(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify failed: %v\n", err)
	}

	exportEvents(ctx, jsonCfg.Export, simHarness)

	if queryServer != nil {
		err = queryServer.Shutdown(ctx)
		if err != nil && err != http.ErrServerClosed {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"Query HTTP server did not shutdown gracefully: %v\n", err)
		}
	}
}

// Writes and/or ships the accumulated event records per export config
func exportEvents(ctx context.Context, cfg global.Export, simHarness *harness.Harness) {
	ctx = logctx.AppendCtxTag(ctx, global.NSExport)
	defer func() { ctx = logctx.RemoveLastCtxTag(ctx) }()

	if cfg.FilePath == "" && cfg.BeatsAddress == "" {
		return
	}

	records := export.CollectRecords(simHarness.Tracer)

	if cfg.FilePath != "" {
		dump, err := export.EncodeDump(simHarness.Tracer, records)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed encoding event dump: %v\n", err)
		} else {
			err = export.WriteDump(cfg.FilePath, dump, cfg.SealKey)
			if err != nil {
				logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed writing event dump: %v\n", err)
			} else {
				logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
					"Wrote %d event records to %s\n", len(records), cfg.FilePath)
			}
		}
	}

	if cfg.BeatsAddress != "" {
		shipper, err := export.NewShipper(cfg.BeatsAddress)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed connecting to beats server: %v\n", err)
			return
		}
		defer shipper.Close()

		sent, err := shipper.Ship(records)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed shipping event records: %v\n", err)
			return
		}
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
			"Shipped %d event records to %s\n", sent, cfg.BeatsAddress)
	}
}
