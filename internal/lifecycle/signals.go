package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dettrace/internal/global"
	"dettrace/internal/logctx"
	"dettrace/pkg/tracer"
)

type DaemonLike interface {
	Shutdown()
}

// Handles all incoming signals from external sources.
// SIGHUP logs a statistics snapshot, termination signals initiate shutdown.
func SignalHandler(ctx context.Context, daemonManager DaemonLike, sourceTracer *tracer.Tracer) {
	// Channel for handling interrupt signals
	sigChan := make(chan os.Signal, 10)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		// Blocking
		sig := <-sigChan
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Received signal: %v\n", sig)

		recvSignal, ok := sig.(syscall.Signal)
		if !ok {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed to type assert received signal: %v\n", sig)
			continue
		}

		// Statistics report signal
		if recvSignal == syscall.SIGHUP {
			snap := sourceTracer.Statistics()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
				"Statistics: total=%d unique=%d overflows=%d runtime=%d transient=%d suppressed=%d cbfail=%d forced=%d live=%d\n",
				snap.TotalEvents, snap.UniqueSignatures, snap.Overflows,
				snap.RuntimeErrors, snap.TransientFaults, snap.Suppressed,
				snap.CallbackFailures, snap.ForcedAcquires, sourceTracer.LiveRecords())

			// Mirror the headline counters to the service manager status line
			err := NotifyStatus(ctx, fmt.Sprintf("events=%d live=%d suppressed=%d",
				snap.TotalEvents, sourceTracer.LiveRecords(), snap.Suppressed))
			if err != nil {
				logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify failed: %v\n", err)
			}
			continue
		}

		// Initiate daemon shutdown
		err := NotifyStopping(ctx)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify failed: %v\n", err)
		}
		daemonManager.Shutdown()
		return
	}
}
