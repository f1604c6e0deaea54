// Buffered logging for the simulation tooling. Events queue on a logger
// carried in the context and a watcher goroutine drains them to the output.
package logctx

import (
	"context"
	"sync"
	"time"

	"dettrace/internal/global"
)

// Creates a logger that buffers until its watcher drains it.
// The done channel ends the watcher once the queue is empty.
func NewLogger(id string, logLevel int, done <-chan struct{}) (logger *Logger) {
	logger = &Logger{
		ID:         id,
		CreatedAt:  time.Now(),
		queue:      make([]Event, 0),
		Done:       done,
		PrintLevel: logLevel,
		wg:         &sync.WaitGroup{},
	}
	logger.cond = sync.NewCond(&logger.mutex)
	return
}

// Attaches the logger to a context for LogEvent callers downstream
func WithLogger(ctx context.Context, logger *Logger) (ctxLogger context.Context) {
	ctxLogger = context.WithValue(ctx, global.LoggerKey, logger)
	return
}

// Adjusts the print level of the context's logger at runtime.
// Used when the verbosity flag is parsed after logger creation.
func SetLogLevel(ctx context.Context, newLevel int) {
	logger := GetLogger(ctx)
	if logger == nil {
		return
	}

	logger.mutex.Lock()
	logger.PrintLevel = newLevel
	logger.mutex.Unlock()
}

// Logger lookup from context, nil when none is attached
func GetLogger(ctx context.Context) (logger *Logger) {
	attached, validAssert := ctx.Value(global.LoggerKey).(*Logger)
	if !validAssert {
		return
	}
	logger = attached
	return
}

// Blocks until the watcher has drained the queue and exited.
// Main calls this last so shutdown messages still reach the output.
func (logger *Logger) Wait() {
	logger.wg.Wait()
}

// Kicks any watcher blocked on the condition variable, used at shutdown
// so a watcher with an empty queue notices the done channel.
func (logger *Logger) Wake() {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()
	logger.cond.Broadcast()
}
