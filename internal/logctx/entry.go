package logctx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dettrace/internal/global"
)

// Entry for logging events
func LogEvent(ctx context.Context, eventLevel int, severity string, message string, vars ...any) {
	// Retrieve current tag list
	tags := GetTagList(ctx)

	// Get logger pointer
	logger := GetLogger(ctx)
	if logger == nil {
		return
	}

	var newMsg string

	// vars might be empty - check to omit formatting
	if vars == nil || !strings.Contains(message, "%") && !strings.Contains(message, `%%`) {
		// Avoiding 'extra' print to log entries
		newMsg = message
	} else {
		newMsg = fmt.Sprintf(message, vars...)
	}
	logger.log(eventLevel, severity, tags, newMsg)
}

// Logs event
func (logger *Logger) log(eventLevel int, eventSeverity string, tags []string, fullMessage string) {
	logger.mutex.Lock()
	currentLevel := logger.PrintLevel
	logger.mutex.Unlock()

	if eventLevel > currentLevel && eventSeverity != global.ErrorLog {
		return
	}

	event := Event{
		Timestamp: time.Now(),
		Tags:      tags,
		Severity:  eventSeverity,
		Message:   fullMessage,
	}

	logger.mutex.Lock()
	logger.queue = append(logger.queue, event)
	logger.cond.Signal() // Notify watcher that new event is available
	logger.mutex.Unlock()
}
