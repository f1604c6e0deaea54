package logctx

import (
	"fmt"
	"io"
	"time"
)

type dedupState struct {
	lastMsg          string
	repeatCount      int
	lastSuppressTime time.Time
}

// Starts a go routine that reads events and writes formatted output to io.Writer.
// Stops when logger.Done is closed.
func StartWatcher(logger *Logger, output io.Writer) {
	logger.wg.Add(1)

	go func() {
		defer logger.wg.Done()

		var dedup dedupState
		const dedupWindow = 5 * time.Second
		const minRepeats = 10
		const suppressCooldown = 1 * time.Minute

		for {
			logger.mutex.Lock()

			// If done and queue is empty, exit
			if len(logger.queue) == 0 {
				select {
				case <-logger.Done:
					logger.mutex.Unlock()
					return
				default:
				}
			}

			// Wait for events
			for len(logger.queue) == 0 {
				select {
				case <-logger.Done:
					logger.mutex.Unlock()
					return
				default:
					logger.cond.Wait()
				}
			}

			// Pop one event from the front of the queue
			event := logger.queue[0]
			logger.queue = logger.queue[1:]
			logger.mutex.Unlock()

			now := time.Now()

			// Deduplication logic
			// Duplicate events older than the deduplication window are not considered duplicates.
			// Purely meant for highly repetitive message suppression to prevent excessive noise.
			if event.Message != "" &&
				event.Message == dedup.lastMsg &&
				now.Sub(event.Timestamp) <= dedupWindow {

				dedup.repeatCount++
				// Only print suppression message once per minute
				if dedup.repeatCount >= minRepeats && now.Sub(dedup.lastSuppressTime) >= suppressCooldown {
					suppressed := Event{
						Timestamp: event.Timestamp,
						Tags:      event.Tags,
						Severity:  "Info",
						Message:   fmt.Sprintf("Suppressed %d repeated messages: %s\n", dedup.repeatCount, dedup.lastMsg),
					}
					fmt.Fprintf(output, "%s", suppressed.Format())

					dedup.lastSuppressTime = now
					dedup.repeatCount = 0
				}

				// skip printing this repeated message
				continue
			} else {
				// Reset counter if message changes or window exceeded
				dedup.lastMsg = event.Message
				dedup.repeatCount = 1
			}

			fmt.Fprintf(output, "%s", event.Format())
		}
	}()
}
