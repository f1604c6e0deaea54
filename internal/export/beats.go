package export

import (
	"fmt"
	"os"
	"time"

	lumberjack "github.com/elastic/go-lumber/client/v2"

	"dettrace/internal/global"
)

// Ships accumulated event records to a beats (lumberjack) collector
type Shipper struct {
	sink *lumberjack.SyncClient
}

// Creates new beats (lumberjack) shipper. Returns nil nil if no endpoint.
func NewShipper(endpoint string) (shipper *Shipper, err error) {
	if endpoint == "" {
		return
	}

	compression := lumberjack.CompressionLevel(0)
	timeout := lumberjack.Timeout(3 * time.Second)

	ljClient, err := lumberjack.SyncDial(endpoint, compression, timeout)
	if err != nil {
		err = fmt.Errorf("failed connection to beats server: %w", err)
		return
	}

	shipper = &Shipper{
		sink: ljClient,
	}
	return
}

// Sends one batch of records with identifying agent metadata
func (shipper *Shipper) Ship(records []JRecord) (sent int, err error) {
	if shipper == nil {
		return
	}

	events := make([]interface{}, 0, len(records))
	for _, record := range records {
		fields := map[string]interface{}{
			"@timestamp": time.Now().Format(time.RFC3339Nano),
			"message": fmt.Sprintf("module %d instance %d api %d error %d occurred %d times",
				record.ModuleID, record.InstanceID, record.APIID, record.ErrorID, record.Occurrences),

			"agent": map[string]interface{}{
				"program": global.ProgBaseName,
				"version": global.ProgVersion,
				"pid":     os.Getpid(),
			},

			"trace": map[string]interface{}{
				"module":      record.ModuleID,
				"instance":    record.InstanceID,
				"api":         record.APIID,
				"error":       record.ErrorID,
				"severity":    record.Severity,
				"monotonic":   record.Timestamp,
				"occurrences": record.Occurrences,
			},
		}
		events = append(events, fields)
	}

	sent, err = shipper.sink.Send(events)
	if err != nil {
		return
	}
	return
}

// Closes the underlying connection
func (shipper *Shipper) Close() (err error) {
	if shipper == nil {
		return
	}
	err = shipper.sink.Close()
	return
}
