package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"dettrace/internal/global"
	"dettrace/pkg/tracer"
	"dettrace/pkg/tracer/event"
)

// Walks the tracer's live records in oldest-to-newest order.
// Captures a point-in-time view, safe while reporting continues.
func CollectRecords(sourceTracer *tracer.Tracer) (records []JRecord) {
	sourceTracer.Iterate(func(record event.Record) bool {
		records = append(records, Convert(record))
		return true
	})
	return
}

// Encodes a header line plus one JSON line per record
func EncodeDump(sourceTracer *tracer.Tracer, records []JRecord) (dump []byte, err error) {
	snap := sourceTracer.Statistics()
	header := JHeader{
		Program:          global.ProgBaseName,
		Version:          global.ProgVersion,
		CreatedAt:        time.Now().Format(time.RFC3339Nano),
		LiveRecords:      len(records),
		TotalEvents:      snap.TotalEvents,
		UniqueSignatures: snap.UniqueSignatures,
		Overflows:        snap.Overflows,
		RuntimeErrors:    snap.RuntimeErrors,
		TransientFaults:  snap.TransientFaults,
		Suppressed:       snap.Suppressed,
		ForcedAcquires:   snap.ForcedAcquires,
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)

	err = encoder.Encode(header)
	if err != nil {
		err = fmt.Errorf("failed encoding dump header: %v", err)
		return
	}

	// Record order mirrors iteration order, oldest first
	for _, record := range records {
		err = encoder.Encode(record)
		if err != nil {
			err = fmt.Errorf("failed encoding dump record: %v", err)
			return
		}
	}

	dump = buf.Bytes()
	return
}

// Writes dump bytes to the given path.
// With a non-empty seal passphrase the dump is encrypted first.
func WriteDump(path string, dump []byte, sealPassphrase string) (err error) {
	if path == "" {
		err = fmt.Errorf("dump file path must not be empty")
		return
	}

	output := dump
	if sealPassphrase != "" {
		output, err = Seal(dump, sealPassphrase)
		if err != nil {
			err = fmt.Errorf("failed sealing dump: %w", err)
			return
		}
	}

	dumpFile, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open dump file: %v", err)
		return
	}
	defer dumpFile.Close()

	for len(output) > 0 {
		var n int
		n, err = dumpFile.Write(output)
		if err != nil {
			err = fmt.Errorf("failed to write dump: %v", err)
			return
		}
		output = output[n:] // remove the bytes that were successfully written
	}
	return
}
