// Offline-analysis export of accumulated tracer events
package export

import (
	"dettrace/pkg/tracer/event"
)

// JSON version of a stored record
type JRecord struct {
	ModuleID    uint16 `json:"moduleId"`
	InstanceID  uint8  `json:"instanceId"`
	APIID       uint8  `json:"apiId"`
	ErrorID     uint8  `json:"errorId"`
	Severity    string `json:"severity"`
	Timestamp   uint64 `json:"timestamp"`
	Occurrences uint32 `json:"occurrences"`
}

// Dump header line carrying the aggregate counters
type JHeader struct {
	Program     string `json:"program"`
	Version     string `json:"version"`
	CreatedAt   string `json:"createdAt"`
	LiveRecords int    `json:"liveRecords"`

	TotalEvents      uint64 `json:"totalEvents"`
	UniqueSignatures uint64 `json:"uniqueSignatures"`
	Overflows        uint64 `json:"overflows"`
	RuntimeErrors    uint64 `json:"runtimeErrors"`
	TransientFaults  uint64 `json:"transientFaults"`
	Suppressed       uint64 `json:"suppressed"`
	ForcedAcquires   uint64 `json:"forcedAcquires"`
}

// Converts internal record type to export (JSON) record
func Convert(record event.Record) (outRecord JRecord) {
	outRecord.ModuleID = record.ModuleID
	outRecord.InstanceID = record.InstanceID
	outRecord.APIID = record.APIID
	outRecord.ErrorID = record.ErrorID
	outRecord.Severity = record.Severity.String()
	outRecord.Timestamp = record.Timestamp
	outRecord.Occurrences = record.Occurrences
	return
}
