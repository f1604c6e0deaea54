package logctx

import (
	"strings"
)

// Fixed-width stamp keeps log columns aligned when injector output interleaves
const stampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Renders one log line: stamp, namespace path, severity, then the message.
// Fields that are unset get skipped entirely. Newlines are left to the
// message author.
func (event Event) Format() (text string) {
	var line strings.Builder

	if !event.Timestamp.IsZero() {
		line.WriteString("[")
		line.WriteString(event.Timestamp.Format(stampLayout))
		line.WriteString("]")
	}

	if len(event.Tags) > 0 {
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString("[")
		line.WriteString(strings.Join(event.Tags, "/"))
		line.WriteString("]")
	}

	if event.Severity != "" {
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString("[")
		line.WriteString(event.Severity)
		line.WriteString("]")
	}

	if event.Message != "" {
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(event.Message)
	}

	text = line.String()
	return
}
