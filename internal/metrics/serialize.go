package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Flattens a stored metric into its query server JSON shape.
// Namespace components collapse to one slash-joined path and the raw
// value is stringified, counters and gauges serialize identically.
func (inMetric Metric) Convert() (outMetric JMetric) {
	outMetric = JMetric{
		Name:        inMetric.Name,
		Description: inMetric.Description,
		Namespace:   strings.Join(inMetric.Namespace, "/"),
		Type:        string(inMetric.Type),
		Timestamp:   inMetric.Timestamp.Format(time.RFC3339Nano),
		Value: JMetricValue{
			Raw:      fmt.Sprintf("%v", inMetric.Value.Raw),
			Unit:     inMetric.Value.Unit,
			Interval: inMetric.Value.Interval.String(),
		},
	}
	return
}
