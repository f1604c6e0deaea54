package metrics

import (
	"sort"
	"strings"
	"time"
)

// Prefix match over namespace path components. An empty query matches
// every namespace.
func matchesNamespace(metricNS, queryNS []string) (matches bool) {
	if len(metricNS) < len(queryNS) {
		return
	}
	for position, component := range queryNS {
		if metricNS[position] != component {
			return
		}
	}
	matches = true
	return
}

// Collects stored metrics matching the name and namespace prefix inside
// the time window, ordered oldest slice first. An empty name matches all
// names, a zero start or end leaves that side of the window open.
func (registry *Registry) Search(name string, namespacePrefix []string, start, end time.Time) (results []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	slices := make([]time.Time, 0, len(registry.metrics))
	for timeSlice := range registry.metrics {
		if !start.IsZero() && timeSlice.Before(start) {
			continue
		}
		if !end.IsZero() && timeSlice.After(end) {
			continue
		}
		slices = append(slices, timeSlice)
	}

	sort.Slice(slices, func(i, j int) bool { return slices[i].Before(slices[j]) })

	for _, timeSlice := range slices {
		for group, byName := range registry.metrics[timeSlice] {
			if !matchesNamespace(strings.Split(group, "/"), namespacePrefix) {
				continue
			}
			for metricName, metric := range byName {
				if name != "" && metricName != name {
					continue
				}
				results = append(results, metric)
			}
		}
	}
	return
}

// Lists the distinct metric shapes matching the filters, independent of
// time. Shapes carry no timestamp or raw value, the answer describes what
// is being collected rather than what was measured.
func (registry *Registry) Discover(name string, namespacePrefix []string, metricType MetricType) (results []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	shapes := make(map[string]Metric)
	for _, slice := range registry.metrics {
		for group, byName := range slice {
			if !matchesNamespace(strings.Split(group, "/"), namespacePrefix) {
				continue
			}

			for _, metric := range byName {
				if name != "" && !strings.Contains(metric.Name, name) {
					continue
				}
				if metricType != "" && metric.Type != metricType {
					continue
				}

				identity := group + "|" + metric.Name + "|" + string(metric.Type) + "|" + metric.Value.Unit
				if _, alreadySeen := shapes[identity]; alreadySeen {
					continue
				}

				shapes[identity] = Metric{
					Name:        metric.Name,
					Description: metric.Description,
					Namespace:   metric.Namespace,
					Type:        metric.Type,
					Value:       MetricValue{Unit: metric.Value.Unit},
				}
			}
		}
	}

	results = make([]Metric, 0, len(shapes))
	for _, shape := range shapes {
		results = append(results, shape)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return strings.Join(results[i].Namespace, "/") < strings.Join(results[j].Namespace, "/")
	})
	return
}
