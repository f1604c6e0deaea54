// Numeric helpers for summarizing recorded report latencies
package calc

import "sort"

// Mean of the sample set after discarding the given fraction of extreme
// values from each end. Negative fractions are treated as zero, fractions
// that would consume the whole set are reduced to keep at least one value.
func TrimmedMeanUint64(values []uint64, trimPercent float64) (mean uint64) {
	if len(values) == 0 {
		return
	}
	if trimPercent < 0 {
		trimPercent = 0
	}

	sorted := append([]uint64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	drop := int(float64(len(sorted)) * trimPercent)
	if drop*2 >= len(sorted) {
		drop = (len(sorted) - 1) / 2
	}
	kept := sorted[drop : len(sorted)-drop]

	var sum uint64
	for _, sample := range kept {
		sum += sample
	}

	mean = sum / uint64(len(kept))
	return
}
