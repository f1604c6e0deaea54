package calc

import "testing"

func TestTrimmedMeanUint64(t *testing.T) {
	tests := []struct {
		name        string
		values      []uint64
		trimPercent float64
		want        uint64
	}{
		{"Empty", nil, 0.1, 0},
		{"Single", []uint64{42}, 0.1, 42},
		{"NoTrim", []uint64{1, 2, 3, 4, 5}, 0, 3},
		{"TrimOutliers", []uint64{1, 2, 3, 4, 1000}, 0.2, 3},
		{"NegativeTrimClamped", []uint64{2, 4}, -1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimmedMeanUint64(tt.values, tt.trimPercent)
			if got != tt.want {
				t.Fatalf("want %d, got %d", tt.want, got)
			}
		})
	}
}
