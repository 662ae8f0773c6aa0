package attendance

import (
	"testing"
)

func TestDetectTrend(t *testing.T) {
	tests := []struct {
		name  string
		rates []float64
		want  Trend
	}{
		{name: "empty", rates: nil, want: TrendStable},
		{name: "too few sessions", rates: []float64{10, 90}, want: TrendStable},
		{name: "improving", rates: []float64{50, 55, 52, 90, 95}, want: TrendUp},
		{name: "declining", rates: []float64{90, 95, 52, 50, 55}, want: TrendDown},
		{name: "within threshold", rates: []float64{50, 52, 54, 53}, want: TrendStable},
		{name: "diff equal to threshold", rates: []float64{50, 50, 55}, want: TrendStable},
		{name: "just over threshold", rates: []float64{50, 50, 55.1}, want: TrendUp},
		{name: "declining over six sessions", rates: []float64{60, 70, 80, 54.9, 30, 54.9}, want: TrendDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultAnalyzer.DetectTrend(tt.rates); got != tt.want {
				t.Errorf("DetectTrend(%v) = %v, want %v", tt.rates, got, tt.want)
			}
		})
	}
}
