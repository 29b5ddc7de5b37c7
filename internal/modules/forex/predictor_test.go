package forex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredict(t *testing.T) {
	tests := []struct {
		name  string
		rates []float64
		want  string
	}{
		{name: "rising series", rates: []float64{278, 279, 280, 282, 284, 286, 288}, want: TrendUp},
		{name: "falling series", rates: []float64{288, 286, 284, 282, 280, 279, 278}, want: TrendDown},
		{name: "flat series", rates: []float64{280, 280, 280, 280, 280}, want: TrendStable},
		{name: "recent dip in rising series", rates: []float64{280, 285, 290, 276, 275, 274}, want: TrendDown},
		{name: "three points or fewer means cancel out", rates: []float64{280, 284}, want: TrendStable},
		{name: "single point", rates: []float64{280}, want: TrendStable},
		{name: "empty series", rates: nil, want: TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Predict(tt.rates))
		})
	}
}

func TestSmooth(t *testing.T) {
	smoothed := Smooth([]float64{1, 2, 3, 4, 5})
	// talib pads the warm-up window with zeros
	assert.Len(t, smoothed, 5)
	assert.InDelta(t, 2.0, smoothed[2], 1e-9)
	assert.InDelta(t, 3.0, smoothed[3], 1e-9)
	assert.InDelta(t, 4.0, smoothed[4], 1e-9)
}

func TestSmoothTooFewPoints(t *testing.T) {
	assert.Nil(t, Smooth([]float64{280, 281}))
	assert.Nil(t, Smooth(nil))
}
