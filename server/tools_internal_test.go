package circadia

import (
	"math"
	"testing"
)

func TestFloatPrecise(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		{3.14159, 2, 3.14},
		{2.675, 0, 3},
		{-1.25, 1, -1.3},
		{10, 3, 10},
	}

	for _, tt := range tests {
		got := FloatPrecise(tt.in, tt.places)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("FloatPrecise(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}

	t.Run("NaN passes through", func(t *testing.T) {
		if !math.IsNaN(FloatPrecise(math.NaN(), 2)) {
			t.Error("NaN was rounded")
		}
	})
}

func TestFormat(t *testing.T) {
	assertInternalString(t, formatActivity(3), "3.00")
	assertInternalString(t, formatActivity(2.345678), "2.35")
	assertInternalString(t, formatLevel(86), "86")
	assertInternalString(t, formatLevel(17.2), "17")
}

func assertInternalString(t testing.TB, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
