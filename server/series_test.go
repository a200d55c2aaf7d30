package circadia_test

import (
	"testing"

	Cs "github.com/maroda/circadia/server"
	Ct "github.com/maroda/circadia/types"
)

func TestNewSeriesStore(t *testing.T) {
	t.Run("Maximum spans both full series", func(t *testing.T) {
		estrus := flatSeries(3)
		nonEstrus := flatSeries(2)
		// index 5 is never sampled, it still sets the scale
		nonEstrus[5] = 99

		ss := Cs.NewSeriesStore(estrus, nonEstrus, 10)
		assertFloat(t, ss.MaxActivity(), 99)
	})

	t.Run("Sample rate defaults", func(t *testing.T) {
		ss := Cs.NewSeriesStore(flatSeries(1), flatSeries(1), 0)
		assertInt(t, ss.SampleRate(), Cs.DefaultSampleRate)
	})

	t.Run("Short series are tolerated", func(t *testing.T) {
		ss := Cs.NewSeriesStore(make([]float64, 100), flatSeries(1), 10)
		assertInt(t, ss.Len(Ct.Estrus), 100)
		assertInt(t, len(ss.Sampled(Ct.Estrus)), 10)
	})

	t.Run("All zero data", func(t *testing.T) {
		ss := Cs.NewSeriesStore(flatSeries(0), flatSeries(0), 10)
		assertFloat(t, ss.MaxActivity(), 0)
	})
}

func TestSeriesStore_Samples(t *testing.T) {
	values := flatSeries(1)
	for i := range values {
		values[i] = float64(i)
	}
	ss := Cs.NewSeriesStore(values, flatSeries(4), 10)

	t.Run("Full resolution keeps minute order", func(t *testing.T) {
		got := ss.Samples(Ct.Estrus)
		assertInt(t, len(got), Cs.MinutesPerDay)
		assertInt(t, got[123].Index, 123)
		assertFloat(t, got[123].Value, 123)
		assertBool(t, got[123].Series == Ct.Estrus, true)
	})

	t.Run("Every tenth record from zero", func(t *testing.T) {
		got := ss.Sampled(Ct.Estrus)
		assertInt(t, len(got), 144)
		assertInt(t, got[0].Index, 0)
		assertInt(t, got[1].Index, 10)
		assertInt(t, got[143].Index, 1430)
		for _, s := range got {
			if s.Index%10 != 0 {
				t.Fatalf("sampled index %d", s.Index)
			}
		}
	})

	t.Run("Records covers both series", func(t *testing.T) {
		got := ss.Records()
		assertInt(t, len(got), 2*Cs.MinutesPerDay)
		assertBool(t, got[0].Series == Ct.Estrus, true)
		assertBool(t, got[Cs.MinutesPerDay].Series == Ct.NonEstrus, true)
		assertFloat(t, got[Cs.MinutesPerDay].Value, 4)
	})
}

func TestSeriesStore_Markers(t *testing.T) {
	ss := Cs.NewSeriesStore(flatSeries(10), flatSeries(5), 10)
	p := Cs.NewProjector(Cs.NewRadialScale(ss.MaxActivity(), 430))
	markers := ss.Markers(p)

	t.Run("Both series, Estrus first", func(t *testing.T) {
		assertInt(t, len(markers), 288)
		assertBool(t, markers[0].Series == Ct.Estrus, true)
		assertBool(t, markers[143].Series == Ct.Estrus, true)
		assertBool(t, markers[144].Series == Ct.NonEstrus, true)
	})

	t.Run("Positions come from the projector", func(t *testing.T) {
		assertFloat(t, markers[0].X, 0)
		assertFloat(t, markers[0].Y, -430)
		assertFloat(t, markers[144].Y, -215)
	})

	t.Run("Curve has every minute", func(t *testing.T) {
		curve := ss.Curve(Ct.NonEstrus, p)
		assertInt(t, len(curve), Cs.MinutesPerDay)
		assertFloat(t, curve[720].Y, 215)
	})
}
