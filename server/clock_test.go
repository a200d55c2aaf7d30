package circadia_test

import (
	"math"
	"regexp"
	"testing"

	Cs "github.com/maroda/circadia/server"
)

func TestAngleOfMinute(t *testing.T) {
	tests := []struct {
		name   string
		minute int
		want   float64
	}{
		{"Midnight is 12 o'clock", 0, -math.Pi / 2},
		{"6 AM is 3 o'clock", 360, 0},
		{"Noon is 6 o'clock", 720, math.Pi / 2},
		{"6 PM is 9 o'clock", 1080, math.Pi},
		{"A full day is a full turn", 1440, 3 * math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFloat(t, Cs.AngleOfMinute(tt.minute), tt.want)
		})
	}

	t.Run("Increases monotonically", func(t *testing.T) {
		for i := 1; i < Cs.MinutesPerDay; i++ {
			if Cs.AngleOfMinute(i) <= Cs.AngleOfMinute(i-1) {
				t.Fatalf("angle of %d not after %d", i, i-1)
			}
		}
	})
}

func TestMinuteOfAngle(t *testing.T) {
	t.Run("Inverts AngleOfMinute", func(t *testing.T) {
		for i := 0; i < Cs.MinutesPerDay; i++ {
			if got := Cs.MinuteOfAngle(Cs.AngleOfMinute(i)); got != i {
				t.Fatalf("MinuteOfAngle(AngleOfMinute(%d)) = %d", i, got)
			}
		}
	})

	t.Run("Wraps any angle", func(t *testing.T) {
		assertInt(t, Cs.MinuteOfAngle(Cs.AngleOfMinute(1440)), 0)
		assertInt(t, Cs.MinuteOfAngle(Cs.AngleOfMinute(360)+4*math.Pi), 360)
		assertInt(t, Cs.MinuteOfAngle(math.Pi), 1080)
		assertInt(t, Cs.MinuteOfAngle(-math.Pi), 1080)
	})
}

func TestTimeLabel(t *testing.T) {
	tests := []struct {
		minute int
		want   string
	}{
		{0, "12:00 AM"},
		{5, "12:05 AM"},
		{59, "12:59 AM"},
		{60, "1:00 AM"},
		{90, "1:30 AM"},
		{719, "11:59 AM"},
		{720, "12:00 PM"},
		{780, "1:00 PM"},
		{1439, "11:59 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assertString(t, Cs.TimeLabel(tt.minute), tt.want)
		})
	}

	t.Run("Every minute is a 12 hour clock label", func(t *testing.T) {
		pattern := regexp.MustCompile(`^(1[0-2]|[1-9]):[0-5][0-9] (AM|PM)$`)
		for i := 0; i < Cs.MinutesPerDay; i++ {
			if got := Cs.TimeLabel(i); !pattern.MatchString(got) {
				t.Fatalf("TimeLabel(%d) = %q", i, got)
			}
		}
	})
}

func TestPeriodOf(t *testing.T) {
	assertBool(t, Cs.PeriodOf(0) == Cs.Dark, true)
	assertBool(t, Cs.PeriodOf(719) == Cs.Dark, true)
	assertBool(t, Cs.PeriodOf(720) == Cs.Light, true)
	assertBool(t, Cs.PeriodOf(1439) == Cs.Light, true)
	assertString(t, Cs.Dark.String(), "Dark Period")
	assertString(t, Cs.Light.String(), "Light Period")
}

func TestHourLabels(t *testing.T) {
	labels := Cs.HourLabels(430)

	t.Run("Every four hours", func(t *testing.T) {
		want := []string{"12:00 AM", "4:00 AM", "8:00 AM", "12:00 PM", "4:00 PM", "8:00 PM"}
		assertInt(t, len(labels), len(want))
		for i, l := range labels {
			assertString(t, l.Text, want[i])
			assertInt(t, l.Minute, i*240)
		}
	})

	t.Run("Placed outside the face", func(t *testing.T) {
		assertFloat(t, labels[0].X, 0)
		assertFloat(t, labels[0].Y, -455)
		assertFloat(t, labels[3].Y, 455)
		for _, l := range labels {
			assertFloat(t, math.Hypot(l.X, l.Y), 455)
		}
	})
}

func TestPeriodArcs(t *testing.T) {
	arcs := Cs.PeriodArcs(430)
	assertInt(t, len(arcs), 2)

	dark, light := arcs[0], arcs[1]
	assertString(t, dark.Period, "Dark Period")
	assertFloat(t, dark.StartAngle, -math.Pi/2)
	assertFloat(t, dark.EndAngle, math.Pi/2)
	assertString(t, light.Period, "Light Period")
	assertFloat(t, light.StartAngle, math.Pi/2)
	assertFloat(t, light.EndAngle, 3*math.Pi/2)
	assertFloat(t, light.Radius, 430)
}
