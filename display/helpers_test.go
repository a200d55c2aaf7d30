package circadia_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	Cd "github.com/maroda/circadia/display"
	Cs "github.com/maroda/circadia/server"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// makeTestChart is two flat series, Estrus at 10 and Non-Estrus at 5,
// so markers sit on two circles of radius 430 and 215
func makeTestChart(t *testing.T) *Cs.Chart {
	t.Helper()
	return Cs.NewChart(makeFlatStore(10, 5), Cs.DefaultLayout())
}

func makeFlatStore(estrus, nonEstrus float64) *Cs.SeriesStore {
	e := make([]float64, Cs.MinutesPerDay)
	n := make([]float64, Cs.MinutesPerDay)
	for i := range e {
		e[i] = estrus
		n[i] = nonEstrus
	}
	return Cs.NewSeriesStore(e, n, Cs.DefaultSampleRate)
}

func makeTestView(t *testing.T) *Cd.View {
	t.Helper()
	view, err := Cd.NewView(makeTestChart(t))
	assertError(t, err, nil)
	return view
}

// writeSeriesFile writes a full day of one constant value as activity records
func writeSeriesFile(t *testing.T, dir, name string, value float64) string {
	t.Helper()
	recs := make([]map[string]float64, Cs.MinutesPerDay)
	for i := range recs {
		recs[i] = map[string]float64{"activity": value}
	}
	data, err := json.Marshal(recs)
	assertError(t, err, nil)

	path := filepath.Join(dir, name)
	assertError(t, os.WriteFile(path, data, 0o644), nil)
	return path
}

func makeTestConfig(estrus, nonEstrus string) *Cs.Config {
	return &Cs.Config{
		Port:            "0",
		ChartWidth:      1000,
		ChartHeight:     1000,
		ChartMargin:     70,
		SampleRate:      Cs.DefaultSampleRate,
		EstrusSource:    estrus,
		NonEstrusSource: nonEstrus,
		ActivityKey:     "activity",
		LoadTimeout:     5 * time.Second,
	}
}

// fullBrush covers the whole default canvas
func fullBrush() *Cs.BrushRect {
	return &Cs.BrushRect{X0: 0, Y0: 0, X1: 1000, Y1: 1000}
}

// midnightBrush covers only the Estrus marker at minute 0, canvas (500, 70)
func midnightBrush() *Cs.BrushRect {
	return &Cs.BrushRect{X0: 490, Y0: 60, X1: 510, Y1: 80}
}

// testutilCount reads the API request counter for one code and method
func testutilCount(t *testing.T, v *Cd.View, code, method string) float64 {
	t.Helper()
	return testutil.ToFloat64(v.Stats.WWWRequests.WithLabelValues(code, method))
}

func assertError(t testing.TB, got, want error) {
	t.Helper()
	if !errors.Is(got, want) {
		t.Errorf("got error %q want %q", got, want)
	}
}

func assertGotError(t testing.TB, got error) {
	t.Helper()
	if got == nil {
		t.Errorf("Expected an error but got %q", got)
	}
}

func assertStatus(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("did not get correct status, got %d, want %d", got, want)
	}
}

func assertInt(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("did not get correct value, got %d, want %d", got, want)
	}
}

func assertBool(t testing.TB, got, want bool) {
	t.Helper()
	if got != want {
		t.Errorf("did not get correct value, got %t, want %t", got, want)
	}
}

func assertString(t testing.TB, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("did not get correct value, got %q, want %q", got, want)
	}
}

func assertStringContains(t testing.TB, full, want string) {
	t.Helper()
	if !strings.Contains(full, want) {
		t.Errorf("Did not find %q, expected string contains %q", want, full)
	}
}

// rowValue looks up a statistics row by label, "" when missing
func rowValue(s Cs.Summary, label string) string {
	for _, r := range s.Rows {
		if r.Label == label {
			return r.Value
		}
	}
	return ""
}
