package circadia_test

import (
	"errors"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	Cs "github.com/maroda/circadia/server"
)

const tolerance = 1e-9

// flatSeries is a full day of one value
func flatSeries(v float64) []float64 {
	s := make([]float64, Cs.MinutesPerDay)
	for i := range s {
		s[i] = v
	}
	return s
}

// makeTestChart puts Estrus markers on radius 430 and Non-Estrus on 215
func makeTestChart(t *testing.T) *Cs.Chart {
	t.Helper()
	store := Cs.NewSeriesStore(flatSeries(10), flatSeries(5), Cs.DefaultSampleRate)
	return Cs.NewChart(store, Cs.DefaultLayout())
}

// activityJSON is a full day of one value as activity records
func activityJSON(v float64) string {
	rec := `{"activity":` + strconv.FormatFloat(v, 'f', -1, 64) + `}`
	recs := make([]string, Cs.MinutesPerDay)
	for i := range recs {
		recs[i] = rec
	}
	return "[" + strings.Join(recs, ",") + "]"
}

// Temporary OS file to use for testing configurations and data
func createTempFile(t testing.TB, data string) (*os.File, func()) {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "circadia")
	if err != nil {
		t.Fatalf("could not create temp file %v", err)
	}

	tmpfile.Write([]byte(data))
	removeFile := func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name())
	}
	return tmpfile, removeFile
}

func makeMockWebServBody(delay time.Duration, status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, err := w.Write([]byte(body))
		if err != nil {
			log.Printf("ERROR: Could not write to output: %v", err)
		}
	}))
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

func assertInt(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("did not get correct value, got %d, want %d", got, want)
	}
}

func assertFloat(t testing.TB, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("did not get correct value, got %v, want %v", got, want)
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
		t.Errorf("got %q, want %q", got, want)
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
