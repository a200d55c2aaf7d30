package plugin_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	Cp "github.com/maroda/circadia/plugin"
	Ct "github.com/maroda/circadia/types"
)

func TestNewBadgerOutput(t *testing.T) {
	adapter, closedb := makeTestBadgerOutput(t)
	defer closedb()

	t.Run("Creates new struct for output", func(t *testing.T) {
		path := t.TempDir()
		got, err := Cp.NewBadgerOutput(path, 10)
		assertError(t, err, nil)
		defer got.Close()
		assertInt(t, got.BatchSize, 10)
	})

	t.Run("Batch size is at least one", func(t *testing.T) {
		got, err := Cp.NewBadgerOutput(t.TempDir(), 0)
		assertError(t, err, nil)
		defer got.Close()
		assertInt(t, got.BatchSize, 1)
	})

	t.Run("Returns Type", func(t *testing.T) {
		assertStringContains(t, adapter.Type(), "BadgerDB")
	})
}

func TestBadgerOutput_WriteSelection(t *testing.T) {
	adapter, closedb := makeTestBadgerOutput(t)
	defer closedb()

	t.Run("Buffers below batch size", func(t *testing.T) {
		err := adapter.WriteSelection(makeSelectionRecord(time.Now(), 3))
		assertError(t, err, nil)
		assertInt(t, len(adapter.Buffer), 1)
	})

	t.Run("Flushes at batch size", func(t *testing.T) {
		start := time.Now()
		// the test adapter batch size is 5, one is already buffered
		for i := 0; i < 4; i++ {
			err := adapter.WriteSelection(makeSelectionRecord(start.Add(time.Duration(i)*time.Second), i+1))
			assertError(t, err, nil)
		}
		assertInt(t, len(adapter.Buffer), 0)

		recs, err := adapter.QueryRange(start.Add(-time.Minute), start.Add(time.Minute))
		assertError(t, err, nil)
		assertInt(t, len(recs), 5)
	})
}

func TestBadgerOutput_SelectionKeyValue(t *testing.T) {
	now := time.Now()
	rec := makeSelectionRecord(now, 12)

	t.Run("Keys sort chronologically", func(t *testing.T) {
		early := Cp.SelectionKey(rec, 1)
		late := Cp.SelectionKey(makeSelectionRecord(now.Add(time.Millisecond), 1), 1)
		if bytes.Compare(early, late) >= 0 {
			t.Errorf("SelectionKey %v should sort before %v", early, late)
		}
	})

	t.Run("Sequence separates equal timestamps", func(t *testing.T) {
		a := Cp.SelectionKey(rec, 1)
		b := Cp.SelectionKey(rec, 2)
		if bytes.Equal(a, b) {
			t.Errorf("keys should differ, both %v", a)
		}
	})

	t.Run("Encodes and decodes a record", func(t *testing.T) {
		data, err := Cp.SelectionEncode(rec)
		assertError(t, err, nil)

		got, err := Cp.SelectionDecode(data)
		assertError(t, err, nil)
		assertInt(t, got.Count, rec.Count)
		if !got.Timestamp.Equal(rec.Timestamp) {
			t.Errorf("Timestamp = %v, want %v", got.Timestamp, rec.Timestamp)
		}
		if len(got.Stats) != len(rec.Stats) || got.Stats[0] != rec.Stats[0] {
			t.Errorf("Stats = %v, want %v", got.Stats, rec.Stats)
		}
	})
}

func TestBadgerOutput_QueryRange(t *testing.T) {
	adapter, closedb := makeTestBadgerOutput(t)
	defer closedb()

	start := time.Now()
	recs := []*Ct.SelectionRecord{
		makeSelectionRecord(start, 1),
		makeSelectionRecord(start.Add(1*time.Second), 2),
		makeSelectionRecord(start.Add(2*time.Second), 3),
		makeSelectionRecord(start.Add(10*time.Second), 4),
	}
	assertError(t, adapter.WriteBatch(recs), nil)

	tests := []struct {
		name  string
		from  time.Time
		to    time.Time
		count int
	}{
		{"Everything", start.Add(-time.Hour), start.Add(time.Hour), 4},
		{"Inclusive edges", start, start.Add(2 * time.Second), 3},
		{"Nothing after the last", start.Add(11 * time.Second), start.Add(time.Hour), 0},
		{"Zero time start", time.Time{}, start.Add(time.Hour), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adapter.QueryRange(tt.from, tt.to)
			assertError(t, err, nil)
			assertInt(t, len(got), tt.count)
		})
	}
}

// Helpers //

func makeTestBadgerOutput(t *testing.T) (*Cp.BadgerOutput, func()) {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	assertError(t, err, nil)

	adapter := &Cp.BadgerOutput{
		DB:        db,
		BatchSize: 5,
		Buffer:    make([]*Ct.SelectionRecord, 0, 5),
	}

	cleanup := func() {
		adapter.Close()
	}

	return adapter, cleanup
}

func makeSelectionRecord(ts time.Time, count int) *Ct.SelectionRecord {
	return &Ct.SelectionRecord{
		Timestamp: ts,
		X0:        -10,
		Y0:        -10,
		X1:        10,
		Y1:        10,
		Count:     count,
		Stats: []Ct.StatRow{
			{Label: "Count", Value: "1"},
		},
	}
}
