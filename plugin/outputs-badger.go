package plugin

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	Ct "github.com/maroda/circadia/types"
)

// BadgerOutput journals selections on disk, keyed by time
type BadgerOutput struct {
	MU        sync.Mutex
	DB        *badger.DB
	BatchSize int
	Buffer    []*Ct.SelectionRecord
	seq       atomic.Uint32
}

func NewBadgerOutput(path string, batchSize int) (*BadgerOutput, error) {
	if batchSize <= 0 {
		batchSize = 1
	}

	opts := badger.DefaultOptions(path).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		slog.Error("BadgerOutput failed to open database", slog.Any("error", err))
		return nil, fmt.Errorf("database error: %w", err)
	}

	slog.Info("BadgerOutput opened",
		slog.String("path", path),
		slog.Int("batchSize", batchSize))

	return &BadgerOutput{
		DB:        db,
		BatchSize: batchSize,
		Buffer:    make([]*Ct.SelectionRecord, 0, batchSize),
	}, nil
}

// WriteSelection queues up a batch of selections,
// when batchsize is reached the buffer is written
func (bo *BadgerOutput) WriteSelection(rec *Ct.SelectionRecord) error {
	bo.MU.Lock()
	defer bo.MU.Unlock()

	bo.Buffer = append(bo.Buffer, rec)
	if len(bo.Buffer) >= bo.BatchSize {
		return bo.flushLocked()
	}
	return nil
}

// WriteBatch performs the key/value creation to be stored
// and actually calls BadgerDB to write the data
func (bo *BadgerOutput) WriteBatch(recs []*Ct.SelectionRecord) error {
	wb := bo.DB.NewWriteBatch()
	defer wb.Cancel()

	for _, r := range recs {
		k := SelectionKey(r, bo.seq.Add(1))
		v, err := SelectionEncode(r)
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}
		if err := wb.Set(k, v); err != nil {
			slog.Error("BadgerOutput failed to set key in batch",
				slog.Any("error", err),
				slog.Time("selectionTime", r.Timestamp))
			return fmt.Errorf("write batch error: %w", err)
		}
	}

	if err := wb.Flush(); err != nil {
		slog.Error("BadgerOutput failed to flush batch", slog.Any("error", err))
		return fmt.Errorf("batch flush error: %w", err)
	}

	return nil
}

// Flush is the public method that blocks,
// it sends data to WriteBatch and then clears the buffer
func (bo *BadgerOutput) Flush() error {
	bo.MU.Lock()
	defer bo.MU.Unlock()
	return bo.flushLocked()
}

// flushLocked is Flush for callers already holding MU
func (bo *BadgerOutput) flushLocked() error {
	if len(bo.Buffer) == 0 {
		return nil
	}
	err := bo.WriteBatch(bo.Buffer)
	bo.Buffer = bo.Buffer[:0]
	return err
}

// Close returns a Flush error but still attempts to close
func (bo *BadgerOutput) Close() error {
	slog.Info("BadgerOutput closing, flushing buffer",
		slog.Int("bufferSize", len(bo.Buffer)))
	flushErr := bo.Flush()
	closeErr := bo.DB.Close()

	if flushErr != nil {
		slog.Error("BadgerOutput failed to flush on close", slog.Any("error", flushErr))
		return fmt.Errorf("flush failed, close may have failed: %w", flushErr)
	}

	if closeErr != nil {
		slog.Error("BadgerOutput failed to close database", slog.Any("error", closeErr))
		return fmt.Errorf("close failed: %w", closeErr)
	}

	slog.Info("BadgerOutput closed successfully")
	return nil
}

func (bo *BadgerOutput) Type() string { return "BadgerDB" }

// SelectionKey is the timestamp followed by a sequence number,
// two brushes settling in the same nanosecond do not collide
func SelectionKey(rec *Ct.SelectionRecord, seq uint32) []byte {
	key := make([]byte, 8+4)

	// Positive BigEndian keeps keys sorted chronologically
	binary.BigEndian.PutUint64(key[0:8], uint64(rec.Timestamp.UnixNano()))
	binary.BigEndian.PutUint32(key[8:12], seq)

	return key
}

// SelectionEncode serializes the record for data storage
func SelectionEncode(rec *Ct.SelectionRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SelectionDecode deserializes the record data
func SelectionDecode(data []byte) (*Ct.SelectionRecord, error) {
	var rec Ct.SelectionRecord
	dec := gob.NewDecoder(bytes.NewBuffer(data))
	err := dec.Decode(&rec)
	return &rec, err
}

// QueryRange retrieves selections with start <= Timestamp <= end.
// Keys are chronological, so iteration seeks to start and stops past end.
func (bo *BadgerOutput) QueryRange(start, end time.Time) ([]*Ct.SelectionRecord, error) {
	var recs []*Ct.SelectionRecord

	// keys are unsigned, nothing sorts before the epoch
	if start.Before(time.Unix(0, 0)) {
		start = time.Unix(0, 0)
	}

	seek := make([]byte, 8)
	binary.BigEndian.PutUint64(seek, uint64(start.UnixNano()))
	stop := uint64(end.UnixNano())

	err := bo.DB.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(seek); it.Valid(); it.Next() {
			item := it.Item()
			if binary.BigEndian.Uint64(item.Key()[0:8]) > stop {
				break
			}

			err := item.Value(func(val []byte) error {
				rec, err := SelectionDecode(val)
				if err != nil {
					slog.Error("BadgerOutput failed to decode selection", slog.Any("error", err))
					return fmt.Errorf("selection decode error: %w", err)
				}
				recs = append(recs, rec)
				return nil
			})
			if err != nil {
				slog.Error("BadgerOutput callback failure", slog.Any("error", err))
				return fmt.Errorf("item data error: %w", err)
			}
		}
		return nil
	})

	slog.Debug("BadgerOutput QueryRange", slog.Int("count", len(recs)))

	return recs, err
}
