package plugin

import (
	"sync"
	"time"

	Ct "github.com/maroda/circadia/types"
)

// MemoryOutput keeps the journal in a slice, it is lost on exit
type MemoryOutput struct {
	MU      sync.RWMutex
	Records []*Ct.SelectionRecord
}

func NewMemoryOutput() *MemoryOutput {
	return &MemoryOutput{}
}

func (mo *MemoryOutput) WriteSelection(rec *Ct.SelectionRecord) error {
	mo.MU.Lock()
	defer mo.MU.Unlock()
	mo.Records = append(mo.Records, rec)
	return nil
}

func (mo *MemoryOutput) WriteBatch(recs []*Ct.SelectionRecord) error {
	mo.MU.Lock()
	defer mo.MU.Unlock()
	mo.Records = append(mo.Records, recs...)
	return nil
}

func (mo *MemoryOutput) QueryRange(start, end time.Time) ([]*Ct.SelectionRecord, error) {
	mo.MU.RLock()
	defer mo.MU.RUnlock()

	var recs []*Ct.SelectionRecord
	for _, r := range mo.Records {
		if !r.Timestamp.Before(start) && !r.Timestamp.After(end) {
			recs = append(recs, r)
		}
	}
	return recs, nil
}

func (mo *MemoryOutput) Flush() error { return nil }
func (mo *MemoryOutput) Close() error { return nil }
func (mo *MemoryOutput) Type() string { return "Memory" }
