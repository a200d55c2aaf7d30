package plugin

/*

	The Adapter sits aside /circadia/
	Contains core interfaces for Plugin

*/

import (
	"time"

	Ct "github.com/maroda/circadia/types"
)

// ValueExtractor pulls one activity value per record out of a raw body.
// The body is whatever the data source returned, in array order.
type ValueExtractor interface {
	Extract(body []byte) ([]float64, error)
	Type() string
}

// OutputAdapter is a place for settled brush selections to go,
// record-by-record or in batches if supported by the output type.
type OutputAdapter interface {
	WriteSelection(rec *Ct.SelectionRecord) error                    // Write singleton selection
	WriteBatch(recs []*Ct.SelectionRecord) error                     // Write batches of selections
	QueryRange(start, end time.Time) ([]*Ct.SelectionRecord, error) // Time range query tool
	Flush() error                                                    // Flush any buffered data
	Close() error                                                    // Close the adapter and release resources
	Type() string                                                    // ID for output
}
