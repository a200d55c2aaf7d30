package plugin

/*
	ActivityKey

	Pulls the activity reading out of each record of a JSON array.

	The key may be dotted to reach into nested objects,
	e.g. "reading.activity" for {"reading": {"activity": 3.2}}
*/

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

var ErrNotNumeric = errors.New("value not numeric")

type ActivityKeyPlugin struct {
	Key string
}

// NewActivityExtractor returns a struct for what to search in each record
func NewActivityExtractor(key string) *ActivityKeyPlugin {
	if key == "" {
		key = "activity"
	}
	return &ActivityKeyPlugin{Key: key}
}

// Extract decodes a JSON array of records and returns one value per record,
// in array order. Negative or non-finite readings are rejected.
func (ak *ActivityKeyPlugin) Extract(body []byte) ([]float64, error) {
	var records []interface{}
	if err := json.Unmarshal(body, &records); err != nil {
		slog.Error("Error unmarshalling json",
			slog.String("search", ak.Key),
			slog.Any("error", err))
		return nil, fmt.Errorf("error unmarshalling records: %w", err)
	}

	values := make([]float64, len(records))
	for i, rec := range records {
		v, err := ExtractValue(rec, ak.Key)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("record %d: activity %v out of range", i, v)
		}
		values[i] = v
	}
	return values, nil
}

func ExtractValue(data interface{}, key string) (float64, error) {
	keys := strings.Split(key, ".")
	current := data

	for _, k := range keys {
		switch v := current.(type) {
		case map[string]interface{}:
			var ok bool
			current, ok = v[k]
			if !ok {
				return 0, fmt.Errorf("key %s not found", k)
			}
		case []interface{}:
			return 0, fmt.Errorf("array indexing not implemented yet")
		default:
			return 0, fmt.Errorf("cannot traverse into type %T at key %s", v, k)
		}
	}

	switch v := current.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("error converting json.Number: %w", err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}

func (ak *ActivityKeyPlugin) Type() string { return "activity_key" }
