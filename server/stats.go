package circadia

import (
	"log/slog"
	"strconv"

	Ct "github.com/maroda/circadia/types"
	"github.com/montanaflynn/stats"
)

const (
	NoSelectionMessage = "No data points selected"
	notAvailable       = "N/A"
)

// Summary is what the statistics table shows.
// Either Rows is filled or Message explains why not.
type Summary struct {
	Rows    []Ct.StatRow `json:"rows,omitempty"`
	Message string       `json:"message,omitempty"`
}

func (s Summary) Empty() bool {
	return len(s.Rows) == 0
}

// Summarize reduces selected records to the descriptive statistics table.
// It has no state: the same records always produce the same rows.
func Summarize(records []Ct.ActivitySample) Summary {
	if len(records) == 0 {
		return Summary{Message: NoSelectionMessage}
	}

	values := make(stats.Float64Data, len(records))
	minIdx, maxIdx := records[0].Index, records[0].Index
	for i, r := range records {
		values[i] = r.Value
		if r.Index < minIdx {
			minIdx = r.Index
		}
		if r.Index > maxIdx {
			maxIdx = r.Index
		}
	}

	// Input is non-empty, so these cannot return EmptyInputErr
	minV, _ := stats.Min(values)
	maxV, _ := stats.Max(values)
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)

	sdev := notAvailable
	if len(values) >= 2 {
		sd, err := stats.StandardDeviationSample(values)
		if err != nil {
			slog.Error("Could not calculate standard deviation", slog.Any("Error", err))
		} else {
			sdev = formatActivity(sd)
		}
	}

	return Summary{
		Rows: []Ct.StatRow{
			{Label: "Count", Value: strconv.Itoa(len(values))},
			{Label: "Min Activity", Value: formatActivity(minV)},
			{Label: "Max Activity", Value: formatActivity(maxV)},
			{Label: "Mean Activity", Value: formatActivity(mean)},
			{Label: "Median Activity", Value: formatActivity(median)},
			{Label: "Std. Deviation", Value: sdev},
			{Label: "Time Range", Value: TimeLabel(minIdx) + " - " + TimeLabel(maxIdx)},
		},
	}
}
