package circadia

import (
	"sync"

	Ct "github.com/maroda/circadia/types"
)

// ChartState is the only mutable interaction state: the chart being
// shown, which series are drawn and what the brush covers. Handlers
// run concurrently, so every mutation goes through the mutex here and
// nowhere else.
type ChartState struct {
	MU         sync.RWMutex
	chart      *Chart
	Visibility Ct.VisibilityState
	Selection  Selection
}

func NewChartState(c *Chart) *ChartState {
	return &ChartState{
		chart:      c,
		Visibility: NewVisibility(),
		Selection:  EmptySelection(),
	}
}

// Chart is the chart brushes are currently answered against
func (cs *ChartState) Chart() *Chart {
	cs.MU.RLock()
	defer cs.MU.RUnlock()
	return cs.chart
}

// SetChart installs a reloaded chart. The old selection refers to
// old positions, so it goes in the same step.
func (cs *ChartState) SetChart(c *Chart) {
	cs.MU.Lock()
	defer cs.MU.Unlock()
	cs.chart = c
	cs.Selection = EmptySelection()
}

// OnToggle flips a series and returns its new visibility
func (cs *ChartState) OnToggle(s Ct.Series) bool {
	cs.MU.Lock()
	defer cs.MU.Unlock()

	cs.Visibility = Toggle(cs.Visibility, s)
	return Visible(cs.Visibility, s)
}

// OnBrushChange answers a brush start, move or end with the selected
// markers and their statistics, both from the same selection.
// A nil rectangle means the brush was cleared.
// The selection is computed against every marker,
// hidden series included.
func (cs *ChartState) OnBrushChange(b *BrushRect) ([]Ct.MarkerPoint, Summary) {
	cs.MU.Lock()
	defer cs.MU.Unlock()

	if b == nil || cs.chart == nil {
		cs.Selection = EmptySelection()
		return nil, Summarize(nil)
	}

	rect := BrushToLocal(cs.chart.Layout, *b)
	cs.Selection = Selection{
		Active: true,
		Rect:   rect,
		Points: Select(cs.chart.Markers, rect),
	}
	return cs.Selection.Points, Summarize(cs.Selection.Records())
}

// Reset clears the selection
func (cs *ChartState) Reset() {
	cs.MU.Lock()
	defer cs.MU.Unlock()
	cs.Selection = EmptySelection()
}

// Snapshot copies the current state for readers
func (cs *ChartState) Snapshot() (Ct.VisibilityState, Selection) {
	cs.MU.RLock()
	defer cs.MU.RUnlock()

	sel := cs.Selection
	sel.Points = append([]Ct.MarkerPoint(nil), cs.Selection.Points...)
	return cs.Visibility, sel
}

// Summary is the statistics table for the current selection
func (cs *ChartState) Summary() Summary {
	cs.MU.RLock()
	defer cs.MU.RUnlock()
	return Summarize(cs.Selection.Records())
}
