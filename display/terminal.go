package circadia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	Cs "github.com/maroda/circadia/server"
	Ct "github.com/maroda/circadia/types"
)

const (
	statsPanelWidth = 32
	helpText        = "e/n toggle  drag to brush  c clear  Esc quit"
)

var errQuit = errors.New("quit")

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorLightSteelBlue)
	styleBorder  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorPink)
	bgDark       = tcell.ColorDarkSlateGray
	bgLight      = tcell.ColorDarkGoldenrod
)

// dragState is a brush being drawn with the mouse, in screen cells
type dragState struct {
	x0, y0, x1, y1 int
}

// CellGrid maps terminal cells onto the chart canvas.
// The plot is Cols x Rows cells with its top left cell at (Left, Top),
// and the whole canvas is stretched over it.
type CellGrid struct {
	Left, Top  int
	Cols, Rows int
	Layout     Cs.Layout
}

// NewCellGrid fits the plot into a screen, leaving room for the border,
// the help line and, when wide enough, the statistics panel.
// Terminal cells are about twice as tall as wide, so two columns per row.
func NewCellGrid(width, height int, l Cs.Layout) CellGrid {
	cols := width - 2
	if cols > statsPanelWidth+20 {
		cols -= statsPanelWidth + 1
	}
	rows := height - 3
	if cols > 2*rows {
		cols = 2 * rows
	}
	if rows > cols/2 && cols > 0 {
		rows = cols / 2
	}
	return CellGrid{Left: 1, Top: 1, Cols: max(cols, 1), Rows: max(rows, 1), Layout: l}
}

func (g CellGrid) cellW() float64 { return float64(g.Layout.Width) / float64(g.Cols) }
func (g CellGrid) cellH() float64 { return float64(g.Layout.Height) / float64(g.Rows) }

// Contains reports whether a screen cell is inside the plot
func (g CellGrid) Contains(x, y int) bool {
	return x >= g.Left && x < g.Left+g.Cols && y >= g.Top && y < g.Top+g.Rows
}

// Clamp pulls a screen cell into the plot
func (g CellGrid) Clamp(x, y int) (int, int) {
	return min(max(x, g.Left), g.Left+g.Cols-1), min(max(y, g.Top), g.Top+g.Rows-1)
}

// CellOf is the screen cell holding a chart-local point
func (g CellGrid) CellOf(p Ct.Point) (int, int) {
	cx, cy := g.Layout.Center()
	col := int(math.Floor((p.X + cx) / g.cellW()))
	row := int(math.Floor((p.Y + cy) / g.cellH()))
	return g.Clamp(g.Left+col, g.Top+row)
}

// LocalOf is the chart-local centre of a screen cell
func (g CellGrid) LocalOf(x, y int) Ct.Point {
	cx, cy := g.Layout.Center()
	return Ct.Point{
		X: (float64(x-g.Left)+0.5)*g.cellW() - cx,
		Y: (float64(y-g.Top)+0.5)*g.cellH() - cy,
	}
}

// BrushOf turns a drag between two cells into a canvas brush
// covering both corner cells completely.
func (g CellGrid) BrushOf(x0, y0, x1, y1 int) Cs.BrushRect {
	x0, y0 = g.Clamp(x0, y0)
	x1, y1 = g.Clamp(x1, y1)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Cs.BrushRect{
		X0: float64(x0-g.Left) * g.cellW(),
		Y0: float64(y0-g.Top) * g.cellH(),
		X1: float64(x1-g.Left+1) * g.cellW(),
		Y1: float64(y1-g.Top+1) * g.cellH(),
	}
}

// CellsOf is the inverse of BrushOf, the corner cells of a canvas brush
// Edges that land on a cell boundary, give or take rounding, stay there.
func (g CellGrid) CellsOf(b Cs.BrushRect) (int, int, int, int) {
	const eps = 1e-9
	x0, y0 := g.Clamp(
		g.Left+int(math.Floor(b.X0/g.cellW()+eps)),
		g.Top+int(math.Floor(b.Y0/g.cellH()+eps)))
	x1, y1 := g.Clamp(
		g.Left+int(math.Ceil(b.X1/g.cellW()-eps))-1,
		g.Top+int(math.Ceil(b.Y1/g.cellH()-eps))-1)
	return x0, y0, x1, y1
}

func (v *View) GetScreenSize() (int, int) {
	width, height := v.Screen.Size()
	return width, height
}

// PlotGrid is the cell grid for the current screen and chart
func (v *View) PlotGrid() CellGrid {
	width, height := v.GetScreenSize()
	return NewCellGrid(width, height, v.CurrentChart().Layout)
}

// DrawText writes text between two columns, wrapping onto following rows
func (v *View) DrawText(x1, y1, x2, y2 int, text string) {
	v.drawStyledText(x1, y1, x2, y2, text, styleDefault)
}

func (v *View) drawStyledText(x1, y1, x2, y2 int, text string, style tcell.Style) {
	row := y1
	col := x1
	for _, r := range text {
		v.Screen.SetContent(col, row, r, nil, style)
		col++
		if col >= x2 {
			row++
			col = x1
		}
		if row > y2 {
			break
		}
	}
}

// DrawViewBorder displays the outline of the View
func (v *View) DrawViewBorder(width, height int) {
	v.Screen.SetContent(0, 0, tcell.RuneULCorner, nil, styleBorder)
	for i := 1; i < width; i++ {
		v.Screen.SetContent(i, 0, tcell.RuneHLine, nil, styleBorder)
		v.Screen.SetContent(i, height, tcell.RuneHLine, nil, styleBorder)
	}
	v.Screen.SetContent(width, 0, tcell.RuneURCorner, nil, styleBorder)

	for i := 1; i < height; i++ {
		v.Screen.SetContent(0, i, tcell.RuneVLine, nil, styleBorder)
		v.Screen.SetContent(width, i, tcell.RuneVLine, nil, styleBorder)
	}

	v.Screen.SetContent(0, height, tcell.RuneLLCorner, nil, styleBorder)
	v.Screen.SetContent(width, height, tcell.RuneLRCorner, nil, styleBorder)
}

func seriesCellColor(s Ct.Series) tcell.Color {
	if s == Ct.NonEstrus {
		return tcell.ColorBlue
	}
	return tcell.ColorRed
}

// cellBackground is the period shading under a cell, black outside the face
func cellBackground(g CellGrid, radius float64, x, y int) tcell.Color {
	p := g.LocalOf(x, y)
	if math.Hypot(p.X, p.Y) > radius {
		return tcell.ColorBlack
	}
	if Cs.PeriodOf(Cs.MinuteOfAngle(math.Atan2(p.Y, p.X))) == Cs.Dark {
		return bgDark
	}
	return bgLight
}

// setOnFace draws a rune keeping the cell's period shading
func (v *View) setOnFace(g CellGrid, radius float64, x, y int, r rune, fg tcell.Color) {
	style := tcell.StyleDefault.Background(cellBackground(g, radius, x, y)).Foreground(fg)
	v.Screen.SetContent(x, y, r, nil, style)
}

// DrawClockFace draws the chart into the plot grid:
// shading, curves, markers, hour labels and the brush outline.
func (v *View) DrawClockFace() {
	chart := v.CurrentChart()
	g := v.PlotGrid()
	vis, sel := v.State.Snapshot()
	radius := chart.Layout.Radius()

	for y := g.Top; y < g.Top+g.Rows; y++ {
		for x := g.Left; x < g.Left+g.Cols; x++ {
			v.setOnFace(g, radius, x, y, ' ', tcell.ColorBlack)
		}
	}

	for _, s := range Ct.AllSeries {
		if !Cs.Visible(vis, s) {
			continue
		}
		for _, p := range chart.Curves[s] {
			x, y := g.CellOf(p)
			v.setOnFace(g, radius, x, y, '·', seriesCellColor(s))
		}
	}

	// hidden markers are still selectable, they are just not drawn
	for _, m := range chart.Markers {
		if !Cs.Visible(vis, m.Series) {
			continue
		}
		x, y := g.CellOf(m.Point)
		r := 'o'
		if sel.Contains(m) {
			r = '●'
		}
		v.setOnFace(g, radius, x, y, r, seriesCellColor(m.Series))
	}

	for _, l := range Cs.HourLabels(radius) {
		x, y := g.CellOf(Ct.Point{X: l.X, Y: l.Y})
		x -= len(l.Text) / 2
		v.drawStyledText(max(x, g.Left), y, g.Left+g.Cols, y, l.Text, styleDefault)
	}

	if sel.Active {
		v.drawBrushOutline(g, Cs.LocalToBrush(chart.Layout, sel.Rect))
	}
}

func (v *View) drawBrushOutline(g CellGrid, b Cs.BrushRect) {
	x0, y0, x1, y1 := g.CellsOf(b)
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for x := x0; x <= x1; x++ {
		v.Screen.SetContent(x, y0, tcell.RuneHLine, nil, style)
		v.Screen.SetContent(x, y1, tcell.RuneHLine, nil, style)
	}
	for y := y0; y <= y1; y++ {
		v.Screen.SetContent(x0, y, tcell.RuneVLine, nil, style)
		v.Screen.SetContent(x1, y, tcell.RuneVLine, nil, style)
	}
	v.Screen.SetContent(x0, y0, tcell.RuneULCorner, nil, style)
	v.Screen.SetContent(x1, y0, tcell.RuneURCorner, nil, style)
	v.Screen.SetContent(x0, y1, tcell.RuneLLCorner, nil, style)
	v.Screen.SetContent(x1, y1, tcell.RuneLRCorner, nil, style)
}

// DrawStatsPanel lists the legend with visibility and the selection statistics
func (v *View) DrawStatsPanel() {
	g := v.PlotGrid()
	width, height := v.GetScreenSize()
	x := g.Left + g.Cols + 1
	if width-x < statsPanelWidth/2 {
		return
	}
	right := width - 1
	vis, _ := v.State.Snapshot()

	row := 1
	line := func(text string, style tcell.Style) {
		if row < height-2 {
			v.drawStyledText(x, row, right, row, text, style)
		}
		row++
	}

	line("Circadia", styleBorder)
	row++
	for _, s := range Ct.AllSeries {
		mark := "[ ]"
		if Cs.Visible(vis, s) {
			mark = "[x]"
		}
		line(fmt.Sprintf("%s %s (%c)", mark, s, s.Slug()[0]),
			tcell.StyleDefault.Foreground(seriesCellColor(s)))
	}
	line("    "+Cs.Dark.String(), tcell.StyleDefault.Foreground(bgDark))
	line("    "+Cs.Light.String(), tcell.StyleDefault.Foreground(bgLight))
	row++

	summary := v.State.Summary()
	line("Selection", styleBorder)
	if summary.Empty() {
		line(summary.Message, styleDefault)
		return
	}
	for _, r := range summary.Rows {
		line(r.Label+": "+r.Value, styleDefault)
	}
}

func (v *View) UpdateScreen() {
	v.Screen.Clear()
	width, height := v.GetScreenSize()
	v.DrawViewBorder(width-1, height-1)
	v.DrawClockFace()
	v.DrawStatsPanel()
	v.DrawText(2, height-2, width-1, height-2, helpText)
	v.Screen.Show()
}

// HandleEvent applies one terminal event and redraws.
// It returns false when the user asked to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.Screen.Sync()
	case *tcell.EventInterrupt:
		if ev.Data() == errQuit {
			return false
		}
	case *tcell.EventKey:
		// Catch quit and exit
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		switch ev.Rune() {
		case 'e', 'E':
			v.Toggle(Ct.Estrus)
		case 'n', 'N':
			v.Toggle(Ct.NonEstrus)
		case 'c', 'C':
			v.drag = nil
			v.Brush("tui", PhaseEnd, nil)
		}
	case *tcell.EventMouse:
		v.HandleMouse(ev)
	}

	v.UpdateScreen()
	return true
}

// HandleMouse turns button 1 press, drag and release into brush updates.
// A click without movement clears the brush.
func (v *View) HandleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	g := v.PlotGrid()
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && v.drag == nil:
		if !g.Contains(x, y) {
			return
		}
		v.drag = &dragState{x0: x, y0: y, x1: x, y1: y}
		b := g.BrushOf(x, y, x, y)
		v.Brush("tui", PhaseStart, &b)

	case pressed:
		v.drag.x1, v.drag.y1 = g.Clamp(x, y)
		b := g.BrushOf(v.drag.x0, v.drag.y0, v.drag.x1, v.drag.y1)
		v.Brush("tui", PhaseMove, &b)

	case v.drag != nil:
		d := *v.drag
		v.drag = nil
		d.x1, d.y1 = g.Clamp(x, y)
		if d.x0 == d.x1 && d.y0 == d.y1 {
			v.Brush("tui", PhaseEnd, nil)
			return
		}
		b := g.BrushOf(d.x0, d.y0, d.x1, d.y1)
		v.Brush("tui", PhaseEnd, &b)
	}
}

// InitScreen creates the tcell screen that displays the clock face
func (v *View) InitScreen() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("Could not get new screen", slog.Any("Error", err))
		return err
	}
	if err := screen.Init(); err != nil {
		slog.Error("Could not initialize screen", slog.Any("Error", err))
		return err
	}

	screen.SetStyle(styleDefault)
	screen.EnableMouse()
	v.Screen = screen
	return nil
}

// redraw asks the event loop to repaint, used after a reload
func (v *View) redraw() {
	if v.Screen != nil {
		_ = v.Screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// StartTUI runs the terminal view until Esc, Ctrl-C or ctx is done.
// The metrics and API server runs alongside it.
func (v *View) StartTUI(ctx context.Context) error {
	if v.Screen == nil {
		if err := v.InitScreen(); err != nil {
			return err
		}
	}
	defer v.Screen.Fini()

	// Panic recovery and logging
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in run loop", slog.Any("panic", r))
			slog.Error("Recovered from panic", slog.String("stack", string(debug.Stack())))
		}
	}()

	v.server = &http.Server{
		Addr:    ":" + v.Config.Port,
		Handler: v.SetupMux(),
	}
	go func() {
		if err := v.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", slog.Any("Error", err))
		}
	}()
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = v.server.Shutdown(shutCtx)
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.Screen.PostEvent(tcell.NewEventInterrupt(errQuit))
		case <-done:
		}
	}()

	v.UpdateScreen()
	for {
		ev := v.Screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !v.HandleEvent(ev) {
			return nil
		}
	}
}
