package circadia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	Co "github.com/maroda/circadia/obvy"
	Cp "github.com/maroda/circadia/plugin"
	Cs "github.com/maroda/circadia/server"
	Ct "github.com/maroda/circadia/types"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Brush phases, only a settled brush is journaled
const (
	PhaseStart = "start"
	PhaseMove  = "move"
	PhaseEnd   = "end"
)

var ErrNoChart = errors.New("no chart loaded")

type View struct {
	State      *Cs.ChartState    // chart, visibility and brush
	Stats      *Co.StatsInternal // Internal status for prometheus
	Journal    Cp.OutputAdapter  // settled selections go here, may be nil
	Loader     *Cs.Loader        // used by reloads
	Config     *Cs.Config        // used by reloads
	Screen     tcell.Screen      // the screen itself, nil when serving web
	Supervisor *ReloadSupervisor // periodic reload, nil when disabled
	server     *http.Server      // web and metrics server
	drag       *dragState        // terminal brush in progress
}

// NewView wires a loaded chart to fresh interaction state
func NewView(c *Cs.Chart) (*View, error) {
	if c == nil {
		slog.Error("Could not get a chart for display")
		return nil, ErrNoChart
	}

	return &View{
		State: Cs.NewChartState(c),
		Stats: Co.NewStatsInternal(),
	}, nil
}

// CurrentChart is safe to call while a reload is swapping charts
func (v *View) CurrentChart() *Cs.Chart {
	return v.State.Chart()
}

// SwapChart installs a freshly loaded chart and clears the selection
// in one step, so no brush can land on the old markers in between.
func (v *View) SwapChart(c *Cs.Chart) {
	v.State.SetChart(c)
	v.redraw()
}

// BrushResponse is what every brush update answers with
type BrushResponse struct {
	Selected []Ct.MarkerPoint `json:"selected"`
	Stats    Cs.Summary       `json:"stats"`
}

// Brush runs one brush update: select, summarise, record.
// A nil rectangle clears the brush. Only PhaseEnd with a
// non-empty selection is written to the journal.
func (v *View) Brush(source, phase string, b *Cs.BrushRect) BrushResponse {
	selected, summary := v.State.OnBrushChange(b)

	v.Stats.RecBrush(source, len(selected), b == nil)

	if phase == PhaseEnd && b != nil && len(selected) > 0 {
		v.journal(b, len(selected), summary)
	}

	if selected == nil {
		selected = []Ct.MarkerPoint{}
	}
	return BrushResponse{Selected: selected, Stats: summary}
}

func (v *View) journal(b *Cs.BrushRect, count int, s Cs.Summary) {
	if v.Journal == nil {
		return
	}

	rec := &Ct.SelectionRecord{
		Timestamp: time.Now(),
		X0:        b.X0,
		Y0:        b.Y0,
		X1:        b.X1,
		Y1:        b.Y1,
		Count:     count,
		Stats:     s.Rows,
	}
	if err := v.Journal.WriteSelection(rec); err != nil {
		slog.Error("Failed to journal selection",
			slog.String("output", v.Journal.Type()),
			slog.Any("Error", err))
	}
}

// ToggleResponse is the visibility after a toggle
type ToggleResponse struct {
	Series     Ct.Series          `json:"series"`
	Visible    bool               `json:"visible"`
	Visibility Ct.VisibilityState `json:"visibility"`
	Opacity    []Cs.Opacity       `json:"opacity"`
}

// Toggle flips one series; selection and statistics are untouched
func (v *View) Toggle(s Ct.Series) ToggleResponse {
	visible := v.State.OnToggle(s)
	v.Stats.RecToggle(s.Slug())

	vis, _ := v.State.Snapshot()
	return ToggleResponse{
		Series:     s,
		Visible:    visible,
		Visibility: vis,
		Opacity:    Cs.ApplyAll(vis),
	}
}

// Reload fetches the data again and swaps in the new chart.
// On failure the current chart stays.
func (v *View) Reload(ctx context.Context) error {
	if v.Loader == nil || v.Config == nil {
		return errors.New("reload needs a loader and config")
	}

	ctx, cancel := context.WithTimeout(ctx, v.Config.LoadTimeout)
	defer cancel()

	start := time.Now()
	chart, err := v.Loader.LoadChart(ctx, v.Config)
	v.Stats.RecLoadTimer(time.Since(start).Seconds())
	if err != nil {
		v.Stats.RecLoadFailure()
		slog.Error("Reload failed, keeping current chart", slog.Any("Error", err))
		return err
	}

	v.SwapChart(chart)
	slog.Info("Chart reloaded", slog.Float64("maxActivity", chart.Scale.Max))
	return nil
}

// RespWriter is a wrapper with StatsMiddleware, used for Prometheus
type RespWriter struct {
	http.ResponseWriter
	Status int
}

// WriteHeader is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) Write(b []byte) (int, error) {
	return w.ResponseWriter.Write(b)
}

func (v *View) StatsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &RespWriter{
			ResponseWriter: w,
			Status:         200,
		}
		next.ServeHTTP(wrapped, r)

		v.Stats.RecWWW(strconv.Itoa(wrapped.Status), r.Method)
	})
}

// Start loads the data, opens the journal and runs the configured UI.
// A failed initial load is fatal: there is no partial chart.
func Start(ctx context.Context, cfg *Cs.Config) error {
	loader := Cs.NewLoader(cfg.ActivityKey)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	start := time.Now()
	chart, err := loader.LoadChart(loadCtx, cfg)
	cancel()
	if err != nil {
		slog.Error("Initial data load failed", slog.Any("Error", err))
		return fmt.Errorf("initial load: %w", err)
	}

	view, err := NewView(chart)
	if err != nil {
		return err
	}
	view.Loader = loader
	view.Config = cfg
	view.Stats.RecLoadTimer(time.Since(start).Seconds())

	journal, err := Cp.OutputLookup(cfg.Journal, Cp.OutputOptions{
		Path:      cfg.JournalPath,
		BatchSize: cfg.JournalBatch,
	})
	if err != nil {
		slog.Error("Could not open journal", slog.Any("Error", err))
		return err
	}
	if journal != nil {
		view.Journal = journal
		defer func() {
			if err := journal.Close(); err != nil {
				slog.Error("Journal close failed", slog.Any("Error", err))
			}
		}()
	}

	// the screen exists before any reload can ask it to redraw
	if cfg.UI == "tui" {
		if err := view.InitScreen(); err != nil {
			return err
		}
	}

	if cfg.ReloadInterval > 0 {
		sup := view.NewReloadSupervisor(cfg.ReloadInterval)
		sup.Start(ctx)
		defer sup.Stop()
	}

	switch cfg.UI {
	case "tui":
		return view.StartTUI(ctx)
	default:
		return view.StartWeb(ctx)
	}
}

// StartWeb serves the API, websocket, metrics and front end until
// ctx is cancelled.
func (v *View) StartWeb(ctx context.Context) error {
	addr := ":" + v.Config.Port
	v.server = &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(v.SetupMux(), "circadia"),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting web server", slog.String("addr", addr))
		errCh <- v.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Web server failed", slog.Any("Error", err))
			return err
		}
		return nil
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("Shutting down web server")
		return v.server.Shutdown(shutCtx)
	}
}
