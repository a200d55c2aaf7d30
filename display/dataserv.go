package circadia

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	Cs "github.com/maroda/circadia/server"
	Ct "github.com/maroda/circadia/types"
)

//go:embed web
var webAssets embed.FS

var Version = "dev"

var ErrJournalDisabled = errors.New("selection journal is disabled")

// SetupMux handles all data serving:
// - Prometheus metric endpoint
// - Websocket for brush and toggle from the D3.js UI
// - JSON API for geometry, visibility, selection and journal
// - PNG and SVG export
// - Embedded static front end
func (v *View) SetupMux() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", v.Stats.Handler())
	r.HandleFunc("/ws", v.WebsocketHandler)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(v.StatsMiddleware)
	api.HandleFunc("/version", v.VersionHandler)
	api.HandleFunc("/geometry", v.GeometryHandler)
	api.HandleFunc("/visibility", v.VisibilityHandler)
	api.HandleFunc("/toggle/{series}", v.ToggleHandler)
	api.HandleFunc("/brush", v.BrushHandler)
	api.HandleFunc("/stats", v.StatsHandler)
	api.HandleFunc("/journal", v.JournalHandler)

	export := r.PathPrefix("/export").Subrouter()
	export.Use(v.StatsMiddleware)
	export.HandleFunc("/chart.{format}", v.ExportHandler)

	// Static files for D3 frontend
	static, err := fs.Sub(webAssets, "web")
	if err != nil {
		slog.Error("Embedded web assets missing", slog.Any("Error", err))
	} else {
		r.PathPrefix("/").Handler(http.FileServer(http.FS(static)))
	}

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", slog.Any("Error", err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, errors.New("invalid method, use "+allowed))
}

func (v *View) VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": Version})
}

// GeometryHandler is the full drawable chart: the front end renders
// this and computes nothing itself.
func (v *View) GeometryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, v.CurrentChart().Geometry())
}

type visibilityResponse struct {
	Visibility Ct.VisibilityState `json:"visibility"`
	Opacity    []Cs.Opacity       `json:"opacity"`
}

func (v *View) VisibilityHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	vis, _ := v.State.Snapshot()
	writeJSON(w, http.StatusOK, visibilityResponse{Visibility: vis, Opacity: Cs.ApplyAll(vis)})
}

func (v *View) ToggleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	s, err := Cs.ParseSeries(mux.Vars(r)["series"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Toggle(s))
}

// BrushMessage is a brush update from any client.
// A missing or null rect clears the brush; phase defaults to end.
type BrushMessage struct {
	Rect  *Cs.BrushRect `json:"rect"`
	Phase string        `json:"phase,omitempty"`
}

func decodeBrush(body io.Reader) (BrushMessage, error) {
	var msg BrushMessage
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&msg); err != nil && !errors.Is(err, io.EOF) {
		return msg, err
	}
	if msg.Phase == "" {
		msg.Phase = PhaseEnd
	}
	return msg, validPhase(msg.Phase)
}

func validPhase(p string) error {
	switch p {
	case PhaseStart, PhaseMove, PhaseEnd:
		return nil
	}
	return errors.New("unknown brush phase: " + p)
}

func (v *View) BrushHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	msg, err := decodeBrush(r.Body)
	if err != nil {
		slog.Debug("Bad brush request", slog.Any("Error", err))
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Brush("http", msg.Phase, msg.Rect))
}

func (v *View) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, v.State.Summary())
}

// JournalHandler lists journaled selections, from and to are RFC 3339
// and default to the epoch and now.
func (v *View) JournalHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if v.Journal == nil {
		writeError(w, http.StatusServiceUnavailable, ErrJournalDisabled)
		return
	}

	from, to := time.Unix(0, 0), time.Now()
	var err error
	if q := r.URL.Query().Get("from"); q != "" {
		if from, err = time.Parse(time.RFC3339, q); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if q := r.URL.Query().Get("to"); q != "" {
		if to, err = time.Parse(time.RFC3339, q); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	// buffered records are not visible to a range query until written
	if err := v.Journal.Flush(); err != nil {
		slog.Error("Journal flush failed", slog.Any("Error", err))
	}

	recs, err := v.Journal.QueryRange(from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if recs == nil {
		recs = []*Ct.SelectionRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}
