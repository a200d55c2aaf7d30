package circadia

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	Cs "github.com/maroda/circadia/server"
)

// WSMessage is both directions of the websocket protocol.
// Clients send brush, toggle or stats; the server answers
// with selection, visibility, stats or error.
type WSMessage struct {
	Type   string        `json:"type"`
	Rect   *Cs.BrushRect `json:"rect,omitempty"`
	Phase  string        `json:"phase,omitempty"`
	Series string        `json:"series,omitempty"`
	Error  string        `json:"error,omitempty"`
	Data   any           `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebsocketHandler answers each client message in order.
// One goroutine per connection, so writes never interleave.
func (v *View) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("Websocket upgrade failed", slog.Any("Error", err))
		return
	}
	defer conn.Close()

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("Websocket read failed", slog.Any("Error", err))
			}
			return // Connection closed
		}

		if err := conn.WriteJSON(v.HandleWSMessage(msg)); err != nil {
			return
		}
	}
}

// HandleWSMessage is the reply to one client message
func (v *View) HandleWSMessage(msg WSMessage) WSMessage {
	switch msg.Type {
	case "brush":
		phase := msg.Phase
		if phase == "" {
			phase = PhaseEnd
		}
		if err := validPhase(phase); err != nil {
			return WSMessage{Type: "error", Error: err.Error()}
		}
		return WSMessage{Type: "selection", Data: v.Brush("ws", phase, msg.Rect)}

	case "toggle":
		s, err := Cs.ParseSeries(msg.Series)
		if err != nil {
			return WSMessage{Type: "error", Error: err.Error()}
		}
		return WSMessage{Type: "visibility", Data: v.Toggle(s)}

	case "stats":
		return WSMessage{Type: "stats", Data: v.State.Summary()}

	default:
		return WSMessage{Type: "error", Error: "unknown message type: " + msg.Type}
	}
}
