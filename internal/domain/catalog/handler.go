package catalog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/artfolio/artfolio-api/internal/domain/category"
	"github.com/artfolio/artfolio-api/internal/domain/project"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Event is the wire format pushed to websocket clients: the full catalog on
// connect and again after every change.
type Event struct {
	Type       string                       `json:"type"`
	Projects   []*project.ProjectResponse   `json:"projects,omitempty"`
	Categories []*category.CategoryResponse `json:"categories,omitempty"`
	Error      string                       `json:"error,omitempty"`
}

// Handler serves the live catalog websocket
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates catalog handler
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// Allow all in development
				if len(allowedOrigins) == 0 {
					return true
				}

				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}

				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// WebSocket handles GET /ws/catalog. The first frame a client receives is the
// current snapshot; each catalog change pushes a fresh one.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	send := make(chan []byte, 8)

	cancel := h.hub.Subscribe(func(snap Snapshot) {
		data, err := json.Marshal(eventFromSnapshot(snap))
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal catalog event")
			return
		}
		select {
		case send <- data:
		default:
			log.Warn().Msg("Catalog websocket send buffer full; frame dropped")
		}
	})

	go h.wsWriter(conn, send)
	go h.wsReader(conn, cancel)
}

func eventFromSnapshot(snap Snapshot) Event {
	if snap.Err != nil {
		return Event{Type: "error", Error: "catalog temporarily unavailable"}
	}

	ev := Event{
		Type:       "snapshot",
		Projects:   make([]*project.ProjectResponse, 0, len(snap.Projects)),
		Categories: make([]*category.CategoryResponse, 0, len(snap.Categories)),
	}
	for _, p := range snap.Projects {
		ev.Projects = append(ev.Projects, project.ResponseFromEntity(p))
	}
	for _, c := range snap.Categories {
		ev.Categories = append(ev.Categories, category.ResponseFromEntity(c))
	}
	return ev
}

// wsReader drains the client until it disconnects, then deregisters it
func (h *Handler) wsReader(conn *websocket.Conn, cancel func()) {
	defer func() {
		cancel()
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("Catalog websocket read error")
			}
			return
		}
	}
}

func (h *Handler) wsWriter(conn *websocket.Conn, send chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
