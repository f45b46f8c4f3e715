package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1/response"
	"github.com/G1ebS/rosatom-nko-sub000/internal/api/middleware"
	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	sendBuffer     = 16
	broadcastQueue = 64
)

type toastClient struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type toastMessage struct {
	sessionID string
	payload   []byte
}

// ToastHandler streams toasts to every open connection of a session.
type ToastHandler struct {
	upgrader websocket.Upgrader

	// clients is owned by Run.
	clients    map[string]map[*toastClient]struct{}
	broadcast  chan toastMessage
	register   chan *toastClient
	unregister chan *toastClient
	disconnect chan string
	done       chan struct{}
}

// NewToastHandler accepts websocket origins from allowedOrigins, or any
// origin when it is empty.
func NewToastHandler(allowedOrigins []string) *ToastHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &ToastHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		clients:    make(map[string]map[*toastClient]struct{}),
		broadcast:  make(chan toastMessage, broadcastQueue),
		register:   make(chan *toastClient),
		unregister: make(chan *toastClient),
		disconnect: make(chan string, broadcastQueue),
		done:       make(chan struct{}),
	}
}

// Run owns the connection registry until ctx is done.
func (h *ToastHandler) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for c := range conns {
					close(c.send)
				}
			}
			h.clients = make(map[string]map[*toastClient]struct{})
			return
		case c := <-h.register:
			conns, ok := h.clients[c.sessionID]
			if !ok {
				conns = make(map[*toastClient]struct{})
				h.clients[c.sessionID] = conns
			}
			conns[c] = struct{}{}
		case c := <-h.unregister:
			h.drop(c)
		case sessionID := <-h.disconnect:
			for c := range h.clients[sessionID] {
				h.drop(c)
			}
		case msg := <-h.broadcast:
			for c := range h.clients[msg.sessionID] {
				select {
				case c.send <- msg.payload:
				default:
					h.drop(c)
				}
			}
		}
	}
}

func (h *ToastHandler) drop(c *toastClient) {
	conns, ok := h.clients[c.sessionID]
	if !ok {
		return
	}
	if _, ok = conns[c]; !ok {
		return
	}

	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.sessionID)
	}
}

// Publish queues t for the connections of sessionID. Toasts are transient:
// with no connection open, or the queue full, they are dropped.
func (h *ToastHandler) Publish(sessionID string, t domain.Toast) {
	payload, err := json.Marshal(t)
	if err != nil {
		zap.L().Error("toast not encodable", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- toastMessage{sessionID: sessionID, payload: payload}:
	default:
		zap.L().Warn("toast queue full, dropping", zap.String("session_id", sessionID))
	}
}

// Disconnect queues the close of every open stream of sessionID.
func (h *ToastHandler) Disconnect(sessionID string) {
	select {
	case h.disconnect <- sessionID:
	default:
		zap.L().Warn("toast disconnect queue full, dropping", zap.String("session_id", sessionID))
	}
}

// HandleWebSocket godoc
// @Summary      Stream toasts of the current session
// @Description  Browsers pass the gateway token as the token query parameter.
// @Tags         notifications
// @Param        token     query     string  false  "gateway token"
// @Success      101      {string}   string "Switching Protocols to WebSocket"
// @Failure      401      {object}   response.Err
// @Router       /toasts [get]
// @Security     BearerAuth
func (h *ToastHandler) HandleWebSocket(ctx *gin.Context) {
	key, ok := middleware.Principal(ctx).ViewKey()
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(service.ErrUnauthenticated))
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &toastClient{
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: key,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *toastClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; clients never send toasts.
func (c *toastClient) readPump(h *ToastHandler) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("toast stream closed", zap.String("session_id", c.sessionID), zap.Error(err))
			}
			return
		}
	}
}
