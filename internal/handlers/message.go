// internal/handlers/message.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/prolance/prolance-backend/internal/services"
	"github.com/prolance/prolance-backend/internal/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type MessageHandler struct {
	messageService *services.MessageService
	upgrader       websocket.Upgrader
}

func NewMessageHandler(messageService *services.MessageService, allowedOrigins []string) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// POST /api/messages
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	senderID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.messageService.CreateMessage(c.Request.Context(), senderID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, message)
}

// GET /api/orders/:id/messages?page=&limit=
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	messages, total, err := h.messageService.ListMessages(c.Request.Context(), orderID, userID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(messages, total, params))
}

// GET /api/orders/:id/stream
//
// Upgrades to a WebSocket that pushes every new event on the order. Client
// frames are read only to notice disconnects.
func (h *MessageHandler) Stream(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	sub, err := h.messageService.Subscribe(c.Request.Context(), orderID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already replied with an HTTP error.
		logrus.WithError(err).Debug("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	log := logrus.WithFields(logrus.Fields{"order_id": orderID, "user_id": userID})
	log.Debug("Stream opened")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			log.Debug("Stream closed by client")
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				log.WithError(err).Debug("Stream write failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// originChecker accepts requests without an Origin header and those from an
// allowed origin. "*" allows any origin.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}
