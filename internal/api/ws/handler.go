package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/faceofmind/server/internal/services"
	"github.com/gofiber/contrib/websocket"
)

const requestTimeout = 10 * time.Second

type inboundMessage struct {
	Type   string `json:"type"`
	Period string `json:"period,omitempty"`
}

// Handler serves the realtime analytics feed. On connect the client gets a
// current week snapshot, then may request other periods or ping.
type Handler struct {
	hub       *Hub
	analytics services.AnalyticsService
}

func NewHandler(hub *Hub, analytics services.AnalyticsService) *Handler {
	return &Handler{hub: hub, analytics: analytics}
}

// Serve is the connection loop passed to websocket.New. The auth middleware
// has already stashed the user id in conn locals.
func (h *Handler) Serve(conn *websocket.Conn) {
	userID, _ := conn.Locals("userID").(uint)

	client := NewClient(conn, userID)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	go client.WritePump()

	h.sendAnalytics(client, "week")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.sendError(client, "invalid message format")
			continue
		}

		switch msg.Type {
		case "ping":
			h.sendFrame(client, map[string]interface{}{"type": "pong"})
		case "request_analytics":
			period := msg.Period
			if period == "" {
				period = "week"
			}
			h.sendAnalytics(client, period)
		default:
			h.sendError(client, "unknown message type")
		}
	}
}

func (h *Handler) sendAnalytics(client *Client, period string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := h.analytics.GetUserAnalytics(ctx, period)
	if err != nil {
		h.sendError(client, err.Error())
		return
	}

	h.sendFrame(client, map[string]interface{}{
		"type":   "analytics_update",
		"period": period,
		"data":   result,
	})
}

func (h *Handler) sendError(client *Client, message string) {
	h.sendFrame(client, map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}

func (h *Handler) sendFrame(client *Client, payload map[string]interface{}) {
	frame, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws frame marshal error: %v", err)
		return
	}
	if !client.Send(frame) {
		log.Printf("ws client user_id=%d send buffer full", client.userID)
	}
}
