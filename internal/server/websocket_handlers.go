package server

import (
	"context"
	"log/slog"

	"artemis/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketFeedHandler handles GET /api/ws/feed. The socket is one-way: the
// server pushes change events and the client only reads. Anything a session
// wants to change goes through the HTTP API.
func (s *Server) WebSocketFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(string)
		if userID == "" {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		if s.hub == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"realtime unavailable"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			slog.Warn("feed websocket rejected", "user_id", userID, "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		slog.Info("feed websocket connected", "user_id", userID, "connections", s.hub.ConnCount())

		go client.WritePump()

		// Read pump runs in the handler goroutine; it returns when the
		// client disconnects and unregisters itself from the hub.
		client.ReadPump()

		slog.Info("feed websocket disconnected", "user_id", userID)
	})
}

// StartRealtime wires the Redis change-feed subscriber into the mirror and
// the websocket hub. Without Redis the server still works; sessions just see
// their own writes until reload.
func (s *Server) StartRealtime(ctx context.Context) {
	if s.notifier == nil {
		slog.Warn("redis unavailable, change events will not be delivered")
		return
	}

	onEvent := func(e realtime.Event) {
		// Applying locally is idempotent, so receiving our own published
		// events back is harmless.
		s.store.Apply(e)
		if s.hub != nil {
			s.hub.BroadcastEvent(e)
		}
	}

	if err := s.notifier.StartSubscriber(ctx, onEvent); err != nil {
		slog.Error("change-feed subscriber failed to start", "error", err)
	}
}
