package handlers

import (
	"context"
	"time"

	"github.com/anjiri1684/agriconnect/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const authFrameTimeout = 10 * time.Second

type authFrame struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// UpgradeRequired rejects plain HTTP requests on the websocket endpoint.
func UpgradeRequired(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// ServeWs expects {"type":"auth","token":"..."} as the first frame and then
// pushes booking events for that user until the socket closes.
func (h *Handler) ServeWs(c *websocketcontrib.Conn) {
	_ = c.SetReadDeadline(time.Now().Add(authFrameTimeout))

	var frame authFrame
	if err := c.ReadJSON(&frame); err != nil || frame.Type != "auth" {
		h.Logger.Warn("websocket auth failed: invalid or missing auth message", "error", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		_ = c.Close()
		return
	}

	session, err := h.Auth.ParseToken(context.Background(), frame.Token)
	if err != nil {
		h.Logger.Warn("websocket auth failed: invalid token", "error", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		_ = c.Close()
		return
	}
	_ = c.SetReadDeadline(time.Time{})

	// Acknowledge before registering: after that only the hub writes.
	_ = c.WriteJSON(fiber.Map{"type": "ready"})
	client := &websocket.Client{UserID: session.UserID, Conn: c}
	if !h.Hub.Register(client) {
		_ = c.Close()
		return
	}
	defer func() {
		h.Hub.Unregister(client)
		_ = c.Close()
	}()

	// Clients only listen; reading keeps close frames flowing.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				h.Logger.Debug("websocket closed", "user_id", session.UserID)
			} else {
				h.Logger.Debug("websocket read error", "user_id", session.UserID, "error", err)
			}
			return
		}
	}
}
