package handler

import (
	"kkp-asta/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// RequireUpgrade rejects plain HTTP requests on the websocket route.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// Stream registers the connection with the hub until the client goes away.
func Stream(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if !hub.Add(c) {
			c.Close()
			return
		}
		defer hub.Remove(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
