package handlers

import (
	"log"

	"github.com/anjiri1684/neighborhood_hub/database"
	"github.com/anjiri1684/neighborhood_hub/services"
	"github.com/anjiri1684/neighborhood_hub/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// ServeWs expects {"type":"auth","token":...} as the first frame. After that
// the connection only receives events; client frames are read to detect
// disconnects and otherwise ignored.
func ServeWs(c *websocketcontrib.Conn) {
	var authMsg wsAuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		log.Printf("WebSocket auth failed: invalid or missing auth message: %v", err)
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := services.ParseToken(authMsg.Token)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid token: %v", err)
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "Invalid token"})
		c.Close()
		return
	}
	userID, err := services.UserIDFromClaims(claims)
	if err == nil {
		_, err = services.GetUser(database.DB, userID)
	}
	if err != nil {
		log.Printf("WebSocket auth failed: %v", err)
		_ = c.WriteJSON(fiber.Map{"type": "error", "message": "User not found"})
		c.Close()
		return
	}

	_ = c.WriteJSON(fiber.Map{"type": "ready"})
	client := &websocket.Client{UserID: userID, Conn: c}
	websocket.DefaultHub.Register <- client
	defer func() {
		websocket.DefaultHub.Unregister <- client
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Printf("WebSocket closed for client %s", userID)
			} else {
				log.Printf("WebSocket read error for client %s: %v", userID, err)
			}
			return
		}
	}
}
