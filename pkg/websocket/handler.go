package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleWebSocket upgrades a dashboard connection. Identity arrives from
// the upstream auth proxy as the X-Customer-ID header (query param fallback
// for browser clients that cannot set headers during the upgrade).
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerHex := c.GetHeader("X-Customer-ID")
		if customerHex == "" {
			customerHex = c.Query("customer_id")
		}

		customerID, err := primitive.ObjectIDFromHex(customerHex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, customerID)
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}
