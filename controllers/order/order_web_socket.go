package orderControllers

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ecommerce-platform/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[*websocket.Conn]bool)
)

type orderEvent struct {
	Type  string        `json:"type"`
	Order *models.Order `json:"order"`
}

// OrderWebSocketHandler upgrades the connection and registers it for order
// event broadcasts. The read loop exists only to detect disconnects.
func OrderWebSocketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("❌ WebSocket upgrade failed:", err)
			return
		}

		wsMu.Lock()
		wsClients[conn] = true
		wsMu.Unlock()
		log.Println("✅ Order feed client connected")

		go func() {
			defer func() {
				wsMu.Lock()
				delete(wsClients, conn)
				wsMu.Unlock()
				conn.Close()
				log.Println("🗑️ Order feed client disconnected")
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

func broadcastOrderEvent(eventType string, order *models.Order) {
	event := orderEvent{Type: eventType, Order: order}

	wsMu.Lock()
	defer wsMu.Unlock()
	for conn := range wsClients {
		if err := conn.WriteJSON(event); err != nil {
			log.Println("❌ Order feed write failed:", err)
			conn.Close()
			delete(wsClients, conn)
		}
	}
}
