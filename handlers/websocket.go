package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"facecheck/verifier"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// SendSocketFunc returns true if data was successfully sent
type SendSocketFunc func([]byte) bool
type ConnectedClient struct {
	fun SendSocketFunc
}

var (
	ConnectedClients = cmap.New[*ConnectedClient]()
	upgrader         = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

// BroadcastStatus sends a service status change to every connected page
func BroadcastStatus(status verifier.Status) {
	data, err := json.Marshal(currentStatusWith(status))
	if err != nil {
		log.Printf("Status marshal error: %v", err)
		return
	}
	for item := range ConnectedClients.IterBuffered() {
		if !item.Val.fun(data) {
			ConnectedClients.Remove(item.Key)
		}
	}
}

// statusSnapshot is what a new page receives first
var statusSnapshot = CurrentStatus

func currentStatusWith(status verifier.Status) StatusResponse {
	result := CurrentStatus()
	result.Status = status
	return result
}

func WebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	// Setup client
	isConnected := true
	writeMutex := sync.Mutex{}
	id := uuid.NewString()
	write := func(data []byte) bool {
		if !isConnected {
			return false
		}
		err := conn.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			log.Println("write err:", err)
			isConnected = false
			return false
		}
		return true
	}
	client := ConnectedClient{}
	client.fun = func(data []byte) bool {
		writeMutex.Lock()
		defer writeMutex.Unlock()
		return write(data)
	}

	// Current state first, changes follow through BroadcastStatus. Broadcasts reaching the client
	// before the snapshot is written wait for it.
	writeMutex.Lock()
	ConnectedClients.Set(id, &client)
	if data, err := json.Marshal(statusSnapshot()); err == nil {
		write(data)
	}
	writeMutex.Unlock()
	defer ConnectedClients.Remove(id)
	// Main read cycle
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			writeMutex.Lock()
			isConnected = false
			writeMutex.Unlock()
			break
		}
		if string(message) == "ping" {
			client.fun([]byte("pong"))
		}
	}
}
