package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SweepHub carries progress for every running sweep.
var SweepHub *Hub

func init() {
	SweepHub = NewHub()
	go SweepHub.run()
}

// SweepRoom names the room of a sweep.
func SweepRoom(id int64) string {
	return "sweep:" + strconv.FormatInt(id, 10)
}

// HandleSweepWebSocket subscribes the caller to progress of sweep :id.
func HandleSweepWebSocket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sweep id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{conn: conn, room: SweepRoom(id), send: make(chan []byte, 256)}
	SweepHub.register <- client

	hello, _ := json.Marshal(Message{Type: "subscribed", Data: gin.H{"sweep_id": id}})
	client.send <- hello

	go client.writePump()
	go client.readPump(SweepHub)
}
