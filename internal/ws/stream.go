package ws

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/billiards/internal/billiards"
	"github.com/playmatatu/billiards/internal/service"
)

const requestWait = 30 * time.Second

// HandleSimulateStream reads one simulation request from the socket and
// answers with a "collision" message per step followed by "done". A run that
// stops early ends with "error" after the steps it completed.
func HandleSimulateStream(sim *service.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}
		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(requestWait))
		var req service.Request
		if err := conn.ReadJSON(&req); err != nil {
			writeJSON(conn, Message{Type: "error", Message: "invalid request"})
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		resp, err := sim.Stream(ctx, req, func(step billiards.Step) error {
			return writeJSON(conn, Message{Type: "collision", Data: step})
		})
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			writeJSON(conn, Message{Type: "error", Message: err.Error()})
		case errors.Is(err, billiards.ErrNoCollision):
			writeJSON(conn, Message{Type: "error", Message: err.Error(), Data: summary(resp)})
		case err != nil:
			log.Printf("[WS] simulate stream aborted: %v", err)
		default:
			writeJSON(conn, Message{Type: "done", Data: summary(resp)})
		}
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	}
}

func writeJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func summary(resp *service.Response) gin.H {
	if resp == nil {
		return nil
	}
	return gin.H{
		"table":       resp.Table,
		"reflections": resp.Reflections,
		"perimeter":   resp.Perimeter,
		"key_scalar":  resp.KeyScalar,
		"cached":      resp.Cached,
	}
}
