package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	sendBufferSize = 256
	pingInterval   = 30 * time.Second
	writeDeadline  = 20 * time.Second
	pongDeadline   = time.Minute
)

// client is one websocket connection. The player id is generated at upgrade
// time and stays stable for the connection's lifetime.
type client struct {
	playerID string
	roomID   string
	conn     *websocket.Conn
	send     chan []byte
	limiter  *rate.Limiter
}

func newClient(playerID string, conn *websocket.Conn) *client {
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongDeadline))
		return nil
	})
	return &client{
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		limiter:  rate.NewLimiter(20, 40),
	}
}

// trySend queues a frame, dropping it if the client's buffer is full. A
// slow consumer must not block the room broadcast.
func (c *client) trySend(frame []byte) {
	select {
	case c.send <- frame:
	default:
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
