package server

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Connection wraps a websocket with a buffered outgoing queue drained by WritePump.
type Connection struct {
	ws        *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ws:   ws,
		send: make(chan []byte, 256),
	}
}

// MessageHandler receives raw messages read from a connection.
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}

// ReadPump reads until the socket fails or closes. It runs on the caller's goroutine.
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.ws.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error reading message: %v", err)
			}
			return
		}

		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages until the queue is closed.
func (c *Connection) WritePump() {
	defer c.ws.Close()

	for message := range c.send {
		w, err := c.ws.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		if _, err := w.Write(message); err != nil {
			return
		}
		if err := w.Close(); err != nil {
			return
		}
	}

	c.ws.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendMessage queues msg as JSON. A client that cannot keep up is disconnected.
func (c *Connection) SendMessage(msg any) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- messageBytes:
	default:
		c.ws.Close()
	}
	return nil
}

// Close stops WritePump. No message may be sent afterwards.
func (c *Connection) Close() {
	c.closeOnce.Do(func() { close(c.send) })
}
