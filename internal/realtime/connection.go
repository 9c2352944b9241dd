package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

var (
	ErrChannelClosed  = errors.New("channel closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

// Channel is one live duplex connection owned by the registry. Send is
// best-effort: a failure means the payload was not delivered on this channel
// and nothing else.
type Channel interface {
	Id() string
	UserId() string
	Send(payload []byte) error
	Close()
}

// Connection adapts a websocket to the Channel contract. Outbound writes go
// through a bounded buffer drained by a single write pump, so a slow client
// never blocks the caller of Send.
type Connection struct {
	id     string
	userId string

	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewConnection(userId string, ws *websocket.Conn) *Connection {
	return &Connection{
		id:     gonanoid.Must(),
		userId: userId,
		ws:     ws,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

func (c *Connection) Id() string {
	return c.id
}

func (c *Connection) UserId() string {
	return c.userId
}

// Start launches the write pump. It must be called exactly once, before the
// connection is registered.
func (c *Connection) Start() {
	go c.writePump()
}

func (c *Connection) Send(payload []byte) error {
	// Checked first on its own: with done closed and buffer space free the
	// combined select would pick a ready case at random, and an enqueue after
	// close would report success for a payload no pump will ever drain.
	select {
	case <-c.done:
		return ErrChannelClosed
	default:
	}

	select {
	case <-c.done:
		return ErrChannelClosed
	case c.send <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close terminates the connection and stops the write pump. Idempotent.
func (c *Connection) Close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

func (c *Connection) writePump() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.Close()

				return
			}
		}
	}
}
