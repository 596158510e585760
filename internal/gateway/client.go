package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mkelleher/sketchparty/internal/game/room"
)

const (
	// sendBufferSize bounds the per-client outbound queue. A client that
	// cannot drain it is considered dead.
	sendBufferSize = 64
	// maxMessageSize bounds an inbound frame. Guesses are short.
	maxMessageSize = 512
)

// client is one connected player: a websocket plus the outbound queue the
// hub pushes broadcasts into.
type client struct {
	playerID string
	nickname string
	roomCode string
	rm       *room.Room

	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	logger  *zap.Logger

	mu     sync.Mutex
	closed bool
}

func newClient(playerID, nickname, roomCode string, rm *room.Room, conn *websocket.Conn, logger *zap.Logger) *client {
	return &client{
		playerID: playerID,
		nickname: nickname,
		roomCode: roomCode,
		rm:       rm,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		// Burst of 10 frames, refilling at 5 per second. Drawing-game
		// clients have no legitimate reason to exceed that.
		limiter: rate.NewLimiter(5, 10),
		logger:  logger,
	}
}

// push enqueues an outbound frame without blocking.
//
// Postcondition: Returns false if the client is closed or its buffer is
// full; the caller should then drop the client.
func (c *client) push(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// close marks the client closed and closes the send channel, unblocking the
// write pump. Safe to call multiple times.
func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump consumes inbound frames until the connection dies, dispatching
// each decoded command via handle. It runs on the connection's goroutine
// and calls onClose exactly once on exit.
func (c *client) readPump(pongTimeout time.Duration, handle func(*client, ClientCommand), onClose func(*client)) {
	defer onClose(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if !c.limiter.Allow() {
			c.logger.Warn("rate limit exceeded, dropping frame",
				zap.String("player_id", c.playerID),
				zap.String("room_code", c.roomCode),
			)
			continue
		}
		var cmd ClientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.push(errorMessage("malformed_command").encode())
			continue
		}
		handle(c, cmd)
	}
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with periodic pings. It exits when the send channel closes or a
// write fails.
func (c *client) writePump(writeTimeout, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
