package websocket

import (
	"context"
	"errors"
	"time"

	ws "github.com/coder/websocket"
)

const (
	updateQueueLen = 16
	keepalive      = 30 * time.Second
	writeTimeout   = 10 * time.Second
)

// Client is one open connection belonging to a signed-in user. The hub
// queues encoded updates on updates; the connection goroutine drains it.
type Client struct {
	hub     *Hub
	conn    *ws.Conn
	userID  int64
	updates chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn, userID int64) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		userID:  userID,
		updates: make(chan []byte, updateQueueLen),
	}
}

// Run serves the connection until the peer leaves, ctx ends or a write
// fails. The channel is push-only, so inbound frames are discarded by
// CloseRead.
func (c *Client) Run(ctx context.Context) error {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx = c.conn.CloseRead(ctx)
	err := c.deliver(ctx)

	if errors.Is(err, context.Canceled) || errors.Is(err, errClientDropped) {
		c.conn.Close(ws.StatusGoingAway, "")
		return nil
	}
	c.conn.Close(ws.StatusInternalError, "update failed")
	return err
}

var errClientDropped = errors.New("client dropped by hub")

func (c *Client) deliver(ctx context.Context) error {
	ping := time.NewTicker(keepalive)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-c.updates:
			if !ok {
				return errClientDropped
			}
			if err := c.write(ctx, data); err != nil {
				return err
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

func (c *Client) write(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, ws.MessageText, data)
}
