package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/net/websocket"
)

// Conn is an open room connection carrying text frames.
type Conn interface {
	ReadFrame() ([]byte, error)
	WriteFrame(data []byte) error
	Close() error
}

// Dialer opens room connections.
type Dialer interface {
	Dial(ctx context.Context, endpoint string, header http.Header) (Conn, error)
}

// WebSocketDialer dials with golang.org/x/net/websocket.
type WebSocketDialer struct {
	// Origin overrides the Origin header. By default it is derived from the
	// endpoint.
	Origin string
}

// Dial opens a WebSocket to endpoint with header.
func (d WebSocketDialer) Dial(ctx context.Context, endpoint string, header http.Header) (Conn, error) {
	origin := d.Origin
	if origin == "" {
		origin = originFor(endpoint)
	}
	cfg, err := websocket.NewConfig(endpoint, origin)
	if err != nil {
		return nil, fmt.Errorf("websocket config: %w", err)
	}
	if header != nil {
		cfg.Header = header.Clone()
	}
	conn, err := cfg.DialContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

func (c *wsConn) ReadFrame() ([]byte, error) {
	var data []byte
	if err := websocket.Message.Receive(c.conn, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *wsConn) WriteFrame(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return websocket.Message.Send(c.conn, string(data))
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
