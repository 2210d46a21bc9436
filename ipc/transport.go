package ipc

import (
	"fmt"
	"net"
	"sync"

	"github.com/gorilla/websocket"
)

// Transport moves envelopes over one client connection. Writes are safe
// for concurrent use; reads belong to a single reader.
type Transport interface {
	Read() (Envelope, error)
	Write(env Envelope) error
	Close() error
}

// streamTransport frames envelopes over a byte stream such as a unix socket.
type streamTransport struct {
	conn net.Conn
	wmu  sync.Mutex
}

// NewStreamTransport wraps a stream connection with length-prefixed framing.
func NewStreamTransport(conn net.Conn) Transport {
	return &streamTransport{conn: conn}
}

func (t *streamTransport) Read() (Envelope, error) { return ReadEnvelope(t.conn) }

func (t *streamTransport) Write(env Envelope) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	return WriteEnvelope(t.conn, env)
}

func (t *streamTransport) Close() error { return t.conn.Close() }

// wsTransport carries one envelope per websocket text message.
type wsTransport struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

// NewWebSocketTransport wraps an upgraded websocket connection.
func NewWebSocketTransport(conn *websocket.Conn) Transport {
	conn.SetReadLimit(maxFrame)
	return &wsTransport{conn: conn}
}

func (t *wsTransport) Read() (Envelope, error) {
	var env Envelope
	if err := t.conn.ReadJSON(&env); err != nil {
		return Envelope{}, fmt.Errorf("read websocket: %w", err)
	}
	return env, nil
}

func (t *wsTransport) Write(env Envelope) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	if err := t.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("write websocket: %w", err)
	}
	return nil
}

func (t *wsTransport) Close() error { return t.conn.Close() }
