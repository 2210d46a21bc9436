package ipc

import (
	"errors"
	"log/slog"

	"github.com/nstehr/skirmish/rules"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection represents a single client talking to the sidecar.
// Each client gets its own connection, identified after the hello handshake.
type Connection struct {
	transport Transport
	handlers  map[string]Handler
	Session   string
}

func NewConnection(t Transport, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		transport: t,
		handlers:  handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.transport.Write(env)
}

// Close ends the connection; a blocked ReadLoop returns.
func (c *Connection) Close() error { return c.transport.Close() }

// ReadLoop blocks until the connection closes or errors. It owns the transport
// lifetime so callers don't need to track cleanup. Handler failures are
// reported to the client as error envelopes and the loop keeps reading.
func (c *Connection) ReadLoop() {
	defer c.transport.Close()

	for {
		env, err := c.transport.Read()
		if err != nil {
			slog.Info("connection read ended", "session", c.Session, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			if err := c.Send(TypeError, ErrorMessage{Request: env.Type, Message: "unknown message type"}); err != nil {
				return
			}
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "session", c.Session, "error", err)
			if err := c.Send(TypeError, NewErrorMessage(env.Type, err)); err != nil {
				slog.Error("failed to send error", "type", env.Type, "error", err)
				return
			}
			continue
		}

		if resp != nil {
			if err := c.transport.Write(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "session", c.Session)
		}
	}
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{rules.ErrIllegalMove, "illegal_move"},
	{rules.ErrInvalidReference, "invalid_reference"},
	{rules.ErrOutOfTurn, "out_of_turn"},
	{rules.ErrNoLegalMoves, "no_legal_moves"},
}

// NewErrorMessage describes err in reply to a request of type request.
func NewErrorMessage(request string, err error) ErrorMessage {
	msg := ErrorMessage{Request: request, Message: err.Error()}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			msg.Kind = k.kind
			break
		}
	}
	return msg
}
