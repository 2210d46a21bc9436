package ipc

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nstehr/skirmish/rules"
)

// serve runs a connection with the test handlers on t and returns a channel
// closed when its read loop ends.
func serve(tr Transport) <-chan struct{} {
	c := NewConnection(tr, nil)
	c.RegisterHandler(TypePlan, func(env Envelope) (*Envelope, error) {
		var cmd PlanCommand
		if err := env.Decode(&cmd); err != nil {
			return nil, err
		}
		if cmd.Unit == "ghost" {
			return nil, fmt.Errorf("plan: %w: unit %q", rules.ErrInvalidReference, cmd.Unit)
		}
		resp, err := NewEnvelope(TypeAck, AckMessage{Status: cmd.Unit})
		return &resp, err
	})
	c.RegisterHandler(TypeEndTurn, func(Envelope) (*Envelope, error) { return nil, nil })
	done := make(chan struct{})
	go func() {
		c.ReadLoop()
		close(done)
	}()
	return done
}

func exchange(t *testing.T, client Transport, msgType string, data any) Envelope {
	t.Helper()
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Write(env); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
	resp, err := client.Read()
	if err != nil {
		t.Fatalf("read reply to %s: %v", msgType, err)
	}
	return resp
}

func checkConversation(t *testing.T, client Transport) {
	t.Helper()
	resp := exchange(t, client, TypePlan, PlanCommand{Unit: "k"})
	var ack AckMessage
	if err := resp.Decode(&ack); err != nil || resp.Type != TypeAck || ack.Status != "k" {
		t.Errorf("plan reply %s %+v (%v)", resp.Type, ack, err)
	}

	resp = exchange(t, client, TypePlan, PlanCommand{Unit: "ghost"})
	var failure ErrorMessage
	if err := resp.Decode(&failure); err != nil || resp.Type != TypeError {
		t.Fatalf("handler failure reply %s (%v)", resp.Type, err)
	}
	if failure.Kind != "invalid_reference" || failure.Request != TypePlan || !strings.Contains(failure.Message, "ghost") {
		t.Errorf("error message %+v", failure)
	}

	resp = exchange(t, client, "bogus", nil)
	if err := resp.Decode(&failure); err != nil || resp.Type != TypeError || failure.Request != "bogus" {
		t.Errorf("unknown type reply %s %+v", resp.Type, failure)
	}

	// Handlers returning nil send nothing: the next reply answers the next request.
	env, _ := NewEnvelope(TypeEndTurn, nil)
	if err := client.Write(env); err != nil {
		t.Fatal(err)
	}
	resp = exchange(t, client, TypePlan, PlanCommand{Unit: "a"})
	if err := resp.Decode(&ack); err != nil || ack.Status != "a" {
		t.Errorf("reply after silent handler: %+v", ack)
	}
}

func waitClosed(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not end after the client closed")
	}
}

func TestConnectionOverStream(t *testing.T) {
	server, client := net.Pipe()
	done := serve(NewStreamTransport(server))
	tr := NewStreamTransport(client)

	checkConversation(t, tr)

	tr.Close()
	waitClosed(t, done)
}

func TestConnectionOverWebSocket(t *testing.T) {
	upgrader := websocket.Upgrader{}
	loops := make(chan (<-chan struct{}), 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		loops <- serve(NewWebSocketTransport(conn))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	tr := NewWebSocketTransport(conn)

	checkConversation(t, tr)

	tr.Close()
	waitClosed(t, <-loops)
}

func TestNewErrorMessageWithoutSentinel(t *testing.T) {
	msg := NewErrorMessage(TypeHello, fmt.Errorf("no scenario"))
	if msg.Kind != "" || msg.Message != "no scenario" {
		t.Errorf("got %+v", msg)
	}
}
