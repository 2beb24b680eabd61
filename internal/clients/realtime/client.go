// Package realtime is the bidirectional event channel: it emits
// mutations (update/create/delete) and receives the server's acks and
// unsolicited create/update/delete broadcasts from other clients.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	reconnectMin = time.Second
	reconnectMax = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// Client maintains one websocket connection to the backend, redialing
// with capped backoff when it drops. Received messages are decoded and
// delivered in receipt order on a single channel; the consumer is
// responsible for marshalling them onto its UI loop.
type Client struct {
	url      string
	clientID string

	mu   sync.Mutex
	conn *websocket.Conn

	seq      atomic.Int64
	messages chan Message
}

func New(url string) *Client {
	return &Client{
		url:      url,
		clientID: uuid.NewString(),
		messages: make(chan Message, 64),
	}
}

// ClientID returns the UUID this instance announces on hello.
func (c *Client) ClientID() string {
	return c.clientID
}

// Messages returns the receive channel. It is closed when Run returns.
func (c *Client) Messages() <-chan Message {
	return c.messages
}

// Run connects and pumps messages until the context is cancelled.
func (c *Client) Run(ctx context.Context) {
	defer close(c.messages)

	backoff := reconnectMin
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			log.Printf("realtime dial %s: %v (retry in %s)", c.url, err, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff *= 2; backoff > reconnectMax {
				backoff = reconnectMax
			}
			continue
		}
		backoff = reconnectMin

		c.setConn(conn)
		if err := c.emit(TypeHello, 0, HelloPayload{ClientID: c.clientID}); err != nil {
			log.Printf("realtime hello: %v", err)
		}
		c.deliver(ctx, Message{Kind: KindStatus, Connected: true})

		c.readLoop(ctx, conn)

		c.setConn(nil)
		conn.Close()
		c.deliver(ctx, Message{Kind: KindStatus, Connected: false})
	}
}

// EmitUpdate sends an updateEvent mutation and returns its seq for ack
// correlation. Fire-and-forget from the caller's perspective: the ack
// arrives later on the message channel.
func (c *Client) EmitUpdate(p UpdateEventPayload) (int64, error) {
	seq := c.seq.Add(1)
	return seq, c.emit(TypeUpdateEvent, seq, p)
}

// EmitCreate sends a listenEvent (create) mutation.
func (c *Client) EmitCreate(p CreateEventPayload) (int64, error) {
	seq := c.seq.Add(1)
	return seq, c.emit(TypeListenEvent, seq, p)
}

// EmitDelete sends a deleteEvent mutation.
func (c *Client) EmitDelete(id string) (int64, error) {
	seq := c.seq.Add(1)
	return seq, c.emit(TypeDeleteEvent, seq, DeleteEventPayload{ID: id})
}

func (c *Client) emit(frameType string, seq int64, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", frameType, err)
	}
	frame := Frame{Type: frameType, Seq: seq, Payload: raw}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("emit %s: realtime channel is down", frameType)
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("emit %s: %w", frameType, err)
	}
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() == nil {
				log.Printf("realtime read: %v", err)
			}
			return
		}
		msg, ok := decodeFrame(frame)
		if !ok {
			continue
		}
		c.deliver(ctx, msg)
	}
}

func decodeFrame(frame Frame) (Message, bool) {
	switch frame.Type {
	case TypeEventCreated, TypeEventUpdated:
		var p EventPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			log.Printf("realtime decode %s: %v", frame.Type, err)
			return Message{}, false
		}
		event, err := p.ToDomain()
		if err != nil {
			log.Printf("realtime decode %s: %v", frame.Type, err)
			return Message{}, false
		}
		kind := KindCreated
		if frame.Type == TypeEventUpdated {
			kind = KindUpdated
		}
		return Message{Kind: kind, Event: event}, true

	case TypeEventDeleted:
		var p DeleteEventPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			log.Printf("realtime decode %s: %v", frame.Type, err)
			return Message{}, false
		}
		return Message{Kind: KindDeleted, DeletedID: p.ID}, true

	case TypeAck:
		var p AckPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			log.Printf("realtime decode ack: %v", err)
			return Message{}, false
		}
		return Message{Kind: KindAck, Seq: frame.Seq, Success: p.Success, Err: p.Error}, true
	}

	log.Printf("realtime: unknown frame type %q", frame.Type)
	return Message{}, false
}

func (c *Client) deliver(ctx context.Context, msg Message) {
	select {
	case c.messages <- msg:
	case <-ctx.Done():
	}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}
