// Package rabbitmqtest provides in-memory fakes of the paho client types.
package rabbitmqtest

import (
	"errors"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

var ErrNotConnected = errors.New("rabbitmqtest: not connected")

// Token is an already completed mqtt.Token.
type Token struct{ Err error }

func (t *Token) Wait() bool                     { return true }
func (t *Token) WaitTimeout(time.Duration) bool { return true }
func (t *Token) Error() error                   { return t.Err }
func (t *Token) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type Published struct {
	Topic   string
	QoS     byte
	Payload []byte
}

// Client records publishes and routes them to matching subscriptions.
type Client struct {
	mu         sync.Mutex
	connected  bool
	ConnectErr error
	PublishErr error
	Published  []Published
	subs       map[string]mqtt.MessageHandler
	subQoS     map[string]byte
}

func NewClient() *Client {
	return &Client{subs: make(map[string]mqtt.MessageHandler), subQoS: make(map[string]byte)}
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) IsConnectionOpen() bool { return c.IsConnected() }

func (c *Client) Connect() mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ConnectErr != nil {
		return &Token{Err: c.ConnectErr}
	}
	c.connected = true
	return &Token{}
}

func (c *Client) Disconnect(uint) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
}

func (c *Client) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return &Token{Err: ErrNotConnected}
	}
	if c.PublishErr != nil {
		c.mu.Unlock()
		return &Token{Err: c.PublishErr}
	}
	var b []byte
	switch p := payload.(type) {
	case []byte:
		b = append([]byte(nil), p...)
	case string:
		b = []byte(p)
	}
	c.Published = append(c.Published, Published{Topic: topic, QoS: qos, Payload: b})
	c.mu.Unlock()

	c.Deliver(topic, b)
	return &Token{}
}

func (c *Client) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[topic] = callback
	c.subQoS[topic] = qos
	return &Token{}
}

func (c *Client) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	for topic, qos := range filters {
		c.Subscribe(topic, qos, callback)
	}
	return &Token{}
}

func (c *Client) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		delete(c.subs, t)
		delete(c.subQoS, t)
	}
	return &Token{}
}

func (c *Client) AddRoute(topic string, callback mqtt.MessageHandler) {
	c.Subscribe(topic, 0, callback)
}

func (c *Client) OptionsReader() mqtt.ClientOptionsReader { return mqtt.ClientOptionsReader{} }

// SubscribedQoS reports the QoS of a live subscription.
func (c *Client) SubscribedQoS(topic string) (byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.subQoS[topic]
	return q, ok
}

// Deliver hands a message to every subscription whose filter matches topic.
func (c *Client) Deliver(topic string, payload []byte) int {
	c.mu.Lock()
	var handlers []mqtt.MessageHandler
	for filter, h := range c.subs {
		if Match(filter, topic) {
			handlers = append(handlers, h)
		}
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(c, &Message{T: topic, P: payload})
	}
	return len(handlers)
}

// Match implements MQTT topic filter matching with + and #.
func Match(filter, topic string) bool {
	f := strings.Split(filter, "/")
	t := strings.Split(topic, "/")
	for i, part := range f {
		if part == "#" {
			return true
		}
		if i >= len(t) {
			return false
		}
		if part != "+" && part != t[i] {
			return false
		}
	}
	return len(f) == len(t)
}

// Message is a minimal mqtt.Message.
type Message struct {
	T   string
	P   []byte
	Dup bool
}

func (m *Message) Duplicate() bool   { return m.Dup }
func (m *Message) Qos() byte         { return 1 }
func (m *Message) Retained() bool    { return false }
func (m *Message) Topic() string     { return m.T }
func (m *Message) MessageID() uint16 { return 0 }
func (m *Message) Payload() []byte   { return m.P }
func (m *Message) Ack()              {}

var (
	_ mqtt.Client  = (*Client)(nil)
	_ mqtt.Message = (*Message)(nil)
	_ mqtt.Token   = (*Token)(nil)
)
