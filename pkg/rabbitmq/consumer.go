package rabbitmq

import (
	"context"
	"fmt"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Handler func(topic string, message mqtt.Message) error

// IConsumer delivers every message of a subscription to a handler.
type IConsumer interface {
	Consume(ctx context.Context) error
	SetHandler(handler Handler)
}

type Consumer struct {
	client  mqtt.Client
	handler Handler
	topic   string
}

func NewConsumer(client mqtt.Client, topic string, handler Handler) *Consumer {
	return &Consumer{client: client, topic: topic, handler: handler}
}

func (c *Consumer) SetHandler(handler Handler) {
	c.handler = handler
}

// qosFor keeps node uplink at QoS 0 (fire and forget) and asks for at-least-once
// delivery on the ingest subscription, so the collector has to de-duplicate.
func qosFor(topic string) byte {
	if strings.HasPrefix(strings.TrimSpace(topic), "bin/fill/") && strings.HasSuffix(topic, "#") {
		return 1
	}
	return 0
}

// Consume subscribes and blocks until ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context) error {
	token := c.client.Subscribe(c.topic, qosFor(c.topic), func(_ mqtt.Client, message mqtt.Message) {
		if c.handler == nil {
			log.Printf("mqtt: no handler set for topic %s", c.topic)
			return
		}
		if err := c.handler(message.Topic(), message); err != nil {
			log.Printf("mqtt: handling message on %s: %v", message.Topic(), err)
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", c.topic, token.Error())
	}
	log.Printf("mqtt: subscribed to %s", c.topic)

	<-ctx.Done()

	c.client.Unsubscribe(c.topic).Wait()
	return nil
}
