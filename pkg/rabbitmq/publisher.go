package rabbitmq

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher publishes raw payloads on one topic.
type IPublisher interface {
	Publish(payload []byte) error
	Close()
}

type Publisher struct {
	client mqtt.Client
	topic  string
	qos    byte
}

func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic, qos: qosFor(topic)}
}

// Publish blocks until the client has handed the message to the network.
func (p *Publisher) Publish(payload []byte) error {
	token := p.client.Publish(p.topic, p.qos, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() {
	CloseRabbitMQConn(p.client)
}
