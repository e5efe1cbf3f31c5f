package rabbitmq

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// RabbitMQConfig describes the MQTT endpoint of the broker (RabbitMQ with the
// MQTT plugin in deployment, any 3.1.1 broker works).
type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	ClientID string

	// MaxRetries bounds the connection attempts after the first one.
	MaxRetries     int
	MaxElapsedTime time.Duration
	ConnectTimeout time.Duration
}

func (c *RabbitMQConfig) BrokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", c.Host, c.Port)
}

// NewRabbitMQConn connects with exponential backoff and disconnects when ctx ends.
func NewRabbitMQConn(ctx context.Context, cfg *RabbitMQConfig) (mqtt.Client, error) {
	connAddr := cfg.BrokerURL()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(connAddr)
	opts.SetUsername(cfg.User)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second
	if cfg.MaxElapsedTime > 0 {
		bo.MaxElapsedTime = cfg.MaxElapsedTime
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("mqtt: connect to %s failed: %v", connAddr, token.Error())
			return token.Error()
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries)), ctx))
	if err != nil {
		return nil, fmt.Errorf("could not establish MQTT connection to %s: %w", connAddr, err)
	}

	log.Printf("mqtt: connected to %s as %s", connAddr, cfg.ClientID)

	go func() {
		<-ctx.Done()
		CloseRabbitMQConn(client)
	}()

	return client, nil
}

func CloseRabbitMQConn(client mqtt.Client) {
	if client != nil && client.IsConnected() {
		client.Disconnect(250)
		log.Println("mqtt: connection closed")
	}
}
