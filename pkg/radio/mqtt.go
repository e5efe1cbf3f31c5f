package radio

import (
	"context"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/LeonardoBeccarini/smartbin/pkg/rabbitmq"
)

// TopicPrefix is where nodes publish; the device id is appended.
const TopicPrefix = "bin/fill/"

// MQTTRadio stands in for the LoRa link on hosts that reach the gateway's
// broker directly. Frames go out unacknowledged at QoS 0.
type MQTTRadio struct {
	ctx     context.Context
	cfg     rabbitmq.RabbitMQConfig
	topic   string
	connect func(context.Context, *rabbitmq.RabbitMQConfig) (mqtt.Client, error)

	band string
	pub  *rabbitmq.Publisher
	// stop ends the connection's context, and with it the watcher goroutine
	// NewRabbitMQConn leaves behind.
	stop context.CancelFunc
}

func NewMQTTRadio(ctx context.Context, cfg rabbitmq.RabbitMQConfig, deviceID string) *MQTTRadio {
	return &MQTTRadio{
		ctx:     ctx,
		cfg:     cfg,
		topic:   TopicPrefix + deviceID,
		connect: rabbitmq.NewRabbitMQConn,
	}
}

// Initialize validates the channel plan, then brings the broker link up.
func (r *MQTTRadio) Initialize(frequencyHz float64) error {
	band, err := CheckFrequency(frequencyHz)
	if err != nil {
		return err
	}
	connCtx, stop := context.WithCancel(r.ctx)
	client, err := r.connect(connCtx, &r.cfg)
	if err != nil {
		stop()
		return fmt.Errorf("uplink %s: %w", r.cfg.BrokerURL(), err)
	}
	r.stop = stop
	r.band = band
	r.pub = rabbitmq.NewPublisher(client, r.topic)
	log.Printf("radio: %s uplink ready on %s", band, r.topic)
	return nil
}

func (r *MQTTRadio) Send(payload []byte) error {
	if r.pub == nil {
		return ErrRadioNotReady
	}
	return r.pub.Publish(payload)
}

func (r *MQTTRadio) Band() string { return r.band }

func (r *MQTTRadio) Close() {
	if r.pub != nil {
		r.pub.Close()
		r.pub = nil
	}
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
}
