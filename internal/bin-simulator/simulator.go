package bin_simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	binnode "github.com/LeonardoBeccarini/smartbin/internal/bin-node"
	"github.com/LeonardoBeccarini/smartbin/pkg/dedup"
	"github.com/LeonardoBeccarini/smartbin/pkg/rabbitmq"
)

// CollectedTopicPrefix carries {"id":"BIN01"} when a crew empties a bin.
// Publishers that retry add an "event_id" so a redelivery is recognised.
const CollectedTopicPrefix = "bin/collected/"

type collectedEvent struct {
	ID      string `json:"id"`
	EventID string `json:"event_id,omitempty"`
}

// BinSimulator boots a simulated node over and over, advancing the trash
// level by VirtualStep between wakes.
type BinSimulator struct {
	cfg         binnode.Config
	generator   *FillGenerator
	newRadio    func() binnode.Radio
	power       binnode.Power
	consumer    rabbitmq.IConsumer
	deduper     *dedup.Deduper
	virtualStep time.Duration
}

func NewBinSimulator(cfg binnode.Config, gen *FillGenerator, newRadio func() binnode.Radio,
	power binnode.Power, consumer rabbitmq.IConsumer, virtualStep time.Duration) *BinSimulator {
	return &BinSimulator{
		cfg:         cfg,
		generator:   gen,
		newRadio:    newRadio,
		power:       power,
		consumer:    consumer,
		deduper:     dedup.New(2*time.Minute, 10000),
		virtualStep: virtualStep,
	}
}

// Start runs wake cycles until ctx ends or the node halts.
func (s *BinSimulator) Start(ctx context.Context) error {
	if s.consumer != nil {
		s.consumer.SetHandler(s.handleMessage)
		go func() {
			if err := s.consumer.Consume(ctx); err != nil {
				log.Printf("simulator: collection events unavailable: %v", err)
			}
		}()
	}

	for ctx.Err() == nil {
		sampler := binnode.NewRangeSampler(s.generator, s.cfg.SettleInterval)
		ctrl, err := binnode.NewCycleController(s.cfg, sampler, s.newRadio(), s.power)
		if err != nil {
			return err
		}
		if _, err := ctrl.RunCycle(); err != nil {
			return err
		}
		s.generator.Advance(s.virtualStep)
	}
	return nil
}

func (s *BinSimulator) handleMessage(_ string, msg mqtt.Message) error {
	var evt collectedEvent
	if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
		return fmt.Errorf("invalid collection event: %w", err)
	}
	if strings.TrimSpace(evt.ID) != s.cfg.DeviceID {
		return nil
	}
	// two pickups of the same bin carry the same body; only an event id
	// tells a redelivery from a second collection
	if s.deduper != nil && !s.deduper.ShouldProcess(strings.TrimSpace(evt.EventID)) {
		return nil
	}
	s.generator.Empty()
	log.Printf("simulator: %s emptied", s.cfg.DeviceID)
	return nil
}
