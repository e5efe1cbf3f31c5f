package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	binnode "github.com/LeonardoBeccarini/smartbin/internal/bin-node"
	binSimulator "github.com/LeonardoBeccarini/smartbin/internal/bin-simulator"
	"github.com/LeonardoBeccarini/smartbin/pkg/power"
	"github.com/LeonardoBeccarini/smartbin/pkg/rabbitmq"
	"github.com/LeonardoBeccarini/smartbin/pkg/radio"
)

func main() {
	deviceID := flag.String("device-id", binnode.DefaultDeviceID, "simulated bin id")
	clientID := flag.String("client-id", "", "MQTT client ID for collection events (defaults to sim-<device-id>)")
	interval := flag.Duration("interval", 10*time.Second, "real time between wakes")
	virtualStep := flag.Duration("virtual-step", time.Hour, "simulated time between wakes")
	fillRate := flag.Float64("fill-rate", 4, "trash growth in cm per simulated hour")
	jitter := flag.Float64("jitter", 1.5, "ranging noise in cm")
	dropout := flag.Float64("dropout", 0.05, "probability of a missed echo per sample")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	brokerHost := flag.String("broker-host", "localhost", "MQTT host")
	brokerPort := flag.Int("broker-port", 1883, "MQTT port")
	flag.Parse()

	cfg := binnode.DefaultConfig()
	cfg.DeviceID = *deviceID
	cfg.SleepDuration = *interval
	if *clientID == "" {
		*clientID = "sim-" + *deviceID
	}

	mq := rabbitmq.RabbitMQConfig{
		Host:     *brokerHost,
		Port:     *brokerPort,
		User:     "guest",
		Password: "guest",
		ClientID: *clientID,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := rabbitmq.NewRabbitMQConn(ctx, &mq)
	if err != nil {
		log.Fatal(err)
	}
	consumer := rabbitmq.NewConsumer(client, binSimulator.CollectedTopicPrefix+cfg.DeviceID, nil)

	gen := binSimulator.NewFillGenerator(cfg.BinHeightCM, *fillRate, *seed)
	gen.JitterCM = *jitter
	gen.DropoutRate = *dropout

	uplink := mq
	uplink.ClientID = "node-" + cfg.DeviceID
	var current *radio.MQTTRadio
	newRadio := func() binnode.Radio {
		if current != nil {
			current.Close()
		}
		current = radio.NewMQTTRadio(ctx, uplink, cfg.DeviceID)
		return current
	}

	sim := binSimulator.NewBinSimulator(cfg, gen, newRadio, power.NewTimer(ctx), consumer, *virtualStep)
	if err := sim.Start(ctx); err != nil {
		log.Fatalf("simulator: %v", err)
	}
	if current != nil {
		current.Close()
	}
}
