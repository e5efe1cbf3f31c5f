package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	binnode "github.com/LeonardoBeccarini/smartbin/internal/bin-node"
	"github.com/LeonardoBeccarini/smartbin/pkg/power"
	"github.com/LeonardoBeccarini/smartbin/pkg/rabbitmq"
	"github.com/LeonardoBeccarini/smartbin/pkg/radio"
	"github.com/LeonardoBeccarini/smartbin/pkg/ranging"
)

// fixedDistance replaces the ranging module when no GPIO is available.
type fixedDistance float64

func (f fixedDistance) Configure() error        { return nil }
func (f fixedDistance) SampleDistance() float64 { return float64(f) }

// linkClosingPower shuts the uplink before the node powers down. With -once
// the power collaborator exits the process, so nothing after RunCycle runs.
type linkClosingPower struct {
	binnode.Power
	closeLink func()
}

func (p linkClosingPower) EnterLowPowerState() {
	p.closeLink()
	p.Power.EnterLowPowerState()
}

func main() {
	configPath := flag.String("config", "", "YAML node config (defaults when empty)")
	deviceID := flag.String("device-id", "", "override device_id from the config")
	echoPin := flag.String("echo-pin", "14", "GPIO name of the echo line")
	triggerPin := flag.String("trigger-pin", "12", "GPIO name of the trigger line")
	simulate := flag.Float64("simulate-distance", -1, "use a fixed distance in cm instead of the GPIO sensor")
	dryRun := flag.Bool("dry-run", false, "keep frames in memory instead of publishing them")
	once := flag.Bool("once", false, "exit after one cycle and let an external timer wake the node")
	brokerHost := flag.String("broker-host", "localhost", "gateway MQTT host")
	brokerPort := flag.Int("broker-port", 1883, "gateway MQTT port")
	brokerUser := flag.String("broker-user", "guest", "gateway MQTT user")
	brokerPass := flag.String("broker-password", "guest", "gateway MQTT password")
	flag.Parse()

	cfg := binnode.DefaultConfig()
	if *configPath != "" {
		loaded, err := binnode.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("bin-node: config: %v", err)
		}
		cfg = *loaded
	}
	if *deviceID != "" {
		cfg.DeviceID = *deviceID
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var transducer binnode.Transducer
	if *simulate >= 0 {
		transducer = fixedDistance(*simulate)
	} else {
		sensor, err := ranging.Open(*echoPin, *triggerPin)
		if err != nil {
			log.Fatalf("bin-node: ranging: %v", err)
		}
		transducer = sensor
	}

	var pwr binnode.Power = power.NewTimer(ctx)
	if *once {
		pwr = power.NewExit()
	}

	mq := rabbitmq.RabbitMQConfig{
		Host:           *brokerHost,
		Port:           *brokerPort,
		User:           *brokerUser,
		Password:       *brokerPass,
		ClientID:       "bin-node-" + cfg.DeviceID,
		MaxRetries:     2,
		ConnectTimeout: 10 * time.Second,
	}

	log.Printf("bin-node: %s starting, bin %gcm, full at %gcm, sleep %s",
		cfg.DeviceID, cfg.BinHeightCM, cfg.FullThresholdCM, cfg.SleepDuration)

	for ctx.Err() == nil {
		// every wake is a cold boot: fresh sampler, radio and controller
		sampler := binnode.NewRangeSampler(transducer, cfg.SettleInterval)

		var link binnode.Radio
		closeLink := func() {}
		if *dryRun {
			link = radio.NewStub()
		} else {
			r := radio.NewMQTTRadio(ctx, mq, cfg.DeviceID)
			link, closeLink = r, r.Close
		}

		ctrl, err := binnode.NewCycleController(cfg, sampler, link, linkClosingPower{Power: pwr, closeLink: closeLink})
		if err != nil {
			log.Fatalf("bin-node: %v", err)
		}
		res, err := ctrl.RunCycle()
		closeLink()
		if err != nil {
			log.Fatalf("bin-node: %v", err)
		}
		log.Printf("bin-node: woke up, last report fill=%d%% distance=%.1fcm", res.Report.Fill, res.Distance)
	}
	log.Println("bin-node: shutdown")
}
