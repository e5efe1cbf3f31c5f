// Package ranging drives an HC-SR04 / JSN-SR04T ultrasonic ranging module
// over periph.io GPIO.
package ranging

import (
	"fmt"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

const (
	// SpeedOfSound in metres per second, dry air at about 20 celsius.
	SpeedOfSound = 343

	// DefaultEchoTimeout covers the longest echo the JSN-SR04T produces (~6m).
	DefaultEchoTimeout = 38 * time.Millisecond

	triggerSettle = 2 * time.Microsecond
	triggerPulse  = 10 * time.Microsecond
)

// Sensor is one ranging module wired to two GPIO lines.
type Sensor struct {
	Echo        gpio.PinIO
	Trigger     gpio.PinIO
	EchoTimeout time.Duration
}

// Open initialises the host drivers and looks both pins up by name, in the
// format gpioreg.ByName expects (BCM number on a Raspberry Pi).
func Open(echo, trigger string) (*Sensor, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	e := gpioreg.ByName(echo)
	if e == nil {
		return nil, fmt.Errorf("no GPIO echo pin named: %s", echo)
	}
	t := gpioreg.ByName(trigger)
	if t == nil {
		return nil, fmt.Errorf("no GPIO trigger pin named: %s", trigger)
	}
	return New(e, t), nil
}

func New(echo, trigger gpio.PinIO) *Sensor {
	return &Sensor{Echo: echo, Trigger: trigger, EchoTimeout: DefaultEchoTimeout}
}

// Configure drives the trigger low and makes the echo line an edge-detecting input.
func (s *Sensor) Configure() error {
	if err := s.Trigger.Out(gpio.Low); err != nil {
		return fmt.Errorf("trigger %s: %w", s.Trigger, err)
	}
	if err := s.Echo.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return fmt.Errorf("echo %s: %w", s.Echo, err)
	}
	return nil
}

// SampleDistance fires one pulse and returns the distance in centimetres.
// A missing or overlong echo yields 0, the same as an Arduino pulseIn timeout.
func (s *Sensor) SampleDistance() float64 {
	tof, err := s.timeOfFlight()
	if err != nil {
		return 0
	}
	return TimeToCentimeters(tof.Microseconds())
}

func (s *Sensor) timeOfFlight() (time.Duration, error) {
	timeout := s.EchoTimeout
	if timeout <= 0 {
		timeout = DefaultEchoTimeout
	}

	if err := s.Echo.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return 0, err
	}

	if err := s.Trigger.Out(gpio.Low); err != nil {
		return 0, err
	}
	time.Sleep(triggerSettle)
	if err := s.Trigger.Out(gpio.High); err != nil {
		return 0, err
	}
	time.Sleep(triggerPulse)
	if err := s.Trigger.Out(gpio.Low); err != nil {
		return 0, err
	}

	if ok := s.Echo.WaitForEdge(timeout); !ok {
		return 0, fmt.Errorf("no echo within %s", timeout)
	}
	start := time.Now()

	if err := s.Echo.In(gpio.PullDown, gpio.FallingEdge); err != nil {
		return 0, err
	}
	if ok := s.Echo.WaitForEdge(timeout); !ok {
		return 0, fmt.Errorf("echo longer than %s", timeout)
	}
	return time.Since(start), nil
}

// TimeToCentimeters converts a round-trip time of flight in microseconds to a
// one-way distance: halve the time, multiply by 0.0343 cm/µs.
func TimeToCentimeters(timeOfFlight int64) float64 {
	centimetersPerMicrosecond := float64(SpeedOfSound*100) / 1e6
	return float64(timeOfFlight) / 2 * centimetersPerMicrosecond
}
