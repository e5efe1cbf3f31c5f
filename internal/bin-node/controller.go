package bin_node

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

// ErrHalted is the fail-stop outcome of a failed INIT. Nothing is sampled or
// sent and no wake is armed; only a reset gets the node out.
var ErrHalted = errors.New("bin-node halted")

// Radio is the long-range link the report goes out on.
type Radio interface {
	Initialize(frequencyHz float64) error
	// Send hands the payload to the physical layer. No acknowledgment is read back.
	Send(payload []byte) error
}

// Power owns the wake timer and the low-power state.
type Power interface {
	ArmTimerWake(d time.Duration)
	// EnterLowPowerState does not return on real hardware: the next thing the
	// node does is boot again. Host implementations return to simulate a wake.
	EnterLowPowerState()
}

type State int

const (
	StateInit State = iota
	StateSampling
	StateMapping
	StateTransmitting
	StateSleepArmed
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateSampling:
		return "SAMPLING"
	case StateMapping:
		return "MAPPING"
	case StateTransmitting:
		return "TRANSMITTING"
	case StateSleepArmed:
		return "SLEEP-ARMED"
	case StateHalted:
		return "HALTED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result describes what one cycle did.
type Result struct {
	Distance float64
	Report   model.FillReport
	Payload  []byte
	// SendErr is informational only; a failed send still ends in sleep.
	SendErr error
}

// CycleController runs one wake → measure → report → sleep cycle per boot.
type CycleController struct {
	cfg     Config
	sampler *RangeSampler
	radio   Radio
	power   Power

	state  State
	result Result
}

func NewCycleController(cfg Config, sampler *RangeSampler, radio Radio, power Power) (*CycleController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sampler == nil || radio == nil || power == nil {
		return nil, errors.New("bin-node: sampler, radio and power are required")
	}
	return &CycleController{cfg: cfg, sampler: sampler, radio: radio, power: power}, nil
}

func (c *CycleController) State() State { return c.state }

// RunCycle executes the duty cycle. On hardware it never returns after the
// sleep transition; on a host it returns once the power collaborator wakes up.
// A non-nil error always wraps ErrHalted.
func (c *CycleController) RunCycle() (Result, error) {
	// nothing survives deep sleep, so nothing survives between cycles here either
	c.state = StateInit
	c.result = Result{}

	if err := c.sampler.Configure(); err != nil {
		return c.halt(fmt.Errorf("configure ranging lines: %w", err))
	}
	if err := c.radio.Initialize(c.cfg.FrequencyHz); err != nil {
		return c.halt(fmt.Errorf("radio init at %.0f Hz: %w", c.cfg.FrequencyHz, err))
	}

	c.enter(StateSampling)
	c.result.Distance = c.sampler.FilteredDistance()

	c.enter(StateMapping)
	c.result.Report = model.FillReport{
		ID:   c.cfg.DeviceID,
		Fill: c.cfg.FillLevel(c.result.Distance),
	}

	c.enter(StateTransmitting)
	c.transmit()

	c.enter(StateSleepArmed)
	c.power.ArmTimerWake(c.cfg.SleepDuration)
	log.Printf("bin-node: going to sleep for %s", c.cfg.SleepDuration)
	c.power.EnterLowPowerState()

	return c.result, nil
}

// transmit is fire-and-forget: a failed send is logged and the cycle moves on.
// The next wake is the only retry.
func (c *CycleController) transmit() {
	payload, err := c.result.Report.Encode()
	if err != nil {
		c.result.SendErr = fmt.Errorf("encode report: %w", err)
		log.Printf("bin-node: %v", c.result.SendErr)
		return
	}
	c.result.Payload = payload

	if err := c.radio.Send(payload); err != nil {
		c.result.SendErr = err
		log.Printf("bin-node: send failed: %s: %v", payload, err)
		return
	}
	log.Printf("Sent: %s", payload)
}

func (c *CycleController) enter(s State) {
	log.Printf("bin-node: %s -> %s", c.state, s)
	c.state = s
}

func (c *CycleController) halt(err error) (Result, error) {
	log.Printf("bin-node: halting: %v", err)
	c.enter(StateHalted)
	return c.result, fmt.Errorf("%w: %w", ErrHalted, err)
}
