// Package radio holds the uplink implementations a bin node can report over.
package radio

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFrequency = errors.New("frequency outside LoRa ISM bands")
	ErrRadioNotReady        = errors.New("radio not initialised")
)

type band struct {
	name      string
	low, high float64
}

// ISM sub-bands LoRa radios are licensed to use (EU433, EU868, US915/AU915).
var bands = []band{
	{"EU433", 433.05e6, 434.79e6},
	{"EU868", 863e6, 870e6},
	{"US915", 902e6, 928e6},
}

// CheckFrequency returns the band name for hz or ErrUnsupportedFrequency.
func CheckFrequency(hz float64) (string, error) {
	for _, b := range bands {
		if hz >= b.low && hz <= b.high {
			return b.name, nil
		}
	}
	return "", fmt.Errorf("%w: %.0f Hz", ErrUnsupportedFrequency, hz)
}
