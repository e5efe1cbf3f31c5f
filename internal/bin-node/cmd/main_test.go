package main

import (
	"slices"
	"testing"
	"time"
)

type recordingPower struct {
	events *[]string
}

func (p recordingPower) ArmTimerWake(d time.Duration) {
	*p.events = append(*p.events, "arm "+d.String())
}

func (p recordingPower) EnterLowPowerState() {
	*p.events = append(*p.events, "sleep")
}

func TestLinkClosingPowerClosesBeforeSleep(t *testing.T) {
	var events []string
	p := linkClosingPower{
		Power:     recordingPower{events: &events},
		closeLink: func() { events = append(events, "close") },
	}

	p.ArmTimerWake(time.Hour)
	p.EnterLowPowerState()

	want := []string{"arm 1h0m0s", "close", "sleep"}
	if !slices.Equal(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}
