package bin_node

import (
	"slices"
	"time"
)

const (
	// SampleCount is the size of every SampleSet. Median of 5 survives two bad echoes.
	SampleCount = 5

	DefaultSettleInterval = 50 * time.Millisecond
)

// Transducer is the ranging hardware: one trigger line, one echo line.
type Transducer interface {
	// Configure sets the I/O directions of the trigger and echo lines.
	Configure() error
	// SampleDistance fires one ranging pulse and returns the distance in cm.
	// A lost echo is not reported as an error: it shows up as an anomalous value.
	SampleDistance() float64
}

// SampleSet is one burst of raw distance readings, in acquisition order.
type SampleSet [SampleCount]float64

// RangeSampler turns a noisy transducer into one robust reading per call.
type RangeSampler struct {
	transducer Transducer
	settle     time.Duration
	wait       func(time.Duration)
}

func NewRangeSampler(t Transducer, settle time.Duration) *RangeSampler {
	if settle <= 0 {
		settle = DefaultSettleInterval
	}
	return &RangeSampler{transducer: t, settle: settle, wait: time.Sleep}
}

// SampleDistance is a single unfiltered reading. Callers must leave at least
// the settling interval between two calls.
func (s *RangeSampler) SampleDistance() float64 {
	return s.transducer.SampleDistance()
}

// FilteredDistance blocks for the whole sampling window and returns the median.
func (s *RangeSampler) FilteredDistance() float64 {
	var set SampleSet
	for i := range set {
		set[i] = s.SampleDistance()
		s.wait(s.settle)
	}
	return Median(set)
}

// Median returns the third-ranked value of the set.
func Median(set SampleSet) float64 {
	sorted := set
	slices.Sort(sorted[:])
	return sorted[SampleCount/2]
}

// Configure prepares the transducer lines. Safe to call once per boot.
func (s *RangeSampler) Configure() error {
	return s.transducer.Configure()
}
