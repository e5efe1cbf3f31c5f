package bin_simulator

import (
	"math/rand"
	"sync"
	"time"
)

// FillGenerator models the trash column inside a bin and answers ranging
// requests the way a real transducer would, echo dropouts included.
type FillGenerator struct {
	mu          sync.Mutex
	binHeightCM float64
	levelCM     float64
	ratePerHour float64

	// DropoutRate is the probability that a sample reads 0 (missed echo).
	DropoutRate float64
	// JitterCM bounds the uniform noise added to every sample.
	JitterCM    float64

	rnd *rand.Rand
}

func NewFillGenerator(binHeightCM, ratePerHour float64, seed int64) *FillGenerator {
	return &FillGenerator{
		binHeightCM: binHeightCM,
		ratePerHour: ratePerHour,
		rnd:         rand.New(rand.NewSource(seed)),
	}
}

func (g *FillGenerator) Configure() error { return nil }

func (g *FillGenerator) SampleDistance() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.DropoutRate > 0 && g.rnd.Float64() < g.DropoutRate {
		return 0
	}
	d := g.binHeightCM - g.levelCM
	if g.JitterCM > 0 {
		d += g.JitterCM * (2*g.rnd.Float64() - 1)
	}
	if d < 0 {
		d = 0
	}
	return d
}

// Advance lets d of simulated time pass; the bin never overflows its height.
func (g *FillGenerator) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.levelCM += g.ratePerHour * d.Hours()
	if g.levelCM > g.binHeightCM {
		g.levelCM = g.binHeightCM
	}
}

// Empty is a collection: the trash column goes back to zero.
func (g *FillGenerator) Empty() {
	g.mu.Lock()
	g.levelCM = 0
	g.mu.Unlock()
}

func (g *FillGenerator) LevelCM() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levelCM
}
