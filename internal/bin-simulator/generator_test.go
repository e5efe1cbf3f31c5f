package bin_simulator

import (
	"testing"
	"time"
)

func TestFillGeneratorAdvance(t *testing.T) {
	g := NewFillGenerator(100, 10, 1)

	if d := g.SampleDistance(); d != 100 {
		t.Fatalf("empty bin distance = %v, want 100", d)
	}
	g.Advance(3 * time.Hour)
	if d := g.SampleDistance(); d != 70 {
		t.Fatalf("distance after 3h = %v, want 70", d)
	}
	g.Advance(48 * time.Hour)
	if g.LevelCM() != 100 || g.SampleDistance() != 0 {
		t.Fatalf("overflowing bin: level %v distance %v", g.LevelCM(), g.SampleDistance())
	}
	g.Empty()
	if d := g.SampleDistance(); d != 100 {
		t.Fatalf("distance after collection = %v, want 100", d)
	}
	g.Advance(-time.Hour)
	if g.LevelCM() != 0 {
		t.Fatalf("negative advance moved the level")
	}
}

func TestFillGeneratorNoise(t *testing.T) {
	g := NewFillGenerator(100, 0, 42)
	g.JitterCM = 2
	for i := 0; i < 200; i++ {
		if d := g.SampleDistance(); d < 98 || d > 102 {
			t.Fatalf("sample %d = %v outside jitter bounds", i, d)
		}
	}

	g.DropoutRate = 1
	if d := g.SampleDistance(); d != 0 {
		t.Fatalf("dropout sample = %v, want 0", d)
	}
}
