package route_planner

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

// Thresholds drive stop selection. Fills are percentages, MaxDetour is in
// map units.
type Thresholds struct {
	Critical  int     `json:"critical"`
	Secondary int     `json:"secondary"`
	MaxDetour float64 `json:"max_detour"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Critical: 80, Secondary: 50, MaxDetour: 5}
}

func (t Thresholds) Validate() error {
	if t.Critical < 0 || t.Critical > 100 {
		return fmt.Errorf("critical threshold %d outside 0..100", t.Critical)
	}
	if t.Secondary < 0 || t.Secondary > t.Critical {
		return fmt.Errorf("secondary threshold %d outside 0..%d", t.Secondary, t.Critical)
	}
	if math.IsNaN(t.MaxDetour) || math.IsInf(t.MaxDetour, 0) || t.MaxDetour <= 0 {
		return fmt.Errorf("max detour %g must be a positive finite number", t.MaxDetour)
	}
	return nil
}

// Candidate is a bin with its latest known fill.
type Candidate struct {
	model.Bin
	Fill int
}

type Stop struct {
	BinID    string  `json:"bin_id"`
	Fill     int     `json:"fill"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Critical bool    `json:"critical"`
}

func (s Stop) Position() model.Point { return model.Point{X: s.X, Y: s.Y} }

// GenerateRoute visits critical bins nearest-neighbour from the depot. Before
// each critical stop it picks up the secondary bins lying within MaxDetour of
// it that are neither routed yet nor critical themselves. Ties go to the bin
// listed first.
func GenerateRoute(bins []Candidate, depot model.Point, th Thresholds) []Stop {
	var pending []int
	for i, b := range bins {
		if b.Fill >= th.Critical {
			pending = append(pending, i)
		}
	}
	isPending := func(i int) bool {
		for _, p := range pending {
			if p == i {
				return true
			}
		}
		return false
	}

	routed := make(map[int]bool, len(bins))
	route := make([]Stop, 0, len(pending))
	pos := depot

	for len(pending) > 0 {
		best := 0
		bestDist := pos.Distance(bins[pending[0]].Position())
		for k := 1; k < len(pending); k++ {
			if d := pos.Distance(bins[pending[k]].Position()); d < bestDist {
				best, bestDist = k, d
			}
		}
		nearest := pending[best]
		target := bins[nearest].Position()

		for i, b := range bins {
			if b.Fill < th.Secondary || routed[i] || isPending(i) {
				continue
			}
			if target.Distance(b.Position()) < th.MaxDetour {
				route = append(route, stopOf(b, false))
				routed[i] = true
			}
		}

		route = append(route, stopOf(bins[nearest], true))
		routed[nearest] = true
		pending = append(pending[:best], pending[best+1:]...)
		pos = target
	}
	return route
}

func stopOf(b Candidate, critical bool) Stop {
	return Stop{BinID: b.ID, Fill: b.Fill, X: b.X, Y: b.Y, Critical: critical}
}

// RouteLength is the closed tour depot → stops → depot.
func RouteLength(depot model.Point, stops []Stop) float64 {
	total := 0.0
	pos := depot
	for _, s := range stops {
		total += pos.Distance(s.Position())
		pos = s.Position()
	}
	return total + pos.Distance(depot)
}

// Join pairs located bins with their latest fill, keeping the bins order.
// Bins without a reading are returned in unreported.
func Join(bins []model.Bin, fills []model.BinStatus) (candidates []Candidate, unreported []string) {
	byID := make(map[string]int, len(fills))
	for _, f := range fills {
		byID[f.BinID] = f.Fill
	}
	for _, b := range bins {
		fill, ok := byID[b.ID]
		if !ok {
			unreported = append(unreported, b.ID)
			continue
		}
		candidates = append(candidates, Candidate{Bin: b, Fill: fill})
	}
	return candidates, unreported
}

type Plan struct {
	Stops      []Stop   `json:"stops"`
	Distance   float64  `json:"distance"`
	Critical   int      `json:"critical_count"`
	Unreported []string `json:"unreported,omitempty"`
}

// Planner builds routes over a fixed bin map with fills from a FillSource.
type Planner struct {
	bins     []model.Bin
	source   FillSource
	depot    model.Point
	defaults Thresholds
}

func NewPlanner(bins []model.Bin, source FillSource, depot model.Point, defaults Thresholds) *Planner {
	return &Planner{bins: bins, source: source, depot: depot, defaults: defaults}
}

func (p *Planner) Defaults() Thresholds { return p.defaults }

func (p *Planner) Plan(ctx context.Context, th Thresholds) (Plan, error) {
	if err := th.Validate(); err != nil {
		return Plan{}, err
	}
	fills, err := p.source.Latest(ctx)
	if err != nil {
		return Plan{}, err
	}
	candidates, unreported := Join(p.bins, fills)
	stops := GenerateRoute(candidates, p.depot, th)

	plan := Plan{Stops: stops, Distance: RouteLength(p.depot, stops), Unreported: unreported}
	for _, s := range stops {
		if s.Critical {
			plan.Critical++
		}
	}
	log.Printf("planner: %d critical bins, %d stops, %.1f units", plan.Critical, len(stops), plan.Distance)
	return plan, nil
}
