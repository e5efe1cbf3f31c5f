package bin_node

import "math"

// Calibration maps distance readings onto fill. BinHeightCM is the reading of an
// empty bin (0%), FullThresholdCM the reading of a full one (100%).
type Calibration struct {
	BinHeightCM     float64 `yaml:"bin_height_cm"`
	FullThresholdCM float64 `yaml:"full_threshold_cm"`
}

// FillLevel interpolates linearly between the two calibration points, truncates
// to an integer percentage and clamps it to [0,100]. Readings outside the
// calibrated span saturate.
func (c Calibration) FillLevel(distanceCM float64) int {
	if math.IsNaN(distanceCM) {
		return 0
	}
	fill := (distanceCM - c.BinHeightCM) * 100 / (c.FullThresholdCM - c.BinHeightCM)
	switch {
	case fill <= 0:
		return 0
	case fill >= 100:
		return 100
	}
	return int(fill)
}
