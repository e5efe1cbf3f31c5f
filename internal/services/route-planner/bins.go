package route_planner

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

// LoadBins reads the bin map: a JSON array of {"id","x","y"}.
func LoadBins(path string) ([]model.Bin, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bins: %w", err)
	}
	var bins []model.Bin
	if err := json.Unmarshal(raw, &bins); err != nil {
		return nil, fmt.Errorf("parse bins %s: %w", path, err)
	}
	seen := make(map[string]bool, len(bins))
	for i, b := range bins {
		id := strings.TrimSpace(b.ID)
		if id == "" {
			return nil, fmt.Errorf("bins %s: entry %d has no id", path, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("bins %s: duplicate id %s", path, id)
		}
		seen[id] = true
		bins[i].ID = id
	}
	return bins, nil
}
