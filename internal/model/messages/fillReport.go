package messages

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidReport = errors.New("invalid fill report")

// FillReport is the packet a bin node sends once per wake.
// On the wire: {"id":"BIN01","fill":42}
type FillReport struct {
	ID   string `json:"id"`
	Fill int    `json:"fill"` // percent, 0..100
}

func (r FillReport) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeFillReport parses a payload received from a node. The fill must be an
// integer in [0,100]; "42.0" or "42.5" are rejected.
func DecodeFillReport(payload []byte) (FillReport, error) {
	var raw struct {
		ID   *string         `json:"id"`
		Fill json.RawMessage `json:"fill"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return FillReport{}, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	if raw.ID == nil || strings.TrimSpace(*raw.ID) == "" {
		return FillReport{}, fmt.Errorf("%w: missing id", ErrInvalidReport)
	}
	if len(raw.Fill) == 0 {
		return FillReport{}, fmt.Errorf("%w: missing fill", ErrInvalidReport)
	}
	fill, err := strconv.ParseInt(string(raw.Fill), 10, 64)
	if err != nil {
		return FillReport{}, fmt.Errorf("%w: fill %s is not an integer", ErrInvalidReport, raw.Fill)
	}
	if fill < 0 || fill > 100 {
		return FillReport{}, fmt.Errorf("%w: fill %d out of range", ErrInvalidReport, fill)
	}
	return FillReport{ID: *raw.ID, Fill: int(fill)}, nil
}
