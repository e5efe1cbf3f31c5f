package messages

import "time"

// BinStatus is the latest known fill of a bin as seen by the collector.
type BinStatus struct {
	BinID     string    `json:"bin_id"`
	Fill      int       `json:"fill"`
	Timestamp time.Time `json:"timestamp"`
}
