package domain

import (
	"time"
)

// StateChangeEvent is broadcast to listeners on every block state write.
type StateChangeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	BlockID   string    `json:"block_id"`
	BlockType string    `json:"block_type"`
	Previous  NodeState `json:"previous"`
	State     NodeState `json:"state"`
}

// Changed reports whether the write actually moved the block to a different state.
func (e StateChangeEvent) Changed() bool {
	return e.Previous != e.State
}
