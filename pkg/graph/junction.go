package graph

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/flowforge/pkg/domain"
)

// LineSeparator terminates every entry of Junction.ResultString.
const LineSeparator = "\n"

// Junction is the ordered set of lines attached to one side of a block.
type Junction struct {
	mu    sync.Mutex
	lines []*Line
	state domain.JunctionState
}

// NewJunction returns an empty junction in OFF state.
func NewJunction() *Junction {
	return &Junction{state: domain.JunctionOff}
}

// AddLine appends a line. Lines keep registration order.
func (j *Junction) AddLine(line *Line) error {
	if line == nil {
		return fmt.Errorf("%w: line must not be nil", domain.ErrInvalidArgument)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.lines = append(j.lines, line)
	return nil
}

// HasLines reports whether any line is registered.
func (j *Junction) HasLines() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.lines) > 0
}

// Len returns the number of registered lines.
func (j *Junction) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.lines)
}

// Lines returns a copy of the registered lines in registration order.
func (j *Junction) Lines() []*Line {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]*Line, len(j.lines))
	copy(out, j.lines)
	return out
}

// SetState writes state to every registered line, overwriting whatever each line held, and
// records it as the junction state. The broadcast is atomic with respect to AddLine.
func (j *Junction) SetState(state domain.JunctionState) error {
	if !state.Valid() {
		return fmt.Errorf("%w: unknown junction state %q", domain.ErrInvalidArgument, state)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	for _, line := range j.lines {
		if err := line.SetState(state); err != nil {
			return err
		}
	}
	j.state = state
	return nil
}

// State returns the last state set on the junction.
func (j *Junction) State() domain.JunctionState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// ResultString concatenates the result text of every line in registration order, each followed
// by LineSeparator. Blank results are skipped.
func (j *Junction) ResultString() string {
	var sb strings.Builder
	for _, line := range j.Lines() {
		result := line.ResultText()
		if strings.TrimSpace(result) == "" {
			continue
		}
		sb.WriteString(result)
		sb.WriteString(LineSeparator)
	}
	return sb.String()
}
