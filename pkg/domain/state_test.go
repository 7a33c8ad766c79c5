package domain_test

import (
	"testing"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseNodeState(t *testing.T) {
	for _, s := range domain.NodeStates {
		assert.Equal(t, s, domain.ParseNodeState(string(s)))
		assert.True(t, s.Valid())
	}

	for _, raw := range []string{"", "ready", "FINISHED"} {
		assert.Equal(t, domain.NodeStateNotConfigured, domain.ParseNodeState(raw), "raw %q", raw)
	}
}

func TestNodeState_Predicates(t *testing.T) {
	tests := []struct {
		state    domain.NodeState
		ready    bool
		finished bool
	}{
		{domain.NodeStateNotConfigured, false, false},
		{domain.NodeStateReady, true, false},
		{domain.NodeStateRunning, true, false},
		{domain.NodeStateDone, false, true},
		{domain.NodeStateStopped, false, true},
		{domain.NodeStateAborted, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.ready, tt.state.IsReadyToRun())
			assert.Equal(t, tt.finished, tt.state.IsFinished())
		})
	}
	assert.False(t, domain.NodeState("x").Valid())
}

func TestParseJunctionState(t *testing.T) {
	assert.Equal(t, domain.JunctionOn, domain.ParseJunctionState("ON"))
	assert.Equal(t, domain.JunctionOff, domain.ParseJunctionState("OFF"))
	assert.Equal(t, domain.JunctionOff, domain.ParseJunctionState("on"))
	assert.Equal(t, domain.JunctionOff, domain.ParseJunctionState(""))
	assert.False(t, domain.JunctionState("HALF").Valid())
}

func TestStateChangeEvent_Changed(t *testing.T) {
	e := domain.StateChangeEvent{Previous: domain.NodeStateReady, State: domain.NodeStateRunning}
	assert.True(t, e.Changed())
	e.Previous = domain.NodeStateRunning
	assert.False(t, e.Changed())
}
