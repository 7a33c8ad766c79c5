package domain

// NodeState is the lifecycle state of a block.
type NodeState string

const (
	// NodeStateNotConfigured has no meaningful default: a block in this state must be
	// configured explicitly before it can run.
	NodeStateNotConfigured NodeState = "NOT_CONFIGURED"
	NodeStateReady         NodeState = "READY"
	NodeStateRunning       NodeState = "RUNNING"
	NodeStateDone          NodeState = "DONE"
	// NodeStateStopped is forced from outside.
	NodeStateStopped NodeState = "STOPPED"
	// NodeStateAborted is forced from outside.
	NodeStateAborted NodeState = "ABORTED"
)

// NodeStates lists every lifecycle state in declaration order.
var NodeStates = []NodeState{
	NodeStateNotConfigured,
	NodeStateReady,
	NodeStateRunning,
	NodeStateDone,
	NodeStateStopped,
	NodeStateAborted,
}

// Valid reports whether s is one of the declared states.
func (s NodeState) Valid() bool {
	switch s {
	case NodeStateNotConfigured, NodeStateReady, NodeStateRunning,
		NodeStateDone, NodeStateStopped, NodeStateAborted:
		return true
	}
	return false
}

// IsReadyToRun reports whether a block in this state may be driven forward.
func (s NodeState) IsReadyToRun() bool {
	return s == NodeStateReady || s == NodeStateRunning
}

// IsFinished reports whether the state can be re-armed with a soft ready.
func (s NodeState) IsFinished() bool {
	return s == NodeStateDone || s == NodeStateStopped || s == NodeStateAborted
}

func (s NodeState) String() string {
	return string(s)
}

// ParseNodeState maps a textual value to a NodeState.
// Unknown values fall back to NodeStateNotConfigured.
func ParseNodeState(value string) NodeState {
	s := NodeState(value)
	if s.Valid() {
		return s
	}
	return NodeStateNotConfigured
}

// JunctionState is the activation state of a line or of a junction.
type JunctionState string

const (
	JunctionOff JunctionState = "OFF"
	JunctionOn  JunctionState = "ON"
)

// Valid reports whether s is ON or OFF.
func (s JunctionState) Valid() bool {
	return s == JunctionOff || s == JunctionOn
}

func (s JunctionState) String() string {
	return string(s)
}

// ParseJunctionState maps a textual value to a JunctionState.
// Unknown values fall back to JunctionOff.
func ParseJunctionState(value string) JunctionState {
	if s := JunctionState(value); s.Valid() {
		return s
	}
	return JunctionOff
}
