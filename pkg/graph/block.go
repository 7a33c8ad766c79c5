package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/flowforge/internal/logging"
	"github.com/aretw0/flowforge/pkg/domain"
)

// Block is the contract every node of the graph satisfies.
type Block interface {
	// ID returns the unique, immutable internal block id.
	ID() string
	// TypeID identifies the behaviour class of the block.
	TypeID() string
	// DefaultInputText is the fallback returned by InputText when no input is set.
	DefaultInputText() string

	SetInputText(text string)
	InputText() string
	ResultText() string

	InputJunction() *Junction
	OutputJunction() *Junction
	// ResolveLines registers the lines touching this block on its junctions. Call it once,
	// after every line has resolved its blocks.
	ResolveLines(lines []*Line) error

	State() domain.NodeState
	// Run performs the base READY -> RUNNING transition.
	Run() error
	// SetReady re-arms a finished block without clearing its texts.
	SetReady() error
	Stop()
	Abort()
	Reset()

	SetError(hasError bool, message string)
	HasError() bool
	ErrorMessage() string

	IsModified() bool
	SetModified()
	ResetModified()

	// AddListener registers l and returns a function removing it.
	AddListener(l StateListener) (remove func())
}

// Advancer is implemented by blocks carrying their own work. Advance is called while the block
// is RUNNING and is expected to leave it DONE, usually through BlockBase.Finish.
type Advancer interface {
	Advance(ctx context.Context) error
}

// Runnable is a block with its own advance step.
type Runnable interface {
	Block
	Advancer
}

// BlockBase implements Block. Concrete blocks embed *BlockBase and implement Advancer.
type BlockBase struct {
	id           string
	typeID       string
	defaultInput string

	input  *Junction
	output *Junction

	mu           sync.Mutex
	state        domain.NodeState
	inputText    string
	resultText   string
	hasError     bool
	errorMessage string
	modified     bool
	pending      []domain.StateChangeEvent

	listeners listenerSet
	logger    *slog.Logger
}

var _ Block = (*BlockBase)(nil)

// NewBlockBase creates a block in READY state with both junctions empty and the dirty flag set.
// Blank identifiers fail with domain.ErrInvalidArgument.
func NewBlockBase(id, typeID, defaultInput string, opts ...BlockOption) (*BlockBase, error) {
	if isBlank(id) || isBlank(typeID) || isBlank(defaultInput) {
		return nil, fmt.Errorf("%w: block id, type id and default input text must not be blank", domain.ErrInvalidArgument)
	}

	b := &BlockBase{
		id:           id,
		typeID:       typeID,
		defaultInput: defaultInput,
		input:        NewJunction(),
		output:       NewJunction(),
		state:        domain.NodeStateReady,
		// A fresh block is always considered modified.
		modified: true,
		logger:   logging.NewNop(),
	}

	for _, opt := range opts {
		opt(b)
	}

	if !b.state.Valid() {
		return nil, fmt.Errorf("%w: unknown initial state %q", domain.ErrInvalidArgument, b.state)
	}

	return b, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ID returns the internal block id.
func (b *BlockBase) ID() string { return b.id }

// TypeID returns the block type id.
func (b *BlockBase) TypeID() string { return b.typeID }

// DefaultInputText returns the immutable fallback input.
func (b *BlockBase) DefaultInputText() string { return b.defaultInput }

// InputJunction returns the junction collecting incoming lines.
func (b *BlockBase) InputJunction() *Junction { return b.input }

// OutputJunction returns the junction collecting outgoing lines.
func (b *BlockBase) OutputJunction() *Junction { return b.output }

// AddListener registers a state listener.
func (b *BlockBase) AddListener(l StateListener) func() {
	if l == nil {
		return func() {}
	}
	return b.listeners.add(l)
}

// unlock releases the block mutex and delivers the events queued while it was held.
func (b *BlockBase) unlock() {
	events := b.pending
	b.pending = nil
	b.mu.Unlock()

	b.listeners.notify(events)
}

func (b *BlockBase) setStateLocked(state domain.NodeState) {
	prev := b.state
	if prev != state {
		b.modified = true
	}
	b.state = state

	b.pending = append(b.pending, domain.StateChangeEvent{
		Timestamp: time.Now(),
		BlockID:   b.id,
		BlockType: b.typeID,
		Previous:  prev,
		State:     state,
	})
	b.logger.Debug("block state changed", "block_id", b.id, "from", prev, "state", state)
}

func (b *BlockBase) setErrorLocked(hasError bool, message string) {
	if b.hasError != hasError || b.errorMessage != message {
		b.modified = true
	}
	b.hasError = hasError
	b.errorMessage = message
}

// State returns the current lifecycle state.
func (b *BlockBase) State() domain.NodeState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SetState writes a new state. Writing the current state again leaves the dirty flag alone
// but still notifies listeners.
func (b *BlockBase) SetState(state domain.NodeState) error {
	if !state.Valid() {
		return fmt.Errorf("%w: block %s: unknown state %q", domain.ErrInvalidArgument, b.id, state)
	}

	b.mu.Lock()
	b.setStateLocked(state)
	b.unlock()
	return nil
}

// SetError records the error flag and message.
func (b *BlockBase) SetError(hasError bool, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setErrorLocked(hasError, message)
}

// HasError reports whether the block holds an error.
func (b *BlockBase) HasError() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasError
}

// ErrorMessage returns the last recorded error message.
func (b *BlockBase) ErrorMessage() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errorMessage
}

// SetInputText replaces the input text. The empty string clears it.
func (b *BlockBase) SetInputText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inputText != text {
		b.modified = true
	}
	b.inputText = text
}

// InputText returns the input text, or the default input text when it is blank.
func (b *BlockBase) InputText() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if isBlank(b.inputText) {
		return b.defaultInput
	}
	return b.inputText
}

// SetResultText replaces the result text.
func (b *BlockBase) SetResultText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.resultText != text {
		b.modified = true
	}
	b.resultText = text
}

// ResultText returns the result text.
func (b *BlockBase) ResultText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resultText
}

// IsModified reports whether anything changed since the last ResetModified.
func (b *BlockBase) IsModified() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.modified
}

// SetModified marks the block dirty.
func (b *BlockBase) SetModified() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modified = true
}

// ResetModified acknowledges all changes.
func (b *BlockBase) ResetModified() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modified = false
}

// ResolveLines registers every resolved line whose "from" block is this block on the output
// junction and every line whose "to" block is this block on the input junction. A self-loop
// lands on both. Nil and unresolved lines are skipped.
func (b *BlockBase) ResolveLines(lines []*Line) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.input.HasLines() || b.output.HasLines() {
		return fmt.Errorf("%w: block %s: lines already resolved", domain.ErrConfigurationMismatch, b.id)
	}

	// blockFrom ---line---> blockTo
	// outputJunction ----> inputJunction
	for _, line := range lines {
		if line == nil {
			continue
		}
		from, to := line.From(), line.To()
		if from == nil || to == nil {
			continue
		}
		if from.ID() == b.id {
			if err := b.output.AddLine(line); err != nil {
				return err
			}
		}
		if to.ID() == b.id {
			if err := b.input.AddLine(line); err != nil {
				return err
			}
		}
	}

	b.logger.Debug("block lines resolved", "block_id", b.id,
		"inputs", b.input.Len(), "outputs", b.output.Len())
	return nil
}

// Run moves a READY block to RUNNING. A NOT_CONFIGURED block records an error and fails with
// domain.ErrConfigurationMismatch. Any other state is left untouched.
func (b *BlockBase) Run() error {
	b.mu.Lock()

	switch b.state {
	case domain.NodeStateNotConfigured:
		b.setErrorLocked(true, "block is not configured")
		b.unlock()
		return fmt.Errorf("%w: block %s is not configured", domain.ErrConfigurationMismatch, b.id)
	case domain.NodeStateReady:
		b.setStateLocked(domain.NodeStateRunning)
	}

	b.unlock()
	return nil
}

// SetReady re-arms a DONE, STOPPED or ABORTED block without clearing its texts. It refuses with
// domain.ErrConfigurationMismatch while the block holds an error. Other states are left untouched.
func (b *BlockBase) SetReady() error {
	b.mu.Lock()

	if !b.state.IsFinished() {
		b.unlock()
		return nil
	}

	if b.hasError {
		msg := b.errorMessage
		b.unlock()
		return fmt.Errorf("%w: block %s holds an error: %s", domain.ErrConfigurationMismatch, b.id, msg)
	}

	b.setStateLocked(domain.NodeStateReady)
	b.unlock()
	return nil
}

// Stop forces the block to STOPPED. Junctions are left as they are.
func (b *BlockBase) Stop() {
	b.mu.Lock()
	b.setStateLocked(domain.NodeStateStopped)
	b.modified = true
	b.unlock()

	b.logger.Info("block stopped", "block_id", b.id)
}

// Abort forces the block to ABORTED. Junctions are left as they are.
func (b *BlockBase) Abort() {
	b.mu.Lock()
	b.setStateLocked(domain.NodeStateAborted)
	b.modified = true
	b.unlock()

	b.logger.Info("block aborted", "block_id", b.id)
}

// Reset forces READY, clears the error and both texts and turns the output junction OFF.
func (b *BlockBase) Reset() {
	b.mu.Lock()
	b.setStateLocked(domain.NodeStateReady)
	b.setErrorLocked(false, "")
	b.inputText = ""
	b.resultText = ""
	_ = b.output.SetState(domain.JunctionOff)
	b.modified = true
	b.unlock()

	b.logger.Info("block reset", "block_id", b.id)
}

// Propagate is the normal-path transition after DONE: the input junction goes OFF and the
// output junction goes ON, switching every downstream line on.
func (b *BlockBase) Propagate() {
	_ = b.input.SetState(domain.JunctionOff)
	_ = b.output.SetState(domain.JunctionOn)
}

// Finish stores the result, moves the block to DONE and propagates along the normal path.
func (b *BlockBase) Finish(result string) {
	b.mu.Lock()
	if b.resultText != result {
		b.modified = true
	}
	b.resultText = result
	b.setStateLocked(domain.NodeStateDone)
	b.unlock()

	b.Propagate()
}

// FinishIfRunning is Finish for work that may outlive the run: it only stores the result and
// propagates while the block is still RUNNING, so a Stop or Abort issued meanwhile wins.
// It reports whether the block finished.
func (b *BlockBase) FinishIfRunning(result string) bool {
	b.mu.Lock()
	if b.state != domain.NodeStateRunning {
		b.mu.Unlock()
		return false
	}
	if b.resultText != result {
		b.modified = true
	}
	b.resultText = result
	b.setStateLocked(domain.NodeStateDone)
	b.unlock()

	b.Propagate()
	return true
}

// Fail records err on the block and returns it unchanged.
func (b *BlockBase) Fail(err error) error {
	if err == nil {
		return nil
	}
	b.SetError(true, err.Error())
	b.logger.Warn("block failed", "block_id", b.id, "error", err)
	return err
}

// Step drives one invocation of a block: the base run transition, then, for blocks that
// implement Advancer and are RUNNING, their own work. A failing Advance marks the block with
// the error; whether to abort or retry is left to the caller.
func Step(ctx context.Context, b Block) error {
	if b == nil {
		return fmt.Errorf("%w: block must not be nil", domain.ErrInvalidArgument)
	}
	if err := b.Run(); err != nil {
		return err
	}

	adv, ok := b.(Advancer)
	if !ok || b.State() != domain.NodeStateRunning {
		return nil
	}

	if err := adv.Advance(ctx); err != nil {
		if !b.HasError() {
			b.SetError(true, err.Error())
		}
		return fmt.Errorf("block %s: %w", b.ID(), err)
	}
	return nil
}
