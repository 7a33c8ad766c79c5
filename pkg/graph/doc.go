/*
Package graph implements the execution graph substrate of flowforge: blocks connected by
directed lines that fan in and out through junctions.

# Model

  - Block: a stateful node with a lifecycle state machine, input/result text, dirty tracking and
    an error state. BlockBase is the embeddable implementation; concrete blocks embed it and
    implement Advancer to move from RUNNING to DONE.
  - Line: a directed edge between two blocks, carrying an ON/OFF state and exposing the upstream
    block's result text.
  - Junction: the ordered set of lines attached to one side of a block. Setting its state
    broadcasts to every line; ResultString aggregates upstream results.

# Resolution

Lines reference blocks by id until both collections exist. Resolve wires a flat list of blocks
and lines in two phases: every line binds its endpoint blocks first, then every block registers
the lines touching it on its input or output junction. Both phases may run only once per object.

# Concurrency

Each Block, Line and Junction guards its own fields with its own mutex; there is no global lock.
Lock acquisition only flows block -> junction -> line, never the other way around. State-change
listeners are invoked after the block's mutex is released, in registration order, before the
triggering call returns.
*/
package graph
