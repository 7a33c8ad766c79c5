/*
Package observability provides tools for monitoring the flowforge engine.

Metrics is a graph.StateListener that turns block state events into Prometheus series:
a transition counter per block type and state, a per-block state gauge, and step duration and
failure series fed by the engine around every block invocation.
*/
package observability
