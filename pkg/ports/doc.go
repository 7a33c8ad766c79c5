/*
Package ports defines the driven ports (interfaces) of the flowforge engine.

These interfaces decouple the graph model from external implementations, so the same
blocks can run against in-memory or Redis-backed collaborators and load their
definitions from files, document repositories or code.

# Key Interfaces

  - BlockBuilder: Builds concrete blocks for a set of block type ids (plugin contract).
  - ContextStore: Key/value store shared by blocks of a running graph.
  - ServiceBusClient / ServiceBusHandler: Asynchronous request/response bus.
  - DefinitionLoader: Produces a graph definition (blocks, lines, instance parameters).
  - DistributedLocker: Serializes block invocations across replicas.
*/
package ports
