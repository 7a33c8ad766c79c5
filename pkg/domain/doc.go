/*
Package domain contains the core value types of the flowforge execution graph.

It defines the lifecycle enumerations of blocks and lines, the sentinel errors shared by
every layer, the records exchanged with external collaborators (context store values,
service bus requests) and the declarative graph definition. This package is kept pure and
free of I/O.

# Key Entities

  - NodeState: the lifecycle state of a block (READY, RUNNING, DONE, ...).
  - JunctionState: the ON/OFF activation state of a line or junction.
  - GraphDefinition: the flat list of blocks and lines an assembler turns into a graph.
  - Value: the tagged variant stored in a context store.
  - ServiceRequest / ServiceResponse: service bus records.
*/
package domain
