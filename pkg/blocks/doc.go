/*
Package blocks provides the built-in block types and the BlockBuilder that instantiates them.

# Types

  - echo: forwards the aggregated upstream text (or its own input text) with an optional prefix.
  - context: writes its text into the shared context store under a configured key.
  - servicebus: sends its text to a named service over the service bus and waits for the answer.

Every block embeds *graph.BlockBase and implements graph.Advancer; graph.Step drives them.
Block settings come from the "params" map of the block definition and are decoded with
mapstructure.
*/
package blocks
