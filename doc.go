/*
Package flowforge assembles and drives execution graphs of processing blocks.

A graph is made of Blocks connected by directed Lines. Each block owns an input and an output
Junction that group the lines touching it. When a block finishes, its output junction is
switched ON and downstream blocks can read the aggregated upstream text from their input
junction.

# Concept

Graphs are described declaratively (a YAML/JSON file, a loam document repository or the
pkg/dsl builder) and assembled in two phases: every block and line is created first, then the
lines bind their endpoints and the blocks register their lines on their junctions. Block
behaviour comes from builders registered in a pkg/registry.Registry; the built-in builder in
pkg/blocks provides echo, context-store and service-bus blocks.

The engine never schedules work on its own. The host decides which block to step and when,
through Flow.Step, the HTTP or MCP adapters, or the CLI.

# Usage

	flow, err := flowforge.New("./pipeline.yaml")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for _, b := range flow.Graph().Blocks() {
		if err := flow.Step(ctx, b.ID()); err != nil {
			log.Printf("step %s: %v", b.ID(), err)
		}
	}

	fmt.Println(flow.Mermaid())
*/
package flowforge
