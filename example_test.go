package flowforge_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/flowforge"
	"github.com/aretw0/flowforge/pkg/dsl"
)

// ExampleNew_dsl builds a two block pipeline in code and steps it by hand.
func ExampleNew_dsl() {
	b := dsl.New("greeting")
	b.Add("source").Echo("hello").To("shout")
	b.Add("shout").Echo("unused").Param("upper", true).Param("prefix", "> ")

	loader, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	flow, err := flowforge.New("", flowforge.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for _, id := range []string{"source", "shout"} {
		if err := flow.Step(ctx, id); err != nil {
			log.Fatal(err)
		}
	}

	for _, s := range flow.Snapshot().Blocks {
		fmt.Printf("%s %s %q\n", s.ID, s.State, s.Result)
	}
	// Output:
	// source DONE "hello"
	// shout DONE "> HELLO"
}
