package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/dsl"
)

func TestValidateGraph(t *testing.T) {
	supported := []string{"echo", "context"}

	// Scenario A: a -> b -> c
	b := dsl.New("valid")
	b.Add("a").Echo("x").To("b")
	b.Add("b").Echo("y").To("c")
	b.Add("c").Type("context").Input("z").Param("key", "out")
	def, err := b.Definition()
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateGraph(def, supported); err != nil {
		t.Errorf("Scenario A (Valid) failed: %v", err)
	}

	// Scenario B: every kind of problem at once.
	broken := &domain.GraphDefinition{
		Blocks: []domain.BlockDefinition{
			{ID: "a", Type: "echo", DefaultInput: "x"},
			{ID: "a", Type: "echo", DefaultInput: "x"},
			{ID: "b", Type: "teleport", DefaultInput: " "},
		},
		Lines: []domain.LineDefinition{
			{ID: "L", From: "a", To: "ghost"},
			{ID: "L", From: "a", To: "b"},
		},
		Parameters: []domain.InstanceParameter{{BlockID: "nobody", Value: "v"}},
	}

	err = ValidateGraph(broken, supported)
	if err == nil {
		t.Fatal("Scenario B (Broken) should have failed, but got nil")
	}
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got: %v", err)
	}
	for _, want := range []string{
		"found 6 errors",
		"duplicate block 'a'",
		"unsupported type 'teleport'",
		"block 'b' has no default input",
		"missing block 'ghost'",
		"duplicate line 'L'",
		"parameter for missing block 'nobody'",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %q in: %v", want, err)
		}
	}

	// Without a type list only the structure is checked.
	if err := ValidateGraph(&domain.GraphDefinition{Blocks: []domain.BlockDefinition{{ID: "x", Type: "any", DefaultInput: "in"}}}, nil); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if err := ValidateGraph(nil, nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for nil definition, got: %v", err)
	}
}

func TestUnreachable(t *testing.T) {
	b := dsl.New("cycles")
	b.Add("entry").Echo("x").To("mid")
	b.Add("mid").Echo("x").To("entry2")
	b.Add("entry2").Echo("x")
	// loop1 <-> loop2 has no way in.
	b.Add("loop1").Echo("x").To("loop2")
	b.Add("loop2").Echo("x").To("loop1")
	def, err := b.Definition()
	if err != nil {
		t.Fatal(err)
	}

	got := Unreachable(def)
	if strings.Join(got, ",") != "loop1,loop2" {
		t.Errorf("Expected [loop1 loop2], got %v", got)
	}

	if Unreachable(nil) != nil {
		t.Error("Expected nil for nil definition")
	}
}
