package domain

// GraphDefinition is the flat description of a graph: every block and every line, with lines
// referencing blocks by id only. An assembler turns it into a resolved graph.
type GraphDefinition struct {
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	Blocks     []BlockDefinition   `json:"blocks" yaml:"blocks"`
	Lines      []LineDefinition    `json:"lines" yaml:"lines"`
	Parameters []InstanceParameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// BlockDefinition declares one block instance.
type BlockDefinition struct {
	ID           string         `json:"id" yaml:"id" mapstructure:"id"`
	Type         string         `json:"type" yaml:"type" mapstructure:"type"`
	DefaultInput string         `json:"default_input" yaml:"default_input" mapstructure:"default_input"`
	Params       map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

// LineDefinition declares a directed line between two blocks.
type LineDefinition struct {
	ID   string `json:"id" yaml:"id" mapstructure:"id"`
	From string `json:"from" yaml:"from" mapstructure:"from"`
	To   string `json:"to" yaml:"to" mapstructure:"to"`
}
