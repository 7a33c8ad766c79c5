package loam

// BlockMetadata is the frontmatter of one block document. It uses "mapstructure" tags to match
// the YAML/JSON keys written by hand.
type BlockMetadata struct {
	// ID defaults to the document name without extension.
	ID   string `json:"id" mapstructure:"id"`
	Type string `json:"type" mapstructure:"type"`

	// DefaultInput defaults to the document body.
	DefaultInput string         `json:"default_input" mapstructure:"default_input"`
	Params       map[string]any `json:"params" mapstructure:"params"`

	// To is the short form: one line per target, ids derived from the endpoints.
	To []string `json:"to" mapstructure:"to"`
	// Lines is the long form with explicit line ids.
	Lines []LineMetadata `json:"lines" mapstructure:"lines"`

	// Value is the instance parameter of the block, if any.
	Value string `json:"value" mapstructure:"value"`
}

// LineMetadata declares an outgoing line of the document's block.
type LineMetadata struct {
	ID string `json:"id" mapstructure:"id"`
	To string `json:"to" mapstructure:"to"`
}
