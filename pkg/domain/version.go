package domain

// EngineVersion is the semantic version block builders are checked against.
const EngineVersion = "v0.4.0"
