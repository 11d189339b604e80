package ir

// Version constants for persisted records.
const (
	// IRVersion is the version of the exported tree and trace format.
	IRVersion = "1"

	// EngineVersion is the calculator core version recorded with every
	// stored calculation.
	EngineVersion = "0.1.0"
)
