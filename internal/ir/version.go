package ir

// Version constants for the IR schema and the library.
const (
	// IRVersion is the IR schema version.
	IRVersion = "1"

	// LibraryVersion is the quadrature library version.
	LibraryVersion = "0.1.0"
)
