// Package domain defines the core business entities of the notification
// mail index.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawMail: One undecoded message lifted from an archive
//   - Record: The normalized (and, after merging, canonical) PR record
//   - Sections: Structured markdown content of a body
//   - SearchResult / Answer: Retrieval and question-answering outputs
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
