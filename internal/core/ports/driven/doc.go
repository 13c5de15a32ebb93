// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - MailSource: Streams raw messages out of the mail archive
//   - RecordStore: Canonical record persistence
//   - HistoryStore: Chat conversation persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, search falls back to exact matching only.
//   - VectorIndex: Vector storage/search. Only enabled when EmbeddingService is configured.
//   - LLMService: Language model operations. Without it, ask and chat are disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
