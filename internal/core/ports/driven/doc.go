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
//   - VectorIndex: approximate nearest-neighbour search over chunk embeddings
//   - ChunkStore: knowledge chunk persistence (text + metadata)
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - EmbeddingService: generates vector embeddings. Without it, retrieval
//     returns an empty context instead of failing the query.
//   - GenerationService: produces free text from a prompt. Without it, the
//     engine assembles a templated fallback answer from the top chunks.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
