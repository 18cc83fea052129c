// Package domain defines the core business entities for Samarth.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - KnowledgeChunk: a retrievable unit of text with metadata and embedding
//   - QueryIntent: the structured interpretation of a question
//   - RetrievalCandidate: a per-query chunk scoring record
//   - Citation / PolicyRecord / Answer: the response data model
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Scoring Convention
//
// Similarity scores are distances: lower is better. Every boundary that
// touches a score (vector index, re-ranker, confidence derivation) keeps
// this convention; boosting divides a distance by a weight >= 1.
package domain
