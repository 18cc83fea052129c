// Package hnsw implements an embedded hierarchical navigable small world
// index for approximate nearest-neighbour search over unit vectors.
//
// Vectors must be L2-normalised on insert (deviation beyond a small
// tolerance is rejected), so cosine similarity reduces to a dot product and
// the reported score is the cosine distance 1 - dot: lower is better. This
// sign convention is shared with the re-ranker and the confidence
// derivation; do not invert it at any boundary.
//
// The index persists itself as a directory holding the serialised graph
// plus a self-describing JSON descriptor, and validates the descriptor's
// dimensionality against the active embedding configuration on load.
//
// Concurrency: searches run concurrently under a read lock against a stable
// graph; Build and Add take the write lock, so readers never observe a
// partial update.
package hnsw
