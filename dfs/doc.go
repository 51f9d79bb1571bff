// Package dfs provides depth-first algorithms over small directed graphs:
// topological ordering and cycle detection.
//
// The algorithms run against the minimal Digraph interface instead of a
// concrete graph type, so the dependency network in package core can validate
// a tentative edge set without exposing its internals. Adjacency is a
// ready-made Digraph for callers that only need an edge list.
//
// Determinism:
//
//	Vertices are visited in the order returned by Vertices() and successors
//	in the order returned by Successors(); identical inputs always produce
//	identical orders and identical reported cycles.
//
// Complexity:
//
//	TopologicalSort, FindCycle: O(V + E) time, O(V) memory.
package dfs
