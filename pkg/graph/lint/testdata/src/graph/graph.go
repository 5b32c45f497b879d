// Package graph is a stub for testing the graph linter.
// This package provides minimal type stubs so the linter can analyze
// code that uses the real graph package.
package graph

// Graph is a stub dependency graph.
type Graph struct{}

// Node is a stub node handle.
type Node struct{}

// Nodes is a stub group of node handles.
type Nodes []*Node

// New creates a stub graph.
func New() *Graph { return &Graph{} }

// Root creates a stub root node.
func (g *Graph) Root(task any) *Node { return &Node{} }

// Export drains the stub graph.
func (g *Graph) Export() []any { return nil }

// Then chains a stub node.
func (n *Node) Then(task any) *Node { return &Node{} }

// Fork fans out from a stub node.
func (n *Node) Fork(tasks ...any) Nodes { return nil }

// Join fans into one stub node.
func (ns Nodes) Join(task any) *Node { return &Node{} }

// JoinAll joins every task against the stub group.
func (ns Nodes) JoinAll(tasks ...any) Nodes { return nil }
