package graph

// Node is a lightweight handle to one entry in a Graph. Handles are
// cheap to copy and share; any number may alias one logical node, and
// dropping a handle never changes the graph.
type Node[T any] struct {
	id    NodeID
	graph *Graph[T]
}

// ID returns the node's label within its graph.
func (n *Node[T]) ID() NodeID { return n.id }

// Graph returns the owning graph. All handles to nodes of one graph
// return the same logical graph, however the node itself was reached.
func (n *Node[T]) Graph() *Graph[T] { return n.graph }

// Then creates a new node for task and makes it run after n. This is
// the sole sequential-chaining primitive; Fork and Join are built on
// top of it. Calling Then repeatedly on the same node fans out, with no
// ordering among the results.
func (n *Node[T]) Then(task T) *Node[T] {
	next := n.graph.createNode(task)
	n.graph.addDependency(n.id, next.id)
	return next
}

// Fork creates one node per task, each dependent solely on n. Siblings
// carry no dependency on each other. Equivalent to calling Then once
// per task.
func (n *Node[T]) Fork(tasks ...T) Nodes[T] {
	out := make(Nodes[T], len(tasks))
	for i, task := range tasks {
		out[i] = n.Then(task)
	}
	return out
}
