package graph

// Fixed-arity fork and join helpers for the common small shapes. They
// return distinct handles so call sites can destructure without
// indexing into a slice:
//
//	build, vet := graph.Fork2(checkout, buildTask, vetTask)
//	release := graph.Join2(build, vet, releaseTask)
//
// These are convenience sugar over Node.Fork and Nodes.Join; wider
// shapes use the list forms directly.

// Fork2 creates two nodes dependent on n, one per task.
func Fork2[T any](n *Node[T], a, b T) (*Node[T], *Node[T]) {
	return n.Then(a), n.Then(b)
}

// Fork3 creates three nodes dependent on n, one per task.
func Fork3[T any](n *Node[T], a, b, c T) (*Node[T], *Node[T], *Node[T]) {
	return n.Then(a), n.Then(b), n.Then(c)
}

// Fork4 creates four nodes dependent on n, one per task.
func Fork4[T any](n *Node[T], a, b, c, d T) (*Node[T], *Node[T], *Node[T], *Node[T]) {
	return n.Then(a), n.Then(b), n.Then(c), n.Then(d)
}

// Join2 creates one node for task dependent on both a and b.
func Join2[T any](a, b *Node[T], task T) *Node[T] {
	return Nodes[T]{a, b}.Join(task)
}

// Join3 creates one node for task dependent on a, b, and c.
func Join3[T any](a, b, c *Node[T], task T) *Node[T] {
	return Nodes[T]{a, b, c}.Join(task)
}

// Join4 creates one node for task dependent on a, b, c, and d.
func Join4[T any](a, b, c, d *Node[T], task T) *Node[T] {
	return Nodes[T]{a, b, c, d}.Join(task)
}
