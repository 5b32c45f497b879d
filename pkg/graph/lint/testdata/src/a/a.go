// Package a is a test package for the graph linter.
package a

import "graph"

// Test cases

func emptyFork() {
	g := graph.New()
	g.Root("a").Fork() // want "Fork called with no tasks"
}

func emptyJoin() {
	graph.Nodes{}.Join("x") // want "Join called on empty group literal"
}

func emptyJoinAll() {
	graph.Nodes{}.JoinAll("x", "y") // want "JoinAll called on empty group literal"
}

func discardedExport() {
	g := graph.New()
	g.Root("a")
	g.Export() // want "result of Export discarded"
}

// Valid cases - should NOT produce warnings

func validFork() {
	g := graph.New()
	g.Root("a").Fork("b", "c")
}

func validJoin() {
	g := graph.New()
	nodes := g.Root("a").Fork("b", "c")
	nodes.Join("d")
}

func validGroupLiteral() {
	g := graph.New()
	a := g.Root("a")
	b := g.Root("b")
	graph.Nodes{a, b}.Join("c")
}

func validExport() {
	g := graph.New()
	g.Root("a")
	batch := g.Export()
	_ = batch
}
