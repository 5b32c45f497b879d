package graph

import "errors"

var (
	// ErrCapacityExceeded is the cause of the panic raised when a graph
	// would exceed MaxNodes entries.
	ErrCapacityExceeded = errors.New("graph capacity exceeded")

	// ErrUnknownNode is the cause of the panic raised when a dependency
	// targets a node missing from the table. Unreachable through the
	// public API; kept as a corruption guard.
	ErrUnknownNode = errors.New("unknown node")

	// ErrEmptyJoin is the cause of the panic raised when Join is called
	// on a group of zero nodes.
	ErrEmptyJoin = errors.New("join of empty group")

	// ErrCrossGraph is the cause of the panic raised when one operation
	// mixes nodes from two different graphs.
	ErrCrossGraph = errors.New("nodes belong to different graphs")
)
