// Command graph-lint runs static analysis on graph API usage.
//
// Usage:
//
//	graph-lint ./...
//
// This tool detects common mistakes when using the graph package:
//   - Fork() called with no tasks
//   - Join()/JoinAll() called on an empty group literal
//   - Discarded Export() results
//
// For integration with golangci-lint, see pkg/graph/lint documentation.
package main

import (
	"github.com/example/taskgraph/pkg/graph/lint"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(lint.Analyzer)
}
