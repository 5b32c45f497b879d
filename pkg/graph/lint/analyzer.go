// Package lint provides static analysis checks for the graph API.
//
// This analyzer detects mistakes that are visible at the call site:
//   - Fork() called with no tasks
//   - Join()/JoinAll() called on an empty group literal (panics at runtime)
//   - The result of Export() discarded (the drain is one-shot, so a
//     discarded batch is lost work)
//
// Usage:
//
//	go install github.com/example/taskgraph/cmd/graph-lint@latest
//	graph-lint ./...
package lint

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer is the graph lint analyzer.
var Analyzer = &analysis.Analyzer{
	Name:     "graphlint",
	Doc:      "checks for common graph API mistakes",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.ExprStmt)(nil),
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.ExprStmt:
			checkDiscardedExport(pass, node)
		case *ast.CallExpr:
			checkCall(pass, node)
		}
	})

	return nil, nil
}

// checkCall flags Fork with no tasks and Join/JoinAll on empty group
// literals. Matching is syntactic, by method name, like the rest of
// this analyzer.
func checkCall(pass *analysis.Pass, call *ast.CallExpr) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return
	}

	switch sel.Sel.Name {
	case "Fork":
		if len(call.Args) == 0 {
			pass.Reportf(call.Pos(), "Fork called with no tasks")
		}
	case "Join", "JoinAll":
		if lit := emptyGroupLiteral(sel.X); lit != nil {
			pass.Reportf(call.Pos(), "%s called on empty group literal", sel.Sel.Name)
		}
	}
}

// emptyGroupLiteral returns the receiver as a composite literal if it
// is one with zero elements.
func emptyGroupLiteral(expr ast.Expr) *ast.CompositeLit {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok || len(lit.Elts) > 0 {
		return nil
	}
	return lit
}

// checkDiscardedExport flags an Export() call used as a bare statement.
func checkDiscardedExport(pass *analysis.Pass, stmt *ast.ExprStmt) {
	call, ok := stmt.X.(*ast.CallExpr)
	if !ok {
		return
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Export" {
		return
	}
	pass.Reportf(call.Pos(), "result of Export discarded")
}
