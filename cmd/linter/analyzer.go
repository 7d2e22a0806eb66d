// Implements a static analysis tool that checks for:
// 1. Usage of the built-in panic() function anywhere in the code
// 2. Usage of log.Fatal()/log.Fatalf()/log.Fatalln() or os.Exit() outside of the main function in the main package
package main

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports panics and process-terminating calls that bypass the
// normal error path.
var Analyzer = &analysis.Analyzer{
	Name: "panicexit",
	Doc:  "reports usage of panic and log.Fatal/os.Exit outside of main function in main package",
	Run:  run,
	Requires: []*analysis.Analyzer{
		inspect.Analyzer,
	},
}

func run(pass *analysis.Pass) (any, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.WithStack(nodeFilter, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return false
		}
		call := n.(*ast.CallExpr)

		if ident, ok := call.Fun.(*ast.Ident); ok && ident.Name == "panic" {
			pass.Reportf(call.Pos(), "found usage of panic")
			return true
		}

		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		pkgIdent, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		name := pkgIdent.Name + "." + sel.Sel.Name
		switch name {
		case "log.Fatal", "log.Fatalf", "log.Fatalln", "os.Exit":
		default:
			return true
		}
		if !insideMain(pass, stack) {
			pass.Reportf(call.Pos(), "found usage of %s outside of main function", name)
		}
		return true
	})

	return nil, nil
}

// insideMain reports whether the innermost enclosing function declaration on
// the stack is func main in package main.
func insideMain(pass *analysis.Pass, stack []ast.Node) bool {
	if pass.Pkg.Name() != "main" {
		return false
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if decl, ok := stack[i].(*ast.FuncDecl); ok {
			return decl.Name.Name == "main"
		}
	}
	return false
}
