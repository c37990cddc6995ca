// Package noexit содержит анализатор, запрещающий прямые вызовы os.Exit и log.Fatal в функции main пакета main.
package noexit

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// NoExitAnalyzer проверяет отсутствие прямых вызовов os.Exit и log.Fatal* в функции main пакета main.
// Такие вызовы обходят отложенные функции и корректное завершение сервера.
var NoExitAnalyzer = &analysis.Analyzer{
	Name: "noexit",
	Doc:  "запрещает прямые вызовы os.Exit и log.Fatal в функции main пакета main",
	Run:  run,
}

// forbidden возвращает true для функций, завершающих процесс
func forbidden(pkgPath, name string) bool {
	switch pkgPath {
	case "os":
		return name == "Exit"
	case "log":
		return strings.HasPrefix(name, "Fatal")
	}
	return false
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		// Пропускаем сгенерированный код, например main для go test
		if ast.IsGenerated(file) {
			continue
		}

		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok || funcDecl.Recv != nil || funcDecl.Name.Name != "main" || funcDecl.Body == nil {
				continue
			}

			ast.Inspect(funcDecl.Body, func(n ast.Node) bool {
				callExpr, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				selExpr, ok := callExpr.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}
				ident, ok := selExpr.X.(*ast.Ident)
				if !ok {
					return true
				}
				pkg, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
				if !ok {
					return true
				}
				if forbidden(pkg.Imported().Path(), selExpr.Sel.Name) {
					pass.Reportf(callExpr.Pos(), "прямой вызов %s.%s в функции main запрещен", pkg.Imported().Path(), selExpr.Sel.Name)
				}
				return true
			})
		}
	}

	return nil, nil
}
