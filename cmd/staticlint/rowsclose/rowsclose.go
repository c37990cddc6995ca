// Package rowsclose содержит анализатор, требующий закрывать *sql.Rows в той же функции, где они получены.
package rowsclose

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// Analyzer сообщает о *sql.Rows, для которых в функции нет вызова Close и которые не возвращаются наружу.
var Analyzer = &analysis.Analyzer{
	Name: "rowsclose",
	Doc:  "проверяет, что *sql.Rows закрываются в функции, где получены",
	Run:  run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			switch fn := n.(type) {
			case *ast.FuncDecl:
				if fn.Body != nil {
					checkBody(pass, fn.Body)
				}
			case *ast.FuncLit:
				checkBody(pass, fn.Body)
			}
			return true
		})
	}
	return nil, nil
}

// checkBody проверяет присваивания *sql.Rows в теле одной функции
func checkBody(pass *analysis.Pass, body *ast.BlockStmt) {
	ast.Inspect(body, func(n ast.Node) bool {
		// Вложенные функции проверяются отдельно
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}
		assign, ok := n.(*ast.AssignStmt)
		if !ok || len(assign.Lhs) == 0 || len(assign.Rhs) != 1 {
			return true
		}
		call, ok := assign.Rhs[0].(*ast.CallExpr)
		if !ok || !returnsRows(pass.TypesInfo.TypeOf(call)) {
			return true
		}
		ident, ok := assign.Lhs[0].(*ast.Ident)
		if !ok || ident.Name == "_" {
			if ok {
				pass.Reportf(assign.Pos(), "результат *sql.Rows отброшен и не будет закрыт")
			}
			return true
		}
		obj := pass.TypesInfo.ObjectOf(ident)
		if obj != nil && !closedOrReturned(pass, body, obj) {
			pass.Reportf(ident.Pos(), "%s (*sql.Rows) не закрывается: добавьте defer %s.Close()", ident.Name, ident.Name)
		}
		return true
	})
}

// returnsRows определяет, что первым результатом вызова является *sql.Rows
func returnsRows(t types.Type) bool {
	if tuple, ok := t.(*types.Tuple); ok {
		if tuple.Len() == 0 {
			return false
		}
		t = tuple.At(0).Type()
	}
	ptr, ok := t.(*types.Pointer)
	if !ok {
		return false
	}
	named, ok := ptr.Elem().(*types.Named)
	if !ok {
		return false
	}
	typeName := named.Obj()
	return typeName.Pkg() != nil && typeName.Pkg().Path() == "database/sql" && typeName.Name() == "Rows"
}

// closedOrReturned ищет obj.Close() или возврат obj из функции
func closedOrReturned(pass *analysis.Pass, body *ast.BlockStmt, obj types.Object) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		if found {
			return false
		}
		switch node := n.(type) {
		case *ast.CallExpr:
			sel, ok := node.Fun.(*ast.SelectorExpr)
			if !ok || sel.Sel.Name != "Close" {
				return true
			}
			if x, ok := sel.X.(*ast.Ident); ok && pass.TypesInfo.ObjectOf(x) == obj {
				found = true
			}
		case *ast.ReturnStmt:
			for _, res := range node.Results {
				if x, ok := res.(*ast.Ident); ok && pass.TypesInfo.ObjectOf(x) == obj {
					found = true
				}
			}
		}
		return true
	})
	return found
}
