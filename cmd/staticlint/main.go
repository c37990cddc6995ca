// Package main содержит multichecker для статического анализа кода анализатора страниц.
//
// Набор подобран под то, что делает сервис: HTTP-запросы к чужим сайтам,
// работа с контекстами и таймаутами, SQL-запросы к PostgreSQL, JSON в файловом
// хранилище и gRPC.
//
// 1. Анализаторы из golang.org/x/tools/go/analysis/passes:
//   - httpresponse: использование resp до проверки ошибки HTTP-запроса
//   - lostcancel: потерянная функция отмены context.WithTimeout/WithCancel
//   - errorsas: неверный второй аргумент errors.As
//   - unmarshal: передача не указателя в json.Unmarshal и подобные
//   - structtag: некорректные теги json/db у структур
//   - timeformat: ошибки в строках формата time.Format
//   - defers: вызов time.Since и подобных прямо в аргументах defer
//   - testinggoroutine: t.Fatal из горутин в тестах
//   - tests: ошибки в сигнатурах тестов и примеров
//   - nilness, shadow, unreachable, printf, copylocks, unusedresult, nilfunc
//
// 2. Все анализаторы класса SA из staticcheck.io.
//
// 3. Выборочные анализаторы других классов staticcheck.io:
//   - ST1000: комментарий пакета
//   - ST1005: формат текста ошибок
//   - S1000: select с одной веткой
//
// 4. errcheck: необработанные ошибки, включая rows.Close и resp.Body.Close.
//
// 5. Собственные анализаторы:
//   - noexit: запрещает os.Exit и log.Fatal в функции main пакета main
//   - rowsclose: *sql.Rows без Close в функции, где они получены
//
// Использование:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/defers"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/testinggoroutine"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/timeformat"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	"github.com/kisielk/errcheck/errcheck"

	"github.com/tempizhere/pageanalyzer/cmd/staticlint/noexit"
	"github.com/tempizhere/pageanalyzer/cmd/staticlint/rowsclose"
)

// Анализаторы staticcheck вне класса SA, которые включаются по имени
var extraChecks = map[string]bool{
	"ST1000": true,
	"ST1005": true,
	"S1000":  true,
}

func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		// HTTP, контексты и сериализация
		httpresponse.Analyzer,
		lostcancel.Analyzer,
		errorsas.Analyzer,
		unmarshal.Analyzer,
		structtag.Analyzer,
		timeformat.Analyzer,
		defers.Analyzer,
		// Тесты
		testinggoroutine.Analyzer,
		tests.Analyzer,
		// Общие
		nilness.Analyzer,
		shadow.Analyzer,
		unreachable.Analyzer,
		printf.Analyzer,
		copylock.Analyzer,
		unusedresult.Analyzer,
		nilfunc.Analyzer,
	}

	for _, a := range staticcheck.Analyzers {
		list = append(list, a.Analyzer)
	}
	for _, a := range stylecheck.Analyzers {
		if extraChecks[a.Analyzer.Name] {
			list = append(list, a.Analyzer)
		}
	}
	for _, a := range simple.Analyzers {
		if extraChecks[a.Analyzer.Name] {
			list = append(list, a.Analyzer)
		}
	}

	return append(list,
		errcheck.Analyzer,
		noexit.NoExitAnalyzer,
		rowsclose.Analyzer,
	)
}

func main() {
	multichecker.Main(analyzers()...)
}
