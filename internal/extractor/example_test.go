package extractor_test

import (
	"fmt"

	"github.com/tempizhere/pageanalyzer/internal/extractor"
)

// ExampleExtract демонстрирует извлечение метаданных страницы
func ExampleExtract() {
	body := []byte(`<html><head><title>Example Domain</title></head><body><h1>Example</h1></body></html>`)

	meta := extractor.Extract(body)
	fmt.Println("title:", *meta.Title)
	fmt.Println("h1:", *meta.H1)
	fmt.Println("description найден:", meta.Description != nil)

	// Output:
	// title: Example Domain
	// h1: Example
	// description найден: false
}
