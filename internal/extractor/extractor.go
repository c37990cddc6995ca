// Package extractor извлекает метаданные страницы из HTML.
package extractor

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Metadata содержит найденные на странице title, первый h1 и meta description.
// Отсутствующее значение равно nil.
type Metadata struct {
	H1          *string
	Title       *string
	Description *string
}

// Extract разбирает тело ответа. Пустой или некорректный HTML не считается ошибкой.
func Extract(body []byte) Metadata {
	if len(bytes.TrimSpace(body)) == 0 {
		return Metadata{}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Metadata{}
	}

	meta := Metadata{
		H1:    textOf(doc.Find("h1").First()),
		Title: textOf(doc.Find("title").First()),
	}
	if content, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
		meta.Description = nonEmpty(content)
	}
	return meta
}

func textOf(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	return nonEmpty(sel.Text())
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
