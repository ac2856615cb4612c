package app

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Page - текст одной страницы PDF, Number с единицы
type Page struct {
	Number int
	Text   string
}

// extractPages достаёт текст постранично. Пустые страницы пропускаются.
func extractPages(path string) (pages []Page, err error) {
	// ledongthuc/pdf паникует на части битых файлов
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		if text == "" {
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}

	return pages, nil
}
