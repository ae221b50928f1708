package helpers

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// GetSectionLabel reads a human readable section name from a class page, preferring
// the first <h1> and falling back to the part of <title> before " | ".
// It returns "" when neither is present.
func GetSectionLabel(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	if label := collapse(doc.Find("h1").First().Text()); label != "" {
		return label, nil
	}
	title := collapse(doc.Find("title").First().Text())
	if i := strings.Index(title, " | "); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	return title, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
