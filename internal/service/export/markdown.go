package export

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
)

// MarkdownConverter turns a post-processed fragment into a markdown document.
type MarkdownConverter struct {
	converter *md.Converter
	packager  *Packager
}

// NewMarkdownConverter creates a converter with GitHub-style tables; the
// packager only supplies the footer clock.
func NewMarkdownConverter(packager *Packager) *MarkdownConverter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.Table())
	return &MarkdownConverter{converter: converter, packager: packager}
}

// Convert renders page as markdown: title, description, body, footer.
func (c *MarkdownConverter) Convert(page Page) (string, error) {
	body, err := c.converter.ConvertString(page.Body)
	if err != nil {
		return "", fmt.Errorf("failed to convert export to markdown: %w", err)
	}

	var b strings.Builder
	if page.Title != "" {
		b.WriteString("# " + page.Title + "\n\n")
	}
	if page.Description != "" {
		b.WriteString(page.Description + "\n\n")
	}
	b.WriteString(strings.TrimSpace(body))
	fmt.Fprintf(&b, "\n\n---\n\nGenerated on %s · Version %s\n", c.packager.now().Format("2006-01-02 15:04"), page.Version)
	return b.String(), nil
}
