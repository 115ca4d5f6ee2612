package markdown

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// Preview is the local rendering of a document: its normalised frontmatter as
// YAML and its body as HTML.
type Preview struct {
	Name        string
	FrontMatter []byte
	HTML        []byte
}

// RenderPreview renders doc with r. A nil r uses NewRenderer defaults.
func RenderPreview(doc *interfaces.Document, r *Renderer) (*Preview, error) {
	if doc == nil {
		return nil, fmt.Errorf("markdown preview: nil document")
	}
	if r == nil {
		r = NewRenderer()
	}

	meta, err := yaml.Marshal(doc.FrontMatter)
	if err != nil {
		return nil, fmt.Errorf("markdown preview %s: encode frontmatter: %w", doc.Name, err)
	}

	html, err := r.Render(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("markdown preview %s: %w", doc.Name, err)
	}

	return &Preview{
		Name:        doc.Name,
		FrontMatter: meta,
		HTML:        html,
	}, nil
}
