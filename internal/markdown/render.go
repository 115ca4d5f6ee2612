package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns article bodies into HTML close to what the dev.to editor
// shows: GitHub flavoured markdown plus footnotes, with raw HTML passed through.
// A Renderer is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

type renderConfig struct {
	hardWraps bool
	rawHTML   bool
}

// RenderOption adjusts a Renderer.
type RenderOption func(*renderConfig)

// WithHardWraps renders single newlines as <br>.
func WithHardWraps() RenderOption {
	return func(c *renderConfig) { c.hardWraps = true }
}

// WithoutRawHTML drops inline and block HTML from the output.
func WithoutRawHTML() RenderOption {
	return func(c *renderConfig) { c.rawHTML = false }
}

func NewRenderer(opts ...RenderOption) *Renderer {
	cfg := renderConfig{rawHTML: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var htmlOpts []renderer.Option
	if cfg.hardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	if cfg.rawHTML {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}

	return &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(htmlOpts...),
		),
	}
}

// Render converts body to HTML.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := r.engine.Convert(body, &out); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return out.Bytes(), nil
}
