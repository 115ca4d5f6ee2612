package push

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// DefaultTitleWidth is the column width reserved for the title and its fill.
const DefaultTitleWidth = 50

// PrinterOption customises a StatusPrinter.
type PrinterOption func(*StatusPrinter)

// WithNoColor forces plain output regardless of the writer.
func WithNoColor(disabled bool) PrinterOption {
	return func(p *StatusPrinter) {
		p.noColor = disabled
	}
}

// WithTitleWidth overrides DefaultTitleWidth. Non-positive values are ignored.
func WithTitleWidth(width int) PrinterOption {
	return func(p *StatusPrinter) {
		if width > 0 {
			p.width = width
		}
	}
}

// StatusPrinter renders the per-document status lines and the run summary.
type StatusPrinter struct {
	out     io.Writer
	width   int
	noColor bool

	title    lipgloss.Style
	fill     lipgloss.Style
	bracket  lipgloss.Style
	pending  lipgloss.Style
	uploaded lipgloss.Style
	faint    lipgloss.Style
	failure  lipgloss.Style
}

// NewStatusPrinter writes to out, or stdout when out is nil. Colour follows
// the terminal profile of out.
func NewStatusPrinter(out io.Writer, opts ...PrinterOption) *StatusPrinter {
	if out == nil {
		out = os.Stdout
	}
	p := &StatusPrinter{out: out, width: DefaultTitleWidth}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	renderer := lipgloss.NewRenderer(out)
	if p.noColor {
		renderer.SetColorProfile(termenv.Ascii)
	}

	p.title = renderer.NewStyle().Bold(true)
	p.fill = renderer.NewStyle().Faint(true)
	p.bracket = renderer.NewStyle().Bold(true)
	p.pending = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	p.uploaded = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	p.faint = renderer.NewStyle().Faint(true)
	p.failure = renderer.NewStyle().Foreground(lipgloss.Color("1"))
	return p
}

// StatusLine formats the line shown for one document.
func (p *StatusPrinter) StatusLine(title string, status interfaces.UploadStatus, publish interfaces.PublishStatus) string {
	shown := truncate(title, p.width)
	padding := max(p.width-utf8.RuneCountInString(shown), 0)

	statusStyle := p.pending
	if status == interfaces.UploadStatusUploaded {
		statusStyle = p.uploaded
	}

	var b strings.Builder
	b.WriteString(p.title.Render(shown))
	if padding > 0 {
		b.WriteString(p.fill.Render(strings.Repeat(".", padding)))
	}
	b.WriteString(p.bracket.Render("["))
	b.WriteString(statusStyle.Render(status.String()))
	b.WriteString(" ")
	b.WriteString(p.faint.Render(publish.String()))
	b.WriteString(p.bracket.Render("]"))
	return b.String()
}

// Document prints the status line for a classified document.
func (p *StatusPrinter) Document(doc *interfaces.Document, decision interfaces.Decision) {
	fmt.Fprintln(p.out, p.StatusLine(doc.FrontMatter.Title, decision.UploadStatus(), doc.FrontMatter.PublishStatus()))
}

// Upload prints the confirmation for a finished create or update.
func (p *StatusPrinter) Upload(result interfaces.UploadResult) {
	fmt.Fprintln(p.out, p.UploadLine(result))
}

// UploadLine formats the outcome of one upload.
func (p *StatusPrinter) UploadLine(result interfaces.UploadResult) string {
	switch {
	case result.Succeeded() && result.Action == interfaces.ActionUpdate:
		return "Update was successful"
	case result.Succeeded():
		return "Post was successful"
	case result.StatusCode > 0:
		return p.failure.Render(fmt.Sprintf("Dev.to error %d %s", result.StatusCode, strings.TrimSpace(result.Body)))
	case result.Err != nil:
		return p.failure.Render(fmt.Sprintf("Upload failed after %d attempts: %s", result.Attempts, lastLine(result.Err.Error())))
	default:
		return p.failure.Render("Upload failed")
	}
}

// Summary prints the totals of a run followed by one line per failed file.
func (p *StatusPrinter) Summary(result *interfaces.SyncResult) {
	if result == nil {
		return
	}
	fmt.Fprintln(p.out, p.SummaryLine(result))
	for _, file := range result.Files {
		if file.Upload == nil || file.Upload.Err == nil {
			continue
		}
		fmt.Fprintln(p.out, p.failure.Render(fmt.Sprintf("  failed: %s (%s)", file.Path, failureReason(*file.Upload))))
	}
}

// SummaryLine formats the run totals.
func (p *StatusPrinter) SummaryLine(result *interfaces.SyncResult) string {
	line := fmt.Sprintf("%d created, %d updated, %d unchanged, %d failed",
		result.Created, result.Updated, result.Skipped, result.Failed)
	if result.DryRun {
		line += p.faint.Render(" (dry run)")
	}
	return line
}

func failureReason(result interfaces.UploadResult) string {
	if result.StatusCode > 0 {
		return fmt.Sprintf("status %d", result.StatusCode)
	}
	return fmt.Sprintf("%d attempts", result.Attempts)
}

// lastLine keeps the innermost cause of a joined error.
func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width])
}
