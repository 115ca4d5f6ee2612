// Package markdown reads local markdown documents for synchronisation. It
// extracts and validates the frontmatter block, computes content digests,
// discovers candidate files beneath a source directory and renders bodies to
// HTML for previews.
package markdown
