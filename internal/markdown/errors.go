package markdown

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrMissingFrontmatter indicates the document has no delimited metadata block.
	ErrMissingFrontmatter = errors.New("markdown: frontmatter not found")
	// ErrMalformedFrontmatter indicates the metadata block is not a key/value mapping.
	ErrMalformedFrontmatter = errors.New("markdown: frontmatter malformed")
	// ErrMissingTitle indicates the title key is absent, blank or not a string.
	ErrMissingTitle = errors.New("markdown: frontmatter title missing")
	// ErrInvalidDate indicates the date key is not an RFC 3339 timestamp.
	ErrInvalidDate = errors.New("markdown: frontmatter date invalid")
)

const (
	textCodeMissingFrontmatter   = "FRONTMATTER_MISSING"
	textCodeMalformedFrontmatter = "FRONTMATTER_MALFORMED"
	textCodeMissingTitle         = "FRONTMATTER_TITLE_MISSING"
	textCodeInvalidDate          = "FRONTMATTER_DATE_INVALID"
)

var textCodes = map[error]string{
	ErrMissingFrontmatter:   textCodeMissingFrontmatter,
	ErrMalformedFrontmatter: textCodeMalformedFrontmatter,
	ErrMissingTitle:         textCodeMissingTitle,
	ErrInvalidDate:          textCodeInvalidDate,
}

func documentError(sentinel error, name string, cause error) error {
	meta := map[string]any{"file": name}
	if cause != nil {
		meta["cause"] = cause.Error()
	}
	return goerrors.Wrap(sentinel, goerrors.CategoryValidation, "invalid document "+name).
		WithTextCode(textCodes[sentinel]).
		WithMetadata(meta)
}
