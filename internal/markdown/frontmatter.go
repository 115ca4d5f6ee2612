package markdown

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// Extract splits raw into its frontmatter block and markdown body and validates
// the metadata. name identifies the document in returned errors. YAML (---),
// TOML (+++) and JSON (;;;) blocks are accepted.
func Extract(name string, raw []byte) (interfaces.FrontMatter, []byte, error) {
	var meta map[string]any

	body, err := frontmatter.MustParse(bytes.NewReader(raw), &meta)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return interfaces.FrontMatter{}, nil, documentError(ErrMissingFrontmatter, name, nil)
		}
		return interfaces.FrontMatter{}, nil, documentError(ErrMalformedFrontmatter, name, err)
	}

	fm, err := frontMatterFromMap(name, meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, err
	}
	return fm, body, nil
}

// BuildDocument parses raw and returns a Document whose checksum covers the
// whole file, frontmatter included.
func BuildDocument(path string, raw []byte) (*interfaces.Document, error) {
	name := documentName(path)

	fm, body, err := Extract(name, raw)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		Name:        name,
		Path:        path,
		Raw:         raw,
		FrontMatter: fm,
		Body:        body,
		Checksum:    Digest(raw),
	}, nil
}

func frontMatterFromMap(name string, meta map[string]any) (interfaces.FrontMatter, error) {
	title, ok := meta["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return interfaces.FrontMatter{}, documentError(ErrMissingTitle, name, nil)
	}

	fm := interfaces.FrontMatter{
		Title:        title,
		Tags:         optionalString(meta, "tags"),
		Series:       optionalString(meta, "series"),
		CanonicalURL: optionalString(meta, "canonical_url"),
		CoverImage:   optionalString(meta, "cover_image"),
	}

	if published, ok := meta["published"].(bool); ok {
		fm.Published = &published
	}

	if value, present := meta["date"]; present {
		date, err := validateDate(value)
		if err != nil {
			return interfaces.FrontMatter{}, documentError(ErrInvalidDate, name, err)
		}
		fm.Date = &date
	}

	return fm, nil
}

var dateRules = []validation.Rule{
	validation.Required,
	validation.Date(time.RFC3339).Error("must be an RFC 3339 timestamp"),
}

// validateDate accepts RFC 3339 strings and native timestamps produced by the
// TOML decoder. Anything else is rejected.
func validateDate(value any) (string, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case string:
		if err := validation.Validate(v, dateRules...); err != nil {
			return "", err
		}
		return v, nil
	default:
		return "", validation.NewError("validation_date_type", "must be a string timestamp")
	}
}

// optionalString treats non-string values as absent.
func optionalString(meta map[string]any, key string) *string {
	value, ok := meta[key].(string)
	if !ok {
		return nil
	}
	return &value
}

func documentName(path string) string {
	clean := strings.ReplaceAll(path, "\\", "/")
	if idx := strings.LastIndex(clean, "/"); idx >= 0 {
		return clean[idx+1:]
	}
	return clean
}
