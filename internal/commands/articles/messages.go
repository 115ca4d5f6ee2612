package articlescmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-devsync/pkg/interfaces"
)

const (
	createArticleMessageType = "devsync.articles.create"
	updateArticleMessageType = "devsync.articles.update"
)

// CreateArticleCommand publishes Body as a new remote article.
type CreateArticleCommand struct {
	APIKey string `json:"-"`
	// Body is the full markdown file, frontmatter included.
	Body string `json:"body_markdown"`
	// Result collects the outcome across dispatcher retries. Optional.
	Result *interfaces.UploadResult `json:"-"`
}

// Type implements command.Message.
func (CreateArticleCommand) Type() string { return createArticleMessageType }

// Validate ensures the credential and body are present.
func (cmd CreateArticleCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.APIKey, validation.Required, validation.By(notBlank("devsync.articles.api_key_required", "api key is required"))),
		validation.Field(&cmd.Body, validation.Required),
	)
}

// UpdateArticleCommand replaces the markdown of remote article ID.
type UpdateArticleCommand struct {
	ID     int                      `json:"id"`
	APIKey string                   `json:"-"`
	Body   string                   `json:"body_markdown"`
	Result *interfaces.UploadResult `json:"-"`
}

// Type implements command.Message.
func (UpdateArticleCommand) Type() string { return updateArticleMessageType }

// Validate ensures the target id, credential and body are present.
func (cmd UpdateArticleCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ID, validation.Required, validation.Min(1)),
		validation.Field(&cmd.APIKey, validation.Required, validation.By(notBlank("devsync.articles.api_key_required", "api key is required"))),
		validation.Field(&cmd.Body, validation.Required),
	)
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
