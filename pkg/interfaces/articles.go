package interfaces

import "context"

// Document is a local markdown file read once per sync iteration. Raw holds the
// full file content (frontmatter included) and is what gets uploaded.
type Document struct {
	// Name is the display identifier, the file base name.
	Name string
	// Path is the location of the file relative to the source root.
	Path        string
	Raw         []byte
	FrontMatter FrontMatter
	Body        []byte
	// Checksum is the digest of Raw.
	Checksum []byte
}

// FrontMatter is the metadata block accepted by the dev.to editor. Only Title is
// required; optional fields stay nil when absent from the source file.
type FrontMatter struct {
	Title        string  `yaml:"title" json:"title"`
	Published    *bool   `yaml:"published,omitempty" json:"published,omitempty"`
	Tags         *string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Date         *string `yaml:"date,omitempty" json:"date,omitempty"`
	Series       *string `yaml:"series,omitempty" json:"series,omitempty"`
	CanonicalURL *string `yaml:"canonical_url,omitempty" json:"canonical_url,omitempty"`
	CoverImage   *string `yaml:"cover_image,omitempty" json:"cover_image,omitempty"`
}

// PublishStatus reports Published only when the published flag is present and true.
func (f FrontMatter) PublishStatus() PublishStatus {
	if f.Published != nil && *f.Published {
		return PublishStatusPublished
	}
	return PublishStatusDraft
}

// RemoteArticle is the subset of the Forem article representation returned by
// the "my articles" endpoint. Only ID, Title and BodyMarkdown drive decisions.
type RemoteArticle struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	CoverImage         *string  `json:"cover_image"`
	Published          bool     `json:"published"`
	PublishedAt        *string  `json:"published_at"`
	TagList            []string `json:"tag_list"`
	Slug               string   `json:"slug"`
	Path               string   `json:"path"`
	URL                string   `json:"url"`
	CanonicalURL       string   `json:"canonical_url"`
	PublishedTimestamp string   `json:"published_timestamp"`
	BodyMarkdown       string   `json:"body_markdown"`
}

// RemoteIndex is the snapshot of the account's articles fetched once per run.
type RemoteIndex []RemoteArticle

// FindByTitle returns the first article whose title equals title exactly.
func (idx RemoteIndex) FindByTitle(title string) (*RemoteArticle, bool) {
	for i := range idx {
		if idx[i].Title == title {
			return &idx[i], true
		}
	}
	return nil, false
}

// Action enumerates what a sync pass does for a single document.
type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionNoOp
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionNoOp:
		return "noop"
	default:
		return "unknown"
	}
}

// Decision is the planner output for one document. RemoteID is only set for
// ActionUpdate.
type Decision struct {
	Action   Action
	RemoteID int
}

// UploadStatus returns the display state derived from the decision.
func (d Decision) UploadStatus() UploadStatus {
	switch d.Action {
	case ActionCreate:
		return UploadStatusPosting
	case ActionUpdate:
		return UploadStatusSyncing
	default:
		return UploadStatusUploaded
	}
}

// UploadStatus is the presentational state shown next to each document.
type UploadStatus int

const (
	UploadStatusPosting UploadStatus = iota
	UploadStatusSyncing
	UploadStatusUploaded
)

func (s UploadStatus) String() string {
	switch s {
	case UploadStatusPosting:
		return "POSTING"
	case UploadStatusSyncing:
		return "SYNCING"
	default:
		return "UPLOADED"
	}
}

// PublishStatus is the presentational publish state of a document.
type PublishStatus int

const (
	PublishStatusDraft PublishStatus = iota
	PublishStatusPublished
)

func (s PublishStatus) String() string {
	if s == PublishStatusPublished {
		return "published"
	}
	return "draft"
}

// UploadResult records the outcome of one create or update call. Err is set
// when the remote rejected the article or every attempt failed; it is never
// fatal for the run.
type UploadResult struct {
	Action     Action
	RemoteID   int
	StatusCode int
	Body       string
	Attempts   int
	Err        error
}

// Succeeded reports whether the remote acknowledged the upload.
func (r UploadResult) Succeeded() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// FileResult ties a processed document to its decision and upload outcome.
type FileResult struct {
	Path     string
	Title    string
	Decision Decision
	Upload   *UploadResult
}

// SyncResult summarises a whole sync pass.
type SyncResult struct {
	RunID   string
	DryRun  bool
	Created int
	Updated int
	Skipped int
	Failed  int
	Files   []FileResult
}

// ArticleIndex fetches the remote article snapshot.
type ArticleIndex interface {
	ListArticles(ctx context.Context, apiKey string) (RemoteIndex, error)
}

// ArticleUploader applies create and update decisions against the remote service.
type ArticleUploader interface {
	Create(ctx context.Context, apiKey string, body string) UploadResult
	Update(ctx context.Context, id int, apiKey string, body string) UploadResult
}
