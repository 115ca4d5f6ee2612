// Package planner classifies local documents against the remote article index.
package planner

import (
	"github.com/goliatone/go-devsync/internal/logging"
	"github.com/goliatone/go-devsync/internal/markdown"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// Classify decides what to do with doc. The first remote article whose title
// equals the document title exactly is the counterpart; without one the
// document is created. Otherwise the digest of the full local file is compared
// with the digest of the remote body and a difference schedules an update.
//
// The local side includes the frontmatter block while the remote side does
// not, so a frontmatter-only edit is always reported as a change.
func Classify(doc *interfaces.Document, index interfaces.RemoteIndex) interfaces.Decision {
	remote, ok := index.FindByTitle(doc.FrontMatter.Title)
	if !ok {
		return interfaces.Decision{Action: interfaces.ActionCreate}
	}

	local := doc.Checksum
	if len(local) == 0 {
		local = markdown.Digest(doc.Raw)
	}
	if string(local) != string(markdown.Digest([]byte(remote.BodyMarkdown))) {
		return interfaces.Decision{Action: interfaces.ActionUpdate, RemoteID: remote.ID}
	}
	return interfaces.Decision{Action: interfaces.ActionNoOp}
}

// Planner wraps Classify with debug tracing.
type Planner struct {
	logger interfaces.Logger
}

func New(logger interfaces.Logger) *Planner {
	return &Planner{logger: logging.Ensure(logger)}
}

func (p *Planner) Classify(doc *interfaces.Document, index interfaces.RemoteIndex) interfaces.Decision {
	decision := Classify(doc, index)
	logging.WithDocumentContext(p.logger, doc.Path, doc.FrontMatter.Title, decision.Action.String()).
		Debug("planner.document.classified", "remote_id", decision.RemoteID)
	return decision
}
