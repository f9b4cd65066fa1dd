// Package workflow holds the publication state machine and the permission
// evaluator for moderated content. All functions are pure decisions over
// in-memory models; persistence of a transition is the caller's job and must
// happen as a single atomic write.
package workflow

import (
	"time"

	"github.com/blog-showcase-api/internal/models"
)

// Capability names for explicit publish grants
const (
	CapabilityPublishPost    = "can_publish_post"
	CapabilityPublishProject = "can_publish_project"
)

// Outcome reports what a transition did. Benign no-ops are outcomes rather
// than errors so callers can message the user accurately.
type Outcome int

const (
	// OutcomeSubmitted means the item entered pending and awaits approval
	OutcomeSubmitted Outcome = iota
	// OutcomePublished means the item was published directly on submit
	OutcomePublished
	// OutcomeApproved means a pending item transitioned to published
	OutcomeApproved
	// OutcomeAlreadyPublished means approve was a no-op on a published item
	OutcomeAlreadyPublished
	// OutcomeStillDraft means approve was called on a draft; no transition
	OutcomeStillDraft
	// OutcomeEdited means an edit that changed neither state nor version
	OutcomeEdited
	// OutcomeVersioned means an edit of a published item bumped the version
	OutcomeVersioned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSubmitted:
		return "submitted"
	case OutcomePublished:
		return "published"
	case OutcomeApproved:
		return "approved"
	case OutcomeAlreadyPublished:
		return "already_published"
	case OutcomeStillDraft:
		return "still_draft"
	case OutcomeEdited:
		return "edited"
	case OutcomeVersioned:
		return "versioned"
	}
	return "unknown"
}

// Mutated reports whether the outcome changed any workflow-owned field
func (o Outcome) Mutated() bool {
	switch o {
	case OutcomeAlreadyPublished, OutcomeStillDraft, OutcomeEdited:
		return false
	}
	return true
}

// CanPublish decides whether the user may publish content of the given type
// without moderation: staff, superuser, or an explicit capability grant.
// A nil user can never publish.
func CanPublish(u *models.User, ct models.ContentType) bool {
	if u == nil {
		return false
	}
	if u.IsStaff || u.IsSuperuser {
		return true
	}
	switch ct {
	case models.ContentTypePost:
		return u.HasCapability(CapabilityPublishPost)
	case models.ContentTypeProject:
		return u.HasCapability(CapabilityPublishProject)
	}
	return false
}

// CanModerate decides whether the user may approve pending content and see
// the moderation queue.
func CanModerate(u *models.User) bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}

// CanView applies the visibility rule: published content is public, anything
// else is visible only to its owner or a moderator. Callers must surface a
// denial as not-found, never as forbidden.
func CanView(u *models.User, ownerID string, status models.State) bool {
	if status == models.StatePublished {
		return true
	}
	if u == nil {
		return false
	}
	return u.ID == ownerID || CanModerate(u)
}

// SubmitPost applies the submission transition: a capable submitter publishes
// immediately, anyone else lands in pending.
func SubmitPost(p *models.Post, u *models.User, now time.Time) Outcome {
	if CanPublish(u, models.ContentTypePost) {
		p.Status = models.StatePublished
		p.PublishedAt = &now
		return OutcomePublished
	}
	p.Status = models.StatePending
	p.PublishedAt = nil
	return OutcomeSubmitted
}

// ApprovePost publishes a pending post. Approving a published post is a safe
// no-op that preserves the original timestamp; approving a draft performs no
// transition at all.
func ApprovePost(p *models.Post, now time.Time) Outcome {
	switch p.Status {
	case models.StatePublished:
		return OutcomeAlreadyPublished
	case models.StateDraft:
		return OutcomeStillDraft
	}
	p.Status = models.StatePublished
	p.PublishedAt = &now
	return OutcomeApproved
}

// EditPost applies the edit transition. Edits to published content stay
// published and bump the version; edits to draft or pending content change
// neither state nor version.
func EditPost(p *models.Post) Outcome {
	if p.Status == models.StatePublished {
		p.Version++
		return OutcomeVersioned
	}
	return OutcomeEdited
}

// SubmitProject applies the two-state submission variant
func SubmitProject(pr *models.Project, u *models.User, now time.Time) Outcome {
	if CanPublish(u, models.ContentTypeProject) {
		pr.Status = models.StatePublished
		pr.PublishedAt = &now
		return OutcomePublished
	}
	pr.Status = models.StatePending
	pr.PublishedAt = nil
	return OutcomeSubmitted
}

// ApproveProject approves a pending project. There is no reverse transition.
func ApproveProject(pr *models.Project, now time.Time) Outcome {
	if pr.Status == models.StatePublished {
		return OutcomeAlreadyPublished
	}
	pr.Status = models.StatePublished
	pr.PublishedAt = &now
	return OutcomeApproved
}
