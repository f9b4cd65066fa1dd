package models

// State is the publication state of a content item. Posts use all three
// states; projects only ever hold StatePending or StatePublished.
type State string

const (
	StateDraft     State = "draft"
	StatePending   State = "pending"
	StatePublished State = "published"
)

// ContentType distinguishes the two moderated content kinds
type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeProject ContentType = "project"
)
