package publish

import (
	"context"
	"time"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

// Request describes one post to create.
type Request struct {
	Title             string
	HTML              string
	MetaDescription   string
	FeaturedImageData string // optional base64 data URI
	Tags              []string
	Categories        []string

	// PublishNow makes the post live immediately. ScheduleAt, when set,
	// wins over PublishNow and creates a future-dated post. With neither,
	// the post is saved as a draft.
	PublishNow bool
	ScheduleAt *time.Time
}

// Result is the outcome of a publish call.
type Result struct {
	Success bool
	Status  Status
	PostID  int64
	Message string
	PostURL string
	EditURL string
}

// Update carries the fields an existing post can be rewritten with.
type Update struct {
	HTML            string
	MetaDescription string
}

// Publisher is the contract the pipeline runners publish through.
type Publisher interface {
	Publish(ctx context.Context, req Request) (Result, error)
	UpdatePost(ctx context.Context, postID int64, upd Update) error
}
