// Package pipeline holds the content pipeline state and the three
// runners that drive it: single-step, lucky (one-shot), and series.
package pipeline

import (
	"context"

	"blogsmith/internal/genapi"
	"blogsmith/internal/publish"
)

// Stage is one step of the content pipeline, in execution order.
type Stage int

const (
	StageTopic Stage = iota
	StagePlan
	StageOutline
	StageContent
	StageImages
	StagePublish
	stageCount
)

var stageNames = [...]string{"topic", "plan", "outline", "content", "images", "publish"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Generator is the generation backend the runners compose.
type Generator interface {
	DiscoverTopic(ctx context.Context, site genapi.Site, recentTopics []string) (genapi.TopicResult, error)
	CreatePlan(ctx context.Context, site genapi.Site, topic genapi.TopicResult) (genapi.Plan, error)
	CreateOutline(ctx context.Context, site genapi.Site, topic genapi.TopicResult, plan genapi.Plan) (genapi.Outline, error)
	GenerateContent(ctx context.Context, site genapi.Site, topic genapi.TopicResult, plan genapi.Plan, outline genapi.Outline) (genapi.Content, error)
	GenerateImages(ctx context.Context, site genapi.Site, title string, headings []string) (genapi.Images, error)
	SupportingTitles(ctx context.Context, site genapi.Site, primaryTitle string, count int) ([]string, error)
	ExtendContent(ctx context.Context, site genapi.Site, title, html string) (string, error)
}

// TopicHistory records and recalls topics already used for a client.
type TopicHistory interface {
	RecentTopics(ctx context.Context, clientID string, n int) ([]string, error)
	AddTopic(ctx context.Context, clientID, topic string) error
}

// ImageSink persists generated image payloads and returns a stable URL.
type ImageSink interface {
	SaveDataURI(ctx context.Context, clientID, name, dataURI string) (string, error)
}

// State is one pipeline's results so far. It is a caller-owned snapshot:
// runner operations take a State and return a new one rather than
// mutating shared fields, so overlapping sessions cannot race on it.
type State struct {
	Site genapi.Site

	Topic   *genapi.TopicResult
	Plan    *genapi.Plan
	Outline *genapi.Outline
	Content *genapi.Content
	Images  *genapi.Images
	Publish *publish.Result

	// Errs holds at most one short message per stage. Loading marks the
	// stage currently in flight; it is advisory gating state, not a lock.
	Errs    map[Stage]string
	Loading *Stage
}

func NewState(site genapi.Site) State {
	return State{Site: site, Errs: map[Stage]string{}}
}

// Has reports whether the stage's result is set.
func (s State) Has(stage Stage) bool {
	switch stage {
	case StageTopic:
		return s.Topic != nil
	case StagePlan:
		return s.Plan != nil
	case StageOutline:
		return s.Outline != nil
	case StageContent:
		return s.Content != nil
	case StageImages:
		return s.Images != nil
	case StagePublish:
		return s.Publish != nil
	}
	return false
}

// Err returns the stage's error message, if any.
func (s State) Err(stage Stage) string { return s.Errs[stage] }

// CanRun reports whether the stage's action is enabled: its upstream
// result exists and nothing is currently loading. Images depend on the
// plan (outline is optional input for them); publish depends on content.
func (s State) CanRun(stage Stage) bool {
	if s.Loading != nil {
		return false
	}
	switch stage {
	case StageTopic:
		return true
	case StagePlan:
		return s.Has(StageTopic)
	case StageOutline:
		return s.Has(StagePlan)
	case StageContent:
		return s.Has(StageOutline)
	case StageImages:
		return s.Has(StagePlan)
	case StagePublish:
		return s.Has(StageContent)
	}
	return false
}

// clone deep-copies the snapshot's map so derived states never share it.
func (s State) clone() State {
	errs := make(map[Stage]string, len(s.Errs))
	for k, v := range s.Errs {
		errs[k] = v
	}
	s.Errs = errs
	return s
}

// ClearFrom returns a snapshot with stage and everything downstream of
// it reset: results, errors, and the loading flag. Rerunning an earlier
// stage therefore always invalidates later results.
func (s State) ClearFrom(stage Stage) State {
	out := s.clone()
	for st := stage; st < stageCount; st++ {
		switch st {
		case StageTopic:
			out.Topic = nil
		case StagePlan:
			out.Plan = nil
		case StageOutline:
			out.Outline = nil
		case StageContent:
			out.Content = nil
		case StageImages:
			out.Images = nil
		case StagePublish:
			out.Publish = nil
		}
		delete(out.Errs, st)
	}
	out.Loading = nil
	return out
}

// withStageError returns a snapshot recording a failure for the stage,
// leaving every result untouched.
func (s State) withStageError(stage Stage, msg string) State {
	out := s.clone()
	out.Errs[stage] = msg
	out.Loading = nil
	return out
}

// withLoading marks the stage as in flight.
func (s State) withLoading(stage Stage) State {
	out := s.clone()
	st := stage
	out.Loading = &st
	return out
}
