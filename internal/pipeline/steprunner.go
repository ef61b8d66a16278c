package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"blogsmith/internal/genapi"
	"blogsmith/internal/htmltext"
	"blogsmith/internal/publish"
)

// ErrStageNotReady is returned when a stage is run before its upstream
// result exists.
var ErrStageNotReady = fmt.Errorf("pipeline: stage preconditions not met")

const recentTopicWindow = 20

// StepRunner drives one pipeline stage at a time over a caller-owned
// State, so every intermediate result can be inspected or redone.
type StepRunner struct {
	Gen     Generator
	Pub     publish.Publisher
	History TopicHistory // optional
	Images  ImageSink    // optional

	// Draft makes the publish stage save a draft instead of going live.
	Draft bool

	Guard *Guard // optional, shared per session
}

// Run executes one stage against st and returns the next snapshot.
// On success the stage's result is stored and all downstream results
// and errors are cleared; on failure the stage's error slot is set and
// the rest of the state is left untouched.
func (r *StepRunner) Run(ctx context.Context, st State, stage Stage) (State, error) {
	release, err := r.Guard.Acquire()
	if err != nil {
		return st, err
	}
	defer release()

	if !st.CanRun(stage) {
		return st, fmt.Errorf("%w: %s", ErrStageNotReady, stage)
	}
	st = st.withLoading(stage)

	next, err := r.runStage(ctx, st, stage)
	if err != nil {
		log.Printf("stage %s failed for client %s: %v", stage, st.Site.ID, err)
		return st.withStageError(stage, fmt.Sprintf("%s generation failed", stage)), err
	}
	return next, nil
}

func (r *StepRunner) runStage(ctx context.Context, st State, stage Stage) (State, error) {
	switch stage {
	case StageTopic:
		var recent []string
		if r.History != nil {
			var err error
			recent, err = r.History.RecentTopics(ctx, st.Site.ID, recentTopicWindow)
			if err != nil {
				log.Printf("topic history unavailable for client %s: %v", st.Site.ID, err)
			}
		}
		topic, err := r.Gen.DiscoverTopic(ctx, st.Site, recent)
		if err != nil {
			return st, err
		}
		if r.History != nil {
			if err := r.History.AddTopic(ctx, st.Site.ID, topic.Topic); err != nil {
				log.Printf("record topic for client %s: %v", st.Site.ID, err)
			}
		}
		out := st.ClearFrom(StageTopic)
		out.Topic = &topic
		return out, nil

	case StagePlan:
		plan, err := r.Gen.CreatePlan(ctx, st.Site, *st.Topic)
		if err != nil {
			return st, err
		}
		out := st.ClearFrom(StagePlan)
		out.Plan = &plan
		return out, nil

	case StageOutline:
		outline, err := r.Gen.CreateOutline(ctx, st.Site, *st.Topic, *st.Plan)
		if err != nil {
			return st, err
		}
		out := st.ClearFrom(StageOutline)
		out.Outline = &outline
		return out, nil

	case StageContent:
		content, err := r.Gen.GenerateContent(ctx, st.Site, *st.Topic, *st.Plan, *st.Outline)
		if err != nil {
			return st, err
		}
		out := st.ClearFrom(StageContent)
		out.Content = &content
		return out, nil

	case StageImages:
		var headings []string
		if st.Outline != nil {
			headings = htmltext.Headings(st.Outline.Outline)
		}
		images, err := r.Gen.GenerateImages(ctx, st.Site, st.Plan.Title, headings)
		if err != nil {
			return st, err
		}
		r.persistImages(ctx, st.Site.ID, &images)
		out := st.ClearFrom(StageImages)
		out.Images = &images
		return out, nil

	case StagePublish:
		req := publish.Request{
			Title:           st.Plan.Title,
			HTML:            st.Content.HTML,
			MetaDescription: st.Content.MetaDescription,
			Tags:            st.Plan.Keywords,
			PublishNow:      !r.Draft,
		}
		if st.Images != nil {
			req.FeaturedImageData = st.Images.Featured.Data
		}
		res, err := r.Pub.Publish(ctx, req)
		if err != nil {
			return st, err
		}
		out := st.ClearFrom(StagePublish)
		out.Publish = &res
		return out, nil
	}
	return st, fmt.Errorf("pipeline: unknown stage %d", stage)
}

// persistImages pushes any produced payloads to the image sink. Failures
// are logged only; a missing sink or payload is not an error.
func (r *StepRunner) persistImages(ctx context.Context, clientID string, images *genapi.Images) {
	if r.Images == nil || images == nil {
		return
	}
	if strings.TrimSpace(images.Featured.Data) != "" {
		if url, err := r.Images.SaveDataURI(ctx, clientID, "featured", images.Featured.Data); err != nil {
			log.Printf("persist featured image for client %s: %v", clientID, err)
		} else {
			log.Printf("featured image for client %s stored at %s", clientID, url)
		}
	}
	for i, img := range images.InBody {
		if strings.TrimSpace(img.Image.Data) == "" {
			continue
		}
		name := fmt.Sprintf("body-%d", i+1)
		if url, err := r.Images.SaveDataURI(ctx, clientID, name, img.Image.Data); err != nil {
			log.Printf("persist image %s for client %s: %v", name, clientID, err)
		} else {
			log.Printf("image %s for client %s stored at %s", name, clientID, url)
		}
	}
}
