package pipeline

import (
	"context"
	"fmt"
	"log"

	"blogsmith/internal/genapi"
	"blogsmith/internal/publish"
)

// RunError is the aggregate failure of a lucky or series run.
type RunError struct {
	Op  string
	Err error
}

func (e *RunError) Error() string { return fmt.Sprintf("%s run failed: %v", e.Op, e.Err) }
func (e *RunError) Unwrap() error { return e.Err }

// LuckyRunner runs the whole pipeline to a live post in one call with
// no intermediate inspection. Contrasted with StepRunner it is
// all-or-nothing: any internal failure discards partial progress and
// leaves the returned state empty.
type LuckyRunner struct {
	Gen     Generator
	Pub     publish.Publisher
	History TopicHistory // optional

	Guard *Guard // optional, shared per session
}

// Run resets the pipeline and performs topic, plan, content, and
// publish in sequence. No explicit outline is generated; a placeholder
// outline is synthesized from the final word count so downstream
// consumers see all stages as completed.
func (r *LuckyRunner) Run(ctx context.Context, site genapi.Site) (State, error) {
	release, err := r.Guard.Acquire()
	if err != nil {
		return NewState(site), err
	}
	defer release()

	st, err := r.run(ctx, site)
	if err != nil {
		log.Printf("lucky run failed for client %s: %v", site.ID, err)
		return NewState(site), &RunError{Op: "lucky", Err: err}
	}
	return st, nil
}

func (r *LuckyRunner) run(ctx context.Context, site genapi.Site) (State, error) {
	var recent []string
	if r.History != nil {
		var err error
		recent, err = r.History.RecentTopics(ctx, site.ID, recentTopicWindow)
		if err != nil {
			log.Printf("topic history unavailable for client %s: %v", site.ID, err)
		}
	}

	topic, err := r.Gen.DiscoverTopic(ctx, site, recent)
	if err != nil {
		return State{}, err
	}
	plan, err := r.Gen.CreatePlan(ctx, site, topic)
	if err != nil {
		return State{}, err
	}
	content, err := r.Gen.GenerateContent(ctx, site, topic, plan, genapi.Outline{})
	if err != nil {
		return State{}, err
	}
	res, err := r.Pub.Publish(ctx, publish.Request{
		Title:           plan.Title,
		HTML:            content.HTML,
		MetaDescription: content.MetaDescription,
		Tags:            plan.Keywords,
		PublishNow:      true,
	})
	if err != nil {
		return State{}, err
	}

	if r.History != nil {
		if err := r.History.AddTopic(ctx, site.ID, topic.Topic); err != nil {
			log.Printf("record topic for client %s: %v", site.ID, err)
		}
	}

	outline := genapi.Outline{
		Outline:            "# " + plan.Title,
		EstimatedWordCount: content.WordCount,
	}

	st := NewState(site)
	st.Topic = &topic
	st.Plan = &plan
	st.Outline = &outline
	st.Content = &content
	st.Publish = &res
	return st, nil
}
