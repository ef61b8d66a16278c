package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"blogsmith/internal/genapi"
	"blogsmith/internal/htmltext"
	"blogsmith/internal/publish"
)

// SeriesConfig tunes one series run. The thresholds mirror what the
// product shipped with; none of them is load-bearing beyond that, so
// they are configuration rather than constants.
type SeriesConfig struct {
	// SupportCount is the number of supporting posts to schedule.
	SupportCount int
	// IntervalDays[i] is the offset in days for supporting post i.
	// Missing entries default to IntervalStep*(i+1).
	IntervalDays []int
	// IntervalStep is the default interval multiplier (days).
	IntervalStep int
	// ExtendWordThreshold: a primary post shorter than this (plain-text
	// words) gets one content-extension attempt.
	ExtendWordThreshold int
	// ExtendMinChars: a continuation shorter than this is discarded.
	ExtendMinChars int

	// Now supplies the clock; defaults to time.Now. Schedule timestamps
	// derive from it.
	Now func() time.Time
}

func (c SeriesConfig) withDefaults() SeriesConfig {
	if c.SupportCount <= 0 {
		c.SupportCount = 3
	}
	if c.IntervalStep <= 0 {
		c.IntervalStep = 6
	}
	if c.ExtendWordThreshold <= 0 {
		c.ExtendWordThreshold = 1200
	}
	if c.ExtendMinChars <= 0 {
		c.ExtendMinChars = 200
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// offsetDays returns the schedule offset for supporting post i.
func (c SeriesConfig) offsetDays(i int) int {
	if i < len(c.IntervalDays) && c.IntervalDays[i] > 0 {
		return c.IntervalDays[i]
	}
	return c.IntervalStep * (i + 1)
}

// ItemOutcome records one supporting post's fate. Failures are terminal
// for the item only, never for the run.
type ItemOutcome struct {
	Title     string
	Scheduled bool
	PublishAt time.Time
	PostID    int64
	Err       error
}

// SeriesReport is the result of one series run: the published primary
// post plus the ordered outcomes of every supporting post.
type SeriesReport struct {
	Primary  State
	Extended bool
	Items    []ItemOutcome
	// Statuses is the append-only audit trail of the run, one line per
	// supporting post.
	Statuses []string
}

// SeriesRunner publishes one primary post immediately, extends it once
// if it came out short, then generates and schedules N supporting posts
// at future offsets, tolerating per-item failure.
type SeriesRunner struct {
	Gen     Generator
	Pub     publish.Publisher
	History TopicHistory // optional
	Images  ImageSink    // optional

	Guard *Guard // optional, shared per session
}

// Run executes the series. It fails as a whole only when the primary
// pipeline, the primary publish, or supporting-title generation fails;
// each supporting item's failure is recorded and the loop advances.
func (r *SeriesRunner) Run(ctx context.Context, site genapi.Site, cfg SeriesConfig) (SeriesReport, error) {
	release, err := r.Guard.Acquire()
	if err != nil {
		return SeriesReport{}, err
	}
	defer release()

	cfg = cfg.withDefaults()
	var report SeriesReport

	// Critical path: primary article, published live.
	primary, err := r.runPrimary(ctx, site)
	if err != nil {
		log.Printf("series primary failed for client %s: %v", site.ID, err)
		return SeriesReport{}, &RunError{Op: "series", Err: err}
	}
	report.Primary = primary

	// Optional, best-effort: one extension pass for a short primary.
	report.Extended = r.maybeExtendPrimary(ctx, site, &report.Primary, cfg)

	// Critical path: supporting titles.
	titles, err := r.Gen.SupportingTitles(ctx, site, primary.Plan.Title, cfg.SupportCount)
	if err != nil {
		log.Printf("series supporting titles failed for client %s: %v", site.ID, err)
		return SeriesReport{}, &RunError{Op: "series", Err: err}
	}

	// Non-critical loop: one scheduled post per title.
	now := cfg.Now()
	for i, title := range titles {
		at := scheduleAt(now, cfg.offsetDays(i))
		outcome := r.runSupportItem(ctx, site, primary.Plan.Title, title, at)
		report.Items = append(report.Items, outcome)
		if outcome.Err != nil {
			log.Printf("series item %q failed for client %s: %v", title, site.ID, outcome.Err)
			report.Statuses = append(report.Statuses, "Failed: "+title)
			continue
		}
		report.Statuses = append(report.Statuses,
			fmt.Sprintf("Scheduled: %s for %s", title, at.Format("2006-01-02 15:04 UTC")))
	}
	return report, nil
}

// runPrimary runs the full pipeline for one topic and publishes it live.
func (r *SeriesRunner) runPrimary(ctx context.Context, site genapi.Site) (State, error) {
	step := &StepRunner{Gen: r.Gen, Pub: r.Pub, History: r.History, Images: r.Images}
	st := NewState(site)
	for stage := StageTopic; stage < stageCount; stage++ {
		var err error
		st, err = step.Run(ctx, st, stage)
		if err != nil {
			return State{}, err
		}
	}
	return st, nil
}

// maybeExtendPrimary requests one continuation when the published body
// is under the word threshold and a post id came back. Every failure in
// here is swallowed: extension must never abort the series.
func (r *SeriesRunner) maybeExtendPrimary(ctx context.Context, site genapi.Site, primary *State, cfg SeriesConfig) bool {
	words := htmltext.WordCount(primary.Content.HTML)
	if words >= cfg.ExtendWordThreshold {
		return false
	}
	if primary.Publish == nil || primary.Publish.PostID <= 0 {
		return false
	}

	more, err := r.Gen.ExtendContent(ctx, site, primary.Plan.Title, primary.Content.HTML)
	if err != nil {
		log.Printf("extend primary for client %s: %v", site.ID, err)
		return false
	}
	if len(strings.TrimSpace(more)) <= cfg.ExtendMinChars {
		return false
	}

	combined := primary.Content.HTML + "\n" + more
	err = r.Pub.UpdatePost(ctx, primary.Publish.PostID, publish.Update{
		HTML:            combined,
		MetaDescription: primary.Content.MetaDescription,
	})
	if err != nil {
		log.Printf("push extended primary for client %s: %v", site.ID, err)
		return false
	}
	primary.Content.HTML = combined
	primary.Content.WordCount = htmltext.WordCount(combined)
	return true
}

// runSupportItem runs the sub-pipeline for one supporting title and
// submits it as a scheduled post linked to the primary.
func (r *SeriesRunner) runSupportItem(ctx context.Context, site genapi.Site, primaryTitle, title string, at time.Time) ItemOutcome {
	outcome := ItemOutcome{Title: title, PublishAt: at}

	topic := genapi.TopicResult{Topic: title}
	plan, err := r.Gen.CreatePlan(ctx, site, topic)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	if strings.TrimSpace(plan.Title) == "" {
		plan.Title = title
	}
	outline, err := r.Gen.CreateOutline(ctx, site, topic, plan)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	content, err := r.Gen.GenerateContent(ctx, site, topic, plan, outline)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	images, err := r.Gen.GenerateImages(ctx, site, plan.Title, htmltext.Headings(outline.Outline))
	if err != nil {
		outcome.Err = err
		return outcome
	}

	res, err := r.Pub.Publish(ctx, publish.Request{
		Title:             plan.Title,
		HTML:              content.HTML,
		MetaDescription:   content.MetaDescription,
		FeaturedImageData: images.Featured.Data,
		Tags:              append(append([]string{}, plan.Keywords...), "series: "+primaryTitle),
		ScheduleAt:        &at,
	})
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Scheduled = true
	outcome.PostID = res.PostID
	return outcome
}

// scheduleAt computes now+days at the same hour and minute as now, with
// seconds and finer zeroed, in UTC.
func scheduleAt(now time.Time, days int) time.Time {
	n := now.UTC()
	d := n.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), n.Hour(), n.Minute(), 0, 0, time.UTC)
}
