package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"blogsmith/internal/genapi"
	"blogsmith/internal/publish"
)

// fakeGen is a scriptable Generator. failAt maps a stage name (or
// "stage:title" for per-item failures) to an error.
type fakeGen struct {
	mu     sync.Mutex
	calls  []string
	failAt map[string]error

	contentHTML string
	extendHTML  string
	titles      []string
}

func newFakeGen() *fakeGen {
	return &fakeGen{
		failAt:      map[string]error{},
		contentHTML: "<p>" + strings.Repeat("word ", 1500) + "</p>",
		extendHTML:  "<p>" + strings.Repeat("more ", 100) + "</p>",
		titles:      []string{"Support One", "Support Two", "Support Three"},
	}
}

func (g *fakeGen) record(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, key)
	return g.failAt[key]
}

func (g *fakeGen) DiscoverTopic(ctx context.Context, site genapi.Site, recent []string) (genapi.TopicResult, error) {
	if err := g.record("topic"); err != nil {
		return genapi.TopicResult{}, err
	}
	return genapi.TopicResult{Topic: "fresh topic", Sources: []genapi.Source{{URI: "https://src", Title: "Src"}}}, nil
}

func (g *fakeGen) CreatePlan(ctx context.Context, site genapi.Site, topic genapi.TopicResult) (genapi.Plan, error) {
	if err := g.record("plan"); err != nil {
		return genapi.Plan{}, err
	}
	if err := g.record("plan:" + topic.Topic); err != nil {
		return genapi.Plan{}, err
	}
	title := topic.Topic
	if title == "fresh topic" {
		title = "Primary Title"
	}
	return genapi.Plan{Title: title, Angle: "angle", Keywords: []string{"kw1", "kw2"}}, nil
}

func (g *fakeGen) CreateOutline(ctx context.Context, site genapi.Site, topic genapi.TopicResult, plan genapi.Plan) (genapi.Outline, error) {
	if err := g.record("outline"); err != nil {
		return genapi.Outline{}, err
	}
	if err := g.record("outline:" + topic.Topic); err != nil {
		return genapi.Outline{}, err
	}
	return genapi.Outline{Outline: "# Intro\n## Detail", EstimatedWordCount: 800, SEOScore: 75}, nil
}

func (g *fakeGen) GenerateContent(ctx context.Context, site genapi.Site, topic genapi.TopicResult, plan genapi.Plan, outline genapi.Outline) (genapi.Content, error) {
	if err := g.record("content"); err != nil {
		return genapi.Content{}, err
	}
	if err := g.record("content:" + topic.Topic); err != nil {
		return genapi.Content{}, err
	}
	return genapi.Content{HTML: g.contentHTML, MetaDescription: "meta", WordCount: 1500}, nil
}

func (g *fakeGen) GenerateImages(ctx context.Context, site genapi.Site, title string, headings []string) (genapi.Images, error) {
	if err := g.record("images"); err != nil {
		return genapi.Images{}, err
	}
	if err := g.record("images:" + title); err != nil {
		return genapi.Images{}, err
	}
	return genapi.Images{Featured: genapi.Image{Description: "hero"}}, nil
}

func (g *fakeGen) SupportingTitles(ctx context.Context, site genapi.Site, primaryTitle string, count int) ([]string, error) {
	if err := g.record("titles"); err != nil {
		return nil, err
	}
	if count < len(g.titles) {
		return g.titles[:count], nil
	}
	return g.titles, nil
}

func (g *fakeGen) ExtendContent(ctx context.Context, site genapi.Site, title, html string) (string, error) {
	if err := g.record("extend"); err != nil {
		return "", err
	}
	return g.extendHTML, nil
}

// fakePub records publish calls and hands out sequential post ids.
type fakePub struct {
	mu       sync.Mutex
	nextID   int64
	requests []publish.Request
	updates  map[int64]publish.Update
	failPub  error
	failFor  map[string]error // by request title
	failUpd  error
	zeroID   bool // simulate a publish response without a post id
}

func newFakePub() *fakePub {
	return &fakePub{nextID: 100, updates: map[int64]publish.Update{}, failFor: map[string]error{}}
}

func (p *fakePub) Publish(ctx context.Context, req publish.Request) (publish.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failPub != nil {
		return publish.Result{}, p.failPub
	}
	if err := p.failFor[req.Title]; err != nil {
		return publish.Result{}, err
	}
	p.nextID++
	p.requests = append(p.requests, req)
	if p.zeroID {
		return publish.Result{Success: true, Status: publish.StatusPublished, Message: "published without id"}, nil
	}
	status := publish.StatusDraft
	switch {
	case req.ScheduleAt != nil:
		status = publish.StatusScheduled
	case req.PublishNow:
		status = publish.StatusPublished
	}
	return publish.Result{
		Success: true,
		Status:  status,
		PostID:  p.nextID,
		Message: fmt.Sprintf("post %d %s", p.nextID, status),
	}, nil
}

func (p *fakePub) UpdatePost(ctx context.Context, postID int64, upd publish.Update) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failUpd != nil {
		return p.failUpd
	}
	p.updates[postID] = upd
	return nil
}

// fakeHistory is an in-memory TopicHistory.
type fakeHistory struct {
	mu     sync.Mutex
	topics map[string][]string
}

func newFakeHistory() *fakeHistory { return &fakeHistory{topics: map[string][]string{}} }

func (h *fakeHistory) RecentTopics(ctx context.Context, clientID string, n int) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ts := h.topics[clientID]
	if len(ts) > n {
		ts = ts[:n]
	}
	return append([]string{}, ts...), nil
}

func (h *fakeHistory) AddTopic(ctx context.Context, clientID, topic string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.topics[clientID] = append([]string{topic}, h.topics[clientID]...)
	return nil
}

var fixedNow = time.Date(2026, 8, 24, 9, 41, 27, 123456789, time.UTC)

func fixedClock() time.Time { return fixedNow }

var site = genapi.Site{ID: "c1", Name: "Acme", WebsiteURL: "https://acme.example"}
