// Package genapi wraps the generation backend with one function per
// pipeline capability. Each call takes the upstream results it depends
// on and returns a parsed structured result; retries are a caller
// decision, not taken here.
package genapi

import (
	"context"
	"encoding/json"
	"fmt"

	"blogsmith/internal/llmclient"
	"blogsmith/internal/prompt"
)

// StageError reports which pipeline stage failed and why.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Client drives all generation capabilities over one LLM client.
type Client struct {
	llm llmclient.LLMClient
}

func New(llm llmclient.LLMClient) *Client {
	return &Client{llm: llm}
}

// DiscoverTopic picks one new topic for the site, avoiding recent topics.
func (c *Client) DiscoverTopic(ctx context.Context, site Site, recentTopics []string) (TopicResult, error) {
	input := map[string]any{
		"site":          site,
		"recent_topics": recentTopics,
	}
	var out TopicResult
	if err := c.generate(ctx, "topic", topicPromptSpec, input, &out); err != nil {
		return TopicResult{}, err
	}
	return out, nil
}

// CreatePlan derives title, angle, and keywords from a topic.
func (c *Client) CreatePlan(ctx context.Context, site Site, topic TopicResult) (Plan, error) {
	input := map[string]any{
		"site":  site,
		"topic": topic,
	}
	var out Plan
	if err := c.generate(ctx, "plan", planPromptSpec, input, &out); err != nil {
		return Plan{}, err
	}
	return out, nil
}

// CreateOutline drafts a heading-delimited outline for the plan.
func (c *Client) CreateOutline(ctx context.Context, site Site, topic TopicResult, plan Plan) (Outline, error) {
	input := map[string]any{
		"site":  site,
		"topic": topic.Topic,
		"plan":  plan,
	}
	var out Outline
	if err := c.generate(ctx, "outline", outlinePromptSpec, input, &out); err != nil {
		return Outline{}, err
	}
	return out, nil
}

// GenerateContent writes the full article for the outline.
func (c *Client) GenerateContent(ctx context.Context, site Site, topic TopicResult, plan Plan, outline Outline) (Content, error) {
	input := map[string]any{
		"site":    site,
		"topic":   topic.Topic,
		"plan":    plan,
		"outline": outline.Outline,
	}
	var out Content
	if err := c.generate(ctx, "content", contentPromptSpec, input, &out); err != nil {
		return Content{}, err
	}
	return out, nil
}

// GenerateImages describes a featured image plus one image per heading.
func (c *Client) GenerateImages(ctx context.Context, site Site, title string, headings []string) (Images, error) {
	input := map[string]any{
		"site":     site,
		"title":    title,
		"headings": headings,
	}
	var out Images
	if err := c.generate(ctx, "images", imagesPromptSpec, input, &out); err != nil {
		return Images{}, err
	}
	return out, nil
}

// SupportingTitles proposes count follow-up titles for a primary post.
func (c *Client) SupportingTitles(ctx context.Context, site Site, primaryTitle string, count int) ([]string, error) {
	input := map[string]any{
		"site":          site,
		"primary_title": primaryTitle,
		"count":         count,
	}
	var out struct {
		Titles []string `json:"titles"`
	}
	if err := c.generate(ctx, "titles", titlesPromptSpec, input, &out); err != nil {
		return nil, err
	}
	if len(out.Titles) > count {
		out.Titles = out.Titles[:count]
	}
	return out.Titles, nil
}

// ExtendContent continues a published article body.
func (c *Client) ExtendContent(ctx context.Context, site Site, title, html string) (string, error) {
	input := map[string]any{
		"site":  site,
		"title": title,
		"body":  html,
	}
	var out struct {
		Content string `json:"content"`
	}
	if err := c.generate(ctx, "extend", extendPromptSpec, input, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

func (c *Client) generate(ctx context.Context, stage string, spec prompt.Spec, input map[string]any, out any) error {
	p, err := prompt.Build(spec, input)
	if err != nil {
		return &StageError{Stage: stage, Err: err}
	}
	raw, err := c.llm.GenerateJSON(llmclient.WithStage(ctx, stage), p, input)
	if err != nil {
		return &StageError{Stage: stage, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &StageError{Stage: stage, Err: fmt.Errorf("%w: %v", llmclient.ErrInvalidJSON, err)}
	}
	return nil
}
