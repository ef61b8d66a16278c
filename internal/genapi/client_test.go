package genapi

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"blogsmith/internal/llmclient"
)

type scriptedLLM struct {
	byStage map[string]string
	err     error
	stages  []string
}

func (s *scriptedLLM) Name() string { return "scripted" }
func (s *scriptedLLM) Close() error { return nil }

func (s *scriptedLLM) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	stage := llmclient.StageFrom(ctx)
	s.stages = append(s.stages, stage)
	if s.err != nil {
		return nil, s.err
	}
	if raw, ok := s.byStage[stage]; ok {
		return json.RawMessage(raw), nil
	}
	return json.RawMessage(`{}`), nil
}

var testSite = Site{ID: "c1", Name: "Acme", WebsiteURL: "https://acme.example"}

func TestDiscoverTopicParsesResult(t *testing.T) {
	llm := &scriptedLLM{byStage: map[string]string{
		"topic": `{"topic":"widget care","sources":[{"uri":"https://x","title":"X"}]}`,
	}}
	c := New(llm)

	got, err := c.DiscoverTopic(context.Background(), testSite, []string{"old topic"})
	require.NoError(t, err)
	require.Equal(t, "widget care", got.Topic)
	require.Len(t, got.Sources, 1)
	require.Equal(t, []string{"topic"}, llm.stages)
}

func TestStageErrorCarriesStageName(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("quota")}
	c := New(llm)

	_, err := c.CreatePlan(context.Background(), testSite, TopicResult{Topic: "t"})
	var se *StageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "plan", se.Stage)
	require.ErrorContains(t, se, "quota")
}

func TestInvalidJSONIsStageScoped(t *testing.T) {
	llm := &scriptedLLM{byStage: map[string]string{"outline": `not json`}}
	c := New(llm)

	_, err := c.CreateOutline(context.Background(), testSite, TopicResult{}, Plan{})
	var se *StageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "outline", se.Stage)
	require.ErrorIs(t, err, llmclient.ErrInvalidJSON)
}

func TestSupportingTitlesTruncatesToCount(t *testing.T) {
	llm := &scriptedLLM{byStage: map[string]string{
		"titles": `{"titles":["a","b","c","d","e"]}`,
	}}
	c := New(llm)

	titles, err := c.SupportingTitles(context.Background(), testSite, "primary", 3)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, titles)
}

func TestFakeClientDrivesEveryStage(t *testing.T) {
	c := New(llmclient.NewFakeClient())
	ctx := context.Background()

	topic, err := c.DiscoverTopic(ctx, testSite, nil)
	require.NoError(t, err)
	plan, err := c.CreatePlan(ctx, testSite, topic)
	require.NoError(t, err)
	outline, err := c.CreateOutline(ctx, testSite, topic, plan)
	require.NoError(t, err)
	content, err := c.GenerateContent(ctx, testSite, topic, plan, outline)
	require.NoError(t, err)
	require.NotEmpty(t, content.HTML)
	images, err := c.GenerateImages(ctx, testSite, plan.Title, []string{"Intro"})
	require.NoError(t, err)
	require.NotEmpty(t, images.Featured.Description)
	more, err := c.ExtendContent(ctx, testSite, plan.Title, content.HTML)
	require.NoError(t, err)
	require.NotEmpty(t, more)
}
