package llmclient

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic, minimal JSON payloads per stage for
// offline development and tests.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	stage := StageFrom(ctx)
	var obj any
	switch stage {
	case "topic":
		obj = map[string]any{
			"topic": "fake topic",
			"sources": []any{
				map[string]any{"uri": "https://example.com/a", "title": "Example A"},
			},
		}
	case "plan":
		obj = map[string]any{
			"title":    "Fake Title",
			"angle":    "fake angle",
			"keywords": []string{"alpha", "beta"},
		}
	case "outline":
		obj = map[string]any{
			"outline":              "# Intro\n## Middle\n# End",
			"estimated_word_count": 900,
			"seo_score":            70,
		}
	case "content":
		obj = map[string]any{
			"content":          "<h1>Fake</h1><p>Body text.</p>",
			"meta_description": "fake meta",
			"word_count":       3,
			"faq": []any{
				map[string]any{"question": "Q?", "answer": "A."},
			},
		}
	case "images":
		obj = map[string]any{
			"featured_image": map[string]any{"description": "fake hero image", "data": ""},
			"in_body_images": []any{},
		}
	case "titles":
		obj = map[string]any{
			"titles": []string{"Support One", "Support Two", "Support Three"},
		}
	case "extend":
		obj = map[string]any{
			"content": "<p>Additional section that continues the article.</p>",
		}
	default:
		// generic empty JSON object
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}
