package llmclient

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

type ctxKeyStage struct{}

// WithStage tags the context with the pipeline stage issuing the call.
// The tag is used by the logging middleware and the fake client.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, ctxKeyStage{}, stage)
}

// StageFrom returns the stage tag stored in the context, or "".
func StageFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyStage{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Logging logs each call with its stage tag, payload size and duration.
func Logging() Middleware {
	return func(next LLMClient) LLMClient {
		return &logging{next: next}
	}
}

type logging struct {
	next LLMClient
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	stage := StageFrom(ctx)
	start := time.Now()
	log.Printf("llm request (%s via %s): %d prompt bytes", stage, l.next.Name(), len(prompt))
	raw, err := l.next.GenerateJSON(ctx, prompt, input)
	if err != nil {
		log.Printf("llm request (%s) failed after %s: %v", stage, time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}
	log.Printf("llm request (%s) ok: %d bytes in %s", stage, len(raw), time.Since(start).Round(time.Millisecond))
	return raw, nil
}
