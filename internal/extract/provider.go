package extract

import "context"

// LLMProvider sends one prompt to a generative-language backend and returns
// the raw text response. The API key travels per call because every user
// brings their own.
type LLMProvider interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}
