package generation

import "context"

// LetterContent is the structured output contract of a provider: the parsed
// subject/body pair extracted from the model's JSON response.
type LetterContent struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Generator is the non-streaming provider contract. Implementations make
// exactly one outbound call per invocation and do not retry; a single
// failure propagates immediately to the caller.
type Generator interface {
	// GenerateLetter sends the prompt to the provider and returns the parsed
	// letter content. Errors are wrapped with the package's sentinel errors.
	GenerateLetter(ctx context.Context, prompt string) (*LetterContent, error)
}

// StreamGenerator is the streaming provider contract. The returned delta
// channel is finite and not restartable: it is closed when the upstream
// stream ends. The error channel delivers at most one terminal error and is
// closed afterwards; a nil receive means the stream completed cleanly.
type StreamGenerator interface {
	GenerateLetterStream(ctx context.Context, prompt string) (<-chan string, <-chan error)
}
