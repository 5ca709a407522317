// Package generation provides the interfaces and orchestration for producing
// objection letters with external LLM providers. It abstracts the details of
// provider integration (direct Gemini or the OpenRouter proxy), builds the
// provider prompt from the user's request, validates the structured model
// output, and guarantees a usable letter by falling back to static templates
// on any failure.
package generation
