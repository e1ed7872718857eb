// Package assistant is the boundary to the external language model. Every
// structured operation sends a fixed prompt, demands JSON output, and
// validates the response strictly before anything downstream trusts it.
package assistant

import "context"

// Message is one turn of a chat exchange. Role is "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is one prompt exchange. Structured operations set User
// and JSON; chat sets Messages instead of User. JSON asks the provider for a
// JSON-object response.
type CompletionRequest struct {
	System   string
	User     string
	Messages []Message
	JSON     bool
}

// Completer executes completions against the model provider. Tests swap in
// fakes; production uses the OpenAI-backed implementation.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Stream forwards response chunks to onDelta as they arrive and
	// returns after the final chunk.
	Stream(ctx context.Context, req CompletionRequest, onDelta func(string)) error
}
