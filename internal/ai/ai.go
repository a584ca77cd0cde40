// Package ai defines the reasoning collaborator contract and the structured
// values exchanged with it.
package ai

import "context"

// Generator sends a system instruction plus a user message to a language
// model and returns its raw text answer. The answer is untrusted.
type Generator interface {
	GenerateContent(ctx context.Context, systemInstruction, message string) (string, error)
	Model() string
}
