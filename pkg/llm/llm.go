// Package llm provides the chat clients used to answer member questions.
package llm

// LLM is a minimal chat interface: one prompt in, one answer out.
type LLM interface {
	Chat(prompt string) (string, error)
}
