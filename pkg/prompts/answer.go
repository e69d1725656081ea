// Package prompts builds the LLM prompts used by the question-answering
// surface.
package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/dataquill/memberaudit/pkg/feed"
)

// contextMessage is the slim projection of a record embedded in the prompt.
type contextMessage struct {
	UserName  string `json:"user_name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// BuildAnswerPrompt embeds the fetched member messages as JSON context and
// asks for a direct, factual answer to the question.
func BuildAnswerPrompt(question string, batch *feed.Batch) (string, error) {
	messages := make([]contextMessage, 0, len(batch.Items))
	for _, rec := range batch.Items {
		name, _ := rec.Display(feed.FieldUserName)
		body, _ := rec.Display(feed.FieldMessage)
		ts, _ := rec.Display(feed.FieldTimestamp)
		messages = append(messages, contextMessage{
			UserName:  name,
			Message:   body,
			Timestamp: ts,
		})
	}

	contextJSON, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal message context: %w", err)
	}

	return fmt.Sprintf(`You are a helpful assistant that answers questions about member messages.

I have %d messages from various members. Here are the messages:

%s

Question: %s

Please analyze the member messages and provide a direct, concise answer to the question.

Guidelines:
- If the answer involves dates, provide them in a clear, readable format
- If the answer involves counts, provide the exact number
- If the answer involves lists (like restaurants, hobbies, etc.), list them clearly
- If a member's name is mentioned in the question, try variations (first name only, full name, etc.)
- If the information is not available in the messages, say "I don't have that information in the available messages"
- Be conversational and natural in your response

Answer only with the factual information from the data.`, batch.Total, string(contextJSON), question), nil
}
