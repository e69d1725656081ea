package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataquill/memberaudit/pkg/feed"
)

func TestBuildAnswerPrompt(t *testing.T) {
	batch := &feed.Batch{
		Total: 42,
		Items: []feed.Record{
			{
				feed.FieldUserName:  feed.Text("Layla Ahmed"),
				feed.FieldMessage:   feed.Text("Planning a trip to London in May"),
				feed.FieldTimestamp: feed.Text("2024-03-01T10:00:00Z"),
			},
		},
	}

	prompt, err := BuildAnswerPrompt("When is Layla planning her trip?", batch)
	require.NoError(t, err)

	assert.Contains(t, prompt, "I have 42 messages")
	assert.Contains(t, prompt, "Layla Ahmed")
	assert.Contains(t, prompt, "Planning a trip to London in May")
	assert.Contains(t, prompt, "Question: When is Layla planning her trip?")
}

func TestBuildAnswerPromptEmptyBatch(t *testing.T) {
	prompt, err := BuildAnswerPrompt("anything?", &feed.Batch{})
	require.NoError(t, err)
	assert.Contains(t, prompt, "I have 0 messages")
}
