package recovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobjitsu/interview-api/internal/app/recovery"
)

func newBuilder() *recovery.QuestionSetBuilder {
	return recovery.NewQuestionSetBuilder(recovery.DefaultQuestionTemplates)
}

func TestBuildFromValidPayload(t *testing.T) {
	raw := "```json\n" + `{
"question1": "Tell me about yourself?",
"answer1": "ignore me",
"question2": "Why Acme?",
"answer2": "this too",
"question3": "Any relevant projects?",
"answer3": ""
}` + "\n```"

	questions, fellBack := newBuilder().Build("Software Engineer", "Acme", raw)

	require.False(t, fellBack)
	assert.Equal(t, "Tell me about yourself?", questions[0])
	assert.Equal(t, "Why Acme?", questions[1])
	assert.Equal(t, "Any relevant projects?", questions[2])
}

func TestBuildFallsBackOnGarbage(t *testing.T) {
	questions, fellBack := newBuilder().Build("Software Engineer", "Acme", "sorry, I can't do that")

	require.True(t, fellBack)
	for _, q := range questions {
		assert.NotEmpty(t, q)
		assert.NotContains(t, q, "{role}")
		assert.NotContains(t, q, "{company}")
	}
	assert.Contains(t, questions[0], "Software Engineer")
	assert.Contains(t, questions[1], "Acme")
}

func TestBuildFallsBackOnMissingKeys(t *testing.T) {
	raw := `{"question1": "Only one question here?"}`

	_, fellBack := newBuilder().Build("Analyst", "Initech", raw)
	assert.True(t, fellBack)
}

func TestBuildFallsBackOnEmptyQuestion(t *testing.T) {
	raw := `{"question1": "A?", "question2": "   ", "question3": "C?"}`

	_, fellBack := newBuilder().Build("Analyst", "Initech", raw)
	assert.True(t, fellBack)
}

func TestFallbackIsDeterministic(t *testing.T) {
	b := newBuilder()
	first := b.Fallback("Designer", "Globex")
	second := b.Fallback("Designer", "Globex")
	assert.Equal(t, first, second)
}
