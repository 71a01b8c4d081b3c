package recovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobjitsu/interview-api/internal/app/recovery"
	"github.com/jobjitsu/interview-api/internal/domain"
)

func TestSanitizeCleanObject(t *testing.T) {
	obj, err := recovery.Sanitize(`{"question1": "Tell me about yourself?", "score": 7}`)
	require.NoError(t, err)

	assert.Equal(t, "Tell me about yourself?", obj["question1"])
	assert.Equal(t, 7.0, obj["score"])
}

func TestSanitizeFencedWithProse(t *testing.T) {
	raw := "Sure! Here is the JSON you asked for:\n```json\n" +
		`{"question1": "Why us?", "answer1": ""}` +
		"\n```\nLet me know if you need anything else."

	obj, err := recovery.Sanitize(raw)
	require.NoError(t, err)

	assert.Equal(t, "Why us?", obj["question1"])
	assert.Equal(t, "", obj["answer1"])
}

func TestSanitizeMissingCommaBetweenLines(t *testing.T) {
	raw := `{
"question1": "Tell me about yourself?"
"answer1": ""
"question2": "Why this company?"
"answer2": ""
}`

	obj, err := recovery.Sanitize(raw)
	require.NoError(t, err)

	assert.Equal(t, "Tell me about yourself?", obj["question1"])
	assert.Equal(t, "Why this company?", obj["question2"])
}

func TestSanitizeMissingCommaBeforeContinuationKey(t *testing.T) {
	raw := `{"question1": "Tell me about yourself?", "answer1": "" "question2": "Why us?"}`

	obj, err := recovery.Sanitize(raw)
	require.NoError(t, err)

	assert.Equal(t, "Why us?", obj["question2"])
}

func TestSanitizeDoubleEncodedPayload(t *testing.T) {
	raw := `"{\"score\": 8, \"description\": \"Strong answers overall.\"}"`

	obj, err := recovery.Sanitize(raw)
	require.NoError(t, err)

	assert.Equal(t, 8.0, obj["score"])
	assert.Equal(t, "Strong answers overall.", obj["description"])
}

func TestSanitizePromotesNestedFields(t *testing.T) {
	raw := `{"feedback": "{\"score\": 9, \"description\": \"Excellent depth.\"}"}`

	obj, err := recovery.Sanitize(raw)
	require.NoError(t, err)

	assert.Equal(t, 9.0, obj["score"])
	assert.Equal(t, "Excellent depth.", obj["description"])
}

func TestSanitizeKeepsOuterNumericScore(t *testing.T) {
	raw := `{"score": 4, "notes": "{\"score\": 9}"}`

	obj, err := recovery.Sanitize(raw)
	require.NoError(t, err)

	assert.Equal(t, 4.0, obj["score"])
}

func TestSanitizeUnusableText(t *testing.T) {
	for _, raw := range []string{
		"",
		"the candidate did great, no json here",
		"{{{{ not even close",
	} {
		_, err := recovery.Sanitize(raw)
		assert.ErrorIs(t, err, domain.ErrRecovery, "input %q", raw)
	}
}

func TestSanitizePromotionIsDeterministic(t *testing.T) {
	// Two fields each embed a nested score and the outer score is
	// absent; promotion must always pick the same one.
	raw := `{"a": "{\"score\": 1}", "b": "{\"score\": 2}"}`

	for i := 0; i < 100; i++ {
		obj, err := recovery.Sanitize(raw)
		require.NoError(t, err)
		assert.Equal(t, 1.0, obj["score"])
	}
}

func TestSanitizeDeterministic(t *testing.T) {
	raw := "```\n" + `{"question1": "Hi?"` + "\n" + `"answer1": ""}` + "\n```"

	first, err := recovery.Sanitize(raw)
	require.NoError(t, err)
	second, err := recovery.Sanitize(raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
