package recovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobjitsu/interview-api/internal/app/recovery"
)

func TestParseFeedbackStructured(t *testing.T) {
	fb := recovery.ParseFeedback(`{"score": 8, "description": "Clear and specific answers."}`)

	assert.Equal(t, 8.0, fb.Score)
	assert.Equal(t, "Clear and specific answers.", fb.Description)
}

func TestParseFeedbackStringScore(t *testing.T) {
	fb := recovery.ParseFeedback(`{"score": "6.5", "description": "Decent."}`)

	assert.Equal(t, 6.5, fb.Score)
}

func TestParseFeedbackProseWithScorePattern(t *testing.T) {
	fb := recovery.ParseFeedback("You did well. Score: 8.5. Work on brevity.")

	assert.Equal(t, 8.5, fb.Score)
	assert.Contains(t, fb.Description, "You did well.")
}

func TestParseFeedbackNoScoreUsesDefault(t *testing.T) {
	fb := recovery.ParseFeedback("great job")

	assert.Equal(t, recovery.DefaultScore, fb.Score)
	assert.Equal(t, "great job", fb.Description)
}

func TestParseFeedbackClampsScore(t *testing.T) {
	fb := recovery.ParseFeedback(`{"score": 95, "description": "Generator lost the scale."}`)

	assert.Equal(t, 10.0, fb.Score)
}

func TestParseFeedbackNestedPayload(t *testing.T) {
	fb := recovery.ParseFeedback(`{"feedback": "{\"score\": 9, \"description\": \"Excellent depth.\"}"}`)

	assert.Equal(t, 9.0, fb.Score)
	assert.Equal(t, "Excellent depth.", fb.Description)
}

func TestParseFeedbackEmptyInput(t *testing.T) {
	fb := recovery.ParseFeedback("")

	assert.Equal(t, recovery.DefaultScore, fb.Score)
	assert.Equal(t, recovery.DefaultFeedbackDescription, fb.Description)
}
