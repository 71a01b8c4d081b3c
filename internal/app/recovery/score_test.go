package recovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobjitsu/interview-api/internal/app/recovery"
)

func TestExtractScore(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  float64
		found bool
	}{
		{"slash ten", "Overall: 7/10, decent performance", 7, true},
		{"slash ten decimal", "I'd say 8.5 / 10", 8.5, true},
		{"score colon", "Score: 8.5\nGood structure.", 8.5, true},
		{"score word lowercase", "final score 6 for this interview", 6, true},
		{"out of ten", "That's a 9 out of 10 from me", 9, true},
		{"case insensitive", "SCORE: 3", 3, true},
		{"no match", "great job", 0, false},
		{"plain number is not a score", "I interviewed 4 candidates today", 0, false},
		{"score inside another word", "rename the underscore 5 lines down", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := recovery.ExtractScore(tt.text)
			assert.Equal(t, tt.found, found)
			if found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractScoreFirstPatternWins(t *testing.T) {
	// Both "N/10" and "Score: N" are present; the N/10 pattern is
	// checked first.
	got, found := recovery.ExtractScore("Score: 3, but honestly more like 9/10")
	assert.True(t, found)
	assert.Equal(t, 9.0, got)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, recovery.ClampScore(-3))
	assert.Equal(t, 10.0, recovery.ClampScore(42))
	assert.Equal(t, 7.5, recovery.ClampScore(7.5))
}
