package llm

import (
	"context"
	"strings"
)

// MockGenerator is a deterministic stand-in for Gemini, used in local
// mode and tests. It sniffs the prompt kind and answers with the shape
// the recovery pipeline expects.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "Generate exactly 3 realistic questions"):
		return `{
"question1": "Hi, I'm Dana! Tell me a bit about yourself?",
"answer1": "",
"question2": "What interests you most about our company?",
"answer2": "",
"question3": "Are you working on any projects related to this field?",
"answer3": ""
}`, nil
	case strings.Contains(prompt, "Generate one follow-up question"):
		return "You mentioned a recent project. What was the hardest decision you had to make on it?", nil
	default:
		return `{"score": 7, "description": "Solid, concrete answers. Work on quantifying your impact."}`, nil
	}
}
