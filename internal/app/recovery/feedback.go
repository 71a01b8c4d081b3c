package recovery

import (
	"strings"

	"github.com/jobjitsu/interview-api/internal/domain"
)

// DefaultFollowUpQuestion is used when follow-up generation yields
// nothing usable.
const DefaultFollowUpQuestion = "Could you expand on one of your previous answers with a concrete example?"

// DefaultFeedbackDescription is used when the generator returned no
// readable summary at all.
const DefaultFeedbackDescription = "The interview was completed, but no detailed feedback could be produced. Consider reviewing your answers for specificity and concrete examples."

// ParseFeedback converts raw generator output into validated feedback.
// Structured score/description fields win; otherwise the score is
// pattern-matched out of the free text, and DefaultScore applies when
// nothing matches. The returned score is always within [0,10].
func ParseFeedback(raw string) domain.Feedback {
	score, haveScore := 0.0, false
	description := ""

	if obj, err := Sanitize(raw); err == nil {
		if v, ok := numericValue(obj["score"]); ok {
			score, haveScore = v, true
		}
		if s, _ := obj["description"].(string); strings.TrimSpace(s) != "" {
			description = strings.TrimSpace(s)
		} else if s, _ := obj["feedback"].(string); strings.TrimSpace(s) != "" {
			description = strings.TrimSpace(s)
		}
	}

	if !haveScore {
		if v, ok := ExtractScore(raw); ok {
			score, haveScore = v, true
		}
	}
	if !haveScore {
		score = DefaultScore
	}

	if description == "" {
		description = CleanText(raw)
	}
	if description == "" {
		description = DefaultFeedbackDescription
	}

	return domain.Feedback{
		Score:       ClampScore(score),
		Description: description,
	}
}

// CleanText strips fence markers and surrounding whitespace from
// generator text meant to be used verbatim (follow-up questions,
// plain-prose feedback).
func CleanText(raw string) string {
	return strings.TrimSpace(stripFences(raw))
}
