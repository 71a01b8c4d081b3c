package recovery

import (
	"fmt"
	"strings"

	"github.com/jobjitsu/interview-api/internal/domain"
)

// DefaultQuestionTemplates parameterize the deterministic fallback
// question set. {role} and {company} are substituted at build time.
// Overridable through the question-template config file.
var DefaultQuestionTemplates = [domain.QuestionCount]string{
	"Hi! Tell me a bit about yourself and what drew you to the {role} role.",
	"What interests you most about {company}?",
	"Can you walk me through a project or experience that prepared you for a {role} position?",
}

// QuestionSetBuilder validates and normalizes a generator's question
// payload into the canonical ordered question set, falling back to
// templated questions so session start never fails on upstream
// formatting issues.
type QuestionSetBuilder struct {
	templates [domain.QuestionCount]string
}

func NewQuestionSetBuilder(templates [domain.QuestionCount]string) *QuestionSetBuilder {
	return &QuestionSetBuilder{templates: templates}
}

// Build extracts question1..question3 from the generator output.
// Whatever the generator returned for answers is discarded: answers
// are never generator-supplied at creation time. On any failure the
// fallback set for role/company is returned, with fellBack reporting
// that the generator output was unusable.
func (b *QuestionSetBuilder) Build(role, company, generated string) (questions [domain.QuestionCount]string, fellBack bool) {
	obj, err := Sanitize(generated)
	if err != nil {
		return b.Fallback(role, company), true
	}

	for i := 0; i < domain.QuestionCount; i++ {
		key := fmt.Sprintf("question%d", i+1)
		text, _ := obj[key].(string)
		if strings.TrimSpace(text) == "" {
			return b.Fallback(role, company), true
		}
		questions[i] = strings.TrimSpace(text)
	}
	return questions, false
}

// Fallback returns the deterministic templated question set.
func (b *QuestionSetBuilder) Fallback(role, company string) [domain.QuestionCount]string {
	var out [domain.QuestionCount]string
	r := strings.NewReplacer("{role}", role, "{company}", company)
	for i, tpl := range b.templates {
		out[i] = r.Replace(tpl)
	}
	return out
}
