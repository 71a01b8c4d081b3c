package interview

import (
	"fmt"
	"strings"

	"github.com/jobjitsu/interview-api/internal/domain"
)

const questionsPromptTemplate = `
You are a friendly recruiter representing the company "%s" for the role "%s".
You are chatting with a candidate at a career fair — this is a casual, conversational exchange,
not a formal interview.

Generate exactly 3 realistic questions that a recruiter might ask during this kind of casual
conversation. Keep the tone warm, natural, and engaging.

Respond only in valid JSON format. Do not include any text, comments, or explanations outside of the JSON.

The JSON must follow this exact structure:

{
"question1": "Hi, my name is Bob! Tell me about yourself?",
"answer1": "",
"question2": "What interests you most about our company?",
"answer2": "",
"question3": "Are you currently working on any projects related to this field?",
"answer3": ""
}
`

const feedbackPromptTemplate = `
Based on this mock interview, provide:
- A numerical score between 0 and 10
- Constructive feedback: what went well, what to improve.

Respond in JSON with exactly two fields, "score" (number) and "description" (string).

Transcript:
%s
`

// buildQuestionsPrompt asks for the three opening questions for a
// role/company pair.
func buildQuestionsPrompt(role, company string) string {
	return fmt.Sprintf(questionsPromptTemplate, company, role)
}

// buildFollowUpPrompt asks for one adaptive follow-up question given
// the transcript so far.
func buildFollowUpPrompt(pairs []domain.QAPair) string {
	var b strings.Builder
	b.WriteString("Given this interview exchange:\n")
	b.WriteString(transcript(pairs))
	b.WriteString("\nGenerate one follow-up question. Respond with the question text only.")
	return b.String()
}

// buildFeedbackPrompt asks for the scored summary of the interview.
func buildFeedbackPrompt(pairs []domain.QAPair) string {
	return fmt.Sprintf(feedbackPromptTemplate, transcript(pairs))
}

func transcript(pairs []domain.QAPair) string {
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString("Q: ")
		b.WriteString(p.Question)
		b.WriteString("\nA: ")
		b.WriteString(p.Answer)
		b.WriteString("\n")
	}
	return b.String()
}
