package chat

import (
	"fmt"
	"strings"

	"github.com/hadamard-2/exit-exam-prep/internal/quiz"
)

// BuildSystemPrompt renders the standing instruction sent with every
// chat turn: the question, its enumerated choices, the correct answer
// text and the student's recorded answer text.
func BuildSystemPrompt(q *quiz.Question) string {
	if q == nil {
		return "You are an AI assistant helping students review quiz questions. Please provide helpful explanations and guidance."
	}

	correctText := "Unknown"
	if c, ok := q.ChoiceByID(q.CorrectAnswer); ok {
		correctText = c.Text
	}

	userText := "No answer selected"
	if q.UserAnswer != nil {
		if c, ok := q.ChoiceByID(*q.UserAnswer); ok {
			userText = c.Text
		}
	}

	var choices strings.Builder
	for i, c := range q.Choices {
		fmt.Fprintf(&choices, "%d. %s\n", i+1, c.Text)
	}

	return fmt.Sprintf(`You are an AI assistant helping a student review quiz questions. Here's the current question context:

QUESTION: %s

CHOICES:
%s
CORRECT ANSWER: %s
STUDENT'S ANSWER: %s

I'm here to help clarify any confusion you have about this specific question. Feel free to ask me anything about the question, answer choices, or why certain options are correct or incorrect. I'll keep my responses focused and to the point to help you understand better.`,
		q.Question, choices.String(), correctText, userText)
}
