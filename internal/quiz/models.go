package quiz

type Choice struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	Explanation string `json:"explanation"`
}

type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"` // may embed fenced code blocks
	Choices       []Choice `json:"choices"`
	CorrectAnswer int      `json:"correct_answer"`
	UserAnswer    *int     `json:"user_answer,omitempty"` // choice id; set in review mode and on export
}

type QuizData struct {
	Questions []Question `json:"questions"`
}

// Mode selects the validation contract for uploaded documents: review
// mode additionally requires user_answer on every question.
type Mode string

const (
	ModeQuiz   Mode = "quiz"
	ModeReview Mode = "review"
)

func (q Question) ChoiceByID(id int) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}
