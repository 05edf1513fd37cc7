package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedJSON means the uploaded text is not valid JSON at all.
var ErrMalformedJSON = errors.New("quiz: malformed json")

// SchemaError means the JSON parsed but does not match the question
// document contract. Issues lists every violation found.
type SchemaError struct {
	Issues []string
}

func (e *SchemaError) Error() string {
	return "quiz: invalid document: " + strings.Join(e.Issues, "; ")
}

// Raw shapes accept both observed schema variants: the canonical
// external-answer-key form (correct_answer on the question) and the
// inline form (correct flag per choice, choice ids optional).
type rawChoice struct {
	ID          *int    `json:"id"`
	Text        *string `json:"text"`
	Explanation *string `json:"explanation"`
	Correct     *bool   `json:"correct"`
}

type rawQuestion struct {
	ID            *int        `json:"id"`
	Question      *string     `json:"question"`
	Choices       []rawChoice `json:"choices"`
	CorrectAnswer *int        `json:"correct_answer"`
	UserAnswer    *int        `json:"user_answer"`
}

type rawDocument struct {
	Questions []rawQuestion `json:"questions"`
}

// Parse validates an uploaded question document and normalizes it to
// the canonical schema. All-or-nothing: any issue rejects the whole
// document.
func Parse(data []byte, mode Mode) (*QuizData, error) {
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	var issues []string
	report := func(format string, args ...any) {
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	if doc.Questions == nil {
		report(`missing "questions" array`)
		return nil, &SchemaError{Issues: issues}
	}
	if len(doc.Questions) == 0 {
		report(`"questions" must not be empty`)
		return nil, &SchemaError{Issues: issues}
	}

	out := &QuizData{Questions: make([]Question, 0, len(doc.Questions))}
	seenIDs := map[int]bool{}

	for qi, rq := range doc.Questions {
		q := Question{}

		switch {
		case rq.ID == nil:
			report("questions[%d]: missing id", qi)
		case seenIDs[*rq.ID]:
			report("questions[%d]: duplicate id %d", qi, *rq.ID)
		default:
			seenIDs[*rq.ID] = true
			q.ID = *rq.ID
		}

		if rq.Question == nil || *rq.Question == "" {
			report("questions[%d]: missing question text", qi)
		} else {
			q.Question = *rq.Question
		}

		if len(rq.Choices) == 0 {
			report("questions[%d]: choices must not be empty", qi)
			out.Questions = append(out.Questions, q)
			continue
		}

		q.Choices = normalizeChoices(qi, rq.Choices, report)

		correctFromFlags, flagged := correctFlagID(q.Choices, rq.Choices)
		switch {
		case rq.CorrectAnswer != nil:
			q.CorrectAnswer = *rq.CorrectAnswer
			if _, ok := q.ChoiceByID(q.CorrectAnswer); !ok {
				report("questions[%d]: correct_answer %d does not reference a choice", qi, q.CorrectAnswer)
			}
			if flagged == 1 && correctFromFlags != q.CorrectAnswer {
				report("questions[%d]: correct_answer disagrees with correct flags", qi)
			}
		case flagged == 1:
			q.CorrectAnswer = correctFromFlags
		case flagged == 0:
			report("questions[%d]: no correct answer (need correct_answer or one correct flag)", qi)
		default:
			report("questions[%d]: %d choices flagged correct, want exactly one", qi, flagged)
		}

		if rq.UserAnswer != nil {
			q.UserAnswer = rq.UserAnswer
			if _, ok := q.ChoiceByID(*rq.UserAnswer); !ok {
				report("questions[%d]: user_answer %d does not reference a choice", qi, *rq.UserAnswer)
			}
		} else if mode == ModeReview {
			report("questions[%d]: user_answer required in review mode", qi)
		}

		out.Questions = append(out.Questions, q)
	}

	if len(issues) > 0 {
		return nil, &SchemaError{Issues: issues}
	}
	return out, nil
}

// normalizeChoices checks per-choice fields and assigns ids. Either
// every choice carries an id or none do; in the latter case ids are
// synthesized 1..n so the inline variant converts cleanly.
func normalizeChoices(qi int, raw []rawChoice, report func(string, ...any)) []Choice {
	withID := 0
	for _, rc := range raw {
		if rc.ID != nil {
			withID++
		}
	}
	if withID != 0 && withID != len(raw) {
		report("questions[%d]: choice ids must be present on all choices or none", qi)
	}

	out := make([]Choice, 0, len(raw))
	seen := map[int]bool{}
	for ci, rc := range raw {
		c := Choice{}
		if rc.ID != nil {
			c.ID = *rc.ID
		} else {
			c.ID = ci + 1
		}
		if seen[c.ID] {
			report("questions[%d].choices[%d]: duplicate id %d", qi, ci, c.ID)
		}
		seen[c.ID] = true

		if rc.Text == nil || *rc.Text == "" {
			report("questions[%d].choices[%d]: missing text", qi, ci)
		} else {
			c.Text = *rc.Text
		}
		if rc.Explanation == nil {
			report("questions[%d].choices[%d]: missing explanation", qi, ci)
		} else {
			c.Explanation = *rc.Explanation
		}
		out = append(out, c)
	}
	return out
}

func correctFlagID(normalized []Choice, raw []rawChoice) (id, flagged int) {
	for ci, rc := range raw {
		if rc.Correct != nil && *rc.Correct {
			flagged++
			if ci < len(normalized) {
				id = normalized[ci].ID
			}
		}
	}
	return id, flagged
}
