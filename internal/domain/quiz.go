package domain

import "time"

// Quiz represents a generated quiz for a course.
type Quiz struct {
	ID        string
	CourseID  string
	Title     string
	Questions []QuizQuestion
	CreatedAt time.Time
}

// QuizQuestion represents a multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// QuizSubmission represents a graded attempt at a quiz.
type QuizSubmission struct {
	ID          string
	QuizID      string
	UserID      string
	Answers     []int
	Score       int
	Total       int
	SubmittedAt time.Time
}

// GradeQuiz scores a set of answers against a quiz. Answers beyond the
// question count are ignored; missing answers count as wrong.
func GradeQuiz(q *Quiz, answers []int) (score, total int, err error) {
	if q == nil || len(q.Questions) == 0 {
		return 0, 0, ErrQuizNotGradable
	}
	total = len(q.Questions)
	for i, question := range q.Questions {
		if i >= len(answers) {
			break
		}
		if answers[i] == question.CorrectAnswer {
			score++
		}
	}
	return score, total, nil
}
