package domain

// Quiz is the content returned by the remote quiz API.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Question is a multiple choice prompt; correctness lives with the scoring service.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Answer is the option picked for one question.
type Answer struct {
	QuestionIndex  int `json:"questionIndex"`
	SelectedAnswer int `json:"selectedAnswer"`
}

// Submission is the batch sent to the scoring service.
type Submission struct {
	StudentID string   `json:"studentId"`
	Answers   []Answer `json:"answers"`
}

// QuizResult is the scoring service's verdict, stored verbatim.
type QuizResult struct {
	Score          int `json:"score"`
	CorrectAnswers int `json:"correctAnswers"`
}
