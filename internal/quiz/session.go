// Package quiz runs a single quiz attempt: load the questions, collect one answer per
// question and submit them in one batch to the scoring service.
package quiz

import (
	"context"
	"fmt"
	"sync"

	"mathquest/internal/domain"
)

// Source fetches quiz content.
type Source interface {
	FetchQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// Scorer grades a full submission. Its result is authoritative.
type Scorer interface {
	Score(ctx context.Context, quizID string, submission domain.Submission) (domain.QuizResult, error)
}

// State is the lifecycle phase of a session.
type State string

const (
	StateLoading    State = "loading"
	StateAnswering  State = "answering"
	StateSubmitting State = "submitting"
	StateScored     State = "scored"
	StateError      State = "error"
)

// Unanswered marks a question without a selection.
const Unanswered = -1

// Snapshot is a read-only view of a session.
type Snapshot struct {
	QuizID    string             `json:"quizId"`
	State     State              `json:"state"`
	Quiz      domain.Quiz        `json:"quiz"`
	Selected  []int              `json:"selected"`
	Result    *domain.QuizResult `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	Answered  int                `json:"answered"`
	Submitted bool               `json:"submitted"`
}

// Session is one attempt at a quiz by one student.
type Session struct {
	quizID    string
	studentID string
	scorer    Scorer

	mu       sync.Mutex
	state    State
	quiz     domain.Quiz
	selected []int
	result   *domain.QuizResult
	err      error
}

// New loads the quiz and returns a session in the answering state, or in the error state
// when the fetch fails. The fetch error is returned as well.
func New(ctx context.Context, source Source, scorer Scorer, quizID, studentID string) (*Session, error) {
	s := &Session{quizID: quizID, studentID: studentID, scorer: scorer, state: StateLoading}

	q, err := source.FetchQuiz(ctx, quizID)
	if err != nil {
		s.fail(fmt.Errorf("fetch quiz %s: %w", quizID, err))
		return s, s.err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = q
	s.selected = make([]int, len(q.Questions))
	for i := range s.selected {
		s.selected[i] = Unanswered
	}
	s.state = StateAnswering
	return s, nil
}

// Select records the option picked for a question, replacing any earlier pick.
func (s *Session) Select(questionIndex, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAnswering {
		return domain.ErrInvalidState
	}
	if questionIndex < 0 || questionIndex >= len(s.quiz.Questions) {
		return fmt.Errorf("%w: question %d", domain.ErrInvalidSelection, questionIndex)
	}
	if option < 0 || option >= len(s.quiz.Questions[questionIndex].Options) {
		return fmt.Errorf("%w: option %d", domain.ErrInvalidSelection, option)
	}
	s.selected[questionIndex] = option
	return nil
}

// Complete reports whether every question has a selection, which is required to submit.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completeLocked()
}

func (s *Session) completeLocked() bool {
	for _, sel := range s.selected {
		if sel == Unanswered {
			return false
		}
	}
	return true
}

// Submit sends one answer per question to the scorer and stores the verdict. An
// incomplete answer set is refused and leaves the session answering; a scorer failure moves
// the session to the error state.
func (s *Session) Submit(ctx context.Context) (domain.QuizResult, error) {
	s.mu.Lock()
	if s.state != StateAnswering {
		s.mu.Unlock()
		return domain.QuizResult{}, domain.ErrInvalidState
	}
	if !s.completeLocked() {
		s.mu.Unlock()
		return domain.QuizResult{}, domain.ErrQuizIncomplete
	}
	submission := domain.Submission{StudentID: s.studentID, Answers: make([]domain.Answer, len(s.selected))}
	for i, sel := range s.selected {
		submission.Answers[i] = domain.Answer{QuestionIndex: i, SelectedAnswer: sel}
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	result, err := s.scorer.Score(ctx, s.quizID, submission)
	if err != nil {
		s.fail(fmt.Errorf("submit quiz %s: %w", s.quizID, err))
		return domain.QuizResult{}, s.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &result
	s.state = StateScored
	return result, nil
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.state = StateError
}

// State returns the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the failure that moved the session to the error state.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshot returns a copy of the session for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		QuizID:    s.quizID,
		State:     s.state,
		Quiz:      s.quiz,
		Selected:  append([]int{}, s.selected...),
		Submitted: s.state == StateScored,
	}
	for _, sel := range s.selected {
		if sel != Unanswered {
			snap.Answered++
		}
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}

// Done reports whether the attempt has been scored or has failed.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateScored || s.state == StateError
}

// Close abandons the attempt. A quiz holds no timers, so there is nothing to release.
func (s *Session) Close() {}
