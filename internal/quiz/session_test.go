package quiz_test

import (
	"context"
	"errors"
	"testing"

	"mathquest/internal/domain"
	"mathquest/internal/infra/memory"
	"mathquest/internal/quiz"
)

func TestSubmitSendsOneAnswerPerQuestion(t *testing.T) {
	ctx := context.Background()
	scorer := &fakeScorer{result: domain.QuizResult{Score: 67, CorrectAnswers: 2}}
	session, err := quiz.New(ctx, staticSource(), scorer, "quiz-1", "student-9")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if session.State() != quiz.StateAnswering {
		t.Fatalf("expected answering, got %s", session.State())
	}

	_ = session.Select(0, 1)
	_ = session.Select(1, 0)
	if session.Complete() {
		t.Fatalf("expected incomplete with one question unanswered")
	}
	if _, err := session.Submit(ctx); !errors.Is(err, domain.ErrQuizIncomplete) {
		t.Fatalf("expected incomplete error, got %v", err)
	}
	if scorer.calls != 0 || session.State() != quiz.StateAnswering {
		t.Fatalf("expected no submission while incomplete")
	}

	_ = session.Select(2, 2)
	_ = session.Select(0, 0)
	result, err := session.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 67 || result.CorrectAnswers != 2 {
		t.Fatalf("expected scorer verdict, got %+v", result)
	}

	got := scorer.last
	if got.StudentID != "student-9" || len(got.Answers) != 3 {
		t.Fatalf("expected 3 answers for student-9, got %+v", got)
	}
	want := []domain.Answer{{QuestionIndex: 0, SelectedAnswer: 0}, {QuestionIndex: 1, SelectedAnswer: 0}, {QuestionIndex: 2, SelectedAnswer: 2}}
	for i := range want {
		if got.Answers[i] != want[i] {
			t.Fatalf("answer %d: want %+v, got %+v", i, want[i], got.Answers[i])
		}
	}

	snap := session.Snapshot()
	if snap.State != quiz.StateScored || snap.Result == nil || snap.Answered != 3 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if err := session.Select(0, 1); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected scored session to reject selections, got %v", err)
	}
}

func TestSelectValidatesRange(t *testing.T) {
	session, _ := quiz.New(context.Background(), staticSource(), &fakeScorer{}, "quiz-1", "s")
	if err := session.Select(5, 0); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Fatalf("expected invalid question, got %v", err)
	}
	if err := session.Select(0, 9); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Fatalf("expected invalid option, got %v", err)
	}
}

func TestFetchFailureEntersErrorState(t *testing.T) {
	session, err := quiz.New(context.Background(), staticSource(), &fakeScorer{}, "missing", "s")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
	if session.State() != quiz.StateError || session.Snapshot().Error == "" {
		t.Fatalf("expected error state, got %s", session.State())
	}
}

func TestScorerFailureEntersErrorState(t *testing.T) {
	ctx := context.Background()
	scoreErr := errors.New("scoring unavailable")
	session, _ := quiz.New(ctx, staticSource(), &fakeScorer{err: scoreErr}, "quiz-1", "s")
	for i := 0; i < 3; i++ {
		_ = session.Select(i, 0)
	}
	if _, err := session.Submit(ctx); !errors.Is(err, scoreErr) {
		t.Fatalf("expected scorer error, got %v", err)
	}
	if session.State() != quiz.StateError {
		t.Fatalf("expected error state, got %s", session.State())
	}
	if _, err := session.Submit(ctx); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected no retry from error state, got %v", err)
	}
}

type fakeScorer struct {
	result domain.QuizResult
	err    error
	calls  int
	last   domain.Submission
}

func (f *fakeScorer) Score(_ context.Context, _ string, submission domain.Submission) (domain.QuizResult, error) {
	f.calls++
	f.last = submission
	return f.result, f.err
}

func staticSource() quiz.Source {
	return memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Title: "Properties warm-up",
			Questions: []domain.Question{
				{Question: "a + b = b + a is…", Options: []string{"Associative", "Commutative", "Identity"}},
				{Question: "a × 1 = a is…", Options: []string{"Identity", "Inverse"}},
				{Question: "2(3 + 4) = 2·3 + 2·4 is…", Options: []string{"Commutative", "Associative", "Distributive"}},
			},
		},
	})
}
