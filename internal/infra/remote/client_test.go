package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mathquest/internal/domain"
)

func TestFetchAndScore(t *testing.T) {
	var got domain.Submission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/quizzes/q1":
			_ = json.NewEncoder(w).Encode(domain.Quiz{
				ID:        "q1",
				Title:     "Properties",
				Questions: []domain.Question{{Question: "a + 0 = a?", Options: []string{"Identity", "Inverse"}}},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/quizzes/q1/submit":
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode submission: %v", err)
			}
			_ = json.NewEncoder(w).Encode(domain.QuizResult{Score: 100, CorrectAnswers: 1})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second)
	ctx := context.Background()

	quiz, err := client.FetchQuiz(ctx, "q1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if quiz.Title != "Properties" || len(quiz.Questions) != 1 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}

	result, err := client.Score(ctx, "q1", domain.Submission{
		StudentID: "s1",
		Answers:   []domain.Answer{{QuestionIndex: 0, SelectedAnswer: 0}},
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Score != 100 || result.CorrectAnswers != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if got.StudentID != "s1" || len(got.Answers) != 1 {
		t.Fatalf("unexpected submission %+v", got)
	}
}

func TestFetchMissingQuiz(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchQuiz(context.Background(), "nope")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestScoreServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Score(context.Background(), "q1", domain.Submission{})
	if err == nil {
		t.Fatalf("expected error on 500")
	}
}
