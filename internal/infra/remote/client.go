// Package remote talks to the external quiz API that serves quiz content and scores submissions.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mathquest/internal/domain"
)

// Client implements quiz fetching and scoring over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchQuiz loads GET {base}/quizzes/{id}.
func (c *Client) FetchQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.quizURL(quizID), nil)
	if err != nil {
		return domain.Quiz{}, err
	}
	var quiz domain.Quiz
	if err := c.do(req, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	if quiz.ID == "" {
		quiz.ID = quizID
	}
	return quiz, nil
}

// Score posts the full answer set to {base}/quizzes/{id}/submit.
func (c *Client) Score(ctx context.Context, quizID string, submission domain.Submission) (domain.QuizResult, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return domain.QuizResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.quizURL(quizID)+"/submit", bytes.NewReader(body))
	if err != nil {
		return domain.QuizResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	var result domain.QuizResult
	if err := c.do(req, &result); err != nil {
		return domain.QuizResult{}, err
	}
	return result, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrQuizNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) quizURL(quizID string) string {
	return c.baseURL + "/quizzes/" + url.PathEscape(quizID)
}
