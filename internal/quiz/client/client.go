// Package client 为 store 调用测验 REST 接口
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tutorpress_backend/internal/quiz/wire"
)

var ErrNotFound = errors.New("resource not found")

// APIError 表示非 2xx 响应，Errors 是保存被拒绝时各题的错误信息
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("api %d: %s: %s", e.Status, e.Message, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type HTTP struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func New(baseURL, token string) *HTTP {
	return &HTTP{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *HTTP) SaveQuiz(ctx context.Context, p wire.QuizPayload) (wire.QuizPayload, error) {
	var out wire.QuizPayload
	err := c.do(ctx, http.MethodPost, "/api/quizzes/save", p, &out)
	return out, err
}

func (c *HTTP) FetchQuiz(ctx context.Context, quizID int64) (wire.QuizPayload, error) {
	var out wire.QuizPayload
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/quizzes/%d", quizID), nil, &out)
	return out, err
}

func (c *HTTP) DeleteQuiz(ctx context.Context, quizID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/quizzes/%d", quizID), nil, nil)
}

func (c *HTTP) ReorderQuestions(ctx context.Context, quizID int64, questionIDs []int64) error {
	path := fmt.Sprintf("/api/quizzes/%d/questions/order", quizID)
	return c.do(ctx, http.MethodPut, path, wire.OrderPayload{Order: questionIDs}, nil)
}

func (c *HTTP) ReorderAnswers(ctx context.Context, questionID int64, answerIDs []int64) error {
	path := fmt.Sprintf("/api/questions/%d/answers/order", questionID)
	return c.do(ctx, http.MethodPut, path, wire.OrderPayload{Order: answerIDs}, nil)
}

// QuestionTypes 获取题型列表
func (c *HTTP) QuestionTypes(ctx context.Context) ([]wire.QuestionTypeInfo, error) {
	var out []wire.QuestionTypeInfo
	err := c.do(ctx, http.MethodGet, "/api/question-types", nil, &out)
	return out, err
}

// Attachment 查询媒体库记录，供 media.LibraryPicker 使用
func (c *HTTP) Attachment(ctx context.Context, id int64) (wire.Attachment, error) {
	var out wire.Attachment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/media/%d", id), nil, &out)
	return out, err
}

func (c *HTTP) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	hc := c.Client
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode/100 == 2 {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	if resp.StatusCode/100 != 2 {
		return apiError(resp.StatusCode, env, raw)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func apiError(status int, env envelope, raw []byte) error {
	e := &APIError{Status: status, Message: env.Message}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(raw))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if len(env.Data) > 0 {
		var data struct {
			Errors []string `json:"errors"`
		}
		if json.Unmarshal(env.Data, &data) == nil {
			e.Errors = data.Errors
		}
	}
	return e
}
