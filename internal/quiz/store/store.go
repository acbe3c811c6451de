// Package store 是一次测验编辑会话的状态容器。
// 它持有题目列表和表单，一次请求保存整个测验，并把服务端返回的规范数据合并回本地。
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/editor"
	"tutorpress_backend/internal/quiz/form"
	"tutorpress_backend/internal/quiz/validation"
	"tutorpress_backend/internal/quiz/wire"
	"tutorpress_backend/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrSaveInFlight = errors.New("a save is already in progress")
	ErrSaveTimeout  = errors.New("save timed out")
	ErrInvalid      = errors.New("quiz is not valid")
)

// DefaultSaveTimeout 未配置时的保存超时
const DefaultSaveTimeout = 30 * time.Second

// Client store 依赖的 REST 接口
type Client interface {
	SaveQuiz(ctx context.Context, p wire.QuizPayload) (wire.QuizPayload, error)
	FetchQuiz(ctx context.Context, quizID int64) (wire.QuizPayload, error)
	ReorderQuestions(ctx context.Context, quizID int64, questionIDs []int64) error
	ReorderAnswers(ctx context.Context, questionID int64, answerIDs []int64) error
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSaving  Status = "saving"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ValidationError 列出阻止保存的错误
type ValidationError struct {
	Form      map[string]string
	Questions validation.Summary
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Form)+len(e.Questions.Errors))
	for _, m := range e.Form {
		msgs = append(msgs, m)
	}
	msgs = append(msgs, e.Questions.Errors...)
	return "quiz is not valid: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// State 交给选择器和监听者的状态快照
type State struct {
	QuizID             quiz.ID
	FetchStatus        Status
	FetchError         string
	SaveStatus         Status
	SaveError          string
	Questions          []quiz.Question
	Selected           int
	DeletedQuestionIDs []int64
	DeletedAnswerIDs   []int64
	Form               form.State
	IsDirty            bool
}

type Listener func(State)

type Option func(*Store)

func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.saveTimeout = d
		}
	}
}

func WithRegistry(r *validation.Registry) Option {
	return func(s *Store) { s.registry = r }
}

func WithForm(f *form.Controller) Option {
	return func(s *Store) { s.form = f }
}

// WithCatalog 只允许 AddQuestion 添加题型列表中可用的题型
func WithCatalog(types []wire.QuestionTypeInfo) Option {
	return func(s *Store) {
		s.catalog = make(map[quiz.QuestionType]bool, len(types))
		for _, info := range types {
			s.catalog[quiz.QuestionType(info.Type)] = info.Available
		}
	}
}

// WithPersistTimeout 后台排序请求的超时
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

type Store struct {
	mu       sync.Mutex
	client   Client
	registry *validation.Registry
	editors  *editor.Set
	form     *form.Controller
	list     *editor.QuestionList
	catalog  map[quiz.QuestionType]bool

	fetchStatus Status
	fetchErr    error
	saveStatus  Status
	saveErr     error
	dirty       bool
	revision    uint64

	saveTimeout    time.Duration
	persistTimeout time.Duration

	listeners    map[int]Listener
	nextListener int
	closed       bool
	background   sync.WaitGroup
}

func New(client Client, opts ...Option) *Store {
	s := &Store{
		client:         client,
		list:           editor.NewQuestionList(nil),
		fetchStatus:    StatusIdle,
		saveStatus:     StatusIdle,
		saveTimeout:    DefaultSaveTimeout,
		persistTimeout: DefaultSaveTimeout,
		listeners:      make(map[int]Listener),
	}
	for _, o := range opts {
		o(s)
	}
	if s.registry == nil {
		s.registry = validation.NewRegistry()
	}
	if s.form == nil {
		s.form = form.New()
	}
	s.editors = editor.NewSet(s.registry)
	return s
}

func (s *Store) Editors() *editor.Set { return s.editors }

func (s *Store) Registry() *validation.Registry { return s.registry }

// Available 判断能否添加 t 类型的题目，未设置题型列表时所有已知题型都可用
func (s *Store) Available(t quiz.QuestionType) bool {
	if !t.Valid() {
		return false
	}
	if s.catalog == nil {
		return true
	}
	return s.catalog[t]
}

// Subscribe 订阅状态变化，返回取消订阅的函数
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close 移除所有监听者，进行中的请求仍会更新状态
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = make(map[int]Listener)
}

// Wait 等待后台排序请求完成
func (s *Store) Wait() { s.background.Wait() }

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (s *Store) snapshotLocked() State {
	return State{
		QuizID:             s.form.ID(),
		FetchStatus:        s.fetchStatus,
		FetchError:         errString(s.fetchErr),
		SaveStatus:         s.saveStatus,
		SaveError:          errString(s.saveErr),
		Questions:          s.list.Questions(),
		Selected:           s.list.Selected(),
		DeletedQuestionIDs: s.list.DeletedQuestionIDs(),
		DeletedAnswerIDs:   s.list.DeletedAnswerIDs(),
		Form:               s.form.State(),
		IsDirty:            s.dirty || s.form.IsDirty(),
	}
}

// unlockAndNotify 先释放锁，再用新状态通知所有监听者
func (s *Store) unlockAndNotify() {
	if s.closed || len(s.listeners) == 0 {
		s.mu.Unlock()
		return
	}
	st := s.snapshotLocked()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()
	for _, l := range ls {
		l(st)
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Questions() []quiz.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Questions()
}

func (s *Store) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveStatus == StatusSaving
}

func (s *Store) SaveError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errString(s.saveErr)
}

func (s *Store) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty || s.form.IsDirty()
}

// DismissError 清除保存和加载错误
func (s *Store) DismissError() {
	s.mu.Lock()
	if s.saveStatus == StatusError {
		s.saveStatus = StatusIdle
	}
	if s.fetchStatus == StatusError {
		s.fetchStatus = StatusIdle
	}
	s.saveErr = nil
	s.fetchErr = nil
	s.unlockAndNotify()
}

// NewQuiz 在 topicID 下开始一个新测验
func (s *Store) NewQuiz(topicID int64) {
	s.mu.Lock()
	s.form = form.New(form.WithTopic(topicID), form.WithContentDrip(s.form.ContentDrip()))
	s.list = editor.NewQuestionList(nil)
	s.dirty = false
	s.revision++
	s.saveStatus, s.saveErr = StatusIdle, nil
	s.fetchStatus, s.fetchErr = StatusIdle, nil
	s.unlockAndNotify()
}

// Load 加载测验并替换本地状态
func (s *Store) Load(ctx context.Context, quizID int64) error {
	s.mu.Lock()
	s.fetchStatus, s.fetchErr = StatusLoading, nil
	s.unlockAndNotify()

	p, err := s.client.FetchQuiz(ctx, quizID)

	s.mu.Lock()
	if err == nil {
		err = s.hydrateLocked(p)
	}
	if err != nil {
		s.fetchStatus, s.fetchErr = StatusError, err
		logger.Log.Warn("quiz fetch failed", zap.Int64("quiz_id", quizID), zap.Error(err))
	} else {
		s.fetchStatus = StatusSuccess
	}
	s.unlockAndNotify()
	return err
}

// hydrateLocked 按数组位置替换题目并清空已删除ID
func (s *Store) hydrateLocked(p wire.QuizPayload) error {
	q, err := wire.DecodeQuiz(p)
	if err != nil {
		return err
	}
	if err := s.form.InitializeWithData(p); err != nil {
		return err
	}
	s.list.Reset(q.Questions)
	s.dirty = false
	s.revision++
	return nil
}

func (s *Store) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *Store) validateLocked() error {
	formOK := s.form.ValidateEntireForm()
	summary := s.registry.ValidateAll(s.list.Questions())
	if formOK && summary.IsValid {
		return nil
	}
	return &ValidationError{Form: s.form.State().Errors, Questions: summary}
}

// Save 一次请求保存整个测验。成功时按位置用服务端返回的题目替换本地题目，
// 失败时保留本地修改并记录错误。
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.saveStatus == StatusSaving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	if err := s.validateLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	payload := s.form.GetFormData(s.list.Questions())
	payload.DeletedQuestionIDs = nonNil(s.list.DeletedQuestionIDs())
	payload.DeletedAnswerIDs = nonNil(s.list.DeletedAnswerIDs())
	s.saveStatus, s.saveErr = StatusSaving, nil
	timeout := s.saveTimeout
	s.unlockAndNotify()

	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	resp, err := s.client.SaveQuiz(tctx, payload)
	if err != nil && errors.Is(tctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err = fmt.Errorf("%w after %s", ErrSaveTimeout, timeout)
	}

	s.mu.Lock()
	if err == nil {
		err = s.hydrateLocked(resp)
	}
	if err != nil {
		s.saveStatus, s.saveErr = StatusError, err
		logger.Log.Warn("quiz save failed",
			zap.String("title", payload.PostTitle),
			zap.Int("questions", len(payload.Questions)),
			zap.Error(err))
	} else {
		s.saveStatus = StatusSuccess
	}
	s.unlockAndNotify()
	return err
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
