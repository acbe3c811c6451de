package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"tutorpress_backend/internal/config"
	"tutorpress_backend/internal/model"
	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/form"
	"tutorpress_backend/internal/quiz/validation"
	"tutorpress_backend/internal/quiz/wire"
	"tutorpress_backend/internal/util"
	"tutorpress_backend/pkg/events"
	"tutorpress_backend/pkg/logger"
	"tutorpress_backend/pkg/monitoring"
	"tutorpress_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// QuizStore 是 QuizService 依赖的持久化接口，由 repository.QuizRepository 实现
type QuizStore interface {
	FindByID(ctx context.Context, id uint) (*model.Quiz, error)
	QuizIDOfQuestion(ctx context.Context, questionID uint) (uint, error)
	SaveAggregate(ctx context.Context, q *model.Quiz, deletedQuestionIDs, deletedAnswerIDs []uint) error
	ReorderQuestions(ctx context.Context, quizID uint, questionIDs []uint) error
	ReorderAnswers(ctx context.Context, questionID uint, answerIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

// Actor 是发起请求的用户
type Actor struct {
	UserID uint
	Role   model.UserRole
}

func (a Actor) owns(authorID uint) bool {
	if !a.Role.CanAuthor() {
		return false
	}
	return a.Role == model.Admin || authorID == a.UserID
}

// ValidationError 汇总阻止保存的全部错误
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "quiz validation failed: " + strings.Join(e.Errors, "; ")
}

type QuizService struct {
	Repo        QuizStore
	Cache       QuizCache
	Events      events.Publisher
	Registry    *validation.Registry
	Types       *QuestionTypeService
	ContentDrip bool
}

func NewQuizService(repo QuizStore, cache QuizCache, pub events.Publisher, types *QuestionTypeService, cfg *config.Config) *QuizService {
	if cache == nil {
		cache = NopQuizCache{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	if types == nil {
		types = NewQuestionTypeService(cfg.Quiz)
	}
	return &QuizService{
		Repo:        repo,
		Cache:       cache,
		Events:      pub,
		Registry:    validation.NewRegistry(),
		Types:       types,
		ContentDrip: cfg.Quiz.ContentDrip,
	}
}

// Validate 运行与编辑器相同的表单和题目校验，并拒绝当前不可用的题型
func (s *QuizService) Validate(p wire.QuizPayload) (quiz.Quiz, error) {
	q, err := wire.DecodeQuiz(p)
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("%w: %v", util.ErrInvalidPayload, err)
	}

	var msgs []string
	f := form.New(form.WithContentDrip(s.ContentDrip))
	if err := f.InitializeWithData(p); err != nil {
		return quiz.Quiz{}, fmt.Errorf("%w: %v", util.ErrInvalidPayload, err)
	}
	if !f.ValidateEntireForm() {
		errs := f.State().Errors
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msgs = append(msgs, errs[k])
		}
	}

	for i, question := range q.Questions {
		if !s.Types.Available(question.Type) {
			msgs = append(msgs, fmt.Sprintf("Question %d: Question type %q is not available.", i+1, question.Type))
		}
	}

	summary := s.Registry.ValidateAll(q.Questions)
	for _, r := range summary.Results {
		if !r.Valid {
			monitoring.QuizValidationFailures.WithLabelValues(string(r.QuestionType)).Inc()
		}
	}
	msgs = append(msgs, summary.Errors...)

	if len(msgs) > 0 {
		return q, &ValidationError{Errors: msgs}
	}
	return q, nil
}

// Save 校验后在一个事务中保存整个测验，返回规范化后的测验。
// 返回的题目和选项与请求按位置一一对应。
func (s *QuizService) Save(ctx context.Context, actor Actor, p wire.QuizPayload) (wire.QuizPayload, error) {
	ctx, span := tracing.Start(ctx, "QuizService.Save")
	defer span.End()
	span.SetAttributes(attribute.Int("quiz.questions", len(p.Questions)))

	q, err := s.Validate(p)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			monitoring.QuizSaveCounter.WithLabelValues("invalid").Inc()
		}
		span.SetStatus(codes.Error, "invalid quiz")
		return wire.QuizPayload{}, err
	}

	if !actor.Role.CanAuthor() {
		return wire.QuizPayload{}, util.ErrPermissionDenied
	}
	if id := serverID(q.ID); id != 0 {
		existing, err := s.Repo.FindByID(ctx, id)
		if err != nil {
			return wire.QuizPayload{}, s.fail(span, err)
		}
		if !actor.owns(existing.AuthorID) {
			return wire.QuizPayload{}, util.ErrPermissionDenied
		}
	}

	m, err := toModel(q, actor.UserID)
	if err != nil {
		return wire.QuizPayload{}, s.fail(span, err)
	}
	if err := s.Repo.SaveAggregate(ctx, m, util.Int64sToUints(p.DeletedQuestionIDs), util.Int64sToUints(p.DeletedAnswerIDs)); err != nil {
		return wire.QuizPayload{}, s.fail(span, err)
	}

	canonical, err := fromModel(m)
	if err != nil {
		return wire.QuizPayload{}, s.fail(span, err)
	}
	out := wire.EncodeQuiz(canonical)

	s.invalidate(ctx, m.ID)
	s.publish(events.QuizSaved, map[string]interface{}{
		"quiz_id":   m.ID,
		"author_id": actor.UserID,
		"questions": len(m.Questions),
	})
	monitoring.QuizSaveCounter.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.Int64("quiz.id", int64(m.ID)))
	logger.Log.Info("quiz saved",
		zap.Uint("quiz_id", m.ID),
		zap.Uint("author_id", actor.UserID),
		zap.Int("questions", len(m.Questions)))
	return out, nil
}

func (s *QuizService) fail(span trace.Span, err error) error {
	monitoring.QuizSaveCounter.WithLabelValues("error").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Get 返回测验内容，优先读取缓存。只有作者和管理员可以读取。
func (s *QuizService) Get(ctx context.Context, actor Actor, id uint) (wire.QuizPayload, error) {
	ctx, span := tracing.Start(ctx, "QuizService.Get")
	defer span.End()

	if entry, ok, err := s.Cache.Get(ctx, id); err != nil {
		logger.Log.Warn("quiz cache read failed", zap.Uint("quiz_id", id), zap.Error(err))
	} else if ok {
		monitoring.QuizCacheCounter.WithLabelValues("hit").Inc()
		if !actor.owns(entry.AuthorID) {
			return wire.QuizPayload{}, util.ErrPermissionDenied
		}
		return entry.Quiz, nil
	}
	monitoring.QuizCacheCounter.WithLabelValues("miss").Inc()

	m, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return wire.QuizPayload{}, err
	}
	if !actor.owns(m.AuthorID) {
		return wire.QuizPayload{}, util.ErrPermissionDenied
	}
	q, err := fromModel(m)
	if err != nil {
		return wire.QuizPayload{}, err
	}
	p := wire.EncodeQuiz(q)
	if err := s.Cache.Set(ctx, id, CachedQuiz{AuthorID: m.AuthorID, Quiz: p}); err != nil {
		logger.Log.Warn("quiz cache write failed", zap.Uint("quiz_id", id), zap.Error(err))
	}
	return p, nil
}

func (s *QuizService) authorize(ctx context.Context, actor Actor, quizID uint) error {
	m, err := s.Repo.FindByID(ctx, quizID)
	if err != nil {
		return err
	}
	if !actor.owns(m.AuthorID) {
		return util.ErrPermissionDenied
	}
	return nil
}

func (s *QuizService) ReorderQuestions(ctx context.Context, actor Actor, quizID uint, ids []int64) error {
	ctx, span := tracing.Start(ctx, "QuizService.ReorderQuestions")
	defer span.End()

	if err := s.authorize(ctx, actor, quizID); err != nil {
		return err
	}
	if err := s.Repo.ReorderQuestions(ctx, quizID, util.Int64sToUints(ids)); err != nil {
		return err
	}
	s.invalidate(ctx, quizID)
	return nil
}

func (s *QuizService) ReorderAnswers(ctx context.Context, actor Actor, questionID uint, ids []int64) error {
	ctx, span := tracing.Start(ctx, "QuizService.ReorderAnswers")
	defer span.End()

	quizID, err := s.Repo.QuizIDOfQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, quizID); err != nil {
		return err
	}
	if err := s.Repo.ReorderAnswers(ctx, questionID, util.Int64sToUints(ids)); err != nil {
		return err
	}
	s.invalidate(ctx, quizID)
	return nil
}

func (s *QuizService) Delete(ctx context.Context, actor Actor, quizID uint) error {
	ctx, span := tracing.Start(ctx, "QuizService.Delete")
	defer span.End()

	if err := s.authorize(ctx, actor, quizID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, quizID); err != nil {
		return err
	}
	s.invalidate(ctx, quizID)
	s.publish(events.QuizDeleted, map[string]interface{}{"quiz_id": quizID, "author_id": actor.UserID})
	return nil
}

func (s *QuizService) invalidate(ctx context.Context, quizID uint) {
	if err := s.Cache.Invalidate(ctx, quizID); err != nil {
		logger.Log.Warn("quiz cache invalidation failed", zap.Uint("quiz_id", quizID), zap.Error(err))
	}
}

// publish 事件发送失败不影响保存结果
func (s *QuizService) publish(eventType string, payload interface{}) {
	if err := s.Events.Publish(eventType, payload); err != nil {
		logger.Log.Warn("event publish failed", zap.String("type", eventType), zap.Error(err))
	}
}
