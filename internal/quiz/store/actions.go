package store

import (
	"context"

	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/editor"
	"tutorpress_backend/internal/quiz/form"
	"tutorpress_backend/internal/quiz/reorder"
	"tutorpress_backend/pkg/logger"

	"go.uber.org/zap"
)

// mutate 在锁内执行 fn，保存中直接忽略。fn 返回是否有变化，有变化时标记为已修改并通知监听者。
func (s *Store) mutate(op string, fn func() bool) bool {
	s.mu.Lock()
	if s.saveStatus == StatusSaving {
		s.mu.Unlock()
		logger.Log.Debug("store edit ignored while saving", zap.String("op", op))
		return false
	}
	changed := fn()
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.dirty = true
	s.revision++
	s.unlockAndNotify()
	return true
}

// AddQuestion 追加 t 类型的题目并返回下标，失败返回 -1
func (s *Store) AddQuestion(t quiz.QuestionType) int {
	idx := -1
	s.mutate("add_question", func() bool {
		if !t.Valid() {
			logger.Log.Warn("add question ignored: unknown type", zap.String("type", string(t)))
			return false
		}
		if !s.Available(t) {
			logger.Log.Warn("add question ignored: type not available", zap.String("type", string(t)))
			return false
		}
		idx = s.list.Add(t)
		return true
	})
	return idx
}

func (s *Store) RemoveQuestion(i int) bool {
	return s.mutate("remove_question", func() bool { return s.list.Remove(i) })
}

func (s *Store) DuplicateQuestion(i int) int {
	idx := -1
	s.mutate("duplicate_question", func() bool {
		idx = s.list.Duplicate(i)
		return idx >= 0
	})
	return idx
}

// EditQuestion 修改第 i 题，比如标题或分值
func (s *Store) EditQuestion(i int, fn func(q *quiz.Question)) bool {
	return s.mutate("edit_question", func() bool { return s.list.Edit(i, fn) })
}

func (s *Store) ApplyUpdate(i int, u editor.Update) bool {
	return s.mutate("apply_update", func() bool { return s.list.Apply(i, u) })
}

func (s *Store) RecordDeletedAnswer(id int64) {
	s.mutate("record_deleted_answer", func() bool {
		s.list.RecordDeletedAnswer(id)
		return id > 0
	})
}

// Select 切换选中的题目，不标记为已修改
func (s *Store) Select(i int) bool {
	s.mu.Lock()
	if !s.list.Select(i) {
		s.mu.Unlock()
		return false
	}
	s.unlockAndNotify()
	return true
}

func (s *Store) UpdateForm(fn func(f *form.Controller) error) error {
	var err error
	s.mutate("update_form", func() bool {
		err = fn(s.form)
		return err == nil
	})
	return err
}

// Props 返回第 i 题的编辑器参数，回调写回 store
func (s *Store) Props(i int, showErrors bool) (editor.Props, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.list.Question(i)
	if !ok {
		return editor.Props{}, false
	}
	return editor.Props{
		Question:             q,
		Index:                i,
		OnQuestionUpdate:     func(index int, u editor.Update) { s.ApplyUpdate(index, u) },
		ShowValidationErrors: showErrors,
		IsSaving:             s.saveStatus == StatusSaving,
		OnDeletedAnswerID:    s.RecordDeletedAnswer,
	}, true
}

func (s *Store) Mount(i int) error {
	p, ok := s.Props(i, false)
	if !ok {
		return nil
	}
	e, err := s.editors.For(p.Question.Type)
	if err != nil {
		return err
	}
	e.Mount(p)
	return nil
}

// ReorderQuestions 先在本地移动题目，再在后台保存新顺序。保存失败时以本地顺序为准。
func (s *Store) ReorderQuestions(activeID, overID quiz.ID) bool {
	s.mu.Lock()
	if s.saveStatus == StatusSaving {
		s.mu.Unlock()
		return false
	}
	if !s.list.Reorder(activeID, overID) {
		s.mu.Unlock()
		return false
	}
	quizID, persisted := s.form.ID().ServerID()
	qs := s.list.Questions()
	ids := reorder.IDs[quiz.Question](qs)
	if !persisted || len(ids) != len(qs) {
		// 未保存的题目只能在下次保存时写入顺序
		s.dirty = true
		s.revision++
		s.unlockAndNotify()
		return true
	}
	settle := s.beginPersistLocked()
	s.unlockAndNotify()

	go s.persist("questions", settle, func(ctx context.Context) error {
		return s.client.ReorderQuestions(ctx, quizID, ids)
	})
	return true
}

// ReorderAnswers 移动第 i 题的选项，行为与 ReorderQuestions 相同
func (s *Store) ReorderAnswers(i int, activeID, overID quiz.ID) bool {
	s.mu.Lock()
	if s.saveStatus == StatusSaving {
		s.mu.Unlock()
		return false
	}
	q, ok := s.list.Question(i)
	if !ok {
		s.mu.Unlock()
		return false
	}
	answers, ok := reorder.Options(q.Answers, activeID, overID)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.list.Apply(i, editor.Update{Field: editor.FieldAnswers, Answers: answers})
	questionID, persisted := q.ID.ServerID()
	ids := reorder.IDs[quiz.Option](answers)
	if !persisted || len(ids) != len(answers) {
		s.dirty = true
		s.revision++
		s.unlockAndNotify()
		return true
	}
	settle := s.beginPersistLocked()
	s.unlockAndNotify()

	go s.persist("answers", settle, func(ctx context.Context) error {
		return s.client.ReorderAnswers(ctx, questionID, ids)
	})
	return true
}

// beginPersistLocked 在后台请求成功前把会话标记为已修改。
// 返回的函数只在排序前未修改且期间没有其他改动时清除标记。
func (s *Store) beginPersistLocked() func() {
	wasDirty := s.dirty
	s.dirty = true
	s.revision++
	rev := s.revision
	s.background.Add(1)
	return func() {
		s.mu.Lock()
		if wasDirty || s.revision != rev {
			s.mu.Unlock()
			return
		}
		s.dirty = false
		s.unlockAndNotify()
	}
}

func (s *Store) persist(what string, settle func(), call func(ctx context.Context) error) {
	defer s.background.Done()
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := call(ctx); err != nil {
		logger.Log.Warn("reorder persistence failed; keeping local order",
			zap.String("list", what),
			zap.Error(err))
		return
	}
	settle()
}
