package editor

import (
	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/reorder"
	"tutorpress_backend/pkg/logger"

	"go.uber.org/zap"
)

// QuestionList 一个测验的有序题目列表，以及上次保存后删除的ID。非并发安全。
type QuestionList struct {
	questions          []quiz.Question
	selected           int
	deletedQuestionIDs []int64
	deletedAnswerIDs   []int64
}

func NewQuestionList(qs []quiz.Question) *QuestionList {
	l := &QuestionList{selected: -1}
	l.Reset(qs)
	return l
}

// Reset 替换题目并清空已删除ID，选中位置仍有效时保留
func (l *QuestionList) Reset(qs []quiz.Question) {
	l.questions = quiz.CloneQuestions(qs)
	if l.questions == nil {
		l.questions = []quiz.Question{}
	}
	l.deletedQuestionIDs = nil
	l.deletedAnswerIDs = nil
	if l.selected >= len(l.questions) {
		l.selected = len(l.questions) - 1
	}
}

func (l *QuestionList) Len() int { return len(l.questions) }

func (l *QuestionList) Questions() []quiz.Question { return quiz.CloneQuestions(l.questions) }

func (l *QuestionList) Question(i int) (quiz.Question, bool) {
	if i < 0 || i >= len(l.questions) {
		return quiz.Question{}, false
	}
	return l.questions[i].Clone(), true
}

func (l *QuestionList) Selected() int { return l.selected }

func (l *QuestionList) DeletedQuestionIDs() []int64 {
	return append([]int64(nil), l.deletedQuestionIDs...)
}

func (l *QuestionList) DeletedAnswerIDs() []int64 {
	return append([]int64(nil), l.deletedAnswerIDs...)
}

func (l *QuestionList) valid(i int, op string) bool {
	if i < 0 || i >= len(l.questions) {
		logger.Log.Warn("question list: index out of range",
			zap.String("op", op),
			zap.Int("index", i),
			zap.Int("len", len(l.questions)))
		return false
	}
	return true
}

// Add 追加一个 t 类型的新题目并选中，返回其下标
func (l *QuestionList) Add(t quiz.QuestionType) int {
	q := quiz.NewQuestion(t, len(l.questions)+1)
	l.questions = append(l.questions, q)
	l.selected = len(l.questions) - 1
	return l.selected
}

// Remove 移除第 i 题，已保存的题目在下次保存时删除
func (l *QuestionList) Remove(i int) bool {
	if !l.valid(i, "remove") {
		return false
	}
	if id, ok := l.questions[i].ID.ServerID(); ok {
		l.deletedQuestionIDs = appendUnique(l.deletedQuestionIDs, id)
	}
	l.questions = append(l.questions[:i:i], l.questions[i+1:]...)
	reorder.Renumber[quiz.Question](l.questions)
	switch {
	case l.selected == i && l.selected >= len(l.questions):
		l.selected = len(l.questions) - 1
	case l.selected > i:
		l.selected--
	}
	return true
}

// Duplicate 在第 i 题后插入副本，副本及其选项使用新的临时ID
func (l *QuestionList) Duplicate(i int) int {
	if !l.valid(i, "duplicate") {
		return -1
	}
	dup := l.questions[i].Clone()
	dup.ID = quiz.NewPendingID()
	dup.Title += CopySuffix
	dup.DataStatus = quiz.StatusNew
	for j := range dup.Answers {
		dup.Answers[j].ID = quiz.NewPendingID()
		dup.Answers[j].QuestionID = dup.ID
		dup.Answers[j].DataStatus = quiz.StatusNew
	}
	out := make([]quiz.Question, 0, len(l.questions)+1)
	out = append(out, l.questions[:i+1]...)
	out = append(out, dup)
	out = append(out, l.questions[i+1:]...)
	l.questions = reorder.Renumber[quiz.Question](out)
	l.selected = i + 1
	return i + 1
}

// Reorder 把 activeID 移到 overID 的位置，选中状态跟随原来选中的题目
func (l *QuestionList) Reorder(activeID, overID quiz.ID) bool {
	var selectedID quiz.ID
	if l.selected >= 0 && l.selected < len(l.questions) {
		selectedID = l.questions[l.selected].ID
	}
	out, ok := reorder.Questions(l.questions, activeID, overID)
	if !ok {
		return false
	}
	l.questions = out
	if !selectedID.IsZero() {
		l.selected = reorder.IndexOf[quiz.Question](l.questions, selectedID)
	}
	return true
}

func (l *QuestionList) Select(i int) bool {
	if i != -1 && !l.valid(i, "select") {
		return false
	}
	l.selected = i
	return true
}

func (l *QuestionList) Edit(i int, fn func(q *quiz.Question)) bool {
	if !l.valid(i, "edit") {
		return false
	}
	q := l.questions[i].Clone()
	fn(&q)
	q.DataStatus = q.DataStatus.Touched()
	l.questions[i] = q
	return true
}

// Apply 把编辑器的更新写入第 i 题
func (l *QuestionList) Apply(i int, u Update) bool {
	return l.Edit(i, func(q *quiz.Question) {
		switch u.Field {
		case FieldAnswers:
			q.Answers = quiz.CloneOptions(u.Answers)
		case FieldSettings:
			q.Settings = u.Settings
		}
	})
}

// RecordDeletedAnswer 记录已保存的选项ID，下次保存时删除
func (l *QuestionList) RecordDeletedAnswer(id int64) {
	if id > 0 {
		l.deletedAnswerIDs = appendUnique(l.deletedAnswerIDs, id)
	}
}

// Props 为第 i 题构造编辑器参数，回调直接写回 l
func (l *QuestionList) Props(i int, showErrors, isSaving bool) (Props, bool) {
	q, ok := l.Question(i)
	if !ok {
		return Props{}, false
	}
	return Props{
		Question:             q,
		Index:                i,
		OnQuestionUpdate:     func(index int, u Update) { l.Apply(index, u) },
		ShowValidationErrors: showErrors,
		IsSaving:             isSaving,
		OnDeletedAnswerID:    l.RecordDeletedAnswer,
	}, true
}

func appendUnique(ids []int64, id int64) []int64 {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}
