package editor

import (
	"sync"

	"tutorpress_backend/internal/quiz"
)

// TrueFalse 判断题编辑器。选项固定，只能选择正确项。
type TrueFalse struct {
	base

	mu   sync.Mutex
	seen map[quiz.ID]struct{}
}

func newTrueFalse(b base) *TrueFalse {
	return &TrueFalse{base: b, seen: make(map[quiz.ID]struct{})}
}

// Mount 补齐缺少的 "True"/"False" 选项，每个题目ID在编辑器生命周期内最多执行一次
func (e *TrueFalse) Mount(p Props) {
	if blocked(p, "mount") {
		return
	}
	e.mu.Lock()
	if _, done := e.seen[p.Question.ID]; done {
		e.mu.Unlock()
		return
	}
	e.seen[p.Question.ID] = struct{}{}
	e.mu.Unlock()

	var hasTrue, hasFalse bool
	for _, o := range p.Question.Answers {
		switch o.Title {
		case quiz.TrueLabel:
			hasTrue = true
		case quiz.FalseLabel:
			hasFalse = true
		}
	}
	if hasTrue && hasFalse {
		return
	}
	answers := quiz.CloneOptions(p.Question.Answers)
	pair := quiz.TrueFalseOptions(p.Question.ID)
	if !hasTrue {
		answers = append(answers, pair[0])
	}
	if !hasFalse {
		answers = append(answers, pair[1])
	}
	emitAnswers(p, answers)
}

// SetCorrect 把 id 标记为正确答案并清除另一项
func (e *TrueFalse) SetCorrect(p Props, id quiz.ID) {
	l := optionList{base: e.base, correctness: true, single: true}
	l.SetCorrect(p, id, true)
}

func (e *TrueFalse) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen = make(map[quiz.ID]struct{})
}
