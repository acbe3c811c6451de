// Package editor 按题型实现编辑逻辑。编辑器从不原地修改题目，
// 每次编辑都通过 Props.OnQuestionUpdate 整体替换对应字段。
package editor

import (
	"fmt"

	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/validation"
	"tutorpress_backend/pkg/logger"

	"go.uber.org/zap"
)

type Field string

const (
	FieldAnswers  Field = "question_answers"
	FieldSettings Field = "question_settings"
)

// Update 是编辑器发出的一次替换，只有 Field 指定的字段有值
type Update struct {
	Field    Field
	Answers  []quiz.Option
	Settings quiz.QuestionSettings
}

type Props struct {
	Question             quiz.Question
	Index                int
	OnQuestionUpdate     func(index int, u Update)
	ShowValidationErrors bool
	IsSaving             bool
	OnDeletedAnswerID    func(id int64)
}

// Editor 每种题型的编辑器都实现该接口
type Editor interface {
	// Mount 在题目首次显示时调用
	Mount(p Props)
	// Errors 返回题目自身的校验错误，未显示校验错误时返回 nil
	Errors(p Props) []string
}

// Set 提供共用同一校验注册表和编辑会话的编辑器
type Set struct {
	registry  *validation.Registry
	trueFalse *TrueFalse
}

func NewSet(reg *validation.Registry) *Set {
	if reg == nil {
		reg = validation.NewRegistry()
	}
	b := base{registry: reg}
	return &Set{registry: reg, trueFalse: newTrueFalse(b)}
}

func (s *Set) Registry() *validation.Registry { return s.registry }

func (s *Set) For(t quiz.QuestionType) (Editor, error) {
	b := base{registry: s.registry}
	switch t {
	case quiz.TypeTrueFalse:
		return s.trueFalse, nil
	case quiz.TypeSingleChoice, quiz.TypeMultipleChoice:
		return &Choice{optionList: optionList{base: b, correctness: true, single: t == quiz.TypeSingleChoice}}, nil
	case quiz.TypeMatching, quiz.TypeImageMatching:
		return &Matching{optionList: optionList{base: b}}, nil
	case quiz.TypeFillInTheBlank:
		return &FillInBlank{base: b}, nil
	case quiz.TypeOrdering:
		return &Ordering{optionList: optionList{base: b}}, nil
	case quiz.TypeImageAnswering:
		return &ImageAnswering{optionList: optionList{base: b}}, nil
	case quiz.TypeOpenEnded, quiz.TypeShortAnswer:
		return &OpenEnded{base: b}, nil
	default:
		return nil, fmt.Errorf("%w: %q", quiz.ErrUnknownQuestionType, t)
	}
}

type base struct {
	registry *validation.Registry
}

func (base) Mount(Props) {}

func (b base) Errors(p Props) []string {
	if !p.ShowValidationErrors {
		return nil
	}
	return b.registry.QuestionErrors(p.Question)
}

// blocked 保存中的编辑会被丢弃
func blocked(p Props, op string) bool {
	if p.IsSaving {
		logger.Log.Debug("edit ignored while saving",
			zap.String("op", op),
			zap.Stringer("question", p.Question.ID))
		return true
	}
	return false
}

func emitAnswers(p Props, answers []quiz.Option) {
	if p.OnQuestionUpdate != nil {
		p.OnQuestionUpdate(p.Index, Update{Field: FieldAnswers, Answers: answers})
	}
}

func emitSettings(p Props, s quiz.QuestionSettings) {
	if p.OnQuestionUpdate != nil {
		p.OnQuestionUpdate(p.Index, Update{Field: FieldSettings, Settings: s})
	}
}

func deleted(p Props, o quiz.Option) {
	if id, ok := o.ID.ServerID(); ok && p.OnDeletedAnswerID != nil {
		p.OnDeletedAnswerID(id)
	}
}

func missing(p Props, op string, id quiz.ID) {
	logger.Log.Warn("edit ignored: option not found",
		zap.String("op", op),
		zap.Stringer("question", p.Question.ID),
		zap.Stringer("option", id))
}
