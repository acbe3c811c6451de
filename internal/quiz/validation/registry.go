// Package validation 题目校验规则注册表，编辑器、store 和保存接口共用
package validation

import (
	"fmt"
	"sync"

	"tutorpress_backend/internal/quiz"
)

// Rule 检查题目，返回可读的错误信息
type Rule func(q quiz.Question) []string

// Result 单个题目的校验结果，QuestionIndex 只由 ValidateAll 设置
type Result struct {
	Valid         bool              `json:"is_valid"`
	Errors        []string          `json:"errors"`
	QuestionType  quiz.QuestionType `json:"question_type"`
	QuestionIndex *int              `json:"question_index,omitempty"`
}

type Summary struct {
	IsValid             bool     `json:"is_valid"`
	Errors              []string `json:"errors"`
	Results             []Result `json:"results"`
	TotalQuestions      int      `json:"total_questions"`
	QuestionsWithErrors int      `json:"questions_with_errors"`
}

// Registry 按题型保存规则，规则只追加不删除，可并发使用
type Registry struct {
	mu     sync.RWMutex
	common []Rule
	byType map[quiz.QuestionType][]Rule
}

// NewRegistry 返回带内置规则的注册表
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.RegisterCommon(titleRequired)
	for _, t := range []quiz.QuestionType{quiz.TypeTrueFalse, quiz.TypeSingleChoice, quiz.TypeMultipleChoice} {
		r.Register(t, choiceRules(t)...)
	}
	r.Register(quiz.TypeMatching, matchingRules...)
	r.Register(quiz.TypeImageMatching, matchingRules...)
	r.Register(quiz.TypeFillInTheBlank, fillInTheBlankRules...)
	r.Register(quiz.TypeOrdering, orderingRules...)
	r.Register(quiz.TypeImageAnswering, imageAnsweringRules...)
	return r
}

func NewEmptyRegistry() *Registry {
	return &Registry{byType: make(map[quiz.QuestionType][]Rule)}
}

// Register 为 t 追加规则，不影响已经返回的结果
func (r *Registry) Register(t quiz.QuestionType, rules ...Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[t] = append(r.byType[t], rules...)
}

// RegisterCommon 追加对所有题型生效的规则
func (r *Registry) RegisterCommon(rules ...Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.common = append(r.common, rules...)
}

func (r *Registry) rulesFor(t quiz.QuestionType) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, 0, len(r.common)+len(r.byType[t]))
	out = append(out, r.common...)
	return append(out, r.byType[t]...)
}

// QuestionErrors 先执行通用规则，再执行题型规则，没有规则的题型不产生错误
func (r *Registry) QuestionErrors(q quiz.Question) []string {
	errs := []string{}
	for _, rule := range r.rulesFor(q.Type) {
		errs = append(errs, rule(q)...)
	}
	return errs
}

func (r *Registry) ValidateQuestion(q quiz.Question) Result {
	errs := r.QuestionErrors(q)
	return Result{
		Valid:        len(errs) == 0,
		Errors:       errs,
		QuestionType: q.Type,
	}
}

// ValidateAll 校验全部题目，汇总错误前加上从 1 开始的题号
func (r *Registry) ValidateAll(qs []quiz.Question) Summary {
	s := Summary{
		Errors:         []string{},
		Results:        make([]Result, 0, len(qs)),
		TotalQuestions: len(qs),
	}
	for i, q := range qs {
		res := r.ValidateQuestion(q)
		idx := i
		res.QuestionIndex = &idx
		if !res.Valid {
			s.QuestionsWithErrors++
			for _, e := range res.Errors {
				s.Errors = append(s.Errors, fmt.Sprintf("Question %d: %s", i+1, e))
			}
		}
		s.Results = append(s.Results, res)
	}
	s.IsValid = s.QuestionsWithErrors == 0
	return s
}
