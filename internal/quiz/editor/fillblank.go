package editor

import (
	"strings"

	"tutorpress_backend/internal/quiz"
)

// FillInBlank 填空题编辑器。题目最多一个选项，标题是题干，Secondary 存放答案。
type FillInBlank struct {
	base
}

// Content 返回题干和可接受的答案
func (f *FillInBlank) Content(p Props) (prompt string, answers []string) {
	if len(p.Question.Answers) == 0 {
		return "", nil
	}
	rec := p.Question.Answers[0]
	return rec.Title, SplitAnswers(rec.Secondary)
}

// SetContent 替换题干和答案，必要时创建选项，旧数据中多余的选项会被丢弃
func (f *FillInBlank) SetContent(p Props, prompt string, answers []string) {
	if blocked(p, "set_content") {
		return
	}
	var rec quiz.Option
	if len(p.Question.Answers) == 0 {
		rec = quiz.NewOption(p.Question, 1)
	} else {
		rec = p.Question.Answers[0]
		rec.DataStatus = rec.DataStatus.Touched()
		for _, extra := range p.Question.Answers[1:] {
			deleted(p, extra)
		}
	}
	rec.Title = prompt
	rec.Secondary = JoinAnswers(answers)
	rec.Order = 1
	emitAnswers(p, []quiz.Option{rec})
}

// SplitAnswers 拆分答案列表并去掉空项
func SplitAnswers(s string) []string {
	var out []string
	for _, a := range strings.Split(s, quiz.BlankAnswerSeparator) {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func JoinAnswers(answers []string) string {
	clean := make([]string, 0, len(answers))
	for _, a := range answers {
		if a = strings.TrimSpace(a); a != "" {
			clean = append(clean, a)
		}
	}
	return strings.Join(clean, quiz.BlankAnswerSeparator)
}

func Blanks(prompt string) int {
	return strings.Count(prompt, quiz.BlankToken)
}
