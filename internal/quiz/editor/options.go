package editor

import (
	"context"

	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/media"
	"tutorpress_backend/internal/quiz/reorder"
)

// CopySuffix 复制选项时追加到文本后
const CopySuffix = " (Copy)"

// optionList 是管理选项列表的编辑器共用的增删改排操作
type optionList struct {
	base
	correctness bool
	single      bool
}

func (l optionList) edit(p Props, op string, id quiz.ID, fn func(o *quiz.Option)) bool {
	if blocked(p, op) {
		return false
	}
	i := p.Question.FindOption(id)
	if i < 0 {
		missing(p, op, id)
		return false
	}
	answers := quiz.CloneOptions(p.Question.Answers)
	fn(&answers[i])
	answers[i].DataStatus = answers[i].DataStatus.Touched()
	emitAnswers(p, answers)
	return true
}

// Add 追加一个空选项并返回其ID
func (l optionList) Add(p Props) quiz.ID {
	if blocked(p, "add") {
		return quiz.ID{}
	}
	o := quiz.NewOption(p.Question, len(p.Question.Answers)+1)
	emitAnswers(p, append(quiz.CloneOptions(p.Question.Answers), o))
	return o.ID
}

func (l optionList) EditText(p Props, id quiz.ID, text string) {
	l.edit(p, "edit_text", id, func(o *quiz.Option) { o.Title = text })
}

// SetCorrect 标记正确选项，单选时清除其他选项
func (l optionList) SetCorrect(p Props, id quiz.ID, correct bool) {
	if !l.correctness {
		return
	}
	if blocked(p, "set_correct") {
		return
	}
	i := p.Question.FindOption(id)
	if i < 0 {
		missing(p, "set_correct", id)
		return
	}
	answers := quiz.CloneOptions(p.Question.Answers)
	for j := range answers {
		want := answers[j].Correct
		switch {
		case j == i:
			want = correct
		case l.single && correct:
			want = false
		}
		if answers[j].Correct != want {
			answers[j].Correct = want
			answers[j].DataStatus = answers[j].DataStatus.Touched()
		}
	}
	emitAnswers(p, answers)
}

func (l optionList) SetImage(p Props, id quiz.ID, img quiz.Image) {
	l.edit(p, "set_image", id, func(o *quiz.Option) { o.Image = img })
}

// PickImage 打开选择器并把结果写入选项，取消时不做修改
func (l optionList) PickImage(ctx context.Context, p Props, id quiz.ID, picker media.Picker) error {
	if blocked(p, "pick_image") {
		return nil
	}
	return media.Attach(ctx, picker, media.ImageConfig("Select image"), func(img quiz.Image) {
		l.SetImage(p, id, img)
	})
}

func (l optionList) RemoveImage(p Props, id quiz.ID) {
	l.edit(p, "remove_image", id, func(o *quiz.Option) { o.Image = quiz.Image{} })
}

// Duplicate 在原选项后插入副本并返回其ID
func (l optionList) Duplicate(p Props, id quiz.ID) quiz.ID {
	if blocked(p, "duplicate") {
		return quiz.ID{}
	}
	i := p.Question.FindOption(id)
	if i < 0 {
		missing(p, "duplicate", id)
		return quiz.ID{}
	}
	dup := p.Question.Answers[i]
	dup.ID = quiz.NewPendingID()
	dup.Title += CopySuffix
	dup.Correct = false
	dup.DataStatus = quiz.StatusNew

	answers := make([]quiz.Option, 0, len(p.Question.Answers)+1)
	answers = append(answers, p.Question.Answers[:i+1]...)
	answers = append(answers, dup)
	answers = append(answers, p.Question.Answers[i+1:]...)
	emitAnswers(p, reorder.Renumber[quiz.Option](answers))
	return dup.ID
}

// Delete 删除选项，已保存的选项通过 OnDeletedAnswerID 上报
func (l optionList) Delete(p Props, id quiz.ID) {
	if blocked(p, "delete") {
		return
	}
	i := p.Question.FindOption(id)
	if i < 0 {
		missing(p, "delete", id)
		return
	}
	answers := make([]quiz.Option, 0, len(p.Question.Answers))
	answers = append(answers, p.Question.Answers[:i]...)
	answers = append(answers, p.Question.Answers[i+1:]...)
	deleted(p, p.Question.Answers[i])
	emitAnswers(p, reorder.Renumber[quiz.Option](answers))
}

func (l optionList) Reorder(p Props, activeID, overID quiz.ID) bool {
	if blocked(p, "reorder") {
		return false
	}
	answers, ok := reorder.Options(p.Question.Answers, activeID, overID)
	if ok {
		emitAnswers(p, answers)
	}
	return ok
}

// Choice 单选题和多选题
type Choice struct {
	optionList
}

// Ordering 排序题，选项顺序即答案
type Ordering struct {
	optionList
}

// ImageAnswering 看图作答题，每个选项是一张图片和需要输入的文本
type ImageAnswering struct {
	optionList
}

// OpenEnded 问答题和简答题，没有选项
type OpenEnded struct {
	base
}
