package editor

import (
	"math"

	"tutorpress_backend/internal/quiz"
)

// DragActivationDistance 指针移动超过该像素距离才开始拖拽，否则视为点击
const DragActivationDistance = 8.0

func ShouldActivateDrag(dx, dy float64) bool {
	return math.Hypot(dx, dy) >= DragActivationDistance
}

// Matching 同时处理匹配题和图片匹配题，按 is_image_matching 设置区分
type Matching struct {
	optionList
}

func (m *Matching) ImageMode(p Props) bool {
	return p.Question.Settings.IsImageMatching
}

// EditMatch 设置匹配项的答案文本
func (m *Matching) EditMatch(p Props, id quiz.ID, text string) {
	m.edit(p, "edit_match", id, func(o *quiz.Option) { o.Secondary = text })
}

// SetImageMatching 切换图片模式，关闭时清除所有图片并保留文本
func (m *Matching) SetImageMatching(p Props, on bool) {
	if blocked(p, "set_image_matching") {
		return
	}
	settings := p.Question.Settings
	settings.IsImageMatching = on
	emitSettings(p, settings)
	if on {
		return
	}
	answers := quiz.CloneOptions(p.Question.Answers)
	for i := range answers {
		answers[i].Image = quiz.Image{}
		answers[i].DataStatus = answers[i].DataStatus.Touched()
	}
	emitAnswers(p, answers)
}
