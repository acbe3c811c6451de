// Package reorder 题目列表和选项列表共用的拖拽排序
package reorder

import (
	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/pkg/logger"

	"go.uber.org/zap"
)

// Item 有ID、从 1 开始的顺序和数据状态
type Item interface {
	ItemID() quiz.ID
	ItemOrder() int
	ItemStatus() quiz.DataStatus
}

type Mutable[T any] interface {
	*T
	Item
	SetOrder(int)
	SetStatus(quiz.DataStatus)
}

func IndexOf[T any, P Mutable[T]](items []T, id quiz.ID) int {
	for i := range items {
		if P(&items[i]).ItemID() == id {
			return i
		}
	}
	return -1
}

// Move 把 activeID 移到 overID 的位置并重新编号。ID 不存在时列表不变，返回 false。
func Move[T any, P Mutable[T]](items []T, activeID, overID quiz.ID) ([]T, bool) {
	from := IndexOf[T, P](items, activeID)
	to := IndexOf[T, P](items, overID)
	if from < 0 || to < 0 {
		logger.Log.Warn("reorder ignored: item not found",
			zap.Stringer("active", activeID),
			zap.Stringer("over", overID),
			zap.Int("items", len(items)))
		return items, false
	}
	return MoveIndex[T, P](items, from, to)
}

// MoveIndex 把 items[from] 移到下标 to 并重新编号
func MoveIndex[T any, P Mutable[T]](items []T, from, to int) ([]T, bool) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		logger.Log.Warn("reorder ignored: index out of range",
			zap.Int("from", from),
			zap.Int("to", to),
			zap.Int("items", len(items)))
		return items, false
	}
	out := make([]T, 0, len(items))
	moved := items[from]
	for i := range items {
		if i != from {
			out = append(out, items[i])
		}
	}
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return Renumber[T, P](out), true
}

// Renumber 原地重新编号（从 1 开始），顺序变化的数据标记为 update，新建的保持 new
func Renumber[T any, P Mutable[T]](items []T) []T {
	for i := range items {
		p := P(&items[i])
		if p.ItemOrder() != i+1 {
			p.SetOrder(i + 1)
			p.SetStatus(p.ItemStatus().Touched())
		}
	}
	return items
}

func Options(opts []quiz.Option, activeID, overID quiz.ID) ([]quiz.Option, bool) {
	return Move[quiz.Option](quiz.CloneOptions(opts), activeID, overID)
}

func Questions(qs []quiz.Question, activeID, overID quiz.ID) ([]quiz.Question, bool) {
	return Move[quiz.Question](quiz.CloneQuestions(qs), activeID, overID)
}

// IDs 按当前顺序返回服务端ID，跳过临时ID
func IDs[T any, P Mutable[T]](items []T) []int64 {
	out := make([]int64, 0, len(items))
	for i := range items {
		if id, ok := P(&items[i]).ItemID().ServerID(); ok {
			out = append(out, id)
		}
	}
	return out
}
