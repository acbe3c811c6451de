package quiz

import (
	"errors"
	"strings"
)

// QuestionType 编辑器支持的题型
type QuestionType string

const (
	TypeTrueFalse      QuestionType = "true_false"
	TypeSingleChoice   QuestionType = "single_choice"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeOpenEnded      QuestionType = "open_ended"
	TypeFillInTheBlank QuestionType = "fill_in_the_blank"
	TypeShortAnswer    QuestionType = "short_answer"
	TypeMatching       QuestionType = "matching"
	TypeImageMatching  QuestionType = "image_matching"
	TypeImageAnswering QuestionType = "image_answering"
	TypeOrdering       QuestionType = "ordering"
)

// QuestionTypes 按目录顺序列出全部题型
var QuestionTypes = []QuestionType{
	TypeTrueFalse,
	TypeSingleChoice,
	TypeMultipleChoice,
	TypeOpenEnded,
	TypeFillInTheBlank,
	TypeShortAnswer,
	TypeMatching,
	TypeImageMatching,
	TypeImageAnswering,
	TypeOrdering,
}

var ErrUnknownQuestionType = errors.New("unknown question type")

func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", ErrUnknownQuestionType
	}
	return t, nil
}

// DataStatus 告诉保存接口如何处理该条数据
type DataStatus string

const (
	StatusNew      DataStatus = "new"
	StatusUpdate   DataStatus = "update"
	StatusNoChange DataStatus = "no_change"
	StatusDelete   DataStatus = "delete"
)

// Touched 返回本地编辑后的状态，新建的数据保持 new
func (s DataStatus) Touched() DataStatus {
	if s == StatusNew {
		return StatusNew
	}
	return StatusUpdate
}

func ParseDataStatus(s string) DataStatus {
	switch DataStatus(s) {
	case StatusNew, StatusUpdate, StatusDelete:
		return DataStatus(s)
	default:
		return StatusNoChange
	}
}

type Image struct {
	ID  int64
	URL string
}

func (i Image) Valid() bool {
	return i.ID > 0 && strings.TrimSpace(i.URL) != ""
}

func (i Image) IsZero() bool {
	return i.ID == 0 && i.URL == ""
}
