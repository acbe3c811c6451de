package model

import (
	"gorm.io/datatypes"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	TopicID     uint           `gorm:"index" json:"topicId"`
	AuthorID    uint           `gorm:"index" json:"authorId"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Settings    datatypes.JSON `json:"settings"`
	MenuOrder   int            `gorm:"default:0" json:"menuOrder"`
	Questions   []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID            uint                 `gorm:"index;not null" json:"quizId"`
	Type              string               `gorm:"size:50;not null" json:"type"`
	Title             string               `gorm:"type:text" json:"title"`
	Description       string               `gorm:"type:text" json:"description"`
	AnswerExplanation string               `gorm:"type:text" json:"answerExplanation"`
	Mark              float64              `gorm:"default:1" json:"mark"`
	Order             int                  `gorm:"column:question_order;default:0" json:"order"`
	Settings          datatypes.JSON       `json:"settings"`
	Answers           []QuizQuestionAnswer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// swagger:model QuizQuestionAnswer
type QuizQuestionAnswer struct {
	BaseModel
	QuestionID   uint   `gorm:"index;not null" json:"questionId"`
	QuestionType string `gorm:"size:50" json:"questionType"`
	Title        string `gorm:"type:text" json:"title"`
	IsCorrect    bool   `gorm:"default:false" json:"isCorrect"`
	ImageID      uint   `json:"imageId"`
	ImageURL     string `gorm:"size:512" json:"imageUrl"`
	TwoGapMatch  string `gorm:"type:text" json:"twoGapMatch"`
	ViewFormat   string `gorm:"size:50" json:"viewFormat"`
	Order        int    `gorm:"column:answer_order;default:0" json:"order"`
}

func (QuizQuestionAnswer) TableName() string {
	return "quiz_question_answers"
}
