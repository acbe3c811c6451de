package service

import (
	"encoding/json"
	"fmt"

	"tutorpress_backend/internal/model"
	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/wire"

	"gorm.io/datatypes"
)

func serverID(id quiz.ID) uint {
	if v, ok := id.ServerID(); ok {
		return uint(v)
	}
	return 0
}

// toModel 把编辑器提交的测验映射为数据库模型。临时ID映射为 0，由数据库分配。
func toModel(q quiz.Quiz, authorID uint) (*model.Quiz, error) {
	settings, err := json.Marshal(wire.EncodeSettings(q.Settings))
	if err != nil {
		return nil, err
	}
	m := &model.Quiz{
		TopicID:     uint(q.TopicID),
		AuthorID:    authorID,
		Title:       q.Title,
		Description: q.Description,
		Settings:    datatypes.JSON(settings),
		MenuOrder:   q.MenuOrder,
		Questions:   make([]model.QuizQuestion, 0, len(q.Questions)),
	}
	m.ID = serverID(q.ID)

	for i, question := range q.Questions {
		qs, err := json.Marshal(wire.EncodeQuestion(question).QuestionSettings)
		if err != nil {
			return nil, err
		}
		mq := model.QuizQuestion{
			Type:              string(question.Type),
			Title:             question.Title,
			Description:       question.Description,
			AnswerExplanation: question.AnswerExplanation,
			Mark:              question.Mark,
			Order:             i + 1,
			Settings:          datatypes.JSON(qs),
			Answers:           make([]model.QuizQuestionAnswer, 0, len(question.Answers)),
		}
		mq.ID = serverID(question.ID)
		for j, o := range question.Answers {
			ma := model.QuizQuestionAnswer{
				QuestionType: string(question.Type),
				Title:        o.Title,
				IsCorrect:    o.Correct,
				ImageID:      uint(o.Image.ID),
				ImageURL:     o.Image.URL,
				TwoGapMatch:  o.Secondary,
				ViewFormat:   o.ViewFormat,
				Order:        j + 1,
			}
			ma.ID = serverID(o.ID)
			mq.Answers = append(mq.Answers, ma)
		}
		m.Questions = append(m.Questions, mq)
	}
	return m, nil
}

// fromModel 把数据库模型还原为规范的测验，所有实体都是已保存状态
func fromModel(m *model.Quiz) (quiz.Quiz, error) {
	var option map[string]interface{}
	if len(m.Settings) > 0 {
		if err := json.Unmarshal(m.Settings, &option); err != nil {
			return quiz.Quiz{}, fmt.Errorf("quiz %d settings: %w", m.ID, err)
		}
	}
	settings, err := wire.DecodeSettings(option)
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("quiz %d settings: %w", m.ID, err)
	}
	out := quiz.Quiz{
		ID:          quiz.Persisted(int64(m.ID)),
		TopicID:     int64(m.TopicID),
		Title:       m.Title,
		Description: m.Description,
		Settings:    settings,
		MenuOrder:   m.MenuOrder,
		Questions:   make([]quiz.Question, 0, len(m.Questions)),
	}
	for _, mq := range m.Questions {
		var qs wire.QuestionSettingsPayload
		if len(mq.Settings) > 0 {
			if err := json.Unmarshal(mq.Settings, &qs); err != nil {
				return quiz.Quiz{}, fmt.Errorf("question %d settings: %w", mq.ID, err)
			}
		}
		qid := quiz.Persisted(int64(mq.ID))
		question := quiz.Question{
			ID:                qid,
			Type:              quiz.QuestionType(mq.Type),
			Title:             mq.Title,
			Description:       mq.Description,
			AnswerExplanation: mq.AnswerExplanation,
			Mark:              mq.Mark,
			Order:             mq.Order,
			DataStatus:        quiz.StatusNoChange,
			Settings: quiz.QuestionSettings{
				AnswerRequired:   bool(qs.AnswerRequired),
				RandomizeOptions: bool(qs.RandomizeQuestion),
				ShowQuestionMark: bool(qs.ShowQuestionMark),
				IsImageMatching:  qs.ImageMatching(quiz.QuestionType(mq.Type)),
			},
			Answers: make([]quiz.Option, 0, len(mq.Answers)),
		}
		for _, ma := range mq.Answers {
			question.Answers = append(question.Answers, quiz.Option{
				ID:           quiz.Persisted(int64(ma.ID)),
				QuestionID:   qid,
				QuestionType: quiz.QuestionType(ma.QuestionType),
				Title:        ma.Title,
				Correct:      ma.IsCorrect,
				Image:        quiz.Image{ID: int64(ma.ImageID), URL: ma.ImageURL},
				Secondary:    ma.TwoGapMatch,
				ViewFormat:   ma.ViewFormat,
				Order:        ma.Order,
				DataStatus:   quiz.StatusNoChange,
			})
		}
		out.Questions = append(out.Questions, question)
	}
	return out, nil
}
