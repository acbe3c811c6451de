package repository

import (
	"context"
	"errors"

	"tutorpress_backend/internal/model"

	"gorm.io/gorm"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// FindByID 加载测验及其题目和选项，按顺序排列
func (r *QuizRepository) FindByID(ctx context.Context, id uint) (*model.Quiz, error) {
	var q model.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_order asc, id asc")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_order asc, id asc")
		}).
		First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	return &q, err
}

// QuizIDOfQuestion 返回题目所属的测验ID
func (r *QuizRepository) QuizIDOfQuestion(ctx context.Context, questionID uint) (uint, error) {
	var q model.QuizQuestion
	err := r.DB.WithContext(ctx).Select("id", "quiz_id").First(&q, questionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrQuestionNotFound
	}
	return q.QuizID, err
}

// SaveAggregate 在一个事务中保存整个测验。ID 为 0 的题目和选项会被新建，
// gorm 回填的主键按数组位置对应到请求中的临时ID。
func (r *QuizRepository) SaveAggregate(ctx context.Context, q *model.Quiz, deletedQuestionIDs, deletedAnswerIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if q.ID == 0 {
			if err := tx.Omit("Questions").Create(q).Error; err != nil {
				return err
			}
		} else {
			res := tx.Model(&model.Quiz{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
				"topic_id":    q.TopicID,
				"title":       q.Title,
				"description": q.Description,
				"settings":    q.Settings,
				"menu_order":  q.MenuOrder,
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&model.Quiz{}).Where("id = ?", q.ID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ErrQuizNotFound
				}
			}
		}

		// 删除只作用于本测验下的题目，其他测验的ID被忽略
		ownQuestions := func() *gorm.DB {
			return tx.Model(&model.QuizQuestion{}).Select("id").Where("quiz_id = ?", q.ID)
		}
		if len(deletedAnswerIDs) > 0 {
			if err := tx.Where("id IN ? AND question_id IN (?)", deletedAnswerIDs, ownQuestions()).
				Delete(&model.QuizQuestionAnswer{}).Error; err != nil {
				return err
			}
		}
		if len(deletedQuestionIDs) > 0 {
			if err := tx.Where("question_id IN ? AND question_id IN (?)", deletedQuestionIDs, ownQuestions()).
				Delete(&model.QuizQuestionAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ? AND quiz_id = ?", deletedQuestionIDs, q.ID).Delete(&model.QuizQuestion{}).Error; err != nil {
				return err
			}
		}

		for i := range q.Questions {
			question := &q.Questions[i]
			question.QuizID = q.ID
			if err := saveQuestion(tx, question); err != nil {
				return err
			}
			for j := range question.Answers {
				answer := &question.Answers[j]
				answer.QuestionID = question.ID
				if err := saveAnswer(tx, answer); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func saveQuestion(tx *gorm.DB, q *model.QuizQuestion) error {
	if q.ID == 0 {
		return tx.Omit("Answers").Create(q).Error
	}
	res := tx.Model(&model.QuizQuestion{}).Where("id = ? AND quiz_id = ?", q.ID, q.QuizID).Updates(map[string]interface{}{
		"type":               q.Type,
		"title":              q.Title,
		"description":        q.Description,
		"answer_explanation": q.AnswerExplanation,
		"mark":               q.Mark,
		"question_order":     q.Order,
		"settings":           q.Settings,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return exists(tx, &model.QuizQuestion{}, "id = ? AND quiz_id = ?", ErrQuestionNotFound, q.ID, q.QuizID)
	}
	return nil
}

func saveAnswer(tx *gorm.DB, a *model.QuizQuestionAnswer) error {
	if a.ID == 0 {
		return tx.Create(a).Error
	}
	res := tx.Model(&model.QuizQuestionAnswer{}).Where("id = ? AND question_id = ?", a.ID, a.QuestionID).Updates(map[string]interface{}{
		"question_type": a.QuestionType,
		"title":         a.Title,
		"is_correct":    a.IsCorrect,
		"image_id":      a.ImageID,
		"image_url":     a.ImageURL,
		"two_gap_match": a.TwoGapMatch,
		"view_format":   a.ViewFormat,
		"answer_order":  a.Order,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return exists(tx, &model.QuizQuestionAnswer{}, "id = ? AND question_id = ?", ErrAnswerNotFound, a.ID, a.QuestionID)
	}
	return nil
}

// exists 区分“未找到”和“数据未变化”两种 RowsAffected 为 0 的情况
func exists(tx *gorm.DB, m interface{}, query string, notFound error, args ...interface{}) error {
	var count int64
	if err := tx.Model(m).Where(query, args...).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}

// ReorderQuestions 按给定顺序重写 question_order（从 1 开始）
func (r *QuizRepository) ReorderQuestions(ctx context.Context, quizID uint, questionIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range questionIDs {
			res := tx.Model(&model.QuizQuestion{}).
				Where("id = ? AND quiz_id = ?", id, quizID).
				Update("question_order", i+1)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				if err := exists(tx, &model.QuizQuestion{}, "id = ? AND quiz_id = ?", ErrQuestionNotFound, id, quizID); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *QuizRepository) ReorderAnswers(ctx context.Context, questionID uint, answerIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range answerIDs {
			res := tx.Model(&model.QuizQuestionAnswer{}).
				Where("id = ? AND question_id = ?", id, questionID).
				Update("answer_order", i+1)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				if err := exists(tx, &model.QuizQuestionAnswer{}, "id = ? AND question_id = ?", ErrAnswerNotFound, id, questionID); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Delete 删除测验及其全部题目和选项
func (r *QuizRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownQuestions := tx.Model(&model.QuizQuestion{}).Select("id").Where("quiz_id = ?", id)
		if err := tx.Where("question_id IN (?)", ownQuestions).Delete(&model.QuizQuestionAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Quiz{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuizNotFound
		}
		return nil
	})
}
