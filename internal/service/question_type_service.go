package service

import (
	"sync"

	"tutorpress_backend/internal/config"
	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/wire"
	"tutorpress_backend/pkg/logger"

	"go.uber.org/zap"
)

var questionTypeLabels = map[quiz.QuestionType]string{
	quiz.TypeTrueFalse:      "True/False",
	quiz.TypeSingleChoice:   "Single Choice",
	quiz.TypeMultipleChoice: "Multiple Choice",
	quiz.TypeOpenEnded:      "Open Ended/Essay",
	quiz.TypeFillInTheBlank: "Fill in the Blanks",
	quiz.TypeShortAnswer:    "Short Answer",
	quiz.TypeMatching:       "Matching",
	quiz.TypeImageMatching:  "Image Matching",
	quiz.TypeImageAnswering: "Image Answering",
	quiz.TypeOrdering:       "Ordering",
}

// QuestionTypeService 提供题型目录。Pro 题型只有在开启 Pro 时可用，配置可热更新。
type QuestionTypeService struct {
	mu         sync.RWMutex
	proEnabled bool
	proTypes   map[quiz.QuestionType]bool
}

func NewQuestionTypeService(cfg config.QuizConfig) *QuestionTypeService {
	s := &QuestionTypeService{}
	s.apply(cfg)
	return s
}

func (s *QuestionTypeService) apply(cfg config.QuizConfig) {
	pro := make(map[quiz.QuestionType]bool, len(cfg.ProTypes))
	for _, t := range cfg.ProTypes {
		qt, err := quiz.ParseQuestionType(t)
		if err != nil {
			logger.Log.Warn("unknown pro question type in config", zap.String("type", t))
			continue
		}
		pro[qt] = true
	}
	s.mu.Lock()
	s.proEnabled = cfg.ProEnabled
	s.proTypes = pro
	s.mu.Unlock()
}

// Reload 作为配置热更新回调注册
func (s *QuestionTypeService) Reload(cfg *config.Config) {
	s.apply(cfg.Quiz)
	logger.Log.Info("question type catalog reloaded", zap.Bool("pro_enabled", cfg.Quiz.ProEnabled))
}

func (s *QuestionTypeService) List() []wire.QuestionTypeInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]wire.QuestionTypeInfo, 0, len(quiz.QuestionTypes))
	for _, t := range quiz.QuestionTypes {
		pro := s.proTypes[t]
		out = append(out, wire.QuestionTypeInfo{
			Type:      string(t),
			Label:     questionTypeLabels[t],
			Pro:       pro,
			Available: !pro || s.proEnabled,
		})
	}
	return out
}

func (s *QuestionTypeService) Available(t quiz.QuestionType) bool {
	if !t.Valid() {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.proTypes[t] || s.proEnabled
}
