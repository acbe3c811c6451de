// 从 YAML 文件导入测验
//
// 脚本使用与编辑器相同的状态容器和校验规则，校验通过后一次请求保存整个测验。
// 常用于初始化演示数据或在环境之间迁移题库。
//
// 用法: go run scripts/quiz_sync.go -file quiz.yaml -server http://localhost:8080

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"tutorpress_backend/internal/config"
	"tutorpress_backend/internal/model"
	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/client"
	"tutorpress_backend/internal/quiz/form"
	"tutorpress_backend/internal/quiz/store"
	"tutorpress_backend/internal/util"
	"tutorpress_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

type answerFixture struct {
	Title     string `yaml:"title"`
	Correct   bool   `yaml:"correct"`
	Secondary string `yaml:"secondary"`
}

type questionFixture struct {
	Type        string          `yaml:"type"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Explanation string          `yaml:"explanation"`
	Mark        float64         `yaml:"mark"`
	Answers     []answerFixture `yaml:"answers"`
}

type quizFixture struct {
	TopicID     int64             `yaml:"topic_id"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Settings    map[string]any    `yaml:"settings"`
	Questions   []questionFixture `yaml:"questions"`
}

func main() {
	file := flag.String("file", "quiz.yaml", "测验 YAML 文件")
	server := flag.String("server", "http://localhost:8080", "服务地址")
	userID := flag.Uint("user", 1, "作者用户ID")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("无法读取测验文件: %v", err)
	}
	var fx quizFixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		log.Fatalf("解析测验文件失败: %v", err)
	}

	token, err := util.GenerateJWT(*userID, model.Instructor, "", cfg.JWT.Secret, time.Hour)
	if err != nil {
		log.Fatalf("生成令牌失败: %v", err)
	}

	api := client.New(*server, token)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Quiz.SaveTimeout())
	types, err := api.QuestionTypes(ctx)
	cancel()
	if err != nil {
		log.Fatalf("获取题型列表失败: %v", err)
	}

	s := store.New(api,
		store.WithSaveTimeout(cfg.Quiz.SaveTimeout()),
		store.WithCatalog(types),
		store.WithForm(form.New(form.WithContentDrip(cfg.Quiz.ContentDrip))))
	if err := build(s, fx); err != nil {
		log.Fatalf("构建测验失败: %v", err)
	}

	if err := s.Save(context.Background()); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			for _, msg := range verr.Form {
				log.Println(msg)
			}
			for _, msg := range verr.Questions.Errors {
				log.Println(msg)
			}
		}
		log.Fatalf("保存失败: %v", err)
	}

	st := s.State()
	id, _ := st.QuizID.ServerID()
	log.Printf("完成！测验 %d 共 %d 道题", id, len(st.Questions))
}

func build(s *store.Store, fx quizFixture) error {
	s.NewQuiz(fx.TopicID)
	err := s.UpdateForm(func(f *form.Controller) error {
		f.UpdateTitle(fx.Title)
		f.UpdateDescription(fx.Description)
		if len(fx.Settings) == 0 {
			return nil
		}
		return f.UpdateSettings(fx.Settings)
	})
	if err != nil {
		return err
	}

	for _, qf := range fx.Questions {
		i := s.AddQuestion(quiz.QuestionType(qf.Type))
		if i < 0 {
			return errors.New("question type not available: " + qf.Type)
		}
		s.EditQuestion(i, func(q *quiz.Question) {
			q.Title = qf.Title
			q.Description = qf.Description
			q.AnswerExplanation = qf.Explanation
			if qf.Mark > 0 {
				q.Mark = qf.Mark
			}
			if q.Type == quiz.TypeTrueFalse {
				// 判断题只需标记正确的一项
				for j := range q.Answers {
					for _, af := range qf.Answers {
						if af.Correct && af.Title == q.Answers[j].Title {
							q.Answers[j].Correct = true
						}
					}
				}
				return
			}
			for j, af := range qf.Answers {
				o := quiz.NewOption(*q, j+1)
				o.Title = af.Title
				o.Correct = af.Correct
				o.Secondary = af.Secondary
				q.Answers = append(q.Answers, o)
			}
		})
	}
	return nil
}
