package repository

import (
	"context"
	"errors"
	"testing"

	"tutorpress_backend/internal/model"
	"tutorpress_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 内存库每个连接各自独立，只保留一个连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(database.Models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func trueFalse(title string, order int) model.QuizQuestion {
	return model.QuizQuestion{
		Type:  "true_false",
		Title: title,
		Mark:  1,
		Order: order,
		Answers: []model.QuizQuestionAnswer{
			{QuestionType: "true_false", Title: "True", IsCorrect: true, Order: 1},
			{QuestionType: "true_false", Title: "False", Order: 2},
		},
	}
}

func saveNew(t *testing.T, repo *QuizRepository, author uint, questions ...model.QuizQuestion) *model.Quiz {
	t.Helper()
	q := &model.Quiz{AuthorID: author, Title: "Quiz", Questions: questions}
	if err := repo.SaveAggregate(context.Background(), q, nil, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	return q
}

func countAnswers(t *testing.T, db *gorm.DB, questionID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.QuizQuestionAnswer{}).Where("question_id = ?", questionID).Count(&n).Error; err != nil {
		t.Fatalf("count answers: %v", err)
	}
	return n
}

func TestSaveAggregateAssignsIDsInRequestOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuizRepository(db)

	q := saveNew(t, repo, 7, trueFalse("Q1", 1), trueFalse("Q2", 2), trueFalse("Q3", 3))
	if q.ID == 0 {
		t.Fatal("quiz id not assigned")
	}
	var prev uint
	for i, question := range q.Questions {
		if question.ID <= prev {
			t.Fatalf("question %d id = %d, want > %d", i, question.ID, prev)
		}
		prev = question.ID
		if question.QuizID != q.ID {
			t.Fatalf("question %d quiz id = %d, want %d", i, question.QuizID, q.ID)
		}
		for j, a := range question.Answers {
			if a.ID == 0 || a.QuestionID != question.ID {
				t.Fatalf("question %d answer %d = %+v", i, j, a)
			}
		}
	}

	got, err := repo.FindByID(context.Background(), q.ID)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"Q1", "Q2", "Q3"} {
		if got.Questions[i].Title != want || got.Questions[i].ID != q.Questions[i].ID {
			t.Fatalf("question %d = %d %q, want %d %q", i, got.Questions[i].ID, got.Questions[i].Title, q.Questions[i].ID, want)
		}
		if got.Questions[i].Answers[0].Title != "True" {
			t.Fatalf("question %d answers out of order: %+v", i, got.Questions[i].Answers)
		}
	}
}

func TestSaveAggregateUpdatesPersistedRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuizRepository(db)
	q := saveNew(t, repo, 7, trueFalse("Q1", 1), trueFalse("Q2", 2))

	q.Title = "Renamed"
	q.Questions[0].Title = "Q1 edited"
	q.Questions[0].Order, q.Questions[1].Order = 2, 1
	q.Questions[0].Answers[0].IsCorrect = false
	q.Questions[0].Answers[1].IsCorrect = true
	if err := repo.SaveAggregate(context.Background(), q, nil, nil); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.FindByID(context.Background(), q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Renamed" || len(got.Questions) != 2 {
		t.Fatalf("quiz = %q with %d questions", got.Title, len(got.Questions))
	}
	if got.Questions[0].Title != "Q2" || got.Questions[1].Title != "Q1 edited" {
		t.Fatalf("order = %q, %q", got.Questions[0].Title, got.Questions[1].Title)
	}
	edited := got.Questions[1]
	if edited.Answers[0].IsCorrect || !edited.Answers[1].IsCorrect {
		t.Fatalf("answers = %+v", edited.Answers)
	}
	if n := countAnswers(t, db, edited.ID); n != 2 {
		t.Fatalf("answers = %d, want 2", n)
	}
}

func TestSaveAggregateDeletesByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuizRepository(db)
	q := saveNew(t, repo, 7, trueFalse("Q1", 1), trueFalse("Q2", 2))
	keep, drop := q.Questions[0], q.Questions[1]
	droppedAnswer := keep.Answers[1].ID

	keep.Answers = keep.Answers[:1]
	q.Questions = []model.QuizQuestion{keep}
	if err := repo.SaveAggregate(context.Background(), q, []uint{drop.ID}, []uint{droppedAnswer}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.FindByID(context.Background(), q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Questions) != 1 || got.Questions[0].ID != keep.ID {
		t.Fatalf("questions = %+v", got.Questions)
	}
	if len(got.Questions[0].Answers) != 1 || got.Questions[0].Answers[0].ID == droppedAnswer {
		t.Fatalf("answers = %+v", got.Questions[0].Answers)
	}
	if n := countAnswers(t, db, drop.ID); n != 0 {
		t.Fatalf("answers of deleted question = %d", n)
	}
}

func TestSaveAggregateIgnoresForeignDeletes(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuizRepository(db)
	victim := saveNew(t, repo, 7, trueFalse("Victim", 1))
	attacker := saveNew(t, repo, 8, trueFalse("Mine", 1))

	victimQ := victim.Questions[0]
	err := repo.SaveAggregate(context.Background(), attacker,
		[]uint{victimQ.ID}, []uint{victimQ.Answers[0].ID})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.FindByID(context.Background(), victim.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Questions) != 1 || len(got.Questions[0].Answers) != 2 {
		t.Fatalf("victim quiz = %+v", got.Questions)
	}
}

func TestSaveAggregateRejectsForeignIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuizRepository(db)
	victim := saveNew(t, repo, 7, trueFalse("Victim", 1))
	attacker := saveNew(t, repo, 8, trueFalse("Mine", 1))
	ctx := context.Background()

	stolen := victim.Questions[0]
	stolen.Title = "hijacked"
	q := *attacker
	q.Questions = []model.QuizQuestion{stolen}
	if err := repo.SaveAggregate(ctx, &q, nil, nil); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("foreign question err = %v", err)
	}

	own := attacker.Questions[0]
	own.Answers = append([]model.QuizQuestionAnswer(nil), own.Answers...)
	own.Answers[0].ID = victim.Questions[0].Answers[0].ID
	q.Questions = []model.QuizQuestion{own}
	if err := repo.SaveAggregate(ctx, &q, nil, nil); !errors.Is(err, ErrAnswerNotFound) {
		t.Fatalf("foreign answer err = %v", err)
	}

	missing := &model.Quiz{BaseModel: model.BaseModel{ID: 9999}, Title: "Ghost"}
	if err := repo.SaveAggregate(ctx, missing, nil, nil); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("missing quiz err = %v", err)
	}

	got, err := repo.FindByID(ctx, victim.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Questions[0].Title != "Victim" {
		t.Fatalf("victim question title = %q", got.Questions[0].Title)
	}
}

func TestReorderAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuizRepository(db)
	ctx := context.Background()
	q := saveNew(t, repo, 7, trueFalse("Q1", 1), trueFalse("Q2", 2))
	other := saveNew(t, repo, 7, trueFalse("Other", 1))

	ids := []uint{q.Questions[1].ID, q.Questions[0].ID}
	if err := repo.ReorderQuestions(ctx, q.ID, ids); err != nil {
		t.Fatal(err)
	}
	got, err := repo.FindByID(ctx, q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Questions[0].Title != "Q2" || got.Questions[0].Order != 1 {
		t.Fatalf("first question = %q order %d", got.Questions[0].Title, got.Questions[0].Order)
	}
	if err := repo.ReorderQuestions(ctx, q.ID, []uint{other.Questions[0].ID}); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("foreign reorder err = %v", err)
	}

	answers := q.Questions[0].Answers
	if err := repo.ReorderAnswers(ctx, q.Questions[0].ID, []uint{answers[1].ID, answers[0].ID}); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.FindByID(ctx, q.ID)
	if got.Questions[1].Answers[0].Title != "False" {
		t.Fatalf("answers = %+v", got.Questions[1].Answers)
	}

	if err := repo.Delete(ctx, q.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindByID(ctx, q.ID); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("find after delete err = %v", err)
	}
	if n := countAnswers(t, db, q.Questions[0].ID); n != 0 {
		t.Fatalf("answers after delete = %d", n)
	}
	if n := countAnswers(t, db, other.Questions[0].ID); n != 2 {
		t.Fatalf("other quiz answers = %d", n)
	}
	if err := repo.Delete(ctx, q.ID); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}
