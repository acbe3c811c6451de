package editor

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/media"
	"tutorpress_backend/internal/quiz/validation"
)

// host 保存一个题目并应用编辑器的更新
type host struct {
	q       quiz.Question
	deleted []int64
	updates []Update
}

func newHost(q quiz.Question) *host { return &host{q: q} }

func (h *host) props() Props {
	return Props{
		Question: h.q.Clone(),
		Index:    0,
		OnQuestionUpdate: func(_ int, u Update) {
			h.updates = append(h.updates, u)
			switch u.Field {
			case FieldAnswers:
				h.q.Answers = u.Answers
			case FieldSettings:
				h.q.Settings = u.Settings
			}
		},
		ShowValidationErrors: true,
		OnDeletedAnswerID:    func(id int64) { h.deleted = append(h.deleted, id) },
	}
}

func mustEditor[E Editor](t *testing.T, s *Set, typ quiz.QuestionType) E {
	t.Helper()
	e, err := s.For(typ)
	if err != nil {
		t.Fatal(err)
	}
	typed, ok := e.(E)
	if !ok {
		t.Fatalf("For(%s) returned %T", typ, e)
	}
	return typed
}

func TestForCoversEveryType(t *testing.T) {
	s := NewSet(nil)
	for _, typ := range quiz.QuestionTypes {
		if e, err := s.For(typ); err != nil || e == nil {
			t.Errorf("For(%s) = %v, %v", typ, e, err)
		}
	}
	if _, err := s.For("essay"); !errors.Is(err, quiz.ErrUnknownQuestionType) {
		t.Fatalf("unknown type err = %v", err)
	}
}

func TestTrueFalseMountOnce(t *testing.T) {
	s := NewSet(nil)
	tf := mustEditor[*TrueFalse](t, s, quiz.TypeTrueFalse)

	q := quiz.NewQuestion(quiz.TypeTrueFalse, 1)
	q.Answers = nil
	h := newHost(q)

	tf.Mount(h.props())
	if len(h.q.Answers) != 2 {
		t.Fatalf("answers after first mount = %d", len(h.q.Answers))
	}
	if h.q.Answers[0].Title != quiz.TrueLabel || h.q.Answers[1].Title != quiz.FalseLabel {
		t.Fatalf("titles = %q, %q", h.q.Answers[0].Title, h.q.Answers[1].Title)
	}
	for _, o := range h.q.Answers {
		if !o.ID.IsPending() || o.ID.Wire() >= 0 {
			t.Fatalf("option id %v is not a placeholder", o.ID)
		}
	}
	if h.q.Answers[0].ID == h.q.Answers[1].ID {
		t.Fatal("synthesized options share an id")
	}

	h.q.Answers = nil
	tf.Mount(h.props())
	tf.Mount(h.props())
	if len(h.q.Answers) != 0 {
		t.Fatalf("mount ran again: %d answers", len(h.q.Answers))
	}
}

func TestTrueFalseMountSkipsEagerOptions(t *testing.T) {
	tf := mustEditor[*TrueFalse](t, NewSet(nil), quiz.TypeTrueFalse)
	h := newHost(quiz.NewQuestion(quiz.TypeTrueFalse, 1))
	tf.Mount(h.props())
	if len(h.updates) != 0 || len(h.q.Answers) != 2 {
		t.Fatalf("updates=%d answers=%d", len(h.updates), len(h.q.Answers))
	}
}

func TestTrueFalseSingleSelect(t *testing.T) {
	tf := mustEditor[*TrueFalse](t, NewSet(nil), quiz.TypeTrueFalse)
	h := newHost(quiz.NewQuestion(quiz.TypeTrueFalse, 1))
	tf.SetCorrect(h.props(), h.q.Answers[0].ID)
	tf.SetCorrect(h.props(), h.q.Answers[1].ID)
	if h.q.Answers[0].Correct || !h.q.Answers[1].Correct {
		t.Fatalf("correct = %v, %v", h.q.Answers[0].Correct, h.q.Answers[1].Correct)
	}
}

func TestChoiceMultipleAllowsSeveral(t *testing.T) {
	c := mustEditor[*Choice](t, NewSet(nil), quiz.TypeMultipleChoice)
	h := newHost(quiz.NewQuestion(quiz.TypeMultipleChoice, 1))
	a := c.Add(h.props())
	b := c.Add(h.props())
	c.SetCorrect(h.props(), a, true)
	c.SetCorrect(h.props(), b, true)
	if !h.q.Answers[0].Correct || !h.q.Answers[1].Correct {
		t.Fatal("multiple choice dropped a correct flag")
	}
	if h.q.Answers[1].Order != 2 {
		t.Fatalf("order = %d", h.q.Answers[1].Order)
	}
}

func TestDuplicateOption(t *testing.T) {
	c := mustEditor[*Choice](t, NewSet(nil), quiz.TypeSingleChoice)
	q := quiz.NewQuestion(quiz.TypeSingleChoice, 1)
	q.Answers = []quiz.Option{
		{ID: quiz.Persisted(10), Title: "Paris", Correct: true, Order: 1, DataStatus: quiz.StatusNoChange},
		{ID: quiz.Persisted(11), Title: "Lyon", Order: 2, DataStatus: quiz.StatusNoChange},
	}
	h := newHost(q)
	id := c.Duplicate(h.props(), quiz.Persisted(10))

	if len(h.q.Answers) != 3 {
		t.Fatalf("answers = %d", len(h.q.Answers))
	}
	dup := h.q.Answers[1]
	if dup.ID != id || !dup.ID.IsPending() {
		t.Fatalf("dup id = %v", dup.ID)
	}
	if dup.Title != "Paris (Copy)" || dup.Correct || dup.DataStatus != quiz.StatusNew || dup.Order != 2 {
		t.Fatalf("dup = %+v", dup)
	}
	if h.q.Answers[2].Order != 3 || h.q.Answers[2].DataStatus != quiz.StatusUpdate {
		t.Fatalf("trailing option = %+v", h.q.Answers[2])
	}
}

func TestDeleteReportsPersistedOnly(t *testing.T) {
	o := mustEditor[*Ordering](t, NewSet(nil), quiz.TypeOrdering)
	q := quiz.NewQuestion(quiz.TypeOrdering, 1)
	pending := quiz.NewOption(q, 2)
	q.Answers = []quiz.Option{
		{ID: quiz.Persisted(21), Title: "first", Order: 1},
		pending,
	}
	h := newHost(q)

	o.Delete(h.props(), pending.ID)
	if len(h.deleted) != 0 {
		t.Fatalf("pending delete reported: %v", h.deleted)
	}
	o.Delete(h.props(), quiz.Persisted(21))
	if !reflect.DeepEqual(h.deleted, []int64{21}) {
		t.Fatalf("deleted = %v", h.deleted)
	}
	if len(h.q.Answers) != 0 {
		t.Fatalf("answers left: %d", len(h.q.Answers))
	}
}

func TestEditsBlockedWhileSaving(t *testing.T) {
	c := mustEditor[*Choice](t, NewSet(nil), quiz.TypeMultipleChoice)
	h := newHost(quiz.NewQuestion(quiz.TypeMultipleChoice, 1))
	p := h.props()
	p.IsSaving = true
	if id := c.Add(p); !id.IsZero() {
		t.Fatal("add returned an id while saving")
	}
	c.EditText(p, quiz.Persisted(1), "x")
	if len(h.updates) != 0 {
		t.Fatalf("updates while saving: %d", len(h.updates))
	}
}

func TestEditMissingOptionIsNoop(t *testing.T) {
	c := mustEditor[*Choice](t, NewSet(nil), quiz.TypeSingleChoice)
	h := newHost(quiz.NewQuestion(quiz.TypeSingleChoice, 1))
	c.EditText(h.props(), quiz.Persisted(404), "x")
	c.Delete(h.props(), quiz.Persisted(404))
	if len(h.updates) != 0 {
		t.Fatalf("updates = %d", len(h.updates))
	}
}

func TestMatchingImageToggleOff(t *testing.T) {
	m := mustEditor[*Matching](t, NewSet(nil), quiz.TypeMatching)
	q := quiz.NewQuestion(quiz.TypeMatching, 1)
	q.Settings.IsImageMatching = true
	q.Answers = []quiz.Option{
		{ID: quiz.Persisted(1), Title: "Dog", Secondary: "Bark", Image: quiz.Image{ID: 5, URL: "dog.png"}, Order: 1, DataStatus: quiz.StatusNoChange},
		{ID: quiz.Pending(2), Title: "Cat", Secondary: "Meow", Image: quiz.Image{ID: 6, URL: "cat.png"}, Order: 2, DataStatus: quiz.StatusNew},
	}
	before := quiz.CloneOptions(q.Answers)
	h := newHost(q)

	m.SetImageMatching(h.props(), false)

	if h.q.Settings.IsImageMatching {
		t.Fatal("image matching still on")
	}
	for i, o := range h.q.Answers {
		if o.Image.ID != 0 || o.Image.URL != "" {
			t.Fatalf("option %d kept image %+v", i, o.Image)
		}
		want := before[i]
		want.Image = quiz.Image{}
		want.DataStatus = o.DataStatus
		if o != want {
			t.Fatalf("option %d changed beyond its image: %+v", i, o)
		}
	}
	if h.q.Answers[0].DataStatus != quiz.StatusUpdate || h.q.Answers[1].DataStatus != quiz.StatusNew {
		t.Fatalf("statuses = %s, %s", h.q.Answers[0].DataStatus, h.q.Answers[1].DataStatus)
	}
}

func TestImageMatchingToggleOffStillValid(t *testing.T) {
	reg := validation.NewRegistry()
	m := mustEditor[*Matching](t, NewSet(reg), quiz.TypeImageMatching)
	q := quiz.NewQuestion(quiz.TypeImageMatching, 1)
	q.Title = "Sounds"
	q.Answers = []quiz.Option{
		{ID: quiz.Persisted(1), Title: "Dog", Secondary: "Bark", Image: quiz.Image{ID: 5, URL: "dog.png"}, Order: 1},
		{ID: quiz.Persisted(2), Title: "Cat", Secondary: "Meow", Image: quiz.Image{ID: 6, URL: "cat.png"}, Order: 2},
	}
	h := newHost(q)

	m.SetImageMatching(h.props(), false)

	if h.q.Settings.IsImageMatching || h.q.Answers[0].Image.Valid() {
		t.Fatalf("toggle off left %+v", h.q)
	}
	if errs := reg.QuestionErrors(h.q); len(errs) != 0 {
		t.Fatalf("errors after toggle off: %v", errs)
	}
}

func TestMatchingToggleOnKeepsAnswers(t *testing.T) {
	m := mustEditor[*Matching](t, NewSet(nil), quiz.TypeMatching)
	h := newHost(quiz.NewQuestion(quiz.TypeMatching, 1))
	m.SetImageMatching(h.props(), true)
	if len(h.updates) != 1 || h.updates[0].Field != FieldSettings || !m.ImageMode(h.props()) {
		t.Fatalf("updates = %+v", h.updates)
	}
}

func TestShouldActivateDrag(t *testing.T) {
	if ShouldActivateDrag(3, 4) {
		t.Fatal("5px moved should not start a drag")
	}
	if !ShouldActivateDrag(0, 8) || !ShouldActivateDrag(-6, 7) {
		t.Fatal("movement past the threshold should start a drag")
	}
}

func TestFillInBlankSetContent(t *testing.T) {
	reg := validation.NewRegistry()
	f := mustEditor[*FillInBlank](t, NewSet(reg), quiz.TypeFillInTheBlank)
	q := quiz.NewQuestion(quiz.TypeFillInTheBlank, 1)
	q.Title = "Capitals"
	h := newHost(q)

	f.SetContent(h.props(), "The capital of France is {dash}.", []string{"Paris", " ", "paris"})
	if len(h.q.Answers) != 1 {
		t.Fatalf("answers = %d", len(h.q.Answers))
	}
	if h.q.Answers[0].Secondary != "Paris|paris" {
		t.Fatalf("secondary = %q", h.q.Answers[0].Secondary)
	}
	if errs := f.Errors(h.props()); len(errs) != 0 {
		t.Fatalf("errors = %v", errs)
	}
	prompt, answers := f.Content(h.props())
	if Blanks(prompt) != 1 || !reflect.DeepEqual(answers, []string{"Paris", "paris"}) {
		t.Fatalf("content = %q %v", prompt, answers)
	}

	id := h.q.Answers[0].ID
	f.SetContent(h.props(), "The capital of France is ___.", []string{"Paris"})
	if h.q.Answers[0].ID != id {
		t.Fatal("record replaced instead of edited")
	}
	if errs := f.Errors(h.props()); !reflect.DeepEqual(errs, []string{validation.MsgBlankTokenMissing}) {
		t.Fatalf("errors = %v", errs)
	}
}

func TestFillInBlankDropsExtraRecords(t *testing.T) {
	f := mustEditor[*FillInBlank](t, NewSet(nil), quiz.TypeFillInTheBlank)
	q := quiz.NewQuestion(quiz.TypeFillInTheBlank, 1)
	q.Answers = []quiz.Option{{ID: quiz.Persisted(1)}, {ID: quiz.Persisted(2)}}
	h := newHost(q)
	f.SetContent(h.props(), "{dash}", []string{"a"})
	if len(h.q.Answers) != 1 || !reflect.DeepEqual(h.deleted, []int64{2}) {
		t.Fatalf("answers=%d deleted=%v", len(h.q.Answers), h.deleted)
	}
}

func TestErrorsHiddenUntilShown(t *testing.T) {
	o := mustEditor[*OpenEnded](t, NewSet(nil), quiz.TypeShortAnswer)
	h := newHost(quiz.NewQuestion(quiz.TypeShortAnswer, 1))
	p := h.props()
	if errs := o.Errors(p); !reflect.DeepEqual(errs, []string{validation.MsgTitleRequired}) {
		t.Fatalf("errors = %v", errs)
	}
	p.ShowValidationErrors = false
	if errs := o.Errors(p); errs != nil {
		t.Fatalf("hidden errors = %v", errs)
	}
}

func TestImageAnsweringPickImage(t *testing.T) {
	e := mustEditor[*ImageAnswering](t, NewSet(nil), quiz.TypeImageAnswering)
	h := newHost(quiz.NewQuestion(quiz.TypeImageAnswering, 1))
	id := e.Add(h.props())
	e.EditText(h.props(), id, "Owl")

	cancel := media.PickerFunc(func(context.Context, media.Config) (media.Attachment, bool, error) {
		return media.Attachment{}, false, nil
	})
	if err := e.PickImage(context.Background(), h.props(), id, cancel); err != nil {
		t.Fatal(err)
	}
	if !h.q.Answers[0].Image.IsZero() {
		t.Fatal("cancel applied an image")
	}

	pick := media.PickerFunc(func(context.Context, media.Config) (media.Attachment, bool, error) {
		return media.Attachment{ID: 8, URL: "owl.png", Type: "image/png"}, true, nil
	})
	if err := e.PickImage(context.Background(), h.props(), id, pick); err != nil {
		t.Fatal(err)
	}
	if h.q.Answers[0].Image != (quiz.Image{ID: 8, URL: "owl.png"}) {
		t.Fatalf("image = %+v", h.q.Answers[0].Image)
	}

	h.q.Title = "Name the bird"
	if errs := e.Errors(h.props()); len(errs) != 0 {
		t.Fatalf("errors = %v", errs)
	}
	e.RemoveImage(h.props(), id)
	if errs := e.Errors(h.props()); !reflect.DeepEqual(errs, []string{validation.MsgOptionImage}) {
		t.Fatalf("errors = %v", errs)
	}
}

func TestReorderOptions(t *testing.T) {
	o := mustEditor[*Ordering](t, NewSet(nil), quiz.TypeOrdering)
	q := quiz.NewQuestion(quiz.TypeOrdering, 1)
	h := newHost(q)
	a := o.Add(h.props())
	o.EditText(h.props(), a, "a")
	b := o.Add(h.props())
	o.EditText(h.props(), b, "b")

	if !o.Reorder(h.props(), b, a) {
		t.Fatal("reorder rejected")
	}
	if h.q.Answers[0].Title != "b" || h.q.Answers[0].Order != 1 || h.q.Answers[1].Order != 2 {
		t.Fatalf("answers = %+v", h.q.Answers)
	}
	if o.Reorder(h.props(), quiz.Persisted(99), a) {
		t.Fatal("reorder with unknown id accepted")
	}
}
