package form

import (
	"testing"

	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/wire"
)

func TestTitleRules(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"", MsgTitleRequired},
		{"   ", MsgTitleRequired},
		{"ab", MsgTitleTooShort},
		{"abc", ""},
		{"Título", ""},
	}
	for _, tc := range cases {
		c := New()
		c.UpdateTitle(tc.title)
		got := c.State().Errors[FieldTitle]
		if got != tc.want {
			t.Errorf("title %q: error %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestSettingsRules(t *testing.T) {
	cases := []struct {
		name  string
		drip  bool
		edit  func(c *Controller)
		field string
	}{
		{"negative time", false, func(c *Controller) { c.UpdateTimeLimit(-1, quiz.UnitMinutes) }, FieldTimeLimit},
		{"bad unit", false, func(c *Controller) { c.UpdateTimeLimit(5, "fortnights") }, FieldTimeUnit},
		{"grade over 100", false, func(c *Controller) { _ = c.UpdateSettings(map[string]any{"passing_grade": 101}) }, FieldPassingGrade},
		{"negative max questions", false, func(c *Controller) { _ = c.UpdateSettings(map[string]any{"max_questions_for_answer": -2}) }, FieldMaxQuestions},
		{"negative drip", true, func(c *Controller) { c.UpdateContentDrip(-1) }, FieldContentDrip},
		{"retry attempts", false, func(c *Controller) {
			_ = c.UpdateSettings(map[string]any{"feedback_mode": "retry", "attempts_allowed": 21})
		}, FieldAttemptsAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(WithContentDrip(tc.drip))
			c.UpdateTitle("Valid title")
			tc.edit(c)
			if c.ValidateEntireForm() {
				t.Fatal("form reported valid")
			}
			if _, ok := c.State().Errors[tc.field]; !ok {
				t.Fatalf("errors %v missing %s", c.State().Errors, tc.field)
			}
		})
	}
}

func TestRulesThatDoNotApply(t *testing.T) {
	c := New()
	c.UpdateTitle("Valid title")
	c.UpdateContentDrip(-3)
	if err := c.UpdateSettings(map[string]any{"feedback_mode": "default", "attempts_allowed": 99}); err != nil {
		t.Fatal(err)
	}
	if !c.ValidateEntireForm() {
		t.Fatalf("errors = %v", c.State().Errors)
	}
}

func TestUpdateSettingsFromWireValues(t *testing.T) {
	c := New()
	err := c.UpdateSettings(map[string]any{
		"quiz_auto_start":        "1",
		"hide_quiz_time_display": 1,
		"pass_is_required":       float64(0),
		"passing_grade":          "55",
	})
	if err != nil {
		t.Fatal(err)
	}
	s := c.State().Settings
	if !s.QuizAutoStart || !s.HideQuizTimeDisplay || s.PassIsRequired || s.PassingGrade != 55 {
		t.Fatalf("settings = %+v", s)
	}
	if !c.IsDirty() {
		t.Fatal("settings change did not mark dirty")
	}
}

func TestInitializeResetAndDefaults(t *testing.T) {
	c := New()
	err := c.InitializeWithData(wire.QuizPayload{
		ID:          12,
		TopicID:     3,
		PostTitle:   "Loaded quiz",
		PostContent: "desc",
		QuizOption:  map[string]any{"quiz_auto_start": "1", "passing_grade": 70},
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.IsDirty() {
		t.Fatal("loading marked the form dirty")
	}
	if id, _ := c.ID().ServerID(); id != 12 || c.TopicID() != 3 {
		t.Fatalf("id=%v topic=%d", c.ID(), c.TopicID())
	}

	c.UpdateTitle("Changed")
	c.ResetForm()
	st := c.State()
	if st.Title != "Loaded quiz" || st.IsDirty || !st.Settings.QuizAutoStart || st.Settings.PassingGrade != 70 {
		t.Fatalf("after reset: %+v", st)
	}

	c.ResetToDefaults()
	st = c.State()
	if st.Title != "" || !c.ID().IsZero() || st.Settings != quiz.DefaultSettings() {
		t.Fatalf("after defaults: %+v", st)
	}
}

func TestGetFormDataIntegerBooleans(t *testing.T) {
	c := New(WithTopic(8))
	c.UpdateTitle("Quiz")
	_ = c.UpdateSettings(map[string]any{"quiz_auto_start": true})
	q := quiz.NewQuestion(quiz.TypeOpenEnded, 1)
	q.Title = "Why?"

	p := c.GetFormData([]quiz.Question{q})
	if p.PostTitle != "Quiz" || p.TopicID != 8 || len(p.Questions) != 1 {
		t.Fatalf("payload = %+v", p)
	}
	if p.QuizOption["quiz_auto_start"] != 1 || p.QuizOption["pass_is_required"] != 0 {
		t.Fatalf("quiz_option = %v", p.QuizOption)
	}

	back := New()
	if err := back.InitializeWithData(p); err != nil {
		t.Fatal(err)
	}
	if back.State().Settings != c.State().Settings {
		t.Fatalf("settings did not survive: %+v vs %+v", back.State().Settings, c.State().Settings)
	}
}
