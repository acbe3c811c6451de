package quiz

type TimeUnit string

const (
	UnitSeconds TimeUnit = "seconds"
	UnitMinutes TimeUnit = "minutes"
	UnitHours   TimeUnit = "hours"
	UnitDays    TimeUnit = "days"
	UnitWeeks   TimeUnit = "weeks"
)

func (u TimeUnit) Valid() bool {
	switch u {
	case UnitSeconds, UnitMinutes, UnitHours, UnitDays, UnitWeeks:
		return true
	}
	return false
}

type FeedbackMode string

const (
	FeedbackDefault FeedbackMode = "default"
	FeedbackReveal  FeedbackMode = "reveal"
	FeedbackRetry   FeedbackMode = "retry"
)

type TimeLimit struct {
	Value int      `mapstructure:"time_value"`
	Unit  TimeUnit `mapstructure:"time_type"`
}

type ContentDrip struct {
	AfterDays int `mapstructure:"after_xdays_of_enroll"`
}

// Settings 对应 quiz_option。字段的 key 与接口一致，服务端返回的部分更新可以直接解码进来。
type Settings struct {
	TimeLimit                      TimeLimit    `mapstructure:"time_limit"`
	FeedbackMode                   FeedbackMode `mapstructure:"feedback_mode"`
	AttemptsAllowed                int          `mapstructure:"attempts_allowed"`
	PassingGrade                   int          `mapstructure:"passing_grade"`
	MaxQuestionsForAnswer          int          `mapstructure:"max_questions_for_answer"`
	QuestionLayoutView             string       `mapstructure:"question_layout_view"`
	QuestionsOrder                 string       `mapstructure:"questions_order"`
	ShortAnswerCharactersLimit     int          `mapstructure:"short_answer_characters_limit"`
	OpenEndedAnswerCharactersLimit int          `mapstructure:"open_ended_answer_characters_limit"`
	HideQuizTimeDisplay            bool         `mapstructure:"hide_quiz_time_display"`
	HideQuestionNumberOverview     bool         `mapstructure:"hide_question_number_overview"`
	QuizAutoStart                  bool         `mapstructure:"quiz_auto_start"`
	PassIsRequired                 bool         `mapstructure:"pass_is_required"`
	ContentDrip                    ContentDrip  `mapstructure:"content_drip_settings"`
}

func DefaultSettings() Settings {
	return Settings{
		TimeLimit:                      TimeLimit{Value: 0, Unit: UnitMinutes},
		FeedbackMode:                   FeedbackDefault,
		AttemptsAllowed:                10,
		PassingGrade:                   80,
		MaxQuestionsForAnswer:          10,
		QuestionsOrder:                 "rand",
		ShortAnswerCharactersLimit:     200,
		OpenEndedAnswerCharactersLimit: 500,
	}
}

// Quiz 是编辑器一次请求保存的整体
type Quiz struct {
	ID                 ID
	TopicID            int64
	Title              string
	Description        string
	Settings           Settings
	Questions          []Question
	DeletedQuestionIDs []int64
	DeletedAnswerIDs   []int64
	MenuOrder          int
}

func New(topicID int64) Quiz {
	return Quiz{TopicID: topicID, Settings: DefaultSettings()}
}

func (q Quiz) Clone() Quiz {
	out := q
	out.Questions = CloneQuestions(q.Questions)
	out.DeletedQuestionIDs = append([]int64(nil), q.DeletedQuestionIDs...)
	out.DeletedAnswerIDs = append([]int64(nil), q.DeletedAnswerIDs...)
	return out
}
