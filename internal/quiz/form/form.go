// Package form 测验级别的表单（标题、描述和 quiz_option 设置）及其校验
package form

import (
	"strings"
	"unicode/utf8"

	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/internal/quiz/wire"
)

const (
	FieldTitle           = "title"
	FieldTimeLimit       = "time_limit"
	FieldTimeUnit        = "time_type"
	FieldPassingGrade    = "passing_grade"
	FieldMaxQuestions    = "max_questions_for_answer"
	FieldContentDrip     = "content_drip_settings"
	FieldAttemptsAllowed = "attempts_allowed"
)

const (
	MsgTitleRequired   = "Quiz title is required."
	MsgTitleTooShort   = "Quiz title must be at least 3 characters long."
	MsgTimeLimit       = "Time limit cannot be negative."
	MsgTimeUnit        = "Time limit unit is not supported."
	MsgPassingGrade    = "Passing grade must be between 0 and 100."
	MsgMaxQuestions    = "Max questions allowed to answer cannot be negative."
	MsgContentDrip     = "Content drip days cannot be negative."
	MsgAttemptsAllowed = "Attempts allowed must be between 0 and 20."
)

const (
	MinTitleLength = 3
	MaxAttempts    = 20
)

type State struct {
	Title       string
	Description string
	Settings    quiz.Settings
	Errors      map[string]string
	IsValid     bool
	IsDirty     bool
}

type snapshot struct {
	title       string
	description string
	settings    quiz.Settings
}

// Controller 测验表单，非并发安全
type Controller struct {
	state       State
	original    snapshot
	id          quiz.ID
	topicID     int64
	menuOrder   int
	contentDrip bool
}

type Option func(*Controller)

// WithContentDrip 开启内容解锁设置的校验
func WithContentDrip(enabled bool) Option {
	return func(c *Controller) { c.contentDrip = enabled }
}

func WithTopic(topicID int64) Option {
	return func(c *Controller) { c.topicID = topicID }
}

func New(opts ...Option) *Controller {
	c := &Controller{}
	for _, o := range opts {
		o(c)
	}
	c.ResetToDefaults()
	return c
}

func (c *Controller) State() State {
	s := c.state
	s.Errors = make(map[string]string, len(c.state.Errors))
	for k, v := range c.state.Errors {
		s.Errors[k] = v
	}
	return s
}

func (c *Controller) ID() quiz.ID       { return c.id }
func (c *Controller) TopicID() int64    { return c.topicID }
func (c *Controller) IsDirty() bool     { return c.state.IsDirty }
func (c *Controller) IsValid() bool     { return c.state.IsValid }
func (c *Controller) Title() string     { return c.state.Title }
func (c *Controller) ContentDrip() bool { return c.contentDrip }

func (c *Controller) changed() {
	c.state.IsDirty = true
	c.validate()
}

func (c *Controller) UpdateTitle(title string) {
	c.state.Title = title
	c.changed()
}

func (c *Controller) UpdateDescription(desc string) {
	c.state.Description = desc
	c.changed()
}

// UpdateSettings 合并部分 quiz_option，布尔字段也接受整数和字符串
func (c *Controller) UpdateSettings(partial map[string]any) error {
	next := c.state.Settings
	if err := wire.MergeSettings(&next, partial); err != nil {
		return err
	}
	c.state.Settings = next
	c.changed()
	return nil
}

func (c *Controller) UpdateTimeLimit(value int, unit quiz.TimeUnit) {
	c.state.Settings.TimeLimit = quiz.TimeLimit{Value: value, Unit: unit}
	c.changed()
}

func (c *Controller) UpdateContentDrip(days int) {
	c.state.Settings.ContentDrip.AfterDays = days
	c.changed()
}

// ResetForm 丢弃上次加载后的所有修改
func (c *Controller) ResetForm() {
	c.state.Title = c.original.title
	c.state.Description = c.original.description
	c.state.Settings = c.original.settings
	c.state.IsDirty = false
	c.validate()
}

// ResetToDefaults 为新测验清空表单
func (c *Controller) ResetToDefaults() {
	c.id = quiz.ID{}
	c.menuOrder = 0
	c.original = snapshot{settings: quiz.DefaultSettings()}
	c.ResetForm()
}

// ValidateEntireForm 执行全部规则，返回表单是否可以保存
func (c *Controller) ValidateEntireForm() bool {
	c.validate()
	return c.state.IsValid
}

func (c *Controller) validate() {
	errs := map[string]string{}
	s := c.state.Settings

	title := strings.TrimSpace(c.state.Title)
	switch {
	case title == "":
		errs[FieldTitle] = MsgTitleRequired
	case utf8.RuneCountInString(title) < MinTitleLength:
		errs[FieldTitle] = MsgTitleTooShort
	}
	if s.TimeLimit.Value < 0 {
		errs[FieldTimeLimit] = MsgTimeLimit
	}
	if !s.TimeLimit.Unit.Valid() {
		errs[FieldTimeUnit] = MsgTimeUnit
	}
	if s.PassingGrade < 0 || s.PassingGrade > 100 {
		errs[FieldPassingGrade] = MsgPassingGrade
	}
	if s.MaxQuestionsForAnswer < 0 {
		errs[FieldMaxQuestions] = MsgMaxQuestions
	}
	if c.contentDrip && s.ContentDrip.AfterDays < 0 {
		errs[FieldContentDrip] = MsgContentDrip
	}
	// 只有 retry 模式才校验允许次数
	if s.FeedbackMode == quiz.FeedbackRetry && (s.AttemptsAllowed < 0 || s.AttemptsAllowed > MaxAttempts) {
		errs[FieldAttemptsAllowed] = MsgAttemptsAllowed
	}

	c.state.Errors = errs
	c.state.IsValid = len(errs) == 0
}

func (c *Controller) Quiz(questions []quiz.Question) quiz.Quiz {
	return quiz.Quiz{
		ID:          c.id,
		TopicID:     c.topicID,
		Title:       c.state.Title,
		Description: c.state.Description,
		Settings:    c.state.Settings,
		Questions:   quiz.CloneQuestions(questions),
		MenuOrder:   c.menuOrder,
	}
}

// GetFormData 生成保存请求体，布尔值编码为整数
func (c *Controller) GetFormData(questions []quiz.Question) wire.QuizPayload {
	return wire.EncodeQuiz(c.Quiz(questions))
}

// InitializeWithData 加载服务端数据，不标记为已修改
func (c *Controller) InitializeWithData(p wire.QuizPayload) error {
	settings, err := wire.DecodeSettings(p.QuizOption)
	if err != nil {
		return err
	}
	c.id = quiz.Persisted(p.ID)
	if p.TopicID != 0 {
		c.topicID = p.TopicID
	}
	c.menuOrder = p.MenuOrder
	c.original = snapshot{title: p.PostTitle, description: p.PostContent, settings: settings}
	c.ResetForm()
	return nil
}
