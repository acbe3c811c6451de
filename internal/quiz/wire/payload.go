package wire

import (
	"tutorpress_backend/internal/quiz"
)

type AnswerPayload struct {
	AnswerID            int64       `json:"answer_id"`
	BelongsQuestionID   int64       `json:"belongs_question_id"`
	BelongsQuestionType string      `json:"belongs_question_type"`
	AnswerTitle         string      `json:"answer_title"`
	IsCorrect           CorrectFlag `json:"is_correct"`
	ImageID             int64       `json:"image_id"`
	ImageURL            string      `json:"image_url"`
	AnswerTwoGapMatch   string      `json:"answer_two_gap_match"`
	AnswerViewFormat    string      `json:"answer_view_format"`
	AnswerOrder         int         `json:"answer_order"`
	DataStatus          string      `json:"_data_status,omitempty"`
}

type QuestionSettingsPayload struct {
	QuestionType      string  `json:"question_type"`
	AnswerRequired    Flag    `json:"answer_required"`
	RandomizeQuestion Flag    `json:"randomize_question"`
	QuestionMark      float64 `json:"question_mark"`
	ShowQuestionMark  Flag    `json:"show_question_mark"`
	IsImageMatching   *Flag   `json:"is_image_matching,omitempty"`
}

// ImageMatching 返回图片匹配开关。未携带该字段时 image_matching 类型默认开启。
func (s QuestionSettingsPayload) ImageMatching(t quiz.QuestionType) bool {
	if s.IsImageMatching == nil {
		return t == quiz.TypeImageMatching
	}
	return bool(*s.IsImageMatching)
}

type QuestionPayload struct {
	QuestionID          int64                   `json:"question_id"`
	QuestionTitle       string                  `json:"question_title"`
	QuestionDescription string                  `json:"question_description"`
	AnswerExplanation   string                  `json:"answer_explanation"`
	QuestionMark        float64                 `json:"question_mark"`
	QuestionType        string                  `json:"question_type"`
	QuestionOrder       int                     `json:"question_order"`
	QuestionSettings    QuestionSettingsPayload `json:"question_settings"`
	QuestionAnswers     []AnswerPayload         `json:"question_answers"`
	DataStatus          string                  `json:"_data_status,omitempty"`
}

// QuizPayload 保存接口的请求体，也是加载接口的返回值
type QuizPayload struct {
	ID                 int64             `json:"ID,omitempty"`
	TopicID            int64             `json:"topic_id"`
	PostTitle          string            `json:"post_title"`
	PostContent        string            `json:"post_content"`
	QuizOption         map[string]any    `json:"quiz_option"`
	Questions          []QuestionPayload `json:"questions"`
	DeletedQuestionIDs []int64           `json:"deleted_question_ids"`
	DeletedAnswerIDs   []int64           `json:"deleted_answer_ids"`
	MenuOrder          int               `json:"menu_order"`
}

// OrderPayload 按新顺序排列的服务端ID
type OrderPayload struct {
	Order []int64 `json:"order"`
}

// QuestionTypeInfo 题型列表中的一项
type QuestionTypeInfo struct {
	Type      string `json:"type"`
	Label     string `json:"label"`
	Pro       bool   `json:"is_pro"`
	Available bool   `json:"available"`
}

type Attachment struct {
	ID   int64  `json:"id"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Mime string `json:"mime,omitempty"`
}

func EncodeOption(o quiz.Option) AnswerPayload {
	return AnswerPayload{
		AnswerID:            o.ID.Wire(),
		BelongsQuestionID:   o.QuestionID.Wire(),
		BelongsQuestionType: string(o.QuestionType),
		AnswerTitle:         o.Title,
		IsCorrect:           CorrectFlag(o.Correct),
		ImageID:             o.Image.ID,
		ImageURL:            o.Image.URL,
		AnswerTwoGapMatch:   o.Secondary,
		AnswerViewFormat:    o.ViewFormat,
		AnswerOrder:         o.Order,
		DataStatus:          string(o.DataStatus),
	}
}

func DecodeOption(p AnswerPayload) quiz.Option {
	return quiz.Option{
		ID:           quiz.FromWire(p.AnswerID),
		QuestionID:   quiz.FromWire(p.BelongsQuestionID),
		QuestionType: quiz.QuestionType(p.BelongsQuestionType),
		Title:        p.AnswerTitle,
		Correct:      bool(p.IsCorrect),
		Image:        quiz.Image{ID: p.ImageID, URL: p.ImageURL},
		Secondary:    p.AnswerTwoGapMatch,
		ViewFormat:   p.AnswerViewFormat,
		Order:        p.AnswerOrder,
		DataStatus:   quiz.ParseDataStatus(p.DataStatus),
	}
}

func EncodeQuestion(q quiz.Question) QuestionPayload {
	answers := make([]AnswerPayload, 0, len(q.Answers))
	for _, o := range q.Answers {
		answers = append(answers, EncodeOption(o))
	}
	return QuestionPayload{
		QuestionID:          q.ID.Wire(),
		QuestionTitle:       q.Title,
		QuestionDescription: q.Description,
		AnswerExplanation:   q.AnswerExplanation,
		QuestionMark:        q.Mark,
		QuestionType:        string(q.Type),
		QuestionOrder:       q.Order,
		QuestionSettings: QuestionSettingsPayload{
			QuestionType:      string(q.Type),
			AnswerRequired:    Flag(q.Settings.AnswerRequired),
			RandomizeQuestion: Flag(q.Settings.RandomizeOptions),
			QuestionMark:      q.Mark,
			ShowQuestionMark:  Flag(q.Settings.ShowQuestionMark),
			IsImageMatching:   flagOf(q.Settings.IsImageMatching),
		},
		QuestionAnswers: answers,
		DataStatus:      string(q.DataStatus),
	}
}

// DecodeQuestion 把请求体还原为领域模型，选项缺少题目ID和题型时沿用题目的
func DecodeQuestion(p QuestionPayload) quiz.Question {
	t := quiz.QuestionType(p.QuestionType)
	if t == "" {
		t = quiz.QuestionType(p.QuestionSettings.QuestionType)
	}
	mark := p.QuestionMark
	if mark == 0 {
		mark = p.QuestionSettings.QuestionMark
	}
	q := quiz.Question{
		ID:                quiz.FromWire(p.QuestionID),
		Type:              t,
		Title:             p.QuestionTitle,
		Description:       p.QuestionDescription,
		AnswerExplanation: p.AnswerExplanation,
		Mark:              mark,
		Order:             p.QuestionOrder,
		DataStatus:        quiz.ParseDataStatus(p.DataStatus),
		Settings: quiz.QuestionSettings{
			AnswerRequired:   bool(p.QuestionSettings.AnswerRequired),
			RandomizeOptions: bool(p.QuestionSettings.RandomizeQuestion),
			ShowQuestionMark: bool(p.QuestionSettings.ShowQuestionMark),
			IsImageMatching:  p.QuestionSettings.ImageMatching(t),
		},
		Answers: make([]quiz.Option, 0, len(p.QuestionAnswers)),
	}
	for _, a := range p.QuestionAnswers {
		o := DecodeOption(a)
		if o.QuestionID.IsZero() {
			o.QuestionID = q.ID
		}
		if o.QuestionType == "" {
			o.QuestionType = t
		}
		q.Answers = append(q.Answers, o)
	}
	return q
}

func EncodeQuiz(q quiz.Quiz) QuizPayload {
	questions := make([]QuestionPayload, 0, len(q.Questions))
	for _, qq := range q.Questions {
		questions = append(questions, EncodeQuestion(qq))
	}
	id, _ := q.ID.ServerID()
	return QuizPayload{
		ID:                 id,
		TopicID:            q.TopicID,
		PostTitle:          q.Title,
		PostContent:        q.Description,
		QuizOption:         EncodeSettings(q.Settings),
		Questions:          questions,
		DeletedQuestionIDs: nonNil(q.DeletedQuestionIDs),
		DeletedAnswerIDs:   nonNil(q.DeletedAnswerIDs),
		MenuOrder:          q.MenuOrder,
	}
}

func DecodeQuiz(p QuizPayload) (quiz.Quiz, error) {
	settings, err := DecodeSettings(p.QuizOption)
	if err != nil {
		return quiz.Quiz{}, err
	}
	out := quiz.Quiz{
		ID:                 quiz.Persisted(p.ID),
		TopicID:            p.TopicID,
		Title:              p.PostTitle,
		Description:        p.PostContent,
		Settings:           settings,
		Questions:          make([]quiz.Question, 0, len(p.Questions)),
		DeletedQuestionIDs: append([]int64(nil), p.DeletedQuestionIDs...),
		DeletedAnswerIDs:   append([]int64(nil), p.DeletedAnswerIDs...),
		MenuOrder:          p.MenuOrder,
	}
	for _, qp := range p.Questions {
		out.Questions = append(out.Questions, DecodeQuestion(qp))
	}
	return out, nil
}

func nonNil(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}
