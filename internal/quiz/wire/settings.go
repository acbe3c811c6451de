package wire

import (
	"fmt"
	"reflect"

	"tutorpress_backend/internal/quiz"

	"github.com/go-viper/mapstructure/v2"
)

// BooleanSettingKeys quiz_option 中以 0/1 存储的字段
var BooleanSettingKeys = []string{
	"hide_quiz_time_display",
	"hide_question_number_overview",
	"quiz_auto_start",
	"pass_is_required",
}

// ToBooleans 返回 m 的副本，布尔字段转为 bool，无法解析的值保持不变
func ToBooleans(m map[string]any) map[string]any {
	out := copyMap(m)
	for _, k := range BooleanSettingKeys {
		v, ok := out[k]
		if !ok {
			continue
		}
		if b, err := AsBool(v); err == nil {
			out[k] = b
		}
	}
	return out
}

// ToIntegers 返回 m 的副本，布尔字段转为 0 或 1
func ToIntegers(m map[string]any) map[string]any {
	out := copyMap(m)
	for _, k := range BooleanSettingKeys {
		v, ok := out[k]
		if !ok {
			continue
		}
		if b, err := AsBool(v); err == nil {
			out[k] = boolInt(b)
		}
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func EncodeSettings(s quiz.Settings) map[string]any {
	return map[string]any{
		"time_limit": map[string]any{
			"time_value": s.TimeLimit.Value,
			"time_type":  string(s.TimeLimit.Unit),
		},
		"feedback_mode":                      string(s.FeedbackMode),
		"attempts_allowed":                   s.AttemptsAllowed,
		"passing_grade":                      s.PassingGrade,
		"max_questions_for_answer":           s.MaxQuestionsForAnswer,
		"question_layout_view":               s.QuestionLayoutView,
		"questions_order":                    s.QuestionsOrder,
		"short_answer_characters_limit":      s.ShortAnswerCharactersLimit,
		"open_ended_answer_characters_limit": s.OpenEndedAnswerCharactersLimit,
		"hide_quiz_time_display":             boolInt(s.HideQuizTimeDisplay),
		"hide_question_number_overview":      boolInt(s.HideQuestionNumberOverview),
		"quiz_auto_start":                    boolInt(s.QuizAutoStart),
		"pass_is_required":                   boolInt(s.PassIsRequired),
		"content_drip_settings": map[string]any{
			"after_xdays_of_enroll": s.ContentDrip.AfterDays,
		},
	}
}

// DecodeSettings 在默认值基础上解码 quiz_option
func DecodeSettings(m map[string]any) (quiz.Settings, error) {
	s := quiz.DefaultSettings()
	if err := MergeSettings(&s, m); err != nil {
		return quiz.Settings{}, err
	}
	return s, nil
}

// MergeSettings 把部分 quiz_option 解码进 s，缺少的 key 保持原值
func MergeSettings(s *quiz.Settings, partial map[string]any) error {
	if len(partial) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           s,
		WeaklyTypedInput: true,
		DecodeHook:       boolHook,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(ToBooleans(partial)); err != nil {
		return fmt.Errorf("decode quiz settings: %w", err)
	}
	return nil
}

// boolHook 接受 "on"/"yes" 这类 mapstructure 弱类型解码不认的字符串
func boolHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Bool || from.Kind() != reflect.String {
		return data, nil
	}
	return AsBool(data)
}
