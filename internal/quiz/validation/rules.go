package validation

import (
	"strings"

	"tutorpress_backend/internal/quiz"
)

const (
	MsgTitleRequired       = "Question title is required."
	MsgMinTwoOptions       = "At least 2 options are required."
	MsgMinOneOption        = "At least 1 option is required."
	MsgOptionText          = "All options must have text."
	MsgDuplicateOption     = "Duplicate option text is not allowed."
	MsgAtLeastOneCorrect   = "At least one option must be marked as correct."
	MsgExactlyOneCorrect   = "Exactly one option must be marked as correct."
	MsgMinTwoPairs         = "At least 2 matching pairs are required."
	MsgPairQuestion        = "All matching pairs must have a question."
	MsgPairBoth            = "All matching pairs must have both a question and a matching answer."
	MsgPairImage           = "All matching pairs must have an image."
	MsgOptionImage         = "All options must have an image."
	MsgBlankTextRequired   = "Fill in the blank question text is required."
	MsgBlankTokenMissing   = "Question text must contain the {dash} placeholder."
	MsgBlankAnswerRequired = "Fill in the blank answers are required."
)

func titleRequired(q quiz.Question) []string {
	if strings.TrimSpace(q.Title) == "" {
		return []string{MsgTitleRequired}
	}
	return nil
}

func minOptions(n int, msg string) Rule {
	return func(q quiz.Question) []string {
		if len(q.Answers) < n {
			return []string{msg}
		}
		return nil
	}
}

func optionText(q quiz.Question) []string {
	for _, o := range q.Answers {
		if strings.TrimSpace(o.Title) == "" {
			return []string{MsgOptionText}
		}
	}
	return nil
}

func uniqueOptionText(q quiz.Question) []string {
	seen := make(map[string]struct{}, len(q.Answers))
	for _, o := range q.Answers {
		key := strings.ToLower(strings.TrimSpace(o.Title))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			return []string{MsgDuplicateOption}
		}
		seen[key] = struct{}{}
	}
	return nil
}

func optionImages(q quiz.Question) []string {
	for _, o := range q.Answers {
		if !o.Image.Valid() {
			return []string{MsgOptionImage}
		}
	}
	return nil
}

func correctCount(q quiz.Question) int {
	n := 0
	for _, o := range q.Answers {
		if o.Correct {
			n++
		}
	}
	return n
}

func choiceRules(t quiz.QuestionType) []Rule {
	correct := func(q quiz.Question) []string {
		if !q.Settings.AnswerRequired || len(q.Answers) == 0 {
			return nil
		}
		n := correctCount(q)
		if t == quiz.TypeMultipleChoice {
			if n == 0 {
				return []string{MsgAtLeastOneCorrect}
			}
			return nil
		}
		if n != 1 {
			return []string{MsgExactlyOneCorrect}
		}
		return nil
	}
	return []Rule{minOptions(2, MsgMinTwoOptions), optionText, uniqueOptionText, correct}
}

var matchingRules = []Rule{
	minOptions(2, MsgMinTwoPairs),
	func(q quiz.Question) []string {
		imageMode := q.Settings.IsImageMatching
		var errs []string
		if !imageMode {
			for _, o := range q.Answers {
				if strings.TrimSpace(o.Title) == "" || strings.TrimSpace(o.Secondary) == "" {
					return []string{MsgPairBoth}
				}
			}
			return nil
		}
		for _, o := range q.Answers {
			if strings.TrimSpace(o.Title) == "" {
				errs = append(errs, MsgPairQuestion)
				break
			}
		}
		for _, o := range q.Answers {
			if !o.Image.Valid() {
				errs = append(errs, MsgPairImage)
				break
			}
		}
		return errs
	},
}

var fillInTheBlankRules = []Rule{
	func(q quiz.Question) []string {
		var record quiz.Option
		if len(q.Answers) > 0 {
			record = q.Answers[0]
		}
		prompt := strings.TrimSpace(record.Title)
		var errs []string
		switch {
		case prompt == "":
			errs = append(errs, MsgBlankTextRequired)
		case !strings.Contains(prompt, quiz.BlankToken):
			errs = append(errs, MsgBlankTokenMissing)
		}
		if strings.TrimSpace(record.Secondary) == "" {
			errs = append(errs, MsgBlankAnswerRequired)
		}
		return errs
	},
}

var orderingRules = []Rule{minOptions(2, MsgMinTwoOptions), optionText, uniqueOptionText}

var imageAnsweringRules = []Rule{minOptions(1, MsgMinOneOption), optionText, optionImages}
