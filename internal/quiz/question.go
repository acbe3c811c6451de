package quiz

const (
	TrueLabel  = "True"
	FalseLabel = "False"

	// BlankToken 标记填空题题干中答案的位置
	BlankToken = "{dash}"
	// BlankAnswerSeparator 连接填空题的多个可接受答案
	BlankAnswerSeparator = "|"
)

// Option 是题目的一个选项。Secondary 按题型存放匹配文本或填空答案。
type Option struct {
	ID           ID
	QuestionID   ID
	QuestionType QuestionType
	Title        string
	Correct      bool
	Image        Image
	Secondary    string
	ViewFormat   string
	Order        int
	DataStatus   DataStatus
}

func (o Option) ItemID() ID              { return o.ID }
func (o Option) ItemOrder() int          { return o.Order }
func (o Option) ItemStatus() DataStatus  { return o.DataStatus }
func (o *Option) SetOrder(order int)     { o.Order = order }
func (o *Option) SetStatus(s DataStatus) { o.DataStatus = s }

type QuestionSettings struct {
	AnswerRequired   bool
	RandomizeOptions bool
	ShowQuestionMark bool
	IsImageMatching  bool
}

type Question struct {
	ID                ID
	Type              QuestionType
	Title             string
	Description       string
	AnswerExplanation string
	Mark              float64
	Answers           []Option
	Settings          QuestionSettings
	Order             int
	DataStatus        DataStatus
}

func (q Question) ItemID() ID              { return q.ID }
func (q Question) ItemOrder() int          { return q.Order }
func (q Question) ItemStatus() DataStatus  { return q.DataStatus }
func (q *Question) SetOrder(order int)     { q.Order = order }
func (q *Question) SetStatus(s DataStatus) { q.DataStatus = s }

// NewQuestion 创建一个未保存的题目，判断题会立即生成两个选项
func NewQuestion(t QuestionType, order int) Question {
	q := Question{
		ID:         NewPendingID(),
		Type:       t,
		Mark:       1,
		Order:      order,
		DataStatus: StatusNew,
		Settings: QuestionSettings{
			AnswerRequired:   true,
			ShowQuestionMark: true,
			IsImageMatching:  t == TypeImageMatching,
		},
	}
	if t == TypeTrueFalse {
		q.Answers = TrueFalseOptions(q.ID)
	}
	return q
}

func NewOption(q Question, order int) Option {
	return Option{
		ID:           NewPendingID(),
		QuestionID:   q.ID,
		QuestionType: q.Type,
		ViewFormat:   defaultViewFormat(q.Type),
		Order:        order,
		DataStatus:   StatusNew,
	}
}

// TrueFalseOptions 返回带不同临时ID的 True/False 两个选项
func TrueFalseOptions(questionID ID) []Option {
	return []Option{
		{ID: NewPendingID(), QuestionID: questionID, QuestionType: TypeTrueFalse, Title: TrueLabel, ViewFormat: "text", Order: 1, DataStatus: StatusNew},
		{ID: NewPendingID(), QuestionID: questionID, QuestionType: TypeTrueFalse, Title: FalseLabel, ViewFormat: "text", Order: 2, DataStatus: StatusNew},
	}
}

func defaultViewFormat(t QuestionType) string {
	switch t {
	case TypeImageAnswering, TypeImageMatching:
		return "text_image"
	default:
		return "text"
	}
}

// Clone 深拷贝，不与 q 共享切片
func (q Question) Clone() Question {
	out := q
	out.Answers = CloneOptions(q.Answers)
	return out
}

func CloneOptions(opts []Option) []Option {
	if opts == nil {
		return nil
	}
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}

func CloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i := range qs {
		out[i] = qs[i].Clone()
	}
	return out
}

// FindOption 返回指定ID选项的下标，不存在时返回 -1
func (q Question) FindOption(id ID) int {
	for i := range q.Answers {
		if q.Answers[i].ID == id {
			return i
		}
	}
	return -1
}
