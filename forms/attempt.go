package forms

type StartAttemptForm struct {
	AccessCode string `json:"access_code,omitempty" binding:"max=30" example:"blue-owl"`
}

type AnswerForm struct {
	Choices []int   `json:"choices,omitempty" binding:"omitempty,max=20,dive,min=0" example:"1"`
	Text    *string `json:"text,omitempty" binding:"omitempty,max=10000" example:"Response..."`
}

// IsEmpty is true for a body that clears the answer
func (a *AnswerForm) IsEmpty() bool {
	return len(a.Choices) == 0 && a.Text == nil
}

type SubmitAnswerForm struct {
	Question string `json:"question" binding:"required"`
	AnswerForm
}

type SubmitForm struct {
	Answers []SubmitAnswerForm `json:"answers,omitempty" binding:"omitempty,max=200,dive"`
}

type GradeAnswerForm struct {
	Points   *float64 `json:"points" binding:"required,min=0" example:"1.5"`
	Feedback string   `json:"feedback,omitempty" binding:"max=2000"`
}
