package forms

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterValidation("questionType", QuestionType)
	v.RegisterValidation("userKind", UserKind)
	v.RegisterValidation("username", Username)
	v.RegisterValidation("rfc3339", RFC3339)
	return v
}

func TestRegisterForm(t *testing.T) {
	v := newValidator()
	valid := RegisterForm{
		Kind:      KIND_STUDENT,
		Email:     "ana@xams.dev",
		Username:  "ana.perez",
		Password:  "12345678",
		FirstName: "Ana",
		LastName:  "Perez",
	}
	assert.NoError(t, v.Struct(valid))

	tests := []struct {
		name   string
		modify func(f *RegisterForm)
	}{
		{"bad kind", func(f *RegisterForm) { f.Kind = "admin" }},
		{"bad email", func(f *RegisterForm) { f.Email = "ana" }},
		{"short password", func(f *RegisterForm) { f.Password = "1234" }},
		{"username with spaces", func(f *RegisterForm) { f.Username = "ana perez" }},
		{"missing first name", func(f *RegisterForm) { f.FirstName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.modify(&form)
			assert.Error(t, v.Struct(form))
		})
	}
}

func TestExamFormQuestionType(t *testing.T) {
	v := newValidator()
	form := ExamForm{
		Course: "637d5de216f58bc8ec7f7f51",
		Title:  "Midterm",
		Questions: []QuestionForm{
			{Type: QUESTION_ESSAY, Question: "Explain", Points: 5},
		},
	}
	assert.NoError(t, v.Struct(form))

	form.Questions[0].Type = "written"
	assert.Error(t, v.Struct(form))

	form.Questions[0].Type = QUESTION_CHOICE
	form.Questions[0].Points = 0
	assert.Error(t, v.Struct(form))
}

func TestScheduleFormDates(t *testing.T) {
	v := newValidator()
	form := ScheduleForm{
		Exam:     "637d5de216f58bc8ec7f7f51",
		Groups:   []string{"637d5de216f58bc8ec7f7f52"},
		Start:    "2023-05-02T14:00:00Z",
		End:      "2023-05-02T16:00:00-04:00",
		Duration: 90,
	}
	assert.NoError(t, v.Struct(form))

	form.Start = "2023-05-02 14:00"
	assert.Error(t, v.Struct(form))
}

func TestUpdateScheduleOnlyEnd(t *testing.T) {
	end := "2023-05-02T16:00:00Z"
	title := "New"
	assert.True(t, (&UpdateScheduleForm{End: &end}).OnlyEnd())
	assert.False(t, (&UpdateScheduleForm{End: &end, Title: &title}).OnlyEnd())
}

func TestAnswerFormIsEmpty(t *testing.T) {
	text := ""
	assert.True(t, (&AnswerForm{}).IsEmpty())
	assert.False(t, (&AnswerForm{Choices: []int{0}}).IsEmpty())
	assert.False(t, (&AnswerForm{Text: &text}).IsEmpty())
}
