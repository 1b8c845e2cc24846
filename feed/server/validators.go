package server

import (
	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func InitValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("questionType", forms.QuestionType)
		v.RegisterValidation("userKind", forms.UserKind)
		v.RegisterValidation("username", forms.Username)
		v.RegisterValidation("rfc3339", forms.RFC3339)
	}
}
