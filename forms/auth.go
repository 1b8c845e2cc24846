package forms

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	KIND_STUDENT    = "student"
	KIND_INSTRUCTOR = "instructor"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

type RegisterForm struct {
	Kind          string `json:"kind" binding:"required,userKind" example:"student" enums:"student,instructor"`
	Email         string `json:"email" binding:"required,email,max=100" example:"ana@xams.dev"`
	Username      string `json:"username" binding:"required,min=3,max=30,username" example:"ana"`
	Password      string `json:"password" binding:"required,min=8,max=72" example:"secret-password"`
	FirstName     string `json:"first_name" binding:"required,max=50" example:"Ana"`
	LastName      string `json:"last_name" binding:"required,max=50" example:"Perez"`
	StudentNumber string `json:"student_number,omitempty" binding:"omitempty,max=20" example:"2023-0001"`
	Title         string `json:"title,omitempty" binding:"omitempty,max=20" example:"Dr."`
}

type LoginForm struct {
	Username string `json:"username" binding:"required,max=100" example:"ana"`
	Password string `json:"password" binding:"required,max=72" example:"secret-password"`
}

type RefreshForm struct {
	RefreshToken string `json:"refresh_token"`
}

var UserKind validator.Func = func(fl validator.FieldLevel) bool {
	kind := fl.Field().String()
	return kind == KIND_STUDENT || kind == KIND_INSTRUCTOR
}

func IsUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 30 && usernameRegex.MatchString(username)
}

var Username validator.Func = func(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}
