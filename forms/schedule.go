package forms

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type ScheduleForm struct {
	Exam       string   `json:"exam" binding:"required" example:"637d5de216f58bc8ec7f7f51"`
	Groups     []string `json:"groups" binding:"required,min=1,max=50,dive,required"`
	Title      string   `json:"title,omitempty" binding:"omitempty,max=100" example:"Midterm - Section A"`
	Start      string   `json:"start" binding:"required,rfc3339" example:"2023-05-02T14:00:00Z"`
	End        string   `json:"end" binding:"required,rfc3339" example:"2023-05-02T16:00:00Z"`
	Duration   int      `json:"duration" binding:"required,min=1,max=1440" example:"90"`
	AccessCode string   `json:"access_code,omitempty" binding:"omitempty,max=30" example:"blue-owl"`
	Shuffle    bool     `json:"shuffle"`
}

type UpdateScheduleForm struct {
	Groups     []string `json:"groups,omitempty" binding:"omitempty,min=1,max=50,dive,required"`
	Title      *string  `json:"title,omitempty" binding:"omitempty,max=100"`
	Start      *string  `json:"start,omitempty" binding:"omitempty,rfc3339"`
	End        *string  `json:"end,omitempty" binding:"omitempty,rfc3339"`
	Duration   *int     `json:"duration,omitempty" binding:"omitempty,min=1,max=1440"`
	AccessCode *string  `json:"access_code,omitempty" binding:"omitempty,max=30"`
	Shuffle    *bool    `json:"shuffle,omitempty"`
}

// OnlyEnd reports whether the update touches nothing but the end date
func (u *UpdateScheduleForm) OnlyEnd() bool {
	return u.Groups == nil &&
		u.Title == nil &&
		u.Start == nil &&
		u.Duration == nil &&
		u.AccessCode == nil &&
		u.Shuffle == nil
}

var RFC3339 validator.Func = func(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.RFC3339, fl.Field().String())
	return err == nil
}
