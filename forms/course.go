package forms

type CourseForm struct {
	Code        string `json:"code" binding:"required,min=2,max=20" example:"MAT101"`
	Name        string `json:"name" binding:"required,min=3,max=100" example:"Calculus I"`
	Description string `json:"description" binding:"max=500" example:"Limits, derivatives and integrals"`
}

type UpdateCourseForm struct {
	Code        *string `json:"code,omitempty" binding:"omitempty,min=2,max=20"`
	Name        *string `json:"name,omitempty" binding:"omitempty,min=3,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
}

type CourseFileForm struct {
	Title string `form:"title" binding:"max=100"`
}
