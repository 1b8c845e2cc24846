package forms

type GroupForm struct {
	Name string `json:"name" binding:"required,min=1,max=50" example:"Section A"`
}

type JoinGroupForm struct {
	Code string `json:"code" binding:"required,len=8" example:"K7P2QX9A"`
}
