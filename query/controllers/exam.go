package controllers

import (
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

// Services
var examsService = services.NewExamsService()

type ExamController struct{}

// GetExams godoc
// @Summary     Get exams
// @Description Exams of a course, without questions
// @Tags        exams
// @Tags        roles.instructor
// @Produce     json
// @Param       course query    string true "MongoID of the course"
// @Success     200    {object} res.Response{body=smaps.ExamsMap}
// @Failure     403    {object} res.Response{} "Not the owner"
// @Router      /exam [get]
func (e *ExamController) GetExams(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	exams, err := examsService.GetExams(c.Query("course"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["exams"] = exams
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

// GetExam godoc
// @Summary     Get exam
// @Description Full exam with the answer key
// @Tags        exams
// @Tags        roles.instructor
// @Produce     json
// @Param       idExam path     string true "MongoID"
// @Success     200    {object} res.Response{body=smaps.ExamMap}
// @Failure     403    {object} res.Response{} "Not the owner"
// @Failure     404    {object} res.Response{} "Exam not found"
// @Router      /exam/{idExam} [get]
func (e *ExamController) GetExam(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	exam, err := examsService.GetExam(c.Param("idExam"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["exam"] = exam
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}
