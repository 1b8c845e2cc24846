package controllers

import (
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

// Services
var examsService = services.NewExamsService()

type ExamController struct{}

// NewExam godoc
// @Summary     New exam
// @Description Create an exam with its question bank
// @Tags        exams
// @Tags        roles.instructor
// @Accept      json
// @Produce     json
// @Param       exam body     forms.ExamForm true "Exam"
// @Success     201  {object} res.Response{body=smaps.InsertedIdMap}
// @Failure     400  {object} res.Response{} "Bad body or invalid question"
// @Failure     403  {object} res.Response{} "Not the course owner"
// @Router      /exam [post]
func (e *ExamController) NewExam(c *gin.Context) {
	var form *forms.ExamForm
	claims, _ := services.NewClaimsFromContext(c)
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	exam, err := examsService.NewExam(form, claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["inserted_id"] = exam.ID.Hex()
	c.JSON(http.StatusCreated, res.Response{
		Success: true,
		Data:    response,
	})
}

// UpdateExam godoc
// @Summary     Update exam
// @Description Replace title, description and questions
// @Tags        exams
// @Tags        roles.instructor
// @Accept      json
// @Produce     json
// @Param       idExam path     string               true "MongoID"
// @Param       exam   body     forms.UpdateExamForm true "Exam"
// @Success     200    {object} res.Response{body=smaps.ExamMap}
// @Failure     400    {object} res.Response{} "Bad body or invalid question"
// @Failure     403    {object} res.Response{} "Not the owner or already answered"
// @Router      /exam/{idExam} [put]
func (e *ExamController) UpdateExam(c *gin.Context) {
	var form *forms.UpdateExamForm
	claims, _ := services.NewClaimsFromContext(c)
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	exam, err := examsService.UpdateExam(form, c.Param("idExam"), claims)
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
	c.JSON(http.StatusOK, res.Response{
		Success: true,
		Data:    response,
	})
}

// DeleteExam godoc
// @Summary     Delete exam
// @Tags        exams
// @Tags        roles.instructor
// @Produce     json
// @Param       idExam path     string true "MongoID"
// @Success     200    {object} res.Response{}
// @Failure     403    {object} res.Response{} "Not the owner or scheduled"
// @Router      /exam/{idExam} [delete]
func (e *ExamController) DeleteExam(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	if err := examsService.DeleteExam(c.Param("idExam"), claims); err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, res.Response{
		Success: true,
	})
}
