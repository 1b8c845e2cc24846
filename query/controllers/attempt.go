package controllers

import (
	"bytes"
	"fmt"

	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

type AttemptController struct{}

// GetAttempt godoc
// @Summary     Get attempt
// @Description The student sees their own attempt, results only once published. The owner also gets the exam.
// @Tags        attempts
// @Tags        roles.all
// @Produce     json
// @Param       idAttempt path     string true "MongoID"
// @Success     200       {object} res.Response{body=smaps.AttemptViewMap}
// @Failure     403       {object} res.Response{} "Not the student nor the owner"
// @Failure     404       {object} res.Response{} "Attempt not found"
// @Router      /exam-attempt/{idAttempt} [get]
func (a *AttemptController) GetAttempt(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	view, err := attemptsService.GetAttempt(c.Param("idAttempt"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["attempt"] = view.Attempt
	response["questions"] = view.Questions
	if view.Exam != nil {
		response["exam"] = view.Exam
	}
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

// AttemptReport godoc
// @Summary     Attempt report
// @Description PDF of one closed attempt
// @Tags        attempts
// @Tags        roles.all
// @Produce     application/pdf
// @Param       idAttempt path string true "MongoID"
// @Sucess      200 {file} binary "PDF File"
// @Failure     403 {object} res.Response{} "Results not published"
// @Failure     409 {object} res.Response{} "Attempt in progress"
// @Router      /exam-attempt/{idAttempt}/report [get]
func (a *AttemptController) AttemptReport(c *gin.Context) {
	idAttempt := c.Param("idAttempt")
	claims, _ := services.NewClaimsFromContext(c)

	var buf bytes.Buffer
	if err := exportsService.AttemptReport(idAttempt, claims, &buf); err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	sendFile(c, PDF_MIME, fmt.Sprintf("attempt-%s.pdf", idAttempt), &buf)
}
