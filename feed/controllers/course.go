package controllers

import (
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

// Services
var coursesService = services.NewCoursesService()
var filesService = services.NewFilesService()

type CourseController struct{}

// NewCourse godoc
// @Summary     New course
// @Description Create a course owned by the instructor
// @Tags        courses
// @Tags        roles.instructor
// @Accept      json
// @Produce     json
// @Param       course body     forms.CourseForm true "Course"
// @Success     201    {object} res.Response{body=smaps.InsertedIdMap}
// @Failure     400    {object} res.Response{} "Bad body"
// @Failure     401    {object} res.Response{} "Unauthorized"
// @Failure     403    {object} res.Response{} "Unauthorized role"
// @Failure     409    {object} res.Response{} "Course code already used"
// @Router      /course [post]
func (cc *CourseController) NewCourse(c *gin.Context) {
	var form *forms.CourseForm
	claims, _ := services.NewClaimsFromContext(c)
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	course, err := coursesService.NewCourse(form, claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["inserted_id"] = course.ID.Hex()
	c.JSON(http.StatusCreated, res.Response{
		Success: true,
		Data:    response,
	})
}

// UpdateCourse godoc
// @Summary     Update course
// @Tags        courses
// @Tags        roles.instructor
// @Accept      json
// @Produce     json
// @Param       idCourse path     string                 true "MongoID"
// @Param       course   body     forms.UpdateCourseForm true "Fields to change"
// @Success     200      {object} res.Response{}
// @Failure     400      {object} res.Response{} "Bad body"
// @Failure     403      {object} res.Response{} "Not the owner"
// @Failure     404      {object} res.Response{} "Course not found"
// @Router      /course/{idCourse} [put]
func (cc *CourseController) UpdateCourse(c *gin.Context) {
	var form *forms.UpdateCourseForm
	claims, _ := services.NewClaimsFromContext(c)
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	if _, err := coursesService.UpdateCourse(form, c.Param("idCourse"), claims); err != nil {
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

// DeleteCourse godoc
// @Summary     Delete course
// @Description Soft delete the course with its groups, exams and schedules
// @Tags        courses
// @Tags        roles.instructor
// @Produce     json
// @Param       idCourse path     string true "MongoID"
// @Success     200      {object} res.Response{}
// @Failure     403      {object} res.Response{} "Not the owner"
// @Failure     404      {object} res.Response{} "Course not found"
// @Router      /course/{idCourse} [delete]
func (cc *CourseController) DeleteCourse(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	if err := coursesService.DeleteCourse(c.Param("idCourse"), claims); err != nil {
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

// UploadImage godoc
// @Summary     Upload course image
// @Tags        courses
// @Tags        roles.instructor
// @Accept      multipart/form-data
// @Produce     json
// @Param       idCourse path     string true "MongoID"
// @Param       image    formData file   true "Image up to 5MB"
// @Success     200      {object} res.Response{}
// @Failure     400      {object} res.Response{} "Not an image"
// @Failure     413      {object} res.Response{} "Too large"
// @Failure     503      {object} res.Response{} "Service Unavailable - S3"
// @Router      /course/{idCourse}/image [post]
func (cc *CourseController) UploadImage(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	file, err := c.FormFile("image")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	if _, errRes := coursesService.UploadImage(c.Param("idCourse"), file, claims); errRes != nil {
		c.AbortWithStatusJSON(errRes.StatusCode, &res.Response{
			Success: false,
			Message: errRes.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, res.Response{
		Success: true,
	})
}

// UploadFiles godoc
// @Summary     Upload course files
// @Tags        courses
// @Tags        roles.instructor
// @Accept      multipart/form-data
// @Produce     json
// @Param       idCourse path     string true  "MongoID"
// @Param       files    formData file   true  "Up to 10 files, 50MB each"
// @Param       title    formData string false "Title, single file uploads only"
// @Success     201      {object} res.Response{body=smaps.FilesMap}
// @Failure     400      {object} res.Response{} "Bad form"
// @Failure     413      {object} res.Response{} "Too large"
// @Failure     503      {object} res.Response{} "Service Unavailable - S3 || DB"
// @Router      /course/{idCourse}/files [post]
func (cc *CourseController) UploadFiles(c *gin.Context) {
	var form forms.CourseFileForm
	claims, _ := services.NewClaimsFromContext(c)
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	multipartForm, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	files := multipartForm.File["files"]
	if len(files) == 0 {
		files = multipartForm.File["files[]"]
	}
	uploaded, errRes := filesService.UploadFiles(c.Param("idCourse"), files, form.Title, claims)
	if errRes != nil {
		c.AbortWithStatusJSON(errRes.StatusCode, &res.Response{
			Success: false,
			Message: errRes.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["files"] = uploaded
	c.JSON(http.StatusCreated, res.Response{
		Success: true,
		Data:    response,
	})
}

// DeleteFile godoc
// @Summary     Delete course file
// @Tags        courses
// @Tags        roles.instructor
// @Produce     json
// @Param       idCourse path     string true "MongoID"
// @Param       idFile   path     string true "MongoID"
// @Success     200      {object} res.Response{}
// @Failure     403      {object} res.Response{} "Not the owner"
// @Failure     404      {object} res.Response{} "File not found"
// @Router      /course/{idCourse}/files/{idFile} [delete]
func (cc *CourseController) DeleteFile(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	err := filesService.DeleteFile(c.Param("idCourse"), c.Param("idFile"), claims)
	if err != nil {
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
