package services

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const MAX_IMAGE_SIZE = 5 << 20

var coursesService *CoursesService

type CoursesService struct{}

func (cs *CoursesService) NewCourse(form *forms.CourseForm, claims *Claims) (*models.Course, *res.ErrorRes) {
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return nil, errRes
	}
	course := models.NewModelCourse(form, idUser)
	inserted, err := courseModel.NewDocument(course)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &res.ErrorRes{
				Err:        fmt.Errorf("you already have a course with code %s", course.Code),
				StatusCode: http.StatusConflict,
			}
		}
		return nil, res.FromDBError(err, "")
	}
	course.ID = inserted.InsertedID.(primitive.ObjectID)
	indexCourse(course)
	return course, nil
}

func (cs *CoursesService) UpdateCourse(form *forms.UpdateCourseForm, idCourse string, claims *Claims) (*models.Course, *res.ErrorRes) {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return nil, errRes
	}
	course, errRes := getAuthorizedCourse(idObjCourse, claims, true)
	if errRes != nil {
		return nil, errRes
	}
	set := bson.M{}
	if form.Code != nil {
		course.Code = strings.ToUpper(strings.TrimSpace(*form.Code))
		set["code"] = course.Code
	}
	if form.Name != nil {
		course.Name = strings.TrimSpace(*form.Name)
		set["name"] = course.Name
	}
	if form.Description != nil {
		course.Description = *form.Description
		set["description"] = course.Description
	}
	if len(set) == 0 {
		return course, nil
	}
	course.UpdatedAt = primitive.NewDateTimeFromTime(time.Now())
	set["updated_at"] = course.UpdatedAt

	_, err := courseModel.Use().UpdateByID(db.Ctx, idObjCourse, bson.D{{
		Key:   "$set",
		Value: set,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &res.ErrorRes{
				Err:        fmt.Errorf("you already have a course with code %s", course.Code),
				StatusCode: http.StatusConflict,
			}
		}
		return nil, res.FromDBError(err, "")
	}
	indexCourse(course)
	return course, nil
}

// DeleteCourse soft deletes the course together with its groups, exams and
// schedules
func (cs *CoursesService) DeleteCourse(idCourse string, claims *Claims) *res.ErrorRes {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return errRes
	}
	if _, errRes := getAuthorizedCourse(idObjCourse, claims, true); errRes != nil {
		return errRes
	}
	examIDs, err := examModel.Use().Distinct(db.Ctx, "_id", bson.D{
		{Key: "course", Value: idObjCourse},
		{Key: "status", Value: true},
	})
	if err != nil {
		return res.FromDBError(err, "")
	}
	softDelete := bson.D{{
		Key: "$set",
		Value: bson.M{
			"status": false,
		},
	}}
	byCourse := bson.D{{Key: "course", Value: idObjCourse}}
	for _, collection := range []models.Collection{groupModel, examModel, scheduleModel} {
		if _, err := collection.Use().UpdateMany(db.Ctx, byCourse, softDelete); err != nil {
			return res.FromDBError(err, "")
		}
	}
	if _, err := courseModel.Use().UpdateByID(db.Ctx, idObjCourse, softDelete); err != nil {
		return res.FromDBError(err, "")
	}
	removeCourseIndex(idObjCourse)
	for _, idExam := range toObjectIDs(examIDs) {
		removeExamIndex(idExam)
	}
	return nil
}

func (cs *CoursesService) GetCourses(claims *Claims) ([]models.CourseWLookup, *res.ErrorRes) {
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return nil, errRes
	}
	if claims.IsInstructor() {
		return courseRepository.GetCoursesWLookup(bson.M{"instructor": idUser})
	}
	courses, errRes := CourseIDs(claims)
	if errRes != nil {
		return nil, errRes
	}
	return courseRepository.GetCoursesWLookup(bson.M{
		"_id": bson.M{"$in": courses},
	})
}

func (cs *CoursesService) GetCourse(idCourse string, claims *Claims) (*models.CourseWLookup, *res.ErrorRes) {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := getAuthorizedCourse(idObjCourse, claims, false); errRes != nil {
		return nil, errRes
	}
	return courseRepository.GetCourseWLookup(idObjCourse)
}

func (cs *CoursesService) UploadImage(idCourse string, file *multipart.FileHeader, claims *Claims) (string, *res.ErrorRes) {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return "", errRes
	}
	course, errRes := getAuthorizedCourse(idObjCourse, claims, true)
	if errRes != nil {
		return "", errRes
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", &res.ErrorRes{
			Err:        fmt.Errorf("the course image must be an image"),
			StatusCode: http.StatusBadRequest,
		}
	}
	if file.Size > MAX_IMAGE_SIZE {
		return "", &res.ErrorRes{
			Err:        fmt.Errorf("the course image exceeds %d bytes", MAX_IMAGE_SIZE),
			StatusCode: http.StatusRequestEntityTooLarge,
		}
	}
	uploaded, err := aws.UploadFile(file, fmt.Sprintf("courses/%s/image", idCourse))
	if err != nil {
		return "", &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	_, err = courseModel.Use().UpdateByID(db.Ctx, idObjCourse, bson.D{{
		Key: "$set",
		Value: bson.M{
			"image":      uploaded.Key,
			"updated_at": primitive.NewDateTimeFromTime(time.Now()),
		},
	}})
	if err != nil {
		return "", res.FromDBError(err, "")
	}
	if course.Image != "" {
		if err := aws.DeleteFile(course.Image); err != nil {
			logger.ReportError(err, zap.String("key", course.Image))
		}
	}
	return uploaded.Key, nil
}

func (cs *CoursesService) GetImageURL(idCourse string, claims *Claims) (string, *res.ErrorRes) {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return "", errRes
	}
	course, errRes := getAuthorizedCourse(idObjCourse, claims, false)
	if errRes != nil {
		return "", errRes
	}
	if course.Image == "" {
		return "", &res.ErrorRes{
			Err:        fmt.Errorf("the course has no image"),
			StatusCode: http.StatusNotFound,
		}
	}
	url, err := aws.GetPresignedURL(course.Image)
	if err != nil {
		return "", &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	return url, nil
}

func NewCoursesService() *CoursesService {
	if coursesService == nil {
		coursesService = &CoursesService{}
	}
	return coursesService
}
