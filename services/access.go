package services

import (
	"fmt"
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errForbidden = fmt.Errorf("you are not allowed to access this resource")

func parseID(id string) (primitive.ObjectID, *res.ErrorRes) {
	idObj, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &res.ErrorRes{
			Err:        fmt.Errorf("invalid id %q", id),
			StatusCode: http.StatusBadRequest,
		}
	}
	return idObj, nil
}

func parseIDs(ids []string) ([]primitive.ObjectID, *res.ErrorRes) {
	idsObj := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		idObj, errRes := parseID(id)
		if errRes != nil {
			return nil, errRes
		}
		idsObj = append(idsObj, idObj)
	}
	return idsObj, nil
}

func claimsID(claims *Claims) (primitive.ObjectID, *res.ErrorRes) {
	idObj, err := claims.ObjectID()
	if err != nil {
		return primitive.NilObjectID, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusUnauthorized,
		}
	}
	return idObj, nil
}

func isEnrolled(idCourse, idStudent primitive.ObjectID) (bool, *res.ErrorRes) {
	count, err := groupModel.Use().CountDocuments(db.Ctx, bson.D{
		{Key: "course", Value: idCourse},
		{Key: "students", Value: idStudent},
		{Key: "status", Value: true},
	})
	if err != nil {
		return false, res.FromDBError(err, "")
	}
	return count > 0, nil
}

// authorizeCourse lets the owner through, and enrolled students unless
// ownerOnly is set
func authorizeCourse(course *models.Course, claims *Claims, ownerOnly bool) *res.ErrorRes {
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return errRes
	}
	if claims.IsInstructor() && course.Instructor == idUser {
		return nil
	}
	if ownerOnly || !claims.IsStudent() {
		return &res.ErrorRes{
			Err:        errForbidden,
			StatusCode: http.StatusForbidden,
		}
	}
	enrolled, errRes := isEnrolled(course.ID, idUser)
	if errRes != nil {
		return errRes
	}
	if !enrolled {
		return &res.ErrorRes{
			Err:        errForbidden,
			StatusCode: http.StatusForbidden,
		}
	}
	return nil
}

func getAuthorizedCourse(idCourse primitive.ObjectID, claims *Claims, ownerOnly bool) (*models.Course, *res.ErrorRes) {
	course, errRes := courseRepository.GetCourse(idCourse)
	if errRes != nil {
		return nil, errRes
	}
	if errRes := authorizeCourse(course, claims, ownerOnly); errRes != nil {
		return nil, errRes
	}
	return course, nil
}

// AuthorizedRouteFromIdCourse checks that the caller owns or is enrolled in
// the course
func AuthorizedRouteFromIdCourse(idCourse string, claims *Claims) *res.ErrorRes {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return errRes
	}
	_, errRes = getAuthorizedCourse(idObjCourse, claims, false)
	return errRes
}
