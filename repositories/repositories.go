package repositories

import (
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	userModel     = models.NewUserModel()
	courseModel   = models.NewCourseModel()
	groupModel    = models.NewGroupModel()
	examModel     = models.NewExamModel()
	scheduleModel = models.NewScheduleModel()
	attemptModel  = models.NewAttemptModel()
)

// findOne decodes a single document, turning a missing one into a 404
func findOne(collection models.Collection, filter bson.D, v interface{}, notFoundMessage string) *res.ErrorRes {
	cursor := collection.GetOne(filter)
	if err := cursor.Decode(v); err != nil {
		return res.FromDBError(err, notFoundMessage)
	}
	return nil
}

func aggregate(collection models.Collection, pipeline mongo.Pipeline, v interface{}) *res.ErrorRes {
	cursor, err := collection.Aggreagate(pipeline)
	if err != nil {
		return &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	if err := cursor.All(db.Ctx, v); err != nil {
		return &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	return nil
}

func getLookupUser(localField string) bson.D {
	return bson.D{
		{
			Key: "$lookup",
			Value: bson.M{
				"from":         models.USERS_COLLECTION,
				"localField":   localField,
				"foreignField": "_id",
				"as":           localField,
				"pipeline": bson.A{bson.M{
					"$project": models.SimpleUserProjection,
				}},
			},
		},
	}
}

func setFirst(field string) bson.D {
	return bson.D{{
		Key: "$set",
		Value: bson.M{
			field: bson.M{
				"$first": "$" + field,
			},
		},
	}}
}
