package repositories

import (
	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type GroupRepository struct{}

func (g *GroupRepository) GetGroup(idGroup primitive.ObjectID) (*models.Group, *res.ErrorRes) {
	var group *models.Group
	err := findOne(groupModel, bson.D{
		{Key: "_id", Value: idGroup},
		{Key: "status", Value: true},
	}, &group, "Group not found")
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (g *GroupRepository) GetGroupByCode(code string) (*models.Group, *res.ErrorRes) {
	var group *models.Group
	err := findOne(groupModel, bson.D{
		{Key: "join_code", Value: code},
		{Key: "status", Value: true},
	}, &group, "Group not found")
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (g *GroupRepository) GetGroups(filter bson.D) ([]models.Group, *res.ErrorRes) {
	groups := []models.Group{}
	filter = append(filter, bson.E{Key: "status", Value: true})

	cursor, err := groupModel.GetAll(filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	if err := cursor.All(db.Ctx, &groups); err != nil {
		return nil, res.FromDBError(err, "")
	}
	return groups, nil
}

func (g *GroupRepository) GetGroupsWCount(idCourse primitive.ObjectID) ([]models.GroupWCount, *res.ErrorRes) {
	groups := []models.GroupWCount{}

	pipeline := mongo.Pipeline{
		bson.D{{
			Key: "$match",
			Value: bson.M{
				"course": idCourse,
				"status": true,
			},
		}},
		bson.D{{
			Key: "$project",
			Value: bson.M{
				"course":     1,
				"name":       1,
				"join_code":  1,
				"created_at": 1,
				"students_count": bson.M{
					"$size": "$students",
				},
			},
		}},
		bson.D{{Key: "$sort", Value: bson.M{"name": 1}}},
	}
	if err := aggregate(groupModel, pipeline, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetStudents returns the members of a group ordered by last name
func (g *GroupRepository) GetStudents(idGroup primitive.ObjectID) ([]models.SimpleUser, *res.ErrorRes) {
	students := []models.SimpleUser{}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": idGroup}}},
		bson.D{{
			Key: "$lookup",
			Value: bson.M{
				"from":         models.USERS_COLLECTION,
				"localField":   "students",
				"foreignField": "_id",
				"as":           "students",
				"pipeline": bson.A{bson.M{
					"$project": models.SimpleUserProjection,
				}},
			},
		}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$students"}}},
		bson.D{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$students"}}},
		bson.D{{
			Key: "$sort",
			Value: bson.D{
				{Key: "last_name", Value: 1},
				{Key: "first_name", Value: 1},
			},
		}},
	}
	if err := aggregate(groupModel, pipeline, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// GetStudentIDs collects the distinct students of the given groups
func (g *GroupRepository) GetStudentIDs(groups []primitive.ObjectID) ([]primitive.ObjectID, *res.ErrorRes) {
	values, err := groupModel.Use().Distinct(db.Ctx, "students", bson.D{
		{Key: "_id", Value: bson.M{"$in": groups}},
		{Key: "status", Value: true},
	})
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, value := range values {
		if id, ok := value.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{}
}
