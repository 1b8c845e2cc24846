package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const GROUPS_COLLECTION = "groups"

var groupModel *GroupModel

type Group struct {
	ID        primitive.ObjectID   `json:"_id" bson:"_id,omitempty" example:"637d5de216f58bc8ec7f7f51"`
	Course    primitive.ObjectID   `json:"course" bson:"course" example:"637d5de216f58bc8ec7f7f51"`
	Name      string               `json:"name" bson:"name" example:"Section A"`
	JoinCode  string               `json:"join_code,omitempty" bson:"join_code" example:"K7P2QX9A" extensions:"x-omitempty"`
	Students  []primitive.ObjectID `json:"students,omitempty" bson:"students" extensions:"x-omitempty"`
	Status    bool                 `json:"status" bson:"status"`
	CreatedAt primitive.DateTime   `json:"created_at" bson:"created_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
}

func (g *Group) HasStudent(student primitive.ObjectID) bool {
	for _, s := range g.Students {
		if s == student {
			return true
		}
	}
	return false
}

type GroupWCount struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id" example:"637d5de216f58bc8ec7f7f51"`
	Course        primitive.ObjectID `json:"course" bson:"course" example:"637d5de216f58bc8ec7f7f51"`
	Name          string             `json:"name" bson:"name" example:"Section A"`
	JoinCode      string             `json:"join_code,omitempty" bson:"join_code" extensions:"x-omitempty"`
	StudentsCount int                `json:"students_count" bson:"students_count" example:"30"`
	CreatedAt     primitive.DateTime `json:"created_at" bson:"created_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
}

type GroupModel struct {
	model
}

func NewModelGroup(course primitive.ObjectID, name, joinCode string) *Group {
	return &Group{
		Course:    course,
		Name:      name,
		JoinCode:  joinCode,
		Students:  []primitive.ObjectID{},
		Status:    true,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
}

func init() {
	registerSchema(
		GROUPS_COLLECTION,
		bson.M{
			"bsonType": "object",
			"required": []string{
				"course",
				"name",
				"join_code",
				"students",
				"status",
				"created_at",
			},
			"properties": bson.M{
				"course":    bson.M{"bsonType": "objectId"},
				"name":      bson.M{"bsonType": "string", "maxLength": 50},
				"join_code": bson.M{"bsonType": "string", "minLength": 8, "maxLength": 8},
				"students": bson.M{
					"bsonType": bson.A{"array"},
					"items":    bson.M{"bsonType": "objectId"},
				},
				"status":     bson.M{"bsonType": "bool"},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "join_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "students", Value: 1}},
		},
	)
}

func NewGroupModel() *GroupModel {
	if groupModel == nil {
		groupModel = &GroupModel{
			model{CollectionName: GROUPS_COLLECTION},
		}
	}
	return groupModel
}
