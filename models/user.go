package models

import (
	"strings"
	"time"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const USERS_COLLECTION = "users"

const (
	STUDENT    = forms.KIND_STUDENT
	INSTRUCTOR = forms.KIND_INSTRUCTOR
)

var userModel *UserModel

type User struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty" example:"637d5de216f58bc8ec7f7f51"`
	Kind          string             `json:"kind" bson:"kind" example:"student" enums:"student,instructor"`
	Email         string             `json:"email" bson:"email" example:"ana@xams.dev"`
	Username      string             `json:"username" bson:"username" example:"ana"`
	FirstName     string             `json:"first_name" bson:"first_name" example:"Ana"`
	LastName      string             `json:"last_name" bson:"last_name" example:"Perez"`
	Password      string             `json:"-" bson:"password"`
	StudentNumber string             `json:"student_number,omitempty" bson:"student_number,omitempty" extensions:"x-omitempty"`
	Title         string             `json:"title,omitempty" bson:"title,omitempty" extensions:"x-omitempty"`
	Status        bool               `json:"status" bson:"status"`
	CreatedAt     primitive.DateTime `json:"created_at" bson:"created_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
	UpdatedAt     primitive.DateTime `json:"updated_at" bson:"updated_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
	LastLogin     primitive.DateTime `json:"last_login,omitempty" bson:"last_login,omitempty" swaggertype:"string" extensions:"x-omitempty"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsInstructor() bool {
	return u.Kind == INSTRUCTOR
}

func (u *User) Simple() SimpleUser {
	return SimpleUser{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Username:      u.Username,
		Email:         u.Email,
		StudentNumber: u.StudentNumber,
	}
}

type SimpleUser struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id" example:"637d5de216f58bc8ec7f7f51"`
	FirstName     string             `json:"first_name" bson:"first_name" example:"Ana"`
	LastName      string             `json:"last_name" bson:"last_name" example:"Perez"`
	Username      string             `json:"username" bson:"username" example:"ana"`
	Email         string             `json:"email,omitempty" bson:"email" extensions:"x-omitempty"`
	StudentNumber string             `json:"student_number,omitempty" bson:"student_number,omitempty" extensions:"x-omitempty"`
}

func (s SimpleUser) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type UserModel struct {
	model
}

// NewModelUser builds a user from the register form, password already hashed
func NewModelUser(form *forms.RegisterForm, hash string) *User {
	now := primitive.NewDateTimeFromTime(time.Now())
	user := &User{
		Kind:      form.Kind,
		Email:     strings.ToLower(strings.TrimSpace(form.Email)),
		Username:  strings.ToLower(strings.TrimSpace(form.Username)),
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Password:  hash,
		Status:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if form.Kind == STUDENT {
		user.StudentNumber = form.StudentNumber
	} else {
		user.Title = form.Title
	}
	return user
}

// SimpleUserProjection keeps the fields of SimpleUser in lookups
var SimpleUserProjection = bson.D{
	{Key: "first_name", Value: 1},
	{Key: "last_name", Value: 1},
	{Key: "username", Value: 1},
	{Key: "email", Value: 1},
	{Key: "student_number", Value: 1},
}

func init() {
	registerSchema(
		USERS_COLLECTION,
		bson.M{
			"bsonType": "object",
			"required": []string{
				"kind",
				"email",
				"username",
				"first_name",
				"last_name",
				"password",
				"status",
				"created_at",
				"updated_at",
			},
			"properties": bson.M{
				"kind":           bson.M{"enum": bson.A{STUDENT, INSTRUCTOR}},
				"email":          bson.M{"bsonType": "string", "maxLength": 100},
				"username":       bson.M{"bsonType": "string", "maxLength": 30},
				"first_name":     bson.M{"bsonType": "string", "maxLength": 50},
				"last_name":      bson.M{"bsonType": "string", "maxLength": 50},
				"password":       bson.M{"bsonType": "string"},
				"student_number": bson.M{"bsonType": "string", "maxLength": 20},
				"title":          bson.M{"bsonType": "string", "maxLength": 20},
				"status":         bson.M{"bsonType": "bool"},
				"created_at":     bson.M{"bsonType": "date"},
				"updated_at":     bson.M{"bsonType": "date"},
				"last_login":     bson.M{"bsonType": "date"},
			},
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	)
}

func NewUserModel() *UserModel {
	if userModel == nil {
		userModel = &UserModel{
			model{CollectionName: USERS_COLLECTION},
		}
	}
	return userModel
}
