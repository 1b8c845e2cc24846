package models

import (
	"strings"
	"time"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const COURSES_COLLECTION = "courses"
const COURSES_INDEX = "courses"

var courseModel *CourseModel

type Course struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty" example:"637d5de216f58bc8ec7f7f51"`
	Code        string             `json:"code" bson:"code" example:"MAT101"`
	Name        string             `json:"name" bson:"name" example:"Calculus I"`
	Description string             `json:"description" bson:"description"`
	Instructor  primitive.ObjectID `json:"instructor" bson:"instructor" example:"637d5de216f58bc8ec7f7f51"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty" extensions:"x-omitempty"`
	Status      bool               `json:"status" bson:"status"`
	CreatedAt   primitive.DateTime `json:"created_at" bson:"created_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
	UpdatedAt   primitive.DateTime `json:"updated_at" bson:"updated_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
}

type CourseWLookup struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id" example:"637d5de216f58bc8ec7f7f51"`
	Code        string             `json:"code" bson:"code" example:"MAT101"`
	Name        string             `json:"name" bson:"name" example:"Calculus I"`
	Description string             `json:"description" bson:"description"`
	Instructor  SimpleUser         `json:"instructor" bson:"instructor"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty" extensions:"x-omitempty"`
	CreatedAt   primitive.DateTime `json:"created_at" bson:"created_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
}

// ElasticSearch Struct - Course indexer
type CourseES struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Instructor  string `json:"instructor"`
	IDCourse    string `json:"id_course"`
}

func (c *Course) ToES() CourseES {
	return CourseES{
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		Instructor:  c.Instructor.Hex(),
		IDCourse:    c.ID.Hex(),
	}
}

type CourseModel struct {
	model
}

func NewModelCourse(form *forms.CourseForm, instructor primitive.ObjectID) *Course {
	now := primitive.NewDateTimeFromTime(time.Now())
	return &Course{
		Code:        strings.ToUpper(strings.TrimSpace(form.Code)),
		Name:        strings.TrimSpace(form.Name),
		Description: form.Description,
		Instructor:  instructor,
		Status:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func init() {
	registerSchema(
		COURSES_COLLECTION,
		bson.M{
			"bsonType": "object",
			"required": []string{
				"code",
				"name",
				"instructor",
				"status",
				"created_at",
				"updated_at",
			},
			"properties": bson.M{
				"code":        bson.M{"bsonType": "string", "maxLength": 20},
				"name":        bson.M{"bsonType": "string", "maxLength": 100},
				"description": bson.M{"bsonType": "string", "maxLength": 500},
				"instructor":  bson.M{"bsonType": "objectId"},
				"image":       bson.M{"bsonType": "string"},
				"status":      bson.M{"bsonType": "bool"},
				"created_at":  bson.M{"bsonType": "date"},
				"updated_at":  bson.M{"bsonType": "date"},
			},
		},
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "instructor", Value: 1},
				{Key: "code", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": true}),
		},
	)
}

// ElastichSearch Bulk
func NewBulkCourse() (esutil.BulkIndexer, error) {
	return newBulkIndexer(COURSES_INDEX)
}

func NewCourseModel() *CourseModel {
	if courseModel == nil {
		courseModel = &CourseModel{
			model{CollectionName: COURSES_COLLECTION},
		}
	}
	return courseModel
}

func newBulkIndexer(index string) (esutil.BulkIndexer, error) {
	es, err := db.NewConnectionEs()
	if err != nil {
		return nil, err
	}

	return esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         index,
		Client:        es,
		NumWorkers:    db.NUM_WORKERS,
		FlushBytes:    int(db.FLUSH_BYTES),
		FlushInterval: db.FLUSH_INTERVAL,
	})
}
