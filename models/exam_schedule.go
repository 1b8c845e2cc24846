package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const SCHEDULES_COLLECTION = "exam_schedules"

var scheduleModel *ScheduleModel

type ExamSchedule struct {
	ID               primitive.ObjectID   `json:"_id" bson:"_id,omitempty" example:"637d5de216f58bc8ec7f7f51"`
	Exam             primitive.ObjectID   `json:"exam" bson:"exam" example:"637d5de216f58bc8ec7f7f51"`
	Course           primitive.ObjectID   `json:"course" bson:"course" example:"637d5de216f58bc8ec7f7f51"`
	Groups           []primitive.ObjectID `json:"groups" bson:"groups"`
	Author           primitive.ObjectID   `json:"author" bson:"author" example:"637d5de216f58bc8ec7f7f51"`
	Title            string               `json:"title" bson:"title" example:"Midterm - Section A"`
	Start            primitive.DateTime   `json:"start" bson:"start" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
	End              primitive.DateTime   `json:"end" bson:"end" swaggertype:"string" example:"2022-09-21T22:10:23.309+00:00"`
	Duration         int                  `json:"duration" bson:"duration" example:"90"`
	AccessCode       string               `json:"access_code,omitempty" bson:"access_code,omitempty" extensions:"x-omitempty"`
	Shuffle          bool                 `json:"shuffle" bson:"shuffle"`
	ResultsPublished bool                 `json:"results_published" bson:"results_published"`
	Status           bool                 `json:"status" bson:"status"`
	CreatedAt        primitive.DateTime   `json:"created_at" bson:"created_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
	UpdatedAt        primitive.DateTime   `json:"updated_at" bson:"updated_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
}

func (s *ExamSchedule) HasStarted(now time.Time) bool {
	return !now.Before(s.Start.Time())
}

func (s *ExamSchedule) HasEnded(now time.Time) bool {
	return !now.Before(s.End.Time())
}

// IsOpen reports whether now falls inside [start, end)
func (s *ExamSchedule) IsOpen(now time.Time) bool {
	return s.HasStarted(now) && !s.HasEnded(now)
}

func (s *ExamSchedule) HasGroup(group primitive.ObjectID) bool {
	for _, g := range s.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// StudentSchedule is the student facing view, never carrying the access code
type StudentSchedule struct {
	ID               primitive.ObjectID `json:"_id" example:"637d5de216f58bc8ec7f7f51"`
	Exam             primitive.ObjectID `json:"exam" example:"637d5de216f58bc8ec7f7f51"`
	Course           primitive.ObjectID `json:"course" example:"637d5de216f58bc8ec7f7f51"`
	Title            string             `json:"title" example:"Midterm - Section A"`
	Start            primitive.DateTime `json:"start" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
	End              primitive.DateTime `json:"end" swaggertype:"string" example:"2022-09-21T22:10:23.309+00:00"`
	Duration         int                `json:"duration" example:"90"`
	HasAccessCode    bool               `json:"has_access_code"`
	ResultsPublished bool               `json:"results_published"`
	AttemptStatus    string             `json:"attempt_status" example:"pending" enums:"pending,in_progress,submitted,graded"`
	Attempt          primitive.ObjectID `json:"attempt,omitempty" example:"637d5de216f58bc8ec7f7f51" extensions:"x-omitempty"`
}

func (s *ExamSchedule) ForStudent(attempt *ExamAttempt) StudentSchedule {
	view := StudentSchedule{
		ID:               s.ID,
		Exam:             s.Exam,
		Course:           s.Course,
		Title:            s.Title,
		Start:            s.Start,
		End:              s.End,
		Duration:         s.Duration,
		HasAccessCode:    s.AccessCode != "",
		ResultsPublished: s.ResultsPublished,
		AttemptStatus:    ATTEMPT_PENDING,
	}
	if attempt != nil {
		view.AttemptStatus = attempt.Status
		view.Attempt = attempt.ID
	}
	return view
}

type ScheduleModel struct {
	model
}

func NewModelSchedule(
	exam *Exam,
	groups []primitive.ObjectID,
	author primitive.ObjectID,
	title string,
	start,
	end time.Time,
	duration int,
	accessCode string,
	shuffle bool,
) *ExamSchedule {
	now := primitive.NewDateTimeFromTime(time.Now())
	if title == "" {
		title = exam.Title
	}
	return &ExamSchedule{
		Exam:       exam.ID,
		Course:     exam.Course,
		Groups:     groups,
		Author:     author,
		Title:      title,
		Start:      primitive.NewDateTimeFromTime(start),
		End:        primitive.NewDateTimeFromTime(end),
		Duration:   duration,
		AccessCode: accessCode,
		Shuffle:    shuffle,
		Status:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func init() {
	registerSchema(
		SCHEDULES_COLLECTION,
		bson.M{
			"bsonType": "object",
			"required": []string{
				"exam",
				"course",
				"groups",
				"author",
				"title",
				"start",
				"end",
				"duration",
				"shuffle",
				"results_published",
				"status",
				"created_at",
				"updated_at",
			},
			"properties": bson.M{
				"exam":   bson.M{"bsonType": "objectId"},
				"course": bson.M{"bsonType": "objectId"},
				"groups": bson.M{
					"bsonType": bson.A{"array"},
					"minItems": 1,
					"items":    bson.M{"bsonType": "objectId"},
				},
				"author":            bson.M{"bsonType": "objectId"},
				"title":             bson.M{"bsonType": "string", "maxLength": 100},
				"start":             bson.M{"bsonType": "date"},
				"end":               bson.M{"bsonType": "date"},
				"duration":          bson.M{"bsonType": "int", "minimum": 1},
				"access_code":       bson.M{"bsonType": "string", "maxLength": 30},
				"shuffle":           bson.M{"bsonType": "bool"},
				"results_published": bson.M{"bsonType": "bool"},
				"status":            bson.M{"bsonType": "bool"},
				"created_at":        bson.M{"bsonType": "date"},
				"updated_at":        bson.M{"bsonType": "date"},
			},
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "course", Value: 1}},
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "groups", Value: 1}},
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "exam", Value: 1}},
		},
	)
}

func NewScheduleModel() *ScheduleModel {
	if scheduleModel == nil {
		scheduleModel = &ScheduleModel{
			model{CollectionName: SCHEDULES_COLLECTION},
		}
	}
	return scheduleModel
}
