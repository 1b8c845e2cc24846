package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ATTEMPTS_COLLECTION = "exam_attempts"

// SUBMIT_GRACE covers network latency on the final submit
const SUBMIT_GRACE = 5 * time.Minute

const (
	ATTEMPT_PENDING     = "pending"
	ATTEMPT_IN_PROGRESS = "in_progress"
	ATTEMPT_SUBMITTED   = "submitted"
	ATTEMPT_GRADED      = "graded"
)

var attemptModel *AttemptModel

type Answer struct {
	Question primitive.ObjectID  `json:"question" bson:"question" example:"637d5de216f58bc8ec7f7f51"`
	Choices  []int               `json:"choices,omitempty" bson:"choices,omitempty" extensions:"x-omitempty"`
	Text     string              `json:"text,omitempty" bson:"text,omitempty" extensions:"x-omitempty"`
	Points   *float64            `json:"points" bson:"points"`
	Feedback string              `json:"feedback,omitempty" bson:"feedback,omitempty" extensions:"x-omitempty"`
	Auto     bool                `json:"auto" bson:"auto"`
	GradedBy *primitive.ObjectID `json:"graded_by,omitempty" bson:"graded_by,omitempty" extensions:"x-omitempty"`
	Date     primitive.DateTime  `json:"date" bson:"date" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
}

func (a *Answer) IsGraded() bool {
	return a.Points != nil
}

type ExamAttempt struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id,omitempty" example:"637d5de216f58bc8ec7f7f51"`
	Schedule    primitive.ObjectID   `json:"schedule" bson:"schedule" example:"637d5de216f58bc8ec7f7f51"`
	Exam        primitive.ObjectID   `json:"exam" bson:"exam" example:"637d5de216f58bc8ec7f7f51"`
	Student     primitive.ObjectID   `json:"student" bson:"student" example:"637d5de216f58bc8ec7f7f51"`
	Status      string               `json:"status" bson:"status" example:"in_progress" enums:"in_progress,submitted,graded"`
	StartedAt   primitive.DateTime   `json:"started_at" bson:"started_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
	Deadline    primitive.DateTime   `json:"deadline" bson:"deadline" swaggertype:"string" example:"2022-09-21T21:40:23.309+00:00"`
	SubmittedAt primitive.DateTime   `json:"submitted_at,omitempty" bson:"submitted_at,omitempty" swaggertype:"string" extensions:"x-omitempty"`
	Order       []primitive.ObjectID `json:"order" bson:"order"`
	Answers     []Answer             `json:"answers" bson:"answers"`
	Score       float64              `json:"score" bson:"score" example:"15.5"`
	MaxScore    float64              `json:"max_score" bson:"max_score" example:"20"`
	Percentage  float64              `json:"percentage" bson:"percentage" example:"77.5"`
	Grade       float64              `json:"grade" bson:"grade" example:"77.5"`
	// Revision counts grade writes
	Revision    int64                `json:"-" bson:"revision"`
}

func (a *ExamAttempt) GetAnswer(question primitive.ObjectID) *Answer {
	for i := range a.Answers {
		if a.Answers[i].Question == question {
			return &a.Answers[i]
		}
	}
	return nil
}

// ClosesAt is the last instant a submit is still accepted
func (a *ExamAttempt) ClosesAt() time.Time {
	return a.Deadline.Time().Add(SUBMIT_GRACE)
}

// IsExpired is true once the submit grace passed while still in progress
func (a *ExamAttempt) IsExpired(now time.Time) bool {
	return a.Status == ATTEMPT_IN_PROGRESS && now.After(a.ClosesAt())
}

// HideResults blanks everything a student must not see before publication
func (a *ExamAttempt) HideResults() {
	a.Score = 0
	a.Percentage = 0
	a.Grade = 0
	for i := range a.Answers {
		a.Answers[i].Points = nil
		a.Answers[i].Feedback = ""
		a.Answers[i].GradedBy = nil
	}
}

type AttemptWStudent struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id" example:"637d5de216f58bc8ec7f7f51"`
	Schedule    primitive.ObjectID `json:"schedule" bson:"schedule" example:"637d5de216f58bc8ec7f7f51"`
	Exam        primitive.ObjectID `json:"exam" bson:"exam" example:"637d5de216f58bc8ec7f7f51"`
	Student     SimpleUser         `json:"student" bson:"student"`
	Status      string             `json:"status" bson:"status" example:"submitted"`
	StartedAt   primitive.DateTime `json:"started_at" bson:"started_at" swaggertype:"string"`
	Deadline    primitive.DateTime `json:"deadline" bson:"deadline" swaggertype:"string"`
	SubmittedAt primitive.DateTime `json:"submitted_at,omitempty" bson:"submitted_at,omitempty" swaggertype:"string" extensions:"x-omitempty"`
	Answers     []Answer           `json:"answers" bson:"answers"`
	Score       float64            `json:"score" bson:"score" example:"15.5"`
	MaxScore    float64            `json:"max_score" bson:"max_score" example:"20"`
	Percentage  float64            `json:"percentage" bson:"percentage" example:"77.5"`
	Grade       float64            `json:"grade" bson:"grade" example:"77.5"`
}

func (a *AttemptWStudent) GetAnswer(question primitive.ObjectID) *Answer {
	for i := range a.Answers {
		if a.Answers[i].Question == question {
			return &a.Answers[i]
		}
	}
	return nil
}

type AttemptModel struct {
	model
}

func NewModelAttempt(
	schedule *ExamSchedule,
	student primitive.ObjectID,
	order []primitive.ObjectID,
	now,
	deadline time.Time,
	maxScore float64,
) *ExamAttempt {
	return &ExamAttempt{
		Schedule:  schedule.ID,
		Exam:      schedule.Exam,
		Student:   student,
		Status:    ATTEMPT_IN_PROGRESS,
		StartedAt: primitive.NewDateTimeFromTime(now),
		Deadline:  primitive.NewDateTimeFromTime(deadline),
		Order:     order,
		Answers:   []Answer{},
		MaxScore:  maxScore,
	}
}

func init() {
	registerSchema(
		ATTEMPTS_COLLECTION,
		bson.M{
			"bsonType": "object",
			"required": []string{
				"schedule",
				"exam",
				"student",
				"status",
				"started_at",
				"deadline",
				"order",
				"answers",
			},
			"properties": bson.M{
				"schedule": bson.M{"bsonType": "objectId"},
				"exam":     bson.M{"bsonType": "objectId"},
				"student":  bson.M{"bsonType": "objectId"},
				"status": bson.M{"enum": bson.A{
					ATTEMPT_IN_PROGRESS,
					ATTEMPT_SUBMITTED,
					ATTEMPT_GRADED,
				}},
				"started_at":   bson.M{"bsonType": "date"},
				"deadline":     bson.M{"bsonType": "date"},
				"submitted_at": bson.M{"bsonType": "date"},
				"order": bson.M{
					"bsonType": bson.A{"array"},
					"items":    bson.M{"bsonType": "objectId"},
				},
				"answers": bson.M{
					"bsonType": bson.A{"array"},
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"question", "date"},
						"properties": bson.M{
							"question": bson.M{"bsonType": "objectId"},
							"choices": bson.M{
								"bsonType": bson.A{"array"},
								"items":    bson.M{"bsonType": "int", "minimum": 0},
							},
							"text":      bson.M{"bsonType": "string", "maxLength": 10000},
							"points":    bson.M{"bsonType": bson.A{"number", "null"}},
							"feedback":  bson.M{"bsonType": "string", "maxLength": 2000},
							"auto":      bson.M{"bsonType": "bool"},
							"graded_by": bson.M{"bsonType": "objectId"},
							"date":      bson.M{"bsonType": "date"},
						},
					},
				},
				"score":      bson.M{"bsonType": "number"},
				"max_score":  bson.M{"bsonType": "number"},
				"percentage": bson.M{"bsonType": "number"},
				"grade":      bson.M{"bsonType": "number"},
				"revision":   bson.M{"bsonType": bson.A{"int", "long"}},
			},
		},
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "schedule", Value: 1},
				{Key: "student", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	)
}

func NewAttemptModel() *AttemptModel {
	if attemptModel == nil {
		attemptModel = &AttemptModel{
			model{CollectionName: ATTEMPTS_COLLECTION},
		}
	}
	return attemptModel
}
