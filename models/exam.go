package models

import (
	"time"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const EXAMS_COLLECTION = "exams"
const EXAMS_INDEX = "exams"

var examModel *ExamModel

var TrueFalseOptions = []string{"True", "False"}

type Question struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id" example:"637d5de216f58bc8ec7f7f51"`
	Type          string             `json:"type" bson:"type" example:"choice" enums:"choice,multiple,true_false,short_answer,essay"`
	Question      string             `json:"question" bson:"question" example:"2 + 2 = ?"`
	Options       []string           `json:"options,omitempty" bson:"options,omitempty" extensions:"x-omitempty"`
	Correct       []int              `json:"correct,omitempty" bson:"correct,omitempty" extensions:"x-omitempty"`
	Accepted      []string           `json:"accepted,omitempty" bson:"accepted,omitempty" extensions:"x-omitempty"`
	CaseSensitive bool               `json:"case_sensitive" bson:"case_sensitive"`
	Points        float64            `json:"points" bson:"points" example:"2"`
}

// StudentQuestion is a question without its answer key
type StudentQuestion struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id" example:"637d5de216f58bc8ec7f7f51"`
	Type     string             `json:"type" bson:"type" example:"choice"`
	Question string             `json:"question" bson:"question" example:"2 + 2 = ?"`
	Options  []string           `json:"options,omitempty" bson:"options,omitempty" extensions:"x-omitempty"`
	Points   float64            `json:"points" bson:"points" example:"2"`
}

func (q *Question) ForStudent() StudentQuestion {
	return StudentQuestion{
		ID:       q.ID,
		Type:     q.Type,
		Question: q.Question,
		Options:  q.Options,
		Points:   q.Points,
	}
}

func (q *Question) HasOptions() bool {
	switch q.Type {
	case forms.QUESTION_CHOICE, forms.QUESTION_MULTIPLE, forms.QUESTION_TRUE_FALSE:
		return true
	}
	return false
}

type Exam struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty" example:"637d5de216f58bc8ec7f7f51"`
	Course      primitive.ObjectID `json:"course" bson:"course" example:"637d5de216f58bc8ec7f7f51"`
	Author      primitive.ObjectID `json:"author" bson:"author" example:"637d5de216f58bc8ec7f7f51"`
	Title       string             `json:"title" bson:"title" example:"Midterm"`
	Description string             `json:"description" bson:"description"`
	Questions   []Question         `json:"questions,omitempty" bson:"questions" extensions:"x-omitempty"`
	Status      bool               `json:"status" bson:"status"`
	CreatedAt   primitive.DateTime `json:"created_at" bson:"created_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
	UpdatedAt   primitive.DateTime `json:"updated_at" bson:"updated_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
}

func (e *Exam) MaxScore() float64 {
	var total float64
	for _, question := range e.Questions {
		total += question.Points
	}
	return total
}

func (e *Exam) GetQuestion(id primitive.ObjectID) *Question {
	for i := range e.Questions {
		if e.Questions[i].ID == id {
			return &e.Questions[i]
		}
	}
	return nil
}

type ExamSummary struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id" example:"637d5de216f58bc8ec7f7f51"`
	Course        primitive.ObjectID `json:"course" bson:"course" example:"637d5de216f58bc8ec7f7f51"`
	Title         string             `json:"title" bson:"title" example:"Midterm"`
	Description   string             `json:"description" bson:"description"`
	QuestionCount int                `json:"question_count" bson:"question_count" example:"10"`
	MaxScore      float64            `json:"max_score" bson:"max_score" example:"20"`
	UpdatedAt     primitive.DateTime `json:"updated_at" bson:"updated_at" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
}

// ElasticSearch Struct - Exam indexer
type ExamES struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IDCourse    string `json:"id_course"`
	IDExam      string `json:"id_exam"`
}

func (e *Exam) ToES() ExamES {
	return ExamES{
		Title:       e.Title,
		Description: e.Description,
		IDCourse:    e.Course.Hex(),
		IDExam:      e.ID.Hex(),
	}
}

type ExamModel struct {
	model
}

// NewQuestion converts a form question. Ids sent by the client are kept so
// edits don't orphan stored answers.
func NewQuestion(form *forms.QuestionForm) Question {
	question := Question{
		ID:            primitive.NewObjectID(),
		Type:          form.Type,
		Question:      form.Question,
		Options:       form.Options,
		Correct:       form.Correct,
		Accepted:      form.Accepted,
		CaseSensitive: form.CaseSensitive,
		Points:        form.Points,
	}
	if id, err := primitive.ObjectIDFromHex(form.ID); err == nil {
		question.ID = id
	}
	switch form.Type {
	case forms.QUESTION_TRUE_FALSE:
		question.Options = TrueFalseOptions
		question.Accepted = nil
	case forms.QUESTION_CHOICE, forms.QUESTION_MULTIPLE:
		question.Accepted = nil
	case forms.QUESTION_SHORT_ANSWER:
		question.Options = nil
		question.Correct = nil
	case forms.QUESTION_ESSAY:
		question.Options = nil
		question.Correct = nil
		question.Accepted = nil
	}
	return question
}

func NewQuestions(questionsForm []forms.QuestionForm) []Question {
	questions := make([]Question, 0, len(questionsForm))
	for i := range questionsForm {
		questions = append(questions, NewQuestion(&questionsForm[i]))
	}
	return questions
}

func NewModelExam(form *forms.ExamForm, course, author primitive.ObjectID) *Exam {
	now := primitive.NewDateTimeFromTime(time.Now())
	return &Exam{
		Course:      course,
		Author:      author,
		Title:       form.Title,
		Description: form.Description,
		Questions:   NewQuestions(form.Questions),
		Status:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func init() {
	registerSchema(
		EXAMS_COLLECTION,
		bson.M{
			"bsonType": "object",
			"required": []string{
				"course",
				"author",
				"title",
				"questions",
				"status",
				"created_at",
				"updated_at",
			},
			"properties": bson.M{
				"course":      bson.M{"bsonType": "objectId"},
				"author":      bson.M{"bsonType": "objectId"},
				"title":       bson.M{"bsonType": "string", "maxLength": 100},
				"description": bson.M{"bsonType": "string", "maxLength": 1000},
				"status":      bson.M{"bsonType": "bool"},
				"created_at":  bson.M{"bsonType": "date"},
				"updated_at":  bson.M{"bsonType": "date"},
				"questions": bson.M{
					"bsonType": bson.A{"array"},
					"minItems": 1,
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{
							"_id",
							"type",
							"question",
							"points",
						},
						"properties": bson.M{
							"_id": bson.M{"bsonType": "objectId"},
							"type": bson.M{"enum": bson.A{
								forms.QUESTION_CHOICE,
								forms.QUESTION_MULTIPLE,
								forms.QUESTION_TRUE_FALSE,
								forms.QUESTION_SHORT_ANSWER,
								forms.QUESTION_ESSAY,
							}},
							"question": bson.M{"bsonType": "string", "maxLength": 2000},
							"options": bson.M{
								"bsonType": bson.A{"array"},
								"items":    bson.M{"bsonType": "string"},
							},
							"correct": bson.M{
								"bsonType": bson.A{"array"},
								"items":    bson.M{"bsonType": "int", "minimum": 0},
							},
							"accepted": bson.M{
								"bsonType": bson.A{"array"},
								"items":    bson.M{"bsonType": "string"},
							},
							"case_sensitive": bson.M{"bsonType": "bool"},
							"points":         bson.M{"bsonType": "number", "minimum": 0},
						},
					},
				},
			},
		},
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "course", Value: 1},
				{Key: "status", Value: 1},
			},
		},
	)
}

// ElastichSearch Bulk
func NewBulkExam() (esutil.BulkIndexer, error) {
	return newBulkIndexer(EXAMS_INDEX)
}

func NewExamModel() *ExamModel {
	if examModel == nil {
		examModel = &ExamModel{
			model{CollectionName: EXAMS_COLLECTION},
		}
	}
	return examModel
}
