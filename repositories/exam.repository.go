package repositories

import (
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ExamRepository struct{}

func examFilter(idExam primitive.ObjectID, withDeleted bool) bson.D {
	filter := bson.D{{Key: "_id", Value: idExam}}
	if !withDeleted {
		filter = append(filter, bson.E{Key: "status", Value: true})
	}
	return filter
}

func (e *ExamRepository) getExam(filter bson.D) (*models.Exam, *res.ErrorRes) {
	var exam *models.Exam
	if err := findOne(examModel, filter, &exam, "Exam not found"); err != nil {
		return nil, err
	}
	return exam, nil
}

// GetExam only finds exams that were not deleted
func (e *ExamRepository) GetExam(idExam primitive.ObjectID) (*models.Exam, *res.ErrorRes) {
	return e.getExam(examFilter(idExam, false))
}

// GetExamWithDeleted also finds deleted exams. Attempts and exports keep
// reading the exam they were taken on after it is deleted.
func (e *ExamRepository) GetExamWithDeleted(idExam primitive.ObjectID) (*models.Exam, *res.ErrorRes) {
	return e.getExam(examFilter(idExam, true))
}

// GetExamSummaries lists the exams of a course without their questions
func (e *ExamRepository) GetExamSummaries(idCourse primitive.ObjectID) ([]models.ExamSummary, *res.ErrorRes) {
	exams := []models.ExamSummary{}

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
				"course":      1,
				"title":       1,
				"description": 1,
				"updated_at":  1,
				"question_count": bson.M{
					"$size": "$questions",
				},
				"max_score": bson.M{
					"$sum": "$questions.points",
				},
			},
		}},
		bson.D{{Key: "$sort", Value: bson.M{"updated_at": -1}}},
	}
	if err := aggregate(examModel, pipeline, &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

func NewExamRepository() *ExamRepository {
	return &ExamRepository{}
}
