package repositories

import (
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AttemptRepository struct{}

func (a *AttemptRepository) GetAttempt(filter bson.D) (*models.ExamAttempt, *res.ErrorRes) {
	var attempt *models.ExamAttempt
	if err := findOne(attemptModel, filter, &attempt, "Exam attempt not found"); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (a *AttemptRepository) GetAttemptByID(idAttempt primitive.ObjectID) (*models.ExamAttempt, *res.ErrorRes) {
	return a.GetAttempt(bson.D{{Key: "_id", Value: idAttempt}})
}

// FindAttempt is GetAttempt without the 404, nil when absent
func (a *AttemptRepository) FindAttempt(filter bson.D) (*models.ExamAttempt, *res.ErrorRes) {
	attempt, err := a.GetAttempt(filter)
	if err != nil && err.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	return attempt, err
}

func (a *AttemptRepository) GetAttempts(filter bson.D) ([]models.ExamAttempt, *res.ErrorRes) {
	attempts := []models.ExamAttempt{}
	cursor, err := attemptModel.GetAll(filter, nil)
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	if err := cursor.All(db.Ctx, &attempts); err != nil {
		return nil, res.FromDBError(err, "")
	}
	return attempts, nil
}

func (a *AttemptRepository) CountAttempts(filter bson.D) (int64, *res.ErrorRes) {
	count, err := attemptModel.Use().CountDocuments(db.Ctx, filter)
	if err != nil {
		return 0, res.FromDBError(err, "")
	}
	return count, nil
}

func (a *AttemptRepository) getAttemptsWStudent(match bson.M) ([]models.AttemptWStudent, *res.ErrorRes) {
	attempts := []models.AttemptWStudent{}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		getLookupUser("student"),
		setFirst("student"),
		bson.D{{
			Key: "$sort",
			Value: bson.D{
				{Key: "student.last_name", Value: 1},
				{Key: "student.first_name", Value: 1},
			},
		}},
	}
	if err := aggregate(attemptModel, pipeline, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

// GetAttemptsWStudent lists the attempts of a schedule with student names
func (a *AttemptRepository) GetAttemptsWStudent(idSchedule primitive.ObjectID) ([]models.AttemptWStudent, *res.ErrorRes) {
	return a.getAttemptsWStudent(bson.M{"schedule": idSchedule})
}

func (a *AttemptRepository) GetAttemptWStudent(idAttempt primitive.ObjectID) (*models.AttemptWStudent, *res.ErrorRes) {
	attempts, err := a.getAttemptsWStudent(bson.M{"_id": idAttempt})
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, notFound("Exam attempt not found")
	}
	return &attempts[0], nil
}

func NewAttemptRepository() *AttemptRepository {
	return &AttemptRepository{}
}
