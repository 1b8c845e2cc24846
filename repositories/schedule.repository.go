package repositories

import (
	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ScheduleRepository struct{}

func (s *ScheduleRepository) GetSchedule(idSchedule primitive.ObjectID) (*models.ExamSchedule, *res.ErrorRes) {
	var schedule *models.ExamSchedule
	err := findOne(scheduleModel, bson.D{
		{Key: "_id", Value: idSchedule},
		{Key: "status", Value: true},
	}, &schedule, "Exam schedule not found")
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *ScheduleRepository) GetSchedules(filter bson.D) ([]models.ExamSchedule, *res.ErrorRes) {
	schedules := []models.ExamSchedule{}
	filter = append(filter, bson.E{Key: "status", Value: true})

	cursor, err := scheduleModel.GetAll(
		filter,
		options.Find().SetSort(bson.D{{Key: "start", Value: -1}}),
	)
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	if err := cursor.All(db.Ctx, &schedules); err != nil {
		return nil, res.FromDBError(err, "")
	}
	return schedules, nil
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}
