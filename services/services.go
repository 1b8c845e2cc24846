package services

import (
	"encoding/json"

	"github.com/CPU-commits/Intranet_BXams/aws_s3"
	"github.com/CPU-commits/Intranet_BXams/mail"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/repositories"
	"github.com/CPU-commits/Intranet_BXams/settings"
	"github.com/CPU-commits/Intranet_BXams/stack"
	"github.com/google/uuid"
)

// Models
var userModel = models.NewUserModel()
var courseModel = models.NewCourseModel()
var groupModel = models.NewGroupModel()
var fileModel = models.NewFileModel()
var examModel = models.NewExamModel()
var scheduleModel = models.NewScheduleModel()
var attemptModel = models.NewAttemptModel()

// Repositories
var userRepository = repositories.NewUserRepository()
var courseRepository = repositories.NewCourseRepository()
var groupRepository = repositories.NewGroupRepository()
var examRepository = repositories.NewExamRepository()
var scheduleRepository = repositories.NewScheduleRepository()
var attemptRepository = repositories.NewAttemptRepository()

// Packages
var nats = stack.NewNats()
var aws = aws_s3.NewAWSS3()
var mailer = mail.NewMailer()

// Settings
var settingsData = settings.GetSettings()

func formatRequestToNestjsNats(data interface{}) ([]byte, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}
	request := make(map[string]interface{})
	request["id"] = id.String()
	if data != nil {
		request["data"] = data
	}
	jsonMarshal, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	return jsonMarshal, nil
}
