package services

import (
	"errors"
	"fmt"
	"net/http"
	netmail "net/mail"
	"time"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/funct"
	"github.com/CPU-commits/Intranet_BXams/mail"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var schedulesService *SchedulesService

type SchedulesService struct{}

func getOwnedSchedule(idSchedule string, claims *Claims) (*models.ExamSchedule, *res.ErrorRes) {
	idObjSchedule, errRes := parseID(idSchedule)
	if errRes != nil {
		return nil, errRes
	}
	schedule, errRes := scheduleRepository.GetSchedule(idObjSchedule)
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := getAuthorizedCourse(schedule.Course, claims, true); errRes != nil {
		return nil, errRes
	}
	return schedule, nil
}

func parseWindow(start, end string) (time.Time, time.Time, *res.ErrorRes) {
	startTime, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return time.Time{}, time.Time{}, &res.ErrorRes{
			Err:        fmt.Errorf("invalid start date"),
			StatusCode: http.StatusBadRequest,
		}
	}
	endTime, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return time.Time{}, time.Time{}, &res.ErrorRes{
			Err:        fmt.Errorf("invalid end date"),
			StatusCode: http.StatusBadRequest,
		}
	}
	if errRes := checkWindow(startTime, endTime); errRes != nil {
		return time.Time{}, time.Time{}, errRes
	}
	return startTime, endTime, nil
}

func checkWindow(start, end time.Time) *res.ErrorRes {
	if !end.After(start) {
		return &res.ErrorRes{
			Err:        errors.New("the end date must be after the start date"),
			StatusCode: http.StatusBadRequest,
		}
	}
	return nil
}

// courseGroups parses the ids and checks they are active groups of the course
func courseGroups(idCourse primitive.ObjectID, groups []string) ([]primitive.ObjectID, *res.ErrorRes) {
	ids, errRes := parseIDs(groups)
	if errRes != nil {
		return nil, errRes
	}
	ids = funct.Unique(ids)
	count, err := groupModel.Use().CountDocuments(db.Ctx, bson.D{
		{Key: "_id", Value: bson.M{"$in": ids}},
		{Key: "course", Value: idCourse},
		{Key: "status", Value: true},
	})
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	if int(count) != len(ids) {
		return nil, &res.ErrorRes{
			Err:        errors.New("every group must belong to the course of the exam"),
			StatusCode: http.StatusBadRequest,
		}
	}
	return ids, nil
}

func (s *SchedulesService) NewSchedule(form *forms.ScheduleForm, claims *Claims) (*models.ExamSchedule, *res.ErrorRes) {
	idObjExam, errRes := parseID(form.Exam)
	if errRes != nil {
		return nil, errRes
	}
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return nil, errRes
	}
	exam, errRes := examRepository.GetExam(idObjExam)
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := getAuthorizedCourse(exam.Course, claims, true); errRes != nil {
		return nil, errRes
	}
	start, end, errRes := parseWindow(form.Start, form.End)
	if errRes != nil {
		return nil, errRes
	}
	groups, errRes := courseGroups(exam.Course, form.Groups)
	if errRes != nil {
		return nil, errRes
	}
	schedule := models.NewModelSchedule(
		exam,
		groups,
		idUser,
		form.Title,
		start,
		end,
		form.Duration,
		form.AccessCode,
		form.Shuffle,
	)
	inserted, err := scheduleModel.NewDocument(schedule)
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	schedule.ID = inserted.InsertedID.(primitive.ObjectID)
	return schedule, nil
}

// UpdateSchedule edits a schedule before it opens. Once started only the end
// date may move, and only forward.
func (s *SchedulesService) UpdateSchedule(form *forms.UpdateScheduleForm, idSchedule string, claims *Claims) (*models.ExamSchedule, *res.ErrorRes) {
	schedule, errRes := getOwnedSchedule(idSchedule, claims)
	if errRes != nil {
		return nil, errRes
	}
	now := time.Now()
	started := schedule.HasStarted(now)
	if started && !form.OnlyEnd() {
		return nil, &res.ErrorRes{
			Err:        errors.New("only the end date can change once the exam started"),
			StatusCode: http.StatusForbidden,
		}
	}
	start := schedule.Start.Time()
	end := schedule.End.Time()
	set := bson.M{}
	if form.Start != nil {
		parsed, err := time.Parse(time.RFC3339, *form.Start)
		if err != nil {
			return nil, &res.ErrorRes{
				Err:        errors.New("invalid start date"),
				StatusCode: http.StatusBadRequest,
			}
		}
		start = parsed
		schedule.Start = primitive.NewDateTimeFromTime(start)
		set["start"] = schedule.Start
	}
	if form.End != nil {
		parsed, err := time.Parse(time.RFC3339, *form.End)
		if err != nil {
			return nil, &res.ErrorRes{
				Err:        errors.New("invalid end date"),
				StatusCode: http.StatusBadRequest,
			}
		}
		if started && parsed.Before(end) {
			return nil, &res.ErrorRes{
				Err:        errors.New("the end date can only be extended"),
				StatusCode: http.StatusForbidden,
			}
		}
		end = parsed
		schedule.End = primitive.NewDateTimeFromTime(end)
		set["end"] = schedule.End
	}
	if errRes := checkWindow(start, end); errRes != nil {
		return nil, errRes
	}
	if form.Groups != nil {
		groups, errRes := courseGroups(schedule.Course, form.Groups)
		if errRes != nil {
			return nil, errRes
		}
		schedule.Groups = groups
		set["groups"] = groups
	}
	if form.Title != nil {
		schedule.Title = *form.Title
		set["title"] = schedule.Title
	}
	if form.Duration != nil {
		schedule.Duration = *form.Duration
		set["duration"] = schedule.Duration
	}
	if form.AccessCode != nil {
		schedule.AccessCode = *form.AccessCode
		set["access_code"] = schedule.AccessCode
	}
	if form.Shuffle != nil {
		schedule.Shuffle = *form.Shuffle
		set["shuffle"] = schedule.Shuffle
	}
	schedule.UpdatedAt = primitive.NewDateTimeFromTime(now)
	set["updated_at"] = schedule.UpdatedAt

	_, err := scheduleModel.Use().UpdateByID(db.Ctx, schedule.ID, bson.D{{
		Key:   "$set",
		Value: set,
	}})
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	return schedule, nil
}

func (s *SchedulesService) DeleteSchedule(idSchedule string, claims *Claims) *res.ErrorRes {
	schedule, errRes := getOwnedSchedule(idSchedule, claims)
	if errRes != nil {
		return errRes
	}
	attempts, errRes := attemptRepository.CountAttempts(bson.D{
		{Key: "schedule", Value: schedule.ID},
	})
	if errRes != nil {
		return errRes
	}
	if attempts > 0 {
		return &res.ErrorRes{
			Err:        errors.New("the schedule already has attempts"),
			StatusCode: http.StatusForbidden,
		}
	}
	_, err := scheduleModel.Use().UpdateByID(db.Ctx, schedule.ID, bson.D{{
		Key: "$set",
		Value: bson.M{
			"status":     false,
			"updated_at": primitive.NewDateTimeFromTime(time.Now()),
		},
	}})
	if err != nil {
		return res.FromDBError(err, "")
	}
	return nil
}

func resultsMessage(schedule *models.ExamSchedule, student *models.SimpleUser, attempt *models.ExamAttempt) *mail.Message {
	link := fmt.Sprintf("%s/exams/%s", settingsData.CLIENT_URL, schedule.ID.Hex())
	text := fmt.Sprintf(
		"Hi %s,\n\nThe results of %q are available.\nScore: %.2f/%.2f\nGrade: %.1f\n\n%s",
		student.FullName(),
		schedule.Title,
		attempt.Score,
		attempt.MaxScore,
		attempt.Grade,
		link,
	)
	return &mail.Message{
		To: []netmail.Address{{
			Name:    student.FullName(),
			Address: student.Email,
		}},
		Subject: fmt.Sprintf("Results of %s", schedule.Title),
		Text:    text,
	}
}

// PublishResults opens the results to students and lets them know by mail
// and through the notifications service
func (s *SchedulesService) PublishResults(idSchedule string, claims *Claims) (*models.ExamSchedule, *res.ErrorRes) {
	schedule, errRes := getOwnedSchedule(idSchedule, claims)
	if errRes != nil {
		return nil, errRes
	}
	now := time.Now()
	if errRes := NewAttemptsService().closeExpiredAttempts(schedule, now); errRes != nil {
		return nil, errRes
	}
	_, err := scheduleModel.Use().UpdateByID(db.Ctx, schedule.ID, bson.D{{
		Key: "$set",
		Value: bson.M{
			"results_published": true,
			"updated_at":        primitive.NewDateTimeFromTime(now),
		},
	}})
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	schedule.ResultsPublished = true

	attempts, errRes := attemptRepository.GetAttempts(bson.D{
		{Key: "schedule", Value: schedule.ID},
		{Key: "status", Value: bson.M{"$ne": models.ATTEMPT_IN_PROGRESS}},
	})
	if errRes != nil {
		return nil, errRes
	}
	if len(attempts) == 0 {
		return schedule, nil
	}
	idStudents := make([]primitive.ObjectID, len(attempts))
	for i := range attempts {
		idStudents[i] = attempts[i].Student
	}
	students, errRes := userRepository.GetSimpleUsers(idStudents)
	if errRes != nil {
		return nil, errRes
	}
	byID := make(map[primitive.ObjectID]*models.SimpleUser, len(students))
	for i := range students {
		byID[students[i].ID] = &students[i]
	}

	toSend := make([]*mail.Message, 0, len(attempts))
	notified := make([]string, 0, len(attempts))
	for i := range attempts {
		student, ok := byID[attempts[i].Student]
		if !ok || student.Email == "" {
			continue
		}
		toSend = append(toSend, resultsMessage(schedule, student, &attempts[i]))
		notified = append(notified, attempts[i].Student.Hex())
	}
	// The mailer bounds its own concurrency
	mailer.Send(toSend...)
	publishResultsNotification(schedule, notified)
	return schedule, nil
}

// GetSchedules lists the schedules of a course. Students only get the ones
// of their groups, each with the state of their attempt.
func (s *SchedulesService) GetSchedules(idCourse string, claims *Claims) (interface{}, *res.ErrorRes) {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return nil, errRes
	}
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return nil, errRes
	}
	course, errRes := getAuthorizedCourse(idObjCourse, claims, false)
	if errRes != nil {
		return nil, errRes
	}
	if claims.IsInstructor() && course.Instructor == idUser {
		return scheduleRepository.GetSchedules(bson.D{{Key: "course", Value: course.ID}})
	}
	return s.getStudentSchedules(course.ID, idUser)
}

func (s *SchedulesService) getStudentSchedules(idCourse, idStudent primitive.ObjectID) ([]models.StudentSchedule, *res.ErrorRes) {
	groups, errRes := groupRepository.GetGroups(bson.D{
		{Key: "course", Value: idCourse},
		{Key: "students", Value: idStudent},
	})
	if errRes != nil {
		return nil, errRes
	}
	idGroups := make([]primitive.ObjectID, len(groups))
	for i := range groups {
		idGroups[i] = groups[i].ID
	}
	schedules, errRes := scheduleRepository.GetSchedules(bson.D{
		{Key: "course", Value: idCourse},
		{Key: "groups", Value: bson.M{"$in": idGroups}},
	})
	if errRes != nil {
		return nil, errRes
	}
	idSchedules := make([]primitive.ObjectID, len(schedules))
	for i := range schedules {
		idSchedules[i] = schedules[i].ID
	}
	attempts, errRes := attemptRepository.GetAttempts(bson.D{
		{Key: "schedule", Value: bson.M{"$in": idSchedules}},
		{Key: "student", Value: idStudent},
	})
	if errRes != nil {
		return nil, errRes
	}
	bySchedule := make(map[primitive.ObjectID]*models.ExamAttempt, len(attempts))
	for i := range attempts {
		bySchedule[attempts[i].Schedule] = &attempts[i]
	}
	views := make([]models.StudentSchedule, len(schedules))
	for i := range schedules {
		views[i] = schedules[i].ForStudent(bySchedule[schedules[i].ID])
	}
	return views, nil
}

func (s *SchedulesService) GetSchedule(idSchedule string, claims *Claims) (interface{}, *res.ErrorRes) {
	idObjSchedule, errRes := parseID(idSchedule)
	if errRes != nil {
		return nil, errRes
	}
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return nil, errRes
	}
	schedule, errRes := scheduleRepository.GetSchedule(idObjSchedule)
	if errRes != nil {
		return nil, errRes
	}
	course, errRes := getAuthorizedCourse(schedule.Course, claims, false)
	if errRes != nil {
		return nil, errRes
	}
	if claims.IsInstructor() && course.Instructor == idUser {
		return schedule, nil
	}
	member, errRes := NewAttemptsService().isInScheduleGroups(schedule, idUser)
	if errRes != nil {
		return nil, errRes
	}
	if !member {
		return nil, &res.ErrorRes{
			Err:        errForbidden,
			StatusCode: http.StatusForbidden,
		}
	}
	attempt, errRes := attemptRepository.FindAttempt(bson.D{
		{Key: "schedule", Value: schedule.ID},
		{Key: "student", Value: idUser},
	})
	if errRes != nil {
		return nil, errRes
	}
	view := schedule.ForStudent(attempt)
	return &view, nil
}

// AuthorizeOwner fails unless claims own the course of the schedule
func (s *SchedulesService) AuthorizeOwner(idSchedule string, claims *Claims) *res.ErrorRes {
	_, errRes := getOwnedSchedule(idSchedule, claims)
	return errRes
}

func NewSchedulesService() *SchedulesService {
	if schedulesService == nil {
		schedulesService = &SchedulesService{}
	}
	return schedulesService
}
