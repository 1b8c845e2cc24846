package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var examsService *ExamsService

type ExamsService struct{}

func validateOptionIndexes(question *models.Question) error {
	seen := make(map[int]bool, len(question.Correct))
	for _, c := range question.Correct {
		if c < 0 || c >= len(question.Options) {
			return fmt.Errorf("correct option %d out of range", c)
		}
		if seen[c] {
			return fmt.Errorf("correct option %d repeated", c)
		}
		seen[c] = true
	}
	return nil
}

// ValidateQuestion checks the answer key of a question against its type
func ValidateQuestion(question *models.Question) error {
	if strings.TrimSpace(question.Question) == "" {
		return errors.New("the question text is required")
	}
	if question.Points <= 0 {
		return errors.New("points must be greater than 0")
	}
	switch question.Type {
	case forms.QUESTION_CHOICE:
		if len(question.Options) < 2 {
			return errors.New("a choice question needs at least 2 options")
		}
		if len(question.Correct) != 1 {
			return errors.New("a choice question needs exactly one correct option")
		}
		return validateOptionIndexes(question)
	case forms.QUESTION_MULTIPLE:
		if len(question.Options) < 2 {
			return errors.New("a multiple question needs at least 2 options")
		}
		if len(question.Correct) == 0 {
			return errors.New("a multiple question needs at least one correct option")
		}
		return validateOptionIndexes(question)
	case forms.QUESTION_TRUE_FALSE:
		if len(question.Correct) != 1 {
			return errors.New("a true/false question needs exactly one correct option")
		}
		return validateOptionIndexes(question)
	case forms.QUESTION_SHORT_ANSWER:
		accepted := 0
		for _, answer := range question.Accepted {
			if strings.TrimSpace(answer) != "" {
				accepted++
			}
		}
		if accepted == 0 {
			return errors.New("a short answer question needs at least one accepted answer")
		}
		return nil
	case forms.QUESTION_ESSAY:
		return nil
	}
	return fmt.Errorf("unknown question type %q", question.Type)
}

func ValidateQuestions(questions []models.Question) error {
	if len(questions) == 0 {
		return errors.New("an exam needs at least one question")
	}
	ids := make(map[primitive.ObjectID]bool, len(questions))
	for i := range questions {
		if err := ValidateQuestion(&questions[i]); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
		if ids[questions[i].ID] {
			return fmt.Errorf("question %d: repeated id", i+1)
		}
		ids[questions[i].ID] = true
	}
	return nil
}

func (e *ExamsService) getOwnedExam(idExam string, claims *Claims) (*models.Exam, *res.ErrorRes) {
	idObjExam, errRes := parseID(idExam)
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
	return exam, nil
}

func (e *ExamsService) NewExam(form *forms.ExamForm, claims *Claims) (*models.Exam, *res.ErrorRes) {
	idObjCourse, errRes := parseID(form.Course)
	if errRes != nil {
		return nil, errRes
	}
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := getAuthorizedCourse(idObjCourse, claims, true); errRes != nil {
		return nil, errRes
	}
	exam := models.NewModelExam(form, idObjCourse, idUser)
	if err := ValidateQuestions(exam.Questions); err != nil {
		return nil, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusBadRequest,
		}
	}
	inserted, err := examModel.NewDocument(exam)
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	exam.ID = inserted.InsertedID.(primitive.ObjectID)
	indexExam(exam)
	return exam, nil
}

// UpdateExam replaces the content of the exam. Once a student submitted an
// attempt the questions are frozen.
func (e *ExamsService) UpdateExam(form *forms.UpdateExamForm, idExam string, claims *Claims) (*models.Exam, *res.ErrorRes) {
	exam, errRes := e.getOwnedExam(idExam, claims)
	if errRes != nil {
		return nil, errRes
	}
	submitted, errRes := attemptRepository.CountAttempts(bson.D{
		{Key: "exam", Value: exam.ID},
		{Key: "status", Value: bson.M{"$ne": models.ATTEMPT_IN_PROGRESS}},
	})
	if errRes != nil {
		return nil, errRes
	}
	if submitted > 0 {
		return nil, &res.ErrorRes{
			Err:        fmt.Errorf("the exam already has submitted attempts"),
			StatusCode: http.StatusForbidden,
		}
	}
	questions := models.NewQuestions(form.Questions)
	if err := ValidateQuestions(questions); err != nil {
		return nil, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusBadRequest,
		}
	}
	exam.Title = form.Title
	exam.Description = form.Description
	exam.Questions = questions
	exam.UpdatedAt = primitive.NewDateTimeFromTime(time.Now())

	_, err := examModel.Use().UpdateByID(db.Ctx, exam.ID, bson.D{{
		Key: "$set",
		Value: bson.M{
			"title":       exam.Title,
			"description": exam.Description,
			"questions":   exam.Questions,
			"updated_at":  exam.UpdatedAt,
		},
	}})
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	// Keep the max score of running attempts in sync
	_, err = attemptModel.Use().UpdateMany(db.Ctx, bson.D{
		{Key: "exam", Value: exam.ID},
		{Key: "status", Value: models.ATTEMPT_IN_PROGRESS},
	}, bson.D{{
		Key: "$set",
		Value: bson.M{
			"max_score": exam.MaxScore(),
		},
	}})
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	indexExam(exam)
	return exam, nil
}

// DeleteExam is refused while a schedule of the exam hasn't ended
func (e *ExamsService) DeleteExam(idExam string, claims *Claims) *res.ErrorRes {
	exam, errRes := e.getOwnedExam(idExam, claims)
	if errRes != nil {
		return errRes
	}
	active, err := scheduleModel.Use().CountDocuments(db.Ctx, bson.D{
		{Key: "exam", Value: exam.ID},
		{Key: "status", Value: true},
		{Key: "end", Value: bson.M{"$gt": primitive.NewDateTimeFromTime(time.Now())}},
	})
	if err != nil {
		return res.FromDBError(err, "")
	}
	if active > 0 {
		return &res.ErrorRes{
			Err:        fmt.Errorf("the exam has a schedule that has not ended"),
			StatusCode: http.StatusForbidden,
		}
	}
	_, err = examModel.Use().UpdateByID(db.Ctx, exam.ID, bson.D{{
		Key: "$set",
		Value: bson.M{
			"status": false,
		},
	}})
	if err != nil {
		return res.FromDBError(err, "")
	}
	removeExamIndex(exam.ID)
	return nil
}

func (e *ExamsService) GetExams(idCourse string, claims *Claims) ([]models.ExamSummary, *res.ErrorRes) {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := getAuthorizedCourse(idObjCourse, claims, true); errRes != nil {
		return nil, errRes
	}
	return examRepository.GetExamSummaries(idObjCourse)
}

func (e *ExamsService) GetExam(idExam string, claims *Claims) (*models.Exam, *res.ErrorRes) {
	return e.getOwnedExam(idExam, claims)
}

func NewExamsService() *ExamsService {
	if examsService == nil {
		examsService = &ExamsService{}
	}
	return examsService
}
