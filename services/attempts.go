package services

import (
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var attemptsService *AttemptsService

var errAttemptClosed = errors.New("the exam attempt is closed")

var errGradeConflict = &res.ErrorRes{
	Err:        errors.New("the attempt changed while grading, try again"),
	StatusCode: http.StatusConflict,
}

// GRADE_RETRIES bounds the optimistic grading writes
const GRADE_RETRIES = 3

type AttemptsService struct {
	rndLock sync.Mutex
	rnd     *rand.Rand
}

func (a *AttemptsService) buildOrder(exam *models.Exam, shuffle bool) []primitive.ObjectID {
	a.rndLock.Lock()
	defer a.rndLock.Unlock()
	return BuildOrder(exam.Questions, shuffle, a.rnd)
}

func (a *AttemptsService) isInScheduleGroups(schedule *models.ExamSchedule, idStudent primitive.ObjectID) (bool, *res.ErrorRes) {
	count, err := groupModel.Use().CountDocuments(db.Ctx, bson.D{
		{Key: "_id", Value: bson.M{"$in": schedule.Groups}},
		{Key: "students", Value: idStudent},
		{Key: "status", Value: true},
	})
	if err != nil {
		return false, res.FromDBError(err, "")
	}
	return count > 0, nil
}

func (a *AttemptsService) studentView(attempt *models.ExamAttempt, exam *models.Exam, published bool) *AttemptView {
	if !published {
		attempt.HideResults()
	}
	return &AttemptView{
		Attempt:   attempt,
		Questions: OrderedStudentQuestions(exam, attempt.Order),
	}
}

// closeAttempt grades the attempt in memory and moves it out of progress.
// A late submit is dated at the deadline.
func closeAttempt(attempt *models.ExamAttempt, exam *models.Exam, now time.Time) {
	submittedAt := now
	if deadline := attempt.Deadline.Time(); submittedAt.After(deadline) {
		submittedAt = deadline
	}
	AutoGrade(exam, attempt, now)
	setAttemptScore(attempt)
	attempt.SubmittedAt = primitive.NewDateTimeFromTime(submittedAt)
}

func setAttemptScore(attempt *models.ExamAttempt) {
	score := computeAttemptScore(attempt)
	attempt.Status = attemptStatusAfterGrading(attempt)
	attempt.Score = score.Score
	attempt.Percentage = score.Percentage
	attempt.Grade = score.Grade
}

// finalizeAttempt grades and closes an attempt. The update only applies
// while the attempt is still in progress, so concurrent closers agree on a
// single winner. Returns false when someone else closed it first.
func (a *AttemptsService) finalizeAttempt(attempt *models.ExamAttempt, exam *models.Exam, now time.Time) (bool, *res.ErrorRes) {
	closeAttempt(attempt, exam, now)
	result, err := attemptModel.Use().UpdateOne(db.Ctx, bson.D{
		{Key: "_id", Value: attempt.ID},
		{Key: "status", Value: models.ATTEMPT_IN_PROGRESS},
	}, bson.D{{
		Key: "$set",
		Value: bson.M{
			"status":       attempt.Status,
			"submitted_at": attempt.SubmittedAt,
			"answers":      attempt.Answers,
			"score":        attempt.Score,
			"percentage":   attempt.Percentage,
			"grade":        attempt.Grade,
		},
	}})
	if err != nil {
		return false, res.FromDBError(err, "")
	}
	if result.ModifiedCount == 0 {
		return false, nil
	}
	publishAttemptEvent(res.ATTEMPT_SUBMITTED, attempt, "")
	return true, nil
}

// closeIfExpired finalizes an expired attempt and reloads it when another
// request won the race
func (a *AttemptsService) closeIfExpired(attempt *models.ExamAttempt, exam *models.Exam, now time.Time) (*models.ExamAttempt, *res.ErrorRes) {
	if !attempt.IsExpired(now) {
		return attempt, nil
	}
	closed, errRes := a.finalizeAttempt(attempt, exam, now)
	if errRes != nil {
		return nil, errRes
	}
	if closed {
		return attempt, nil
	}
	return attemptRepository.GetAttemptByID(attempt.ID)
}

func (a *AttemptsService) getOwnAttempt(idAttempt string, claims *Claims) (*models.ExamAttempt, *res.ErrorRes) {
	idObjAttempt, errRes := parseID(idAttempt)
	if errRes != nil {
		return nil, errRes
	}
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return nil, errRes
	}
	attempt, errRes := attemptRepository.GetAttemptByID(idObjAttempt)
	if errRes != nil {
		return nil, errRes
	}
	if attempt.Student != idUser {
		return nil, &res.ErrorRes{
			Err:        errForbidden,
			StatusCode: http.StatusForbidden,
		}
	}
	return attempt, nil
}

func (a *AttemptsService) StartAttempt(form *forms.StartAttemptForm, idSchedule string, claims *Claims) (*AttemptView, *res.ErrorRes) {
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
	member, errRes := a.isInScheduleGroups(schedule, idUser)
	if errRes != nil {
		return nil, errRes
	}
	if !claims.IsStudent() || !member {
		return nil, &res.ErrorRes{
			Err:        errForbidden,
			StatusCode: http.StatusForbidden,
		}
	}
	now := time.Now()
	if !schedule.IsOpen(now) {
		return nil, &res.ErrorRes{
			Err:        errors.New("the exam is not open"),
			StatusCode: http.StatusForbidden,
		}
	}
	if !CheckAccessCode(schedule.AccessCode, form.AccessCode) {
		return nil, &res.ErrorRes{
			Err:        errors.New("wrong access code"),
			StatusCode: http.StatusUnauthorized,
		}
	}
	exam, errRes := examRepository.GetExam(schedule.Exam)
	if errRes != nil {
		return nil, errRes
	}
	filter := bson.D{
		{Key: "schedule", Value: schedule.ID},
		{Key: "student", Value: idUser},
	}
	attempt, errRes := attemptRepository.FindAttempt(filter)
	if errRes != nil {
		return nil, errRes
	}
	if attempt == nil {
		attempt = models.NewModelAttempt(
			schedule,
			idUser,
			a.buildOrder(exam, schedule.Shuffle),
			now,
			ComputeDeadline(now, schedule.End.Time(), schedule.Duration),
			exam.MaxScore(),
		)
		inserted, err := attemptModel.NewDocument(attempt)
		if err != nil {
			if !mongo.IsDuplicateKeyError(err) {
				return nil, res.FromDBError(err, "")
			}
			// A parallel start created it first
			if attempt, errRes = attemptRepository.GetAttempt(filter); errRes != nil {
				return nil, errRes
			}
		} else {
			attempt.ID = inserted.InsertedID.(primitive.ObjectID)
			publishAttemptEvent(res.ATTEMPT_STARTED, attempt, "")
			return a.studentView(attempt, exam, false), nil
		}
	}
	if attempt.IsExpired(now) {
		if _, errRes := a.finalizeAttempt(attempt, exam, now); errRes != nil {
			return nil, errRes
		}
	}
	if attempt.Status != models.ATTEMPT_IN_PROGRESS {
		return nil, &res.ErrorRes{
			Err:        errors.New("the exam was already taken"),
			StatusCode: http.StatusConflict,
		}
	}
	return a.studentView(attempt, exam, false), nil
}

// openAttemptFilter matches the attempt only while answers are accepted
func openAttemptFilter(idAttempt primitive.ObjectID, now time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: idAttempt},
		{Key: "status", Value: models.ATTEMPT_IN_PROGRESS},
		{Key: "deadline", Value: bson.M{"$gt": primitive.NewDateTimeFromTime(now)}},
	}
}

// expiredAttemptsFilter matches the attempts of a schedule past their
// submit grace
func expiredAttemptsFilter(idSchedule primitive.ObjectID, now time.Time) bson.D {
	return bson.D{
		{Key: "schedule", Value: idSchedule},
		{Key: "status", Value: models.ATTEMPT_IN_PROGRESS},
		{Key: "deadline", Value: bson.M{
			"$lt": primitive.NewDateTimeFromTime(now.Add(-SUBMIT_GRACE)),
		}},
	}
}

// writeAnswer stores one answer while the attempt is still open
func (a *AttemptsService) writeAnswer(attempt *models.ExamAttempt, question primitive.ObjectID, form *forms.AnswerForm, now time.Time) *res.ErrorRes {
	open := openAttemptFilter(attempt.ID, now)
	closed := &res.ErrorRes{
		Err:        errAttemptClosed,
		StatusCode: http.StatusForbidden,
	}
	if form.IsEmpty() {
		result, err := attemptModel.Use().UpdateOne(db.Ctx, open, bson.D{{
			Key: "$pull",
			Value: bson.M{
				"answers": bson.M{"question": question},
			},
		}})
		if err != nil {
			return res.FromDBError(err, "")
		}
		if result.MatchedCount == 0 {
			return closed
		}
		return nil
	}
	answer := NewAnswer(question, form, now)
	result, err := attemptModel.Use().UpdateOne(
		db.Ctx,
		append(open, bson.E{Key: "answers.question", Value: question}),
		bson.D{{
			Key:   "$set",
			Value: bson.M{"answers.$": answer},
		}},
	)
	if err != nil {
		return res.FromDBError(err, "")
	}
	if result.MatchedCount > 0 {
		return nil
	}
	result, err = attemptModel.Use().UpdateOne(
		db.Ctx,
		append(open, bson.E{Key: "answers.question", Value: bson.M{"$ne": question}}),
		bson.D{{
			Key:   "$push",
			Value: bson.M{"answers": answer},
		}},
	)
	if err != nil {
		return res.FromDBError(err, "")
	}
	if result.MatchedCount == 0 {
		return closed
	}
	return nil
}

func (a *AttemptsService) getAttemptQuestion(exam *models.Exam, idQuestion string) (*models.Question, *res.ErrorRes) {
	idObjQuestion, errRes := parseID(idQuestion)
	if errRes != nil {
		return nil, errRes
	}
	question := exam.GetQuestion(idObjQuestion)
	if question == nil {
		return nil, &res.ErrorRes{
			Err:        errors.New("question not found"),
			StatusCode: http.StatusNotFound,
		}
	}
	return question, nil
}

func (a *AttemptsService) SaveAnswer(form *forms.AnswerForm, idAttempt, idQuestion string, claims *Claims) (*models.Answer, *res.ErrorRes) {
	attempt, errRes := a.getOwnAttempt(idAttempt, claims)
	if errRes != nil {
		return nil, errRes
	}
	exam, errRes := examRepository.GetExamWithDeleted(attempt.Exam)
	if errRes != nil {
		return nil, errRes
	}
	now := time.Now()
	if !CanAnswer(attempt, now) {
		if _, errRes := a.closeIfExpired(attempt, exam, now); errRes != nil {
			return nil, errRes
		}
		return nil, &res.ErrorRes{
			Err:        errAttemptClosed,
			StatusCode: http.StatusForbidden,
		}
	}
	question, errRes := a.getAttemptQuestion(exam, idQuestion)
	if errRes != nil {
		return nil, errRes
	}
	if err := ValidateAnswer(question, form); err != nil {
		return nil, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusBadRequest,
		}
	}
	if errRes := a.writeAnswer(attempt, question.ID, form, now); errRes != nil {
		return nil, errRes
	}
	attempt.Answers = applyAnswer(attempt.Answers, question.ID, form, now)
	publishAttemptEvent(res.ATTEMPT_ANSWERED, attempt, question.ID.Hex())

	answer := attempt.GetAnswer(question.ID)
	if answer == nil {
		return &models.Answer{Question: question.ID}, nil
	}
	return answer, nil
}

func (a *AttemptsService) SubmitAttempt(form *forms.SubmitForm, idAttempt string, claims *Claims) (*AttemptView, *res.ErrorRes) {
	attempt, errRes := a.getOwnAttempt(idAttempt, claims)
	if errRes != nil {
		return nil, errRes
	}
	if attempt.Status != models.ATTEMPT_IN_PROGRESS {
		return nil, &res.ErrorRes{
			Err:        errors.New("the exam attempt was already submitted"),
			StatusCode: http.StatusConflict,
		}
	}
	exam, errRes := examRepository.GetExamWithDeleted(attempt.Exam)
	if errRes != nil {
		return nil, errRes
	}
	schedule, errRes := scheduleRepository.GetSchedule(attempt.Schedule)
	if errRes != nil {
		return nil, errRes
	}
	now := time.Now()
	if !CanSubmit(attempt, now) {
		if _, errRes := a.finalizeAttempt(attempt, exam, now); errRes != nil {
			return nil, errRes
		}
		return nil, &res.ErrorRes{
			Err:        errAttemptClosed,
			StatusCode: http.StatusForbidden,
		}
	}
	// Final answers are validated before anything is written
	for i := range form.Answers {
		question, errRes := a.getAttemptQuestion(exam, form.Answers[i].Question)
		if errRes != nil {
			return nil, errRes
		}
		if err := ValidateAnswer(question, &form.Answers[i].AnswerForm); err != nil {
			return nil, &res.ErrorRes{
				Err:        err,
				StatusCode: http.StatusBadRequest,
			}
		}
		attempt.Answers = applyAnswer(attempt.Answers, question.ID, &form.Answers[i].AnswerForm, now)
	}
	closed, errRes := a.finalizeAttempt(attempt, exam, now)
	if errRes != nil {
		return nil, errRes
	}
	if !closed {
		return nil, &res.ErrorRes{
			Err:        errors.New("the exam attempt was already submitted"),
			StatusCode: http.StatusConflict,
		}
	}
	return a.studentView(attempt, exam, schedule.ResultsPublished), nil
}

// GetAttempt returns the attempt to its student, or to the course owner
// along with the full exam
func (a *AttemptsService) GetAttempt(idAttempt string, claims *Claims) (*AttemptView, *res.ErrorRes) {
	idObjAttempt, errRes := parseID(idAttempt)
	if errRes != nil {
		return nil, errRes
	}
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return nil, errRes
	}
	attempt, errRes := attemptRepository.GetAttemptByID(idObjAttempt)
	if errRes != nil {
		return nil, errRes
	}
	schedule, errRes := scheduleRepository.GetSchedule(attempt.Schedule)
	if errRes != nil {
		return nil, errRes
	}
	owner := false
	if attempt.Student != idUser {
		if _, errRes := getAuthorizedCourse(schedule.Course, claims, true); errRes != nil {
			return nil, errRes
		}
		owner = true
	}
	exam, errRes := examRepository.GetExamWithDeleted(attempt.Exam)
	if errRes != nil {
		return nil, errRes
	}
	attempt, errRes = a.closeIfExpired(attempt, exam, time.Now())
	if errRes != nil {
		return nil, errRes
	}
	if owner {
		return &AttemptView{
			Attempt:   attempt,
			Questions: OrderedStudentQuestions(exam, attempt.Order),
			Exam:      exam,
		}, nil
	}
	return a.studentView(attempt, exam, schedule.ResultsPublished), nil
}

// closeExpiredAttempts finalizes every expired attempt of a schedule
func (a *AttemptsService) closeExpiredAttempts(schedule *models.ExamSchedule, now time.Time) *res.ErrorRes {
	expired, errRes := attemptRepository.GetAttempts(expiredAttemptsFilter(schedule.ID, now))
	if errRes != nil || len(expired) == 0 {
		return errRes
	}
	exam, errRes := examRepository.GetExamWithDeleted(schedule.Exam)
	if errRes != nil {
		return errRes
	}
	for i := range expired {
		if _, errRes := a.finalizeAttempt(&expired[i], exam, now); errRes != nil {
			return errRes
		}
	}
	return nil
}

func (a *AttemptsService) GetScheduleAttempts(idSchedule string, claims *Claims) ([]models.AttemptWStudent, *res.ErrorRes) {
	schedule, errRes := getOwnedSchedule(idSchedule, claims)
	if errRes != nil {
		return nil, errRes
	}
	if errRes := a.closeExpiredAttempts(schedule, time.Now()); errRes != nil {
		return nil, errRes
	}
	return attemptRepository.GetAttemptsWStudent(schedule.ID)
}

// GradeAnswer lets the course owner set points and feedback on one answer
// of a closed attempt
func (a *AttemptsService) GradeAnswer(form *forms.GradeAnswerForm, idAttempt, idQuestion string, claims *Claims) (*models.ExamAttempt, *res.ErrorRes) {
	idObjAttempt, errRes := parseID(idAttempt)
	if errRes != nil {
		return nil, errRes
	}
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return nil, errRes
	}
	attempt, errRes := attemptRepository.GetAttemptByID(idObjAttempt)
	if errRes != nil {
		return nil, errRes
	}
	schedule, errRes := scheduleRepository.GetSchedule(attempt.Schedule)
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := getAuthorizedCourse(schedule.Course, claims, true); errRes != nil {
		return nil, errRes
	}
	exam, errRes := examRepository.GetExamWithDeleted(attempt.Exam)
	if errRes != nil {
		return nil, errRes
	}
	attempt, errRes = a.closeIfExpired(attempt, exam, time.Now())
	if errRes != nil {
		return nil, errRes
	}
	if attempt.Status == models.ATTEMPT_IN_PROGRESS {
		return nil, &res.ErrorRes{
			Err:        errors.New("the exam attempt is still in progress"),
			StatusCode: http.StatusConflict,
		}
	}
	question, errRes := a.getAttemptQuestion(exam, idQuestion)
	if errRes != nil {
		return nil, errRes
	}
	if *form.Points > question.Points {
		return nil, &res.ErrorRes{
			Err:        errors.New("points exceed the question value"),
			StatusCode: http.StatusBadRequest,
		}
	}
	graded, errRes := writeGrade(attempt.ID, question.ID, *form.Points, form.Feedback, idUser, time.Now())
	if errRes != nil {
		return nil, errRes
	}
	if !graded {
		return nil, errGradeConflict
	}
	attempt, errRes = a.refreshScore(attempt.ID)
	if errRes != nil {
		return nil, errRes
	}
	publishAttemptEvent(res.ATTEMPT_GRADED, attempt, question.ID.Hex())
	return attempt, nil
}

func gradeFields(prefix string, points float64, feedback string, grader primitive.ObjectID, now time.Time) bson.M {
	return bson.M{
		prefix + "points":    points,
		prefix + "feedback":  feedback,
		prefix + "auto":      false,
		prefix + "graded_by": grader,
		prefix + "date":      primitive.NewDateTimeFromTime(now),
	}
}

func newGradedAnswer(question primitive.ObjectID, points float64, feedback string, grader primitive.ObjectID, now time.Time) models.Answer {
	return models.Answer{
		Question: question,
		Points:   &points,
		Feedback: feedback,
		GradedBy: &grader,
		Date:     primitive.NewDateTimeFromTime(now),
	}
}

// writeGrade touches only the graded answer, so graders working on other
// questions of the same attempt don't overwrite each other
func writeGrade(idAttempt, question primitive.ObjectID, points float64, feedback string, grader primitive.ObjectID, now time.Time) (bool, *res.ErrorRes) {
	closed := bson.D{
		{Key: "_id", Value: idAttempt},
		{Key: "status", Value: bson.M{"$ne": models.ATTEMPT_IN_PROGRESS}},
	}
	for i := 0; i < GRADE_RETRIES; i++ {
		result, err := attemptModel.Use().UpdateOne(
			db.Ctx,
			append(closed, bson.E{Key: "answers.question", Value: question}),
			bson.D{
				{Key: "$set", Value: gradeFields("answers.$.", points, feedback, grader, now)},
				{Key: "$inc", Value: bson.M{"revision": 1}},
			},
		)
		if err != nil {
			return false, res.FromDBError(err, "")
		}
		if result.MatchedCount > 0 {
			return true, nil
		}
		result, err = attemptModel.Use().UpdateOne(
			db.Ctx,
			append(closed, bson.E{Key: "answers.question", Value: bson.M{"$ne": question}}),
			bson.D{
				{Key: "$push", Value: bson.M{
					"answers": newGradedAnswer(question, points, feedback, grader, now),
				}},
				{Key: "$inc", Value: bson.M{"revision": 1}},
			},
		)
		if err != nil {
			return false, res.FromDBError(err, "")
		}
		if result.MatchedCount > 0 {
			return true, nil
		}
	}
	return false, nil
}

// refreshScore recomputes the totals from the stored answers. The write only
// lands on the revision it was computed from; a concurrent grade makes it
// read again.
func (a *AttemptsService) refreshScore(idAttempt primitive.ObjectID) (*models.ExamAttempt, *res.ErrorRes) {
	for i := 0; i < GRADE_RETRIES; i++ {
		attempt, errRes := attemptRepository.GetAttemptByID(idAttempt)
		if errRes != nil {
			return nil, errRes
		}
		setAttemptScore(attempt)
		result, err := attemptModel.Use().UpdateOne(db.Ctx, bson.D{
			{Key: "_id", Value: attempt.ID},
			{Key: "status", Value: bson.M{"$ne": models.ATTEMPT_IN_PROGRESS}},
			{Key: "revision", Value: attempt.Revision},
		}, bson.D{{
			Key: "$set",
			Value: bson.M{
				"status":     attempt.Status,
				"score":      attempt.Score,
				"percentage": attempt.Percentage,
				"grade":      attempt.Grade,
			},
		}})
		if err != nil {
			return nil, res.FromDBError(err, "")
		}
		if result.MatchedCount > 0 {
			return attempt, nil
		}
	}
	return nil, errGradeConflict
}

// CloseExpiredAttempt is run on request of the external scheduler
func (a *AttemptsService) CloseExpiredAttempt(idAttempt string) error {
	idObjAttempt, errRes := parseID(idAttempt)
	if errRes != nil {
		return errRes
	}
	attempt, errRes := attemptRepository.GetAttemptByID(idObjAttempt)
	if errRes != nil {
		return errRes
	}
	now := time.Now()
	if !attempt.IsExpired(now) {
		return nil
	}
	exam, errRes := examRepository.GetExamWithDeleted(attempt.Exam)
	if errRes != nil {
		return errRes
	}
	if _, errRes := a.finalizeAttempt(attempt, exam, now); errRes != nil {
		return errRes
	}
	return nil
}

func NewAttemptsService() *AttemptsService {
	if attemptsService == nil {
		attemptsService = &AttemptsService{
			rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		}
	}
	return attemptsService
}
