package smaps

import (
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/services"
)

// Bodies of the response envelope, used by the swagger docs

type InsertedIdMap struct {
	ID string `json:"inserted_id"`
}

type UserMap struct {
	User *models.User `json:"user"`
}

type AuthMap struct {
	User   *models.User        `json:"user"`
	Tokens *services.TokenPair `json:"tokens"`
}

type TokensMap struct {
	Tokens *services.TokenPair `json:"tokens"`
}

type CourseMap struct {
	Course *models.CourseWLookup `json:"course"`
}

type CoursesMap struct {
	Courses []models.CourseWLookup `json:"courses"`
}

type URLMap struct {
	URL string `json:"url"`
}

type FilesMap struct {
	Files []models.File `json:"files"`
}

type GroupMap struct {
	Group *models.Group `json:"group"`
}

type GroupsMap struct {
	Groups []models.GroupWCount `json:"groups"`
}

type JoinCodeMap struct {
	JoinCode string `json:"join_code"`
}

type StudentsMap struct {
	Students []models.SimpleUser `json:"students"`
}

type ExamMap struct {
	Exam *models.Exam `json:"exam"`
}

type ExamsMap struct {
	Exams []models.ExamSummary `json:"exams"`
}

type ScheduleMap struct {
	Schedule *models.ExamSchedule `json:"schedule"`
}

type StudentScheduleMap struct {
	Schedule *models.StudentSchedule `json:"schedule"`
}

type SchedulesMap struct {
	Schedules []models.ExamSchedule `json:"schedules"`
}

type StudentSchedulesMap struct {
	Schedules []models.StudentSchedule `json:"schedules"`
}

type AttemptViewMap struct {
	services.AttemptView
}

type AttemptMap struct {
	Attempt *models.ExamAttempt `json:"attempt"`
}

type AttemptsMap struct {
	Attempts []models.AttemptWStudent `json:"attempts"`
}

type AnswerMap struct {
	Answer *models.Answer `json:"answer"`
}

type SearchHitsMap struct {
	Hits  []services.SearchHit `json:"hits"`
	Total int                  `json:"total"`
}
