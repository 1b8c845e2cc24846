package services

import (
	"math"
	"strings"
	"time"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AttemptScore struct {
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
	Grade      float64 `json:"grade"`
}

func round(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}

// NormalizeAnswer trims, collapses inner whitespace and lower cases unless
// caseSensitive
func NormalizeAnswer(text string, caseSensitive bool) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if !caseSensitive {
		normalized = strings.ToLower(normalized)
	}
	return normalized
}

func uniqueChoices(choices []int) []int {
	seen := make(map[int]bool, len(choices))
	unique := make([]int, 0, len(choices))
	for _, choice := range choices {
		if seen[choice] {
			continue
		}
		seen[choice] = true
		unique = append(unique, choice)
	}
	return unique
}

func gradeMultiple(question *models.Question, choices []int) float64 {
	if len(question.Correct) == 0 {
		return 0
	}
	correct := make(map[int]bool, len(question.Correct))
	for _, c := range question.Correct {
		correct[c] = true
	}
	var hits, misses int
	for _, choice := range uniqueChoices(choices) {
		if correct[choice] {
			hits++
		} else {
			misses++
		}
	}
	net := hits - misses
	if net <= 0 {
		return 0
	}
	return round(question.Points*float64(net)/float64(len(question.Correct)), 2)
}

// GradeAnswer scores an objective answer. The second result is false for
// questions that need an instructor.
func GradeAnswer(question *models.Question, answer *models.Answer) (float64, bool) {
	switch question.Type {
	case forms.QUESTION_CHOICE, forms.QUESTION_TRUE_FALSE:
		if len(answer.Choices) == 1 && len(question.Correct) == 1 && answer.Choices[0] == question.Correct[0] {
			return question.Points, true
		}
		return 0, true
	case forms.QUESTION_MULTIPLE:
		return gradeMultiple(question, answer.Choices), true
	case forms.QUESTION_SHORT_ANSWER:
		given := NormalizeAnswer(answer.Text, question.CaseSensitive)
		if given == "" {
			return 0, true
		}
		for _, accepted := range question.Accepted {
			if given == NormalizeAnswer(accepted, question.CaseSensitive) {
				return question.Points, true
			}
		}
		return 0, true
	}
	return 0, false
}

// AutoGrade grades every objective answer of the attempt and adds a zero
// answer for each unanswered question. Essays keep null points.
func AutoGrade(exam *models.Exam, attempt *models.ExamAttempt, now time.Time) {
	date := primitive.NewDateTimeFromTime(now)
	for i := range exam.Questions {
		question := &exam.Questions[i]
		answer := attempt.GetAnswer(question.ID)
		if answer == nil {
			zero := 0.0
			attempt.Answers = append(attempt.Answers, models.Answer{
				Question: question.ID,
				Points:   &zero,
				Auto:     true,
				Date:     date,
			})
			continue
		}
		if answer.GradedBy != nil {
			continue
		}
		points, auto := GradeAnswer(question, answer)
		if !auto {
			answer.Points = nil
			answer.Auto = false
			continue
		}
		answer.Points = &points
		answer.Auto = true
	}
	// Answers to questions removed from the exam don't count
	kept := attempt.Answers[:0]
	for _, answer := range attempt.Answers {
		if exam.GetQuestion(answer.Question) != nil {
			kept = append(kept, answer)
		}
	}
	attempt.Answers = kept
}

func IsFullyGraded(answers []models.Answer) bool {
	for _, answer := range answers {
		if !answer.IsGraded() {
			return false
		}
	}
	return true
}

func TransformPointsToGrade(scale float64, minGrade int, points float64) float64 {
	if points == 0 {
		return float64(minGrade)
	}
	grade := (scale * points) + float64(minGrade)
	return round(grade, 1)
}

// ComputeScore sums graded points and maps them to the grade scale
func ComputeScore(answers []models.Answer, maxScore float64, minGrade, maxGrade int) AttemptScore {
	var score float64
	for _, answer := range answers {
		if answer.Points != nil {
			score += *answer.Points
		}
	}
	score = round(score, 2)
	result := AttemptScore{
		Score:    score,
		MaxScore: maxScore,
		Grade:    float64(minGrade),
	}
	if maxScore <= 0 {
		return result
	}
	scale := float64(maxGrade-minGrade) / maxScore
	result.Percentage = round(score/maxScore*100, 2)
	result.Grade = TransformPointsToGrade(scale, minGrade, score)
	return result
}

func computeAttemptScore(attempt *models.ExamAttempt) AttemptScore {
	return ComputeScore(
		attempt.Answers,
		attempt.MaxScore,
		settingsData.GRADE_MIN,
		settingsData.GRADE_MAX,
	)
}

// attemptStatusAfterGrading is graded once every answer has points
func attemptStatusAfterGrading(attempt *models.ExamAttempt) string {
	if IsFullyGraded(attempt.Answers) {
		return models.ATTEMPT_GRADED
	}
	return models.ATTEMPT_SUBMITTED
}
