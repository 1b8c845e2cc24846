package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const SUBMIT_GRACE = models.SUBMIT_GRACE

// ComputeDeadline is min(now + duration, end)
func ComputeDeadline(now, end time.Time, durationMinutes int) time.Time {
	deadline := now.Add(time.Duration(durationMinutes) * time.Minute)
	if deadline.After(end) {
		return end
	}
	return deadline
}

// CheckAccessCode compares in constant time. No code configured lets
// anyone in.
func CheckAccessCode(expected, given string) bool {
	if expected == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}

func CanAnswer(attempt *models.ExamAttempt, now time.Time) bool {
	return attempt.Status == models.ATTEMPT_IN_PROGRESS && now.Before(attempt.Deadline.Time())
}

func CanSubmit(attempt *models.ExamAttempt, now time.Time) bool {
	return attempt.Status == models.ATTEMPT_IN_PROGRESS && !now.After(attempt.ClosesAt())
}

// BuildOrder lists the question ids in presentation order
func BuildOrder(questions []models.Question, shuffle bool, rnd *rand.Rand) []primitive.ObjectID {
	order := make([]primitive.ObjectID, 0, len(questions))
	for _, question := range questions {
		order = append(order, question.ID)
	}
	if shuffle && rnd != nil {
		rnd.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	return order
}

// OrderedStudentQuestions follows the attempt order. Questions added to the
// exam after the attempt started go last; removed ones are skipped.
func OrderedStudentQuestions(exam *models.Exam, order []primitive.ObjectID) []models.StudentQuestion {
	questions := make([]models.StudentQuestion, 0, len(exam.Questions))
	seen := make(map[primitive.ObjectID]bool, len(order))
	for _, id := range order {
		if question := exam.GetQuestion(id); question != nil {
			questions = append(questions, question.ForStudent())
			seen[id] = true
		}
	}
	for i := range exam.Questions {
		if !seen[exam.Questions[i].ID] {
			questions = append(questions, exam.Questions[i].ForStudent())
		}
	}
	return questions
}

// ValidateAnswer checks an answer body against the question type. An empty
// body is valid and clears the answer.
func ValidateAnswer(question *models.Question, answer *forms.AnswerForm) error {
	if answer.IsEmpty() {
		return nil
	}
	if question.HasOptions() {
		if answer.Text != nil {
			return errors.New("this question takes choices, not text")
		}
		if len(answer.Choices) == 0 {
			return errors.New("choose at least one option")
		}
		single := question.Type != forms.QUESTION_MULTIPLE
		if single && len(answer.Choices) != 1 {
			return errors.New("choose exactly one option")
		}
		seen := make(map[int]bool, len(answer.Choices))
		for _, choice := range answer.Choices {
			if choice < 0 || choice >= len(question.Options) {
				return fmt.Errorf("option %d out of range", choice)
			}
			if seen[choice] {
				return fmt.Errorf("option %d repeated", choice)
			}
			seen[choice] = true
		}
		return nil
	}
	if len(answer.Choices) > 0 {
		return errors.New("this question takes text, not choices")
	}
	return nil
}

func NewAnswer(question primitive.ObjectID, form *forms.AnswerForm, now time.Time) models.Answer {
	answer := models.Answer{
		Question: question,
		Choices:  form.Choices,
		Date:     primitive.NewDateTimeFromTime(now),
	}
	if form.Text != nil {
		answer.Text = *form.Text
	}
	return answer
}

// applyAnswer replaces, adds or removes the answer to question in answers
func applyAnswer(answers []models.Answer, question primitive.ObjectID, form *forms.AnswerForm, now time.Time) []models.Answer {
	result := make([]models.Answer, 0, len(answers)+1)
	for _, answer := range answers {
		if answer.Question != question {
			result = append(result, answer)
		}
	}
	if !form.IsEmpty() {
		result = append(result, NewAnswer(question, form, now))
	}
	return result
}
