package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CPU-commits/Intranet_BXams/funct"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/utils"
	"github.com/jung-kurt/gofpdf"
	"github.com/klauspost/compress/zip"
	"github.com/xuri/excelize/v2"
)

const RESULTS_SHEET = "Results"

var exportsService *ExportsService

type ExportsService struct{}

var resultsHeader = []string{
	"Student",
	"Username",
	"Status",
	"Score",
	"Max score",
	"Percentage",
	"Grade",
}

func setRow(file *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return file.SetSheetRow(RESULTS_SHEET, cell, &values)
}

// BuildResultsWorkbook has one row per attempt and one column per question
// holding the points of the answer
func BuildResultsWorkbook(exam *models.Exam, attempts []models.AttemptWStudent) (*excelize.File, error) {
	file := excelize.NewFile()
	file.SetSheetName("Sheet1", RESULTS_SHEET)

	header := make([]interface{}, 0, len(resultsHeader)+len(exam.Questions))
	for _, title := range resultsHeader {
		header = append(header, title)
	}
	for i, question := range exam.Questions {
		header = append(header, fmt.Sprintf("Q%d (%v)", i+1, question.Points))
	}
	if err := setRow(file, 1, header); err != nil {
		return nil, err
	}
	for i, attempt := range attempts {
		row := []interface{}{
			attempt.Student.FullName(),
			attempt.Student.Username,
			attempt.Status,
			attempt.Score,
			attempt.MaxScore,
			attempt.Percentage,
			attempt.Grade,
		}
		for _, question := range exam.Questions {
			answer := attempt.GetAnswer(question.ID)
			if answer == nil || answer.Points == nil {
				row = append(row, "")
			} else {
				row = append(row, *answer.Points)
			}
		}
		if err := setRow(file, i+2, row); err != nil {
			return nil, err
		}
	}
	return file, nil
}

func answerText(question *models.Question, answer *models.Answer) string {
	if answer == nil || (len(answer.Choices) == 0 && answer.Text == "") {
		return "(no answer)"
	}
	if !question.HasOptions() {
		return answer.Text
	}
	chosen := make([]string, 0, len(answer.Choices))
	for _, choice := range answer.Choices {
		if choice >= 0 && choice < len(question.Options) {
			chosen = append(chosen, question.Options[choice])
		}
	}
	return strings.Join(chosen, ", ")
}

// WriteAttemptPDF renders one attempt. Points and feedback are only printed
// when withResults is set.
func WriteAttemptPDF(
	w io.Writer,
	schedule *models.ExamSchedule,
	exam *models.Exam,
	attempt *models.AttemptWStudent,
	withResults bool,
) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(schedule.Title), "", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	student := attempt.Student.FullName()
	if attempt.Student.StudentNumber != "" {
		student = fmt.Sprintf("%s (%s)", student, attempt.Student.StudentNumber)
	}
	pdf.CellFormat(0, 6, tr(student), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf(
		"Started %s - Status %s",
		attempt.StartedAt.Time().Format(time.RFC822),
		attempt.Status,
	), "", 1, "", false, 0, "")
	if withResults {
		pdf.CellFormat(0, 6, fmt.Sprintf(
			"Score %.2f/%.2f (%.2f%%) - Grade %.1f",
			attempt.Score,
			attempt.MaxScore,
			attempt.Percentage,
			attempt.Grade,
		), "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	for i := range exam.Questions {
		question := &exam.Questions[i]
		answer := attempt.GetAnswer(question.ID)

		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, question.Question)), "", "", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(answerText(question, answer)), "", "", false)
		if withResults {
			points := "-"
			if answer != nil && answer.Points != nil {
				points = fmt.Sprintf("%.2f", *answer.Points)
			}
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 5, fmt.Sprintf("Points %s/%.2f", points, question.Points), "", 1, "", false, 0, "")
			if answer != nil && answer.Feedback != "" {
				pdf.MultiCell(0, 5, tr(answer.Feedback), "", "", false)
			}
		}
		pdf.Ln(3)
	}
	_, height := pdf.GetPageSize()
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(15, height-8, fmt.Sprintf("Issued %s", time.Now().Format("2006-01-02")))
	return pdf.Output(w)
}

func (e *ExportsService) getScheduleData(idSchedule string, claims *Claims) (*models.ExamSchedule, *models.Exam, []models.AttemptWStudent, *res.ErrorRes) {
	schedule, errRes := getOwnedSchedule(idSchedule, claims)
	if errRes != nil {
		return nil, nil, nil, errRes
	}
	if errRes := NewAttemptsService().closeExpiredAttempts(schedule, time.Now()); errRes != nil {
		return nil, nil, nil, errRes
	}
	exam, errRes := examRepository.GetExamWithDeleted(schedule.Exam)
	if errRes != nil {
		return nil, nil, nil, errRes
	}
	attempts, errRes := attemptRepository.GetAttemptsWStudent(schedule.ID)
	if errRes != nil {
		return nil, nil, nil, errRes
	}
	return schedule, exam, attempts, nil
}

func (e *ExportsService) ExportResults(idSchedule string, claims *Claims, w io.Writer) *res.ErrorRes {
	_, exam, attempts, errRes := e.getScheduleData(idSchedule, claims)
	if errRes != nil {
		return errRes
	}
	file, err := BuildResultsWorkbook(exam, attempts)
	if err != nil {
		return &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusInternalServerError,
		}
	}
	defer file.Close()
	if err := file.Write(w); err != nil {
		return &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusInternalServerError,
		}
	}
	return nil
}

// AttemptReport is available to the course owner, and to the student once
// the results are published
func (e *ExportsService) AttemptReport(idAttempt string, claims *Claims, w io.Writer) *res.ErrorRes {
	idObjAttempt, errRes := parseID(idAttempt)
	if errRes != nil {
		return errRes
	}
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return errRes
	}
	attempt, errRes := attemptRepository.GetAttemptWStudent(idObjAttempt)
	if errRes != nil {
		return errRes
	}
	schedule, errRes := scheduleRepository.GetSchedule(attempt.Schedule)
	if errRes != nil {
		return errRes
	}
	if attempt.Student.ID != idUser {
		if _, errRes := getAuthorizedCourse(schedule.Course, claims, true); errRes != nil {
			return errRes
		}
	} else if !schedule.ResultsPublished {
		return &res.ErrorRes{
			Err:        errors.New("the results are not published yet"),
			StatusCode: http.StatusForbidden,
		}
	}
	if attempt.Status == models.ATTEMPT_IN_PROGRESS {
		return &res.ErrorRes{
			Err:        errors.New("the exam attempt is still in progress"),
			StatusCode: http.StatusConflict,
		}
	}
	exam, errRes := examRepository.GetExamWithDeleted(attempt.Exam)
	if errRes != nil {
		return errRes
	}
	if err := WriteAttemptPDF(w, schedule, exam, attempt, true); err != nil {
		return &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusInternalServerError,
		}
	}
	return nil
}

func reportName(attempt *models.AttemptWStudent) string {
	name := attempt.Student.Username
	if name == "" {
		name = attempt.ID.Hex()
	}
	return name + ".pdf"
}

// WriteReportsZip renders the PDFs in parallel and archives them in order
func WriteReportsZip(
	w io.Writer,
	schedule *models.ExamSchedule,
	exam *models.Exam,
	attempts []models.AttemptWStudent,
) error {
	pdfs := make([][]byte, len(attempts))
	errRes := utils.Concurrency(4, len(attempts), func(index int, setError func(*res.ErrorRes)) {
		var buf bytes.Buffer
		if err := WriteAttemptPDF(&buf, schedule, exam, &attempts[index], true); err != nil {
			setError(&res.ErrorRes{
				Err:        err,
				StatusCode: http.StatusInternalServerError,
			})
			return
		}
		pdfs[index] = buf.Bytes()
	})
	if errRes != nil {
		return errRes.Err
	}

	zipWriter := zip.NewWriter(w)
	for i := range attempts {
		file, err := zipWriter.Create(reportName(&attempts[i]))
		if err != nil {
			return err
		}
		if _, err := file.Write(pdfs[i]); err != nil {
			return err
		}
	}
	return zipWriter.Close()
}

func (e *ExportsService) ExportReports(idSchedule string, claims *Claims, w io.Writer) *res.ErrorRes {
	schedule, exam, attempts, errRes := e.getScheduleData(idSchedule, claims)
	if errRes != nil {
		return errRes
	}
	closed := funct.Filter(attempts, func(attempt models.AttemptWStudent) bool {
		return attempt.Status != models.ATTEMPT_IN_PROGRESS
	})
	if err := WriteReportsZip(w, schedule, exam, closed); err != nil {
		return &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusInternalServerError,
		}
	}
	return nil
}

func NewExportsService() *ExportsService {
	if exportsService == nil {
		exportsService = &ExportsService{}
	}
	return exportsService
}
