package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const SEARCH_SIZE = 20

var searchService *SearchService

type SearchService struct{}

type SearchHit struct {
	Index  string                 `json:"index" example:"courses"`
	ID     string                 `json:"_id" example:"637d5de216f58bc8ec7f7f51"`
	Score  float64                `json:"score" example:"1.2"`
	Source map[string]interface{} `json:"source"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Index  string                 `json:"_index"`
			ID     string                 `json:"_id"`
			Score  float64                `json:"_score"`
			Source map[string]interface{} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// bulkItem sends a single action through a fresh bulk indexer. Failures are
// reported but never break the write that triggered them.
func bulkItem(newBulk func() (esutil.BulkIndexer, error), action, id string, body interface{}) {
	bi, err := newBulk()
	if err != nil {
		logger.ReportError(err, zap.String("document", id))
		return
	}
	item := esutil.BulkIndexerItem{
		Action:     action,
		DocumentID: id,
		OnFailure: func(
			ctx context.Context,
			item esutil.BulkIndexerItem,
			response esutil.BulkIndexerResponseItem,
			err error,
		) {
			if err == nil {
				err = fmt.Errorf("%s: %s", response.Error.Type, response.Error.Reason)
			}
			logger.ReportError(err, zap.String("document", item.DocumentID))
		},
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			logger.ReportError(err, zap.String("document", id))
			return
		}
		if action == "update" {
			data = []byte(fmt.Sprintf(`{"doc":%s}`, data))
		}
		item.Body = bytes.NewReader(data)
	}
	if err := bi.Add(context.Background(), item); err != nil {
		logger.ReportError(err, zap.String("document", id))
	}
	if err := bi.Close(context.Background()); err != nil {
		logger.ReportError(err, zap.String("document", id))
	}
}

func indexCourse(course *models.Course) {
	bulkItem(models.NewBulkCourse, "index", course.ID.Hex(), course.ToES())
}

func indexExam(exam *models.Exam) {
	bulkItem(models.NewBulkExam, "index", exam.ID.Hex(), exam.ToES())
}

func removeCourseIndex(idCourse primitive.ObjectID) {
	bulkItem(models.NewBulkCourse, "delete", idCourse.Hex(), nil)
}

func removeExamIndex(idExam primitive.ObjectID) {
	bulkItem(models.NewBulkExam, "delete", idExam.Hex(), nil)
}

// CourseIDs lists the courses the user teaches or is enrolled in
func CourseIDs(claims *Claims) ([]primitive.ObjectID, *res.ErrorRes) {
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return nil, errRes
	}
	if claims.IsInstructor() {
		values, err := courseModel.Use().Distinct(db.Ctx, "_id", bson.D{
			{Key: "instructor", Value: idUser},
			{Key: "status", Value: true},
		})
		if err != nil {
			return nil, res.FromDBError(err, "")
		}
		return toObjectIDs(values), nil
	}
	values, err := groupModel.Use().Distinct(db.Ctx, "course", bson.D{
		{Key: "students", Value: idUser},
		{Key: "status", Value: true},
	})
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	return toObjectIDs(values), nil
}

func toObjectIDs(values []interface{}) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, value := range values {
		if id, ok := value.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// BuildSearchQuery matches the terms as prefixes on the text fields of
// courses and exams, restricted to the given courses
func BuildSearchQuery(search string, courses []string) map[string]interface{} {
	return map[string]interface{}{
		"size": SEARCH_SIZE,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"simple_query_string": map[string]interface{}{
						"query":            strings.TrimSpace(search) + "*",
						"fields":           []string{"name^2", "title^2", "code", "description"},
						"analyzer":         "standard",
						"default_operator": "and",
					},
				},
				"filter": map[string]interface{}{
					"terms": map[string]interface{}{
						"id_course": courses,
					},
				},
			},
		},
	}
}

func (s *SearchService) Search(search string, claims *Claims) ([]SearchHit, int, *res.ErrorRes) {
	hits := []SearchHit{}
	if strings.TrimSpace(search) == "" {
		return hits, 0, nil
	}
	courses, errRes := CourseIDs(claims)
	if errRes != nil {
		return nil, 0, errRes
	}
	if len(courses) == 0 {
		return hits, 0, nil
	}
	idCourses := make([]string, 0, len(courses))
	for _, id := range courses {
		idCourses = append(idCourses, id.Hex())
	}

	es, err := db.NewConnectionEs()
	if err != nil {
		return nil, 0, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	response, err := es.Search(
		es.Search.WithContext(context.Background()),
		es.Search.WithIndex(models.COURSES_INDEX, models.EXAMS_INDEX),
		es.Search.WithBody(esutil.NewJSONReader(BuildSearchQuery(search, idCourses))),
		es.Search.WithTrackTotalHits(true),
		es.Search.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return nil, 0, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	defer response.Body.Close()
	if response.IsError() {
		return nil, 0, &res.ErrorRes{
			Err:        fmt.Errorf("search failed: %s", response.Status()),
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	var result searchResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, 0, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusInternalServerError,
		}
	}
	for _, hit := range result.Hits.Hits {
		hits = append(hits, SearchHit{
			Index:  hit.Index,
			ID:     hit.ID,
			Score:  hit.Score,
			Source: hit.Source,
		})
	}
	return hits, result.Hits.Total.Value, nil
}

func NewSearchService() *SearchService {
	if searchService == nil {
		searchService = &SearchService{}
	}
	return searchService
}
