package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const MIN_PASSWORD = 8

var readPasswordFunc = term.ReadPassword

var errPasswordLength = fmt.Errorf("the password needs at least %d characters", MIN_PASSWORD)

// indexMappings keeps ids as keywords so the course filter of the search is exact
var indexMappings = map[string]map[string]interface{}{
	models.COURSES_INDEX: {
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"code":        map[string]string{"type": "keyword"},
				"name":        map[string]string{"type": "text"},
				"description": map[string]string{"type": "text"},
				"instructor":  map[string]string{"type": "keyword"},
				"id_course":   map[string]string{"type": "keyword"},
			},
		},
	},
	models.EXAMS_INDEX: {
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":       map[string]string{"type": "text"},
				"description": map[string]string{"type": "text"},
				"id_course":   map[string]string{"type": "keyword"},
				"id_exam":     map[string]string{"type": "keyword"},
			},
		},
	},
}

func promptPassword() (string, error) {
	fmt.Print("Enter password: ")
	password, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(password) < MIN_PASSWORD {
		return "", errPasswordLength
	}
	return string(password), nil
}

func initDB(c *cli.Context) error {
	if err := models.InitCollections(); err != nil {
		return err
	}
	logger.Get().Info("collections ready")
	return nil
}

func createInstructor(c *cli.Context) error {
	form := &forms.RegisterForm{
		Kind:      forms.KIND_INSTRUCTOR,
		Email:     c.String("email"),
		Username:  c.String("username"),
		FirstName: c.String("first-name"),
		LastName:  c.String("last-name"),
		Title:     c.String("title"),
	}
	if !forms.IsUsername(form.Username) {
		return fmt.Errorf("invalid username %q", form.Username)
	}
	password, err := promptPassword()
	if err != nil {
		return err
	}
	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	inserted, err := models.NewUserModel().NewDocument(models.NewModelUser(form, hash))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New("the email or username is already taken")
		}
		return err
	}
	logger.Get().Info(
		"instructor created",
		zap.String("username", strings.ToLower(form.Username)),
		zap.Any("id", inserted.InsertedID),
	)
	return nil
}

func deactivateUser(c *cli.Context) error {
	username := strings.ToLower(c.String("username"))
	result, err := models.NewUserModel().Use().UpdateOne(
		context.Background(),
		bson.D{{Key: "username", Value: username}},
		bson.D{{
			Key: "$set",
			Value: bson.M{
				"status":     false,
				"updated_at": time.Now(),
			},
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %q not found", username)
	}
	logger.Get().Info("user deactivated", zap.String("username", username))
	return nil
}

func ensureIndex(index string) error {
	body, err := json.Marshal(indexMappings[index])
	if err != nil {
		return err
	}
	return db.EnsureIndex(index, body)
}

// indexAll streams every active document of collection into a bulk indexer
func indexAll(
	ctx context.Context,
	collection *mongo.Collection,
	newBulk func() (esutil.BulkIndexer, error),
	toES func(cursor *mongo.Cursor) (string, interface{}, error),
) (uint64, error) {
	bi, err := newBulk()
	if err != nil {
		return 0, err
	}
	cursor, err := collection.Find(ctx, bson.D{{Key: "status", Value: true}})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		id, doc, err := toES(cursor)
		if err != nil {
			return 0, err
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return 0, err
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: id,
			Body:       bytes.NewReader(data),
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
		})
		if err != nil {
			return 0, err
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, err
	}
	if err := bi.Close(ctx); err != nil {
		return 0, err
	}
	stats := bi.Stats()
	if stats.NumFailed > 0 {
		return stats.NumIndexed, fmt.Errorf("%d documents failed", stats.NumFailed)
	}
	return stats.NumIndexed, nil
}

func reindex(c *cli.Context) error {
	ctx := context.Background()
	for _, index := range []string{models.COURSES_INDEX, models.EXAMS_INDEX} {
		if err := ensureIndex(index); err != nil {
			return err
		}
	}
	courses, err := indexAll(ctx, models.NewCourseModel().Use(), models.NewBulkCourse, func(cursor *mongo.Cursor) (string, interface{}, error) {
		var course models.Course
		if err := cursor.Decode(&course); err != nil {
			return "", nil, err
		}
		return course.ID.Hex(), course.ToES(), nil
	})
	if err != nil {
		return err
	}
	exams, err := indexAll(ctx, models.NewExamModel().Use(), models.NewBulkExam, func(cursor *mongo.Cursor) (string, interface{}, error) {
		var exam models.Exam
		if err := cursor.Decode(&exam); err != nil {
			return "", nil, err
		}
		return exam.ID.Hex(), exam.ToES(), nil
	})
	if err != nil {
		return err
	}
	logger.Get().Info("reindex done", zap.Uint64("courses", courses), zap.Uint64("exams", exams))
	return nil
}
