package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const FILES_COLLECTION = "course_files"

var fileModel *FileModel

type File struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty" example:"637d5de216f58bc8ec7f7f51"`
	Course   primitive.ObjectID `json:"course" bson:"course" example:"637d5de216f58bc8ec7f7f51"`
	Title    string             `json:"title" bson:"title" example:"Syllabus"`
	Key      string             `json:"key" bson:"key" example:"courses/637d5de216f58bc8ec7f7f51/files/a.pdf"`
	Filename string             `json:"filename" bson:"filename" example:"syllabus.pdf"`
	Mime     string             `json:"mime" bson:"mime" example:"application/pdf"`
	Size     int64              `json:"size" bson:"size" example:"1024"`
	Uploader primitive.ObjectID `json:"uploader" bson:"uploader" example:"637d5de216f58bc8ec7f7f51"`
	Status   bool               `json:"status" bson:"status"`
	Date     primitive.DateTime `json:"date" bson:"date" swaggertype:"string" example:"2022-09-21T20:10:23.309+00:00"`
}

type FileModel struct {
	model
}

func NewModelFile(course, uploader primitive.ObjectID, title, key, filename, mime string, size int64) *File {
	if title == "" {
		title = filename
	}
	return &File{
		Course:   course,
		Title:    title,
		Key:      key,
		Filename: filename,
		Mime:     mime,
		Size:     size,
		Uploader: uploader,
		Status:   true,
		Date:     primitive.NewDateTimeFromTime(time.Now()),
	}
}

func (file *FileModel) GetFileByID(id primitive.ObjectID) (*File, error) {
	var fileData *File

	cursor := file.GetOne(bson.D{
		{Key: "_id", Value: id},
		{Key: "status", Value: true},
	})
	if err := cursor.Decode(&fileData); err != nil {
		return nil, err
	}
	return fileData, nil
}

func init() {
	registerSchema(
		FILES_COLLECTION,
		bson.M{
			"bsonType": "object",
			"required": []string{
				"course",
				"title",
				"key",
				"filename",
				"mime",
				"size",
				"uploader",
				"status",
				"date",
			},
			"properties": bson.M{
				"course":   bson.M{"bsonType": "objectId"},
				"title":    bson.M{"bsonType": "string", "maxLength": 255},
				"key":      bson.M{"bsonType": "string"},
				"filename": bson.M{"bsonType": "string"},
				"mime":     bson.M{"bsonType": "string"},
				"size":     bson.M{"bsonType": "long"},
				"uploader": bson.M{"bsonType": "objectId"},
				"status":   bson.M{"bsonType": "bool"},
				"date":     bson.M{"bsonType": "date"},
			},
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "course", Value: 1}},
		},
	)
}

func NewFileModel() *FileModel {
	if fileModel == nil {
		fileModel = &FileModel{
			model{CollectionName: FILES_COLLECTION},
		}
	}
	return fileModel
}
