package services

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const MAX_FILES_UPLOAD = 10
const MAX_FILE_SIZE = 50 << 20

var filesService *FilesService

type FilesService struct{}

func (f *FilesService) UploadFiles(
	idCourse string,
	files []*multipart.FileHeader,
	title string,
	claims *Claims,
) ([]models.File, *res.ErrorRes) {
	idObjCourse, errRes := parseID(idCourse)
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
	if len(files) == 0 || len(files) > MAX_FILES_UPLOAD {
		return nil, &res.ErrorRes{
			Err:        fmt.Errorf("upload between 1 and %d files", MAX_FILES_UPLOAD),
			StatusCode: http.StatusBadRequest,
		}
	}
	for _, file := range files {
		if file.Size > MAX_FILE_SIZE {
			return nil, &res.ErrorRes{
				Err:        fmt.Errorf("%s exceeds %d bytes", file.Filename, MAX_FILE_SIZE),
				StatusCode: http.StatusRequestEntityTooLarge,
			}
		}
	}
	// A single title only makes sense for a single file
	if len(files) > 1 {
		title = ""
	}

	uploaded := make([]models.File, len(files))
	prefix := fmt.Sprintf("courses/%s/files", idCourse)
	errRes = utils.Concurrency(3, len(files), func(index int, setError func(errRes *res.ErrorRes)) {
		file := files[index]
		result, err := aws.UploadFile(file, prefix)
		if err != nil {
			setError(&res.ErrorRes{
				Err:        err,
				StatusCode: http.StatusServiceUnavailable,
			})
			return
		}
		modelFile := models.NewModelFile(
			idObjCourse,
			idUser,
			title,
			result.Key,
			result.Filename,
			result.Mime,
			result.Size,
		)
		inserted, err := fileModel.NewDocument(modelFile)
		if err != nil {
			setError(res.FromDBError(err, ""))
			return
		}
		modelFile.ID = inserted.InsertedID.(primitive.ObjectID)
		uploaded[index] = *modelFile
	})
	if errRes != nil {
		return nil, errRes
	}
	return uploaded, nil
}

func (f *FilesService) GetFiles(idCourse string, claims *Claims) ([]models.File, *res.ErrorRes) {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := getAuthorizedCourse(idObjCourse, claims, false); errRes != nil {
		return nil, errRes
	}
	files := []models.File{}
	cursor, err := fileModel.GetAll(bson.D{
		{Key: "course", Value: idObjCourse},
		{Key: "status", Value: true},
	}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	if err := cursor.All(db.Ctx, &files); err != nil {
		return nil, res.FromDBError(err, "")
	}
	return files, nil
}

func (f *FilesService) getCourseFile(idCourse, idFile string, claims *Claims, ownerOnly bool) (*models.File, *res.ErrorRes) {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return nil, errRes
	}
	idObjFile, errRes := parseID(idFile)
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := getAuthorizedCourse(idObjCourse, claims, ownerOnly); errRes != nil {
		return nil, errRes
	}
	file, err := fileModel.GetFileByID(idObjFile)
	if err != nil {
		return nil, res.FromDBError(err, "File not found")
	}
	if file.Course != idObjCourse {
		return nil, &res.ErrorRes{
			Err:        fmt.Errorf("File not found"),
			StatusCode: http.StatusNotFound,
		}
	}
	return file, nil
}

func (f *FilesService) GetFileURL(idCourse, idFile string, claims *Claims) (string, *res.ErrorRes) {
	file, errRes := f.getCourseFile(idCourse, idFile, claims, false)
	if errRes != nil {
		return "", errRes
	}
	url, err := aws.GetPresignedURL(file.Key)
	if err != nil {
		return "", &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	return url, nil
}

func (f *FilesService) DeleteFile(idCourse, idFile string, claims *Claims) *res.ErrorRes {
	file, errRes := f.getCourseFile(idCourse, idFile, claims, true)
	if errRes != nil {
		return errRes
	}
	_, err := fileModel.Use().UpdateByID(db.Ctx, file.ID, bson.D{{
		Key: "$set",
		Value: bson.M{
			"status": false,
		},
	}})
	if err != nil {
		return res.FromDBError(err, "")
	}
	if err := aws.DeleteFile(file.Key); err != nil {
		logger.ReportError(err, zap.String("key", file.Key))
	}
	return nil
}

func NewFilesService() *FilesService {
	if filesService == nil {
		filesService = &FilesService{}
	}
	return filesService
}
