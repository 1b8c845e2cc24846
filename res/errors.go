package res

import (
	"errors"
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/db"
	"go.mongodb.org/mongo-driver/mongo"
)

type ErrorRes struct {
	Err        error
	StatusCode int
}

func (e *ErrorRes) Error() string {
	return e.Err.Error()
}

func NewErrorRes(err error, statusCode int) *ErrorRes {
	return &ErrorRes{
		Err:        err,
		StatusCode: statusCode,
	}
}

// FromDBError maps a driver error to a response error. A missing document
// becomes a 404 with the given message.
func FromDBError(err error, notFoundMessage string) *ErrorRes {
	if errors.Is(err, mongo.ErrNoDocuments) || err.Error() == db.NO_SINGLE_DOCUMENT {
		return &ErrorRes{
			Err:        errors.New(notFoundMessage),
			StatusCode: http.StatusNotFound,
		}
	}
	if mongo.IsDuplicateKeyError(err) {
		return &ErrorRes{
			Err:        errors.New("the resource already exists"),
			StatusCode: http.StatusConflict,
		}
	}
	return &ErrorRes{
		Err:        err,
		StatusCode: http.StatusServiceUnavailable,
	}
}
