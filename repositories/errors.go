package repositories

import (
	"errors"
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/res"
)

func notFound(message string) *res.ErrorRes {
	return res.NewErrorRes(errors.New(message), http.StatusNotFound)
}
