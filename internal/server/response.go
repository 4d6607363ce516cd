package server

import (
	"errors"
	"net/http"

	"github.com/ademuri/spotify-history/internal/analysis"
	"github.com/ademuri/spotify-history/internal/contexts"
	"github.com/gin-gonic/gin"
)

// Response is the envelope every API endpoint returns.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{Code: code, Message: message})
}

// statusFor maps analysis errors onto HTTP statuses.
func statusFor(err error) int {
	var dep *analysis.MissingDependencyError
	var missing *contexts.MissingFeatureError
	switch {
	case errors.As(err, &dep):
		return http.StatusConflict
	case errors.As(err, &missing):
		return http.StatusBadRequest
	case errors.Is(err, contexts.ErrInsufficientTrainingData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, contexts.ErrNoTrainer):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
