package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"retail-insights/pkg/models"
	"retail-insights/pkg/snapshot"
)

// ErrorResponse est le corps des réponses en erreur.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnprocessable   = "UNPROCESSABLE_ENTITY"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeModelFit        = "MODEL_FIT_FAILED"
	ErrCodeServiceUnavail  = "SERVICE_UNAVAILABLE"
	ErrCodeInternalServer  = "INTERNAL_SERVER_ERROR"
)

// statusFor traduit une erreur du cœur en statut HTTP.
func statusFor(err error) (int, string) {
	var fit *models.ModelFitError
	switch {
	case errors.Is(err, snapshot.ErrThrottled):
		return http.StatusTooManyRequests, ErrCodeTooManyRequests
	case errors.Is(err, snapshot.ErrNotLoaded):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavail
	case errors.Is(err, models.ErrDataUnavailable), errors.Is(err, models.ErrIdentityNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, models.ErrEmptySeries):
		return http.StatusUnprocessableEntity, ErrCodeUnprocessable
	case errors.Is(err, models.ErrConfiguration):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.As(err, &fit):
		return http.StatusInternalServerError, ErrCodeModelFit
	}
	return http.StatusInternalServerError, ErrCodeInternalServer
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithFields(logrus.Fields{
			"path":   c.FullPath(),
			"method": c.Request.Method,
		}).WithError(err).Error("request failed")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Detail: err.Error()})
}
