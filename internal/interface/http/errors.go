package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/internal/application"
	"github.com/fretvault/api/internal/interface/middleware"
	"github.com/fretvault/api/pkg/helpers"
	"github.com/fretvault/api/pkg/response"
	"github.com/fretvault/api/pkg/validation"
)

// respondError maps application errors onto status codes. Anything it does
// not recognise is logged and reported as a 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var inErr *application.InputError
	switch {
	case errors.As(err, &inErr):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", inErr.Details)
	case errors.Is(err, application.ErrInvalidInput):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidToken):
		response.Error[any](c, http.StatusBadRequest, application.ErrInvalidToken.Error(), nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, application.ErrInvalidCredentials.Error(), nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, application.ErrForbidden.Error(), nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, application.ErrNotFound.Error(), nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, application.ErrEmailTaken.Error(), nil)
	case errors.Is(err, application.ErrConflict):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, application.ErrStorageUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, application.ErrStorageUnavailable.Error(), nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"request_id": c.GetString(response.RequestIDKey),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func badPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func userID(c *gin.Context) string { return c.GetString(middleware.CtxUserIDKey) }

func clientIP(c *gin.Context) string {
	if ip := c.GetString(middleware.CtxRealIPKey); ip != "" {
		return ip
	}
	return c.ClientIP()
}
