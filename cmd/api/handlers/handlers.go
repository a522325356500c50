package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wp-dispatch/cmd/api/dto"
	"wp-dispatch/cmd/api/services"
	"wp-dispatch/logger"
	"wp-dispatch/repositories"
	"wp-dispatch/wordpress"
)

// parseID reads a positive numeric path parameter, answering 400 otherwise.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError translates service and pipeline errors into the JSON error body.
func respondError(c *gin.Context, err error) {
	var wpErr *wordpress.Error
	switch {
	case errors.As(err, &wpErr):
		c.JSON(wordpressHTTPStatus(wpErr), dto.ErrorResponseDTO{
			Error:   wpErr.Message,
			Details: wpErr.Details,
			Status:  wpErr.Status,
		})
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "not found"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: err.Error()})
	case errors.Is(err, repositories.ErrConflict):
		c.JSON(http.StatusConflict, dto.ErrorResponseDTO{Error: err.Error()})
	default:
		logger.ErrorWithFields("request failed", logger.Fields{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal server error"})
	}
}

func wordpressHTTPStatus(err *wordpress.Error) int {
	switch err.Kind {
	case wordpress.KindInvalidRequest, wordpress.KindConfiguration, wordpress.KindEnvironmentMismatch:
		return http.StatusBadRequest
	case wordpress.KindNetwork:
		if err.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
