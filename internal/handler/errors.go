package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"team-chat/internal/transport/httpdto"
	chat_errors "team-chat/pkg/errors"
)

// respondError maps the service error taxonomy onto HTTP responses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_REQUEST"))
	case errors.Is(err, chat_errors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
	case errors.Is(err, chat_errors.ErrForbidden):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
	case errors.Is(err, chat_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
	case errors.Is(err, chat_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "ALREADY_EXISTS"))
	case errors.Is(err, chat_errors.ErrUnsupported):
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNSUPPORTED"))
	case chat_errors.IsStorageError(err):
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "STORAGE_FAILED"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
	}
}
