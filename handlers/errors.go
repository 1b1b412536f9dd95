package handlers

import (
	"errors"
	"net/http"

	"platter/middleware"
	"platter/services/backend"
	"platter/services/dashboard"
	"platter/services/session"
	"platter/services/wizard"
	"platter/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error to its HTTP response. fallback is shown
// for backend failures that carry no message of their own.
func respondError(c *gin.Context, err error, fallback string) {
	var (
		verr   *wizard.ValidationError
		ferr   *wizard.FileConstraintError
		serr   *wizard.SubmitError
		gerr   *wizard.GeolocationError
		apiErr *backend.APIError
	)
	middleware.RelayBackendCookies(c)
	switch {
	case errors.As(err, &verr):
		utils.JSONValidationError(c, verr.Errors.Response())
	case errors.As(err, &ferr):
		c.JSON(http.StatusBadRequest, utils.ValidationResponse{
			Message: ferr.Message,
			Field:   ferr.Field,
			Errors:  []utils.FieldError{{Field: ferr.Field, Message: ferr.Message}},
		})
	case errors.As(err, &serr):
		utils.JSONError(c, backend.StatusOf(serr.Err), serr.Message, serr.Err.Error())
	case errors.As(err, &gerr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": gerr.Error(), "code": gerr.Code})
	case errors.Is(err, wizard.ErrSubmitInFlight):
		utils.JSONError(c, http.StatusConflict, "A submission is already in progress", "")
	case errors.Is(err, wizard.ErrUseSubmit), errors.Is(err, wizard.ErrNotFinalStep):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, wizard.ErrMountNotFound):
		utils.JSONError(c, http.StatusNotFound, "Signup session not found", "")
	case errors.Is(err, wizard.ErrInvalidStep),
		errors.Is(err, wizard.ErrUnknownField),
		errors.Is(err, wizard.ErrUnknownDocument),
		errors.Is(err, wizard.ErrImageIndex),
		errors.Is(err, dashboard.ErrInvalidTab),
		errors.Is(err, session.ErrUnknownRole):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, wizard.ErrPersist):
		utils.JSONError(c, http.StatusServiceUnavailable, "Your progress could not be saved. Please try again.", err.Error())
	case errors.As(err, &apiErr), errors.Is(err, backend.ErrTransport):
		utils.JSONError(c, backend.StatusOf(err), backend.MessageOr(err, fallback), err.Error())
	default:
		getLogger(c).Error("Unhandled handler error", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// respondJSON relays backend cookies and writes body.
func respondJSON(c *gin.Context, status int, body interface{}) {
	middleware.RelayBackendCookies(c)
	c.JSON(status, body)
}
