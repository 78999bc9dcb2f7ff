// internal/handlers/errors.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prolance/prolance-backend/internal/i18n"
	"github.com/prolance/prolance-backend/internal/services"
	"github.com/prolance/prolance-backend/internal/utils"
)

// respondError maps service errors onto HTTP responses. Anything it does not
// recognise is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var (
		validationErrs validator.ValidationErrors
		fieldErr       *services.ValidationError
		transitionErr  *services.InvalidTransitionError
	)

	switch {
	case errors.As(err, &validationErrs):
		utils.ValidationErrorResponse(c, utils.GetLocalizedValidationErrors(err, lang))
	case errors.As(err, &fieldErr):
		utils.FieldErrorResponse(c, fieldErr.Field, fieldErr.Message(lang))
	case errors.As(err, &transitionErr):
		utils.ErrorResponse(c, http.StatusConflict, "INVALID_TRANSITION",
			i18n.T(lang, i18n.KeyOrderInvalidTransition, transitionErr.From, transitionErr.To),
			gin.H{"from": transitionErr.From, "to": transitionErr.To})
	case errors.Is(err, services.ErrGigNotFound):
		utils.NotFoundResponse(c, "gig")
	case errors.Is(err, services.ErrOrderNotFound):
		utils.NotFoundResponse(c, "order")
	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, "user")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrEmailTaken):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthUserExists))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrFileTooLarge):
		utils.FieldErrorResponse(c, "file", i18n.T(lang, i18n.KeyFileTooLarge))
	case errors.Is(err, services.ErrUnsupportedFileType):
		utils.FieldErrorResponse(c, "file", i18n.T(lang, i18n.KeyFileInvalidType))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON decodes the body into req and writes a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	lang := utils.GetLangFromContext(c)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		utils.FieldErrorResponse(c, typeErr.Field, i18n.T(lang, i18n.KeyValidationInvalid, typeErr.Field))
		return false
	}
	utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
	return false
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.FieldErrorResponse(c, "id", i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, "id"))
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional uuid query parameter. ok is false only when a
// response has already been written.
func queryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.FieldErrorResponse(c, name, i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, name))
		return nil, false
	}
	return &id, true
}

// currentUser returns the authenticated caller. Routes using it sit behind
// AuthRequired, so a miss is answered with 401.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return id, ok
}
