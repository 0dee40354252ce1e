package utils

import (
	"errors"
	"net/http"

	"civic-issues-be/apperrors"
	"civic-issues-be/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// Error writes err as an envelope. Unknown errors become a generic 500 and
// are logged with their cause.
func Error(c *gin.Context, err error) {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, Response{
			Success: false,
			Message: "Validation failed",
			Errors:  fieldErrors(validationErr),
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logger.FromContext(c).Error(appErr.Message, "error", err, "path", c.FullPath())
		}
		c.AbortWithStatusJSON(appErr.Status, Response{Success: false, Message: appErr.Message})
		return
	}

	logger.FromContext(c).Error("unhandled error", "error", err, "path", c.FullPath())
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
		Success: false,
		Message: "Something went wrong",
	})
}

// BindJSON binds the request body and answers 400 itself when binding fails.
func BindJSON(c *gin.Context, input interface{}) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		var validationErr validator.ValidationErrors
		if errors.As(err, &validationErr) {
			Error(c, err)
		} else {
			Error(c, apperrors.Validation("Invalid request body"))
		}
		return false
	}
	return true
}

func fieldErrors(errs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{Field: e.Field(), Message: fieldMessage(e)})
	}
	return out
}

func fieldMessage(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "len":
		return field + " must be exactly " + e.Param() + " characters"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "numeric":
		return field + " must be numeric"
	case "e164":
		return field + " must be a valid phone number"
	case "photourl":
		return field + " must be an http(s) link to a jpg, jpeg, png, gif or webp image"
	case "objectid":
		return field + " must be a valid id"
	default:
		return field + " is invalid"
	}
}
