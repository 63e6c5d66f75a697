package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/mekadomus/aquaflow/internal/account/domain"
	"github.com/mekadomus/aquaflow/internal/alert/sweep"
	fluidmeterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	measurementdomain "github.com/mekadomus/aquaflow/internal/measurement/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	codeInvalidInput    = "InvalidInput"
	codeInternalError   = "InternalError"
	codeValidationError = "ValidationError"
)

const (
	issueInvalid     = "Invalid"
	issueRequired    = "Required"
	issueTooFrequent = "TooFrequent"
)

type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type errorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Data    []FieldIssue `json:"data,omitempty"`
}

// ErrInvalidRequest covers request bodies that cannot be decoded at all.
var ErrInvalidRequest = errors.New("invalid_request")

type fieldIssueError struct {
	field string
	issue string
}

func (e *fieldIssueError) Error() string {
	return "invalid field " + e.field
}

func newFieldError(field, issue string) error {
	return &fieldIssueError{field: field, issue: issue}
}

func ErrorHandlingMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		if status == http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(lastErr.Err))
		}
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func validation(field, issue string) (int, errorResponse) {
	return http.StatusBadRequest, errorResponse{
		Code:    codeValidationError,
		Message: "validation error",
		Data:    []FieldIssue{{Field: field, Issue: issue}},
	}
}

func mapError(err error) (int, errorResponse) {
	var fieldErr *fieldIssueError
	if errors.As(err, &fieldErr) {
		return validation(fieldErr.field, fieldErr.issue)
	}

	switch {
	case errors.Is(err, measurementdomain.ErrInvalidMeter):
		return validation("device_id", issueInvalid)
	case errors.Is(err, measurementdomain.ErrInvalidValue):
		return validation("measurement", issueInvalid)
	case errors.Is(err, measurementdomain.ErrTooFrequent),
		errors.Is(err, sweep.ErrCooldown):
		return validation("request", issueTooFrequent)
	case errors.Is(err, measurementdomain.ErrDayRequired):
		return validation("day", issueRequired)
	case errors.Is(err, measurementdomain.ErrInvalidGranularity):
		return validation("granularity", issueInvalid)
	case errors.Is(err, fluidmeterdomain.ErrInvalidID):
		return validation("meter_id", issueInvalid)
	case errors.Is(err, fluidmeterdomain.ErrInvalidOwner):
		return validation("owner_id", issueInvalid)
	case errors.Is(err, fluidmeterdomain.ErrInvalidName),
		errors.Is(err, accountdomain.ErrInvalidName):
		return validation("name", issueInvalid)
	case errors.Is(err, accountdomain.ErrInvalidEmail),
		errors.Is(err, accountdomain.ErrEmailTaken):
		return validation("email", issueInvalid)
	case errors.Is(err, accountdomain.ErrInvalidID):
		return validation("account_id", issueInvalid)
	case errors.Is(err, ErrInvalidRequest):
		return validation("request", issueInvalid)
	case errors.Is(err, fluidmeterdomain.ErrNotFound),
		errors.Is(err, accountdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorResponse{
			Code:    codeInvalidInput,
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorResponse{
			Code:    codeInternalError,
			Message: "internal server error",
		}
	}
}
