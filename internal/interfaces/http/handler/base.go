package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
	"github.com/sellerhub/backend/internal/interfaces/http/dto"
	"github.com/sellerhub/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides response and error-mapping helpers shared by
// all handlers.
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a new BaseHandler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return BaseHandler{logger: logger}
}

// Success sends a 200 envelope around data.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessMessage sends a 200 envelope with a message and optional data.
func (h *BaseHandler) SuccessMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessMessage(message, data))
}

// Created sends a 201 envelope around data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 with an empty body.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps an application error to an HTTP response. Domain errors
// keep their code, provider sentinels get stable codes, everything
// else is logged and hidden behind a generic system error.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.CodeHTTPStatus(domainErr.Code)
		c.JSON(status, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest,
			dto.NewValidationErrorResponse("validation failed", formatValidationErrors(validationErrs)))
		return
	}

	switch {
	case errors.Is(err, marketplace.ErrTokenRequired):
		c.JSON(dto.CodeHTTPStatus(dto.CodeTokenRequired),
			dto.NewErrorResponse(dto.CodeTokenRequired, "marketplace API token is missing or rejected"))
	case errors.Is(err, marketplace.ErrRateLimited):
		c.JSON(dto.CodeHTTPStatus(dto.CodeRateLimited),
			dto.NewErrorResponse(dto.CodeRateLimited, "marketplace rate limit exceeded, retry later"))
	case errors.Is(err, marketplace.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.CodeNotFound, "order not found on marketplace"))
	case errors.Is(err, marketplace.ErrSupplyNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.CodeNotFound, "supply not found on marketplace"))
	case errors.Is(err, marketplace.ErrUnavailable),
		errors.Is(err, marketplace.ErrRequestFailed),
		errors.Is(err, marketplace.ErrInvalidResponse):
		c.JSON(dto.CodeHTTPStatus(dto.CodeConnectionError),
			dto.NewErrorResponse(dto.CodeConnectionError, "marketplace request failed"))
	default:
		h.logger.Error("unhandled error",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.CodeSystem, "an internal error occurred"))
	}
}

// BindJSON binds the request body and responds with a validation error
// envelope on failure. Returns false when the request was rejected.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			c.JSON(http.StatusBadRequest,
				dto.NewValidationErrorResponse("validation failed", formatValidationErrors(validationErrs)))
			return false
		}
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.CodeInvalidInput, "malformed request body: "+err.Error()))
		return false
	}
	return true
}

// BindQuery binds query parameters and responds on failure.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.CodeInvalidInput, "malformed query parameters: "+err.Error()))
		return false
	}
	return true
}

// TenantID returns the tenant set by the tenant middleware. When the
// middleware did not run (misconfigured route) the request is rejected.
func (h *BaseHandler) TenantID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.TenantFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.CodeTenantRequired, "tenant context is missing"))
		return uuid.Nil, false
	}
	return id, true
}

// UUIDParam parses a path parameter as UUID and responds on failure.
func (h *BaseHandler) UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.CodeInvalidInput, fmt.Sprintf("%s must be a valid UUID", name)))
		return uuid.Nil, false
	}
	return id, true
}

// MarketplaceParam parses the :marketplace path parameter.
func (h *BaseHandler) MarketplaceParam(c *gin.Context) (marketplace.Code, bool) {
	code := marketplace.Code(strings.ToUpper(c.Param("marketplace")))
	if !code.IsValid() || code == marketplace.CodeNone {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.CodeInvalidInput, "unknown marketplace "+c.Param("marketplace")))
		return marketplace.CodeNone, false
	}
	return code, true
}

// formatValidationErrors converts validator errors to the field map
// surfaced in the errors section of the envelope.
func formatValidationErrors(errs validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		out[field] = append(out[field], validationMessage(fe))
	}
	return out
}

// validationMessage renders one validator error as a human message.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "required_without":
		return "is required when " + fe.Param() + " is empty"
	default:
		return "failed validation rule " + fe.Tag()
	}
}
