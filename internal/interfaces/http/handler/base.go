package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmadash/backend/internal/domain/shared"
	"github.com/pharmadash/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common response utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Accepted sends a 202 response
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message))
}

// NotFound sends a 404 response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, message))
}

// Conflict sends a 409 response with an explicit error code
func (h *BaseHandler) Conflict(c *gin.Context, code, message string) {
	c.JSON(http.StatusConflict, dto.NewErrorResponse(code, message))
}

// InternalError sends a 500 response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, message))
}

// HandleError maps domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, shared.ErrNotFound) {
		h.NotFound(c, "resource not found")
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}
	h.InternalError(c, "an unexpected error occurred")
}
