// Package api holds the JSON response envelope shared by every endpoint.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mjoubert/agenda-api/internal/apperr"
)

// Response is the uniform envelope returned by all endpoints.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a 200 envelope with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// OKCount writes a 200 envelope with data and a count.
func OKCount(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Count: &count})
}

// Created writes a 201 envelope with data and a message.
func Created(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data, Message: message})
}

// Message writes a 200 envelope carrying only a confirmation message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// Fail writes a failure envelope with the given status and aborts the chain.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: msg})
}

// Error translates a service-layer error into a failure envelope.
// The mapping is exhaustive over apperr kinds: NotFound → 404, the
// client-caused kinds → 400, everything else → 500 with a generic error
// and the underlying text in the message field.
func Error(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		Fail(c, http.StatusNotFound, err.Error())
	case apperr.KindValidation, apperr.KindReference, apperr.KindConflict:
		Fail(c, http.StatusBadRequest, err.Error())
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "internal server error",
			Message: err.Error(),
		})
	}
}
