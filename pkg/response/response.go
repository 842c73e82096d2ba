package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentacar/service-booking/pkg/domain"
)

// envelope is the standard JSON body for successful responses.
type envelope struct {
	Data interface{} `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Success writes a 200 response with the data envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

// Created writes a 201 response with the data envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Data: data})
}

// Accepted writes a 202 response with the data envelope.
func Accepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, envelope{Data: data})
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 response with paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// BadRequest writes a 400 response with the message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: message})
}

// Error maps a domain error onto the appropriate HTTP status. Unrecognized
// errors become 500 without leaking internals; those are the transient
// store/transport failures a caller may retry.
func Error(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		conflictErr   *domain.ConflictError
		stateErr      *domain.InvalidStateError
		forbiddenErr  *domain.ForbiddenError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, errorBody{Error: validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, errorBody{Error: notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, errorBody{Error: conflictErr.Message})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, errorBody{Error: stateErr.Error()})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, errorBody{Error: forbiddenErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}
