package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrNoFields       = errors.New("no recognised fields in request body")
	ErrInvalidID      = errors.New("id must be an integer")
	ErrInvalidPayload = errors.New("invalid request payload")
)

// MySQL error numbers for rows blocked by a foreign key.
const (
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
)

func isForeignKeyViolation(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == errRowIsReferenced || myErr.Number == errNoReferencedRow
}

// respondError writes the HTTP response for err. label names the resource in
// not-found messages ("Product not found").
func respondError(c *gin.Context, err error, label string) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": label + " not found"})
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrNoFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Bool("foreign_key", isForeignKeyViolation(err)).
			Msg("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
