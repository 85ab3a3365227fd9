package handler

import (
	"errors"
	"net/http"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/gin-gonic/gin"
)

// writeError maps a core error kind to the HTTP status §7 assigns it.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cargo.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, cargo.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, cargo.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, cargo.ErrValidation), errors.Is(err, cargo.ErrInvalidArgs):
		status = http.StatusBadRequest
	case errors.Is(err, cargo.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
