package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
)

// Success writes a 200 response with the payload under "data".
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 response with the payload under "data".
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// Paginated writes a 200 response with list metadata.
func Paginated(c *gin.Context, data interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 response with a message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// NotFound writes a 404 response with a message.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message})
}

// Error maps domain errors to HTTP statuses: not-found to 404, validation
// failures to 422 with per-field details, conflicts to 409, everything else
// to 500.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, promotion.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, promotion.ErrCouponCodeTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if ve, ok := promotion.AsValidationError(err); ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "validation failed",
				"fields": ve.Fields,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
