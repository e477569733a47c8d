package handlers

import (
	"errors"
	"log"

	"github.com/campushub/roombook-backend/internal/models"
	"github.com/campushub/roombook-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to HTTP responses. Unexpected errors are
// logged in full and surfaced only with a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(403, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrBookingFinished):
		c.JSON(422, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrApprovedConflict),
		errors.Is(err, services.ErrDuplicateRoomNumber):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidInterval):
		c.JSON(400, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}
