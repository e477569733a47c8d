package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/campushub/roombook-backend/internal/middleware"
	"github.com/campushub/roombook-backend/internal/models"
	"github.com/campushub/roombook-backend/internal/services"
	"github.com/campushub/roombook-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateBooking handles the creation of a new booking request
func CreateBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.CurrentActor(c)

		var input struct {
			RoomID           uint      `json:"roomId" binding:"required"`
			From             time.Time `json:"from" binding:"required"`
			To               time.Time `json:"to" binding:"required"`
			CouncilName      string    `json:"councilName" binding:"required"`
			FullName         string    `json:"fullName" binding:"required"`
			ContactNumber    string    `json:"contactNumber" binding:"required"`
			PurposeOfBooking string    `json:"purposeOfBooking" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := services.CreateBooking(db, actor, services.CreateBookingInput{
			RoomID:           input.RoomID,
			From:             input.From,
			To:               input.To,
			CouncilName:      input.CouncilName,
			FullName:         input.FullName,
			ContactNumber:    input.ContactNumber,
			PurposeOfBooking: input.PurposeOfBooking,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		hub.SendBookingRequested(services.BookingRequested{
			BookingID:  booking.ID,
			RoomNumber: booking.Room.Number,
			From:       booking.From.Format(time.RFC3339),
			To:         booking.To.Format(time.RFC3339),
			FullName:   booking.FullName,
		})

		// Mail moderators and admins about the new request
		go func(roomName, requester string) {
			var reviewers []models.User
			if err := db.Where("role IN ?", []models.Role{models.RoleModerator, models.RoleAdmin}).
				Find(&reviewers).Error; err != nil {
				return
			}
			for _, reviewer := range reviewers {
				if err := utils.SendNewBookingNotificationEmail(reviewer.Email, roomName, requester); err != nil {
					log.Printf("Failed to send new booking email: %v", err)
				}
			}
		}(booking.Room.Name, booking.FullName)

		c.JSON(201, gin.H{"message": "Booking created", "booking": booking})
	}
}

// GetBookings retrieves the caller's bookings, or all bookings for moderators
func GetBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.CurrentActor(c)

		bookings, err := services.ListBookings(db, actor)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, bookings)
	}
}

// GetBooking retrieves a single booking
func GetBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.CurrentActor(c)
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		booking, err := services.GetBooking(db, actor, uint(id))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, booking)
	}
}

// ChangeBookingStatus approves or rejects a booking (moderator/admin only)
func ChangeBookingStatus(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.CurrentActor(c)
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		var input struct {
			Status string `json:"status" binding:"required,oneof=Approved Rejected"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := services.ChangeBookingStatus(db, actor, uint(id), models.BookingStatus(input.Status))
		if err != nil {
			respondError(c, err)
			return
		}

		notifyStatusChange(db, hub, booking)

		c.JSON(200, gin.H{
			"message": "Booking " + input.Status,
			"booking": booking,
		})
	}
}

// DeleteBooking removes a booking (owner, or moderator/admin)
func DeleteBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.CurrentActor(c)
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		if err := services.DeleteBooking(db, actor, uint(id)); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Booking deleted"})
	}
}

// ResolveConflict approves one booking of a conflicting pair and rejects the
// other (moderator/admin only)
func ResolveConflict(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ApproveID uint `json:"approveId" binding:"required"`
			RejectID  uint `json:"rejectId" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if err := services.ResolveConflict(db, input.ApproveID, input.RejectID); err != nil {
			respondError(c, err)
			return
		}

		var approved, rejected models.Booking
		if db.First(&approved, input.ApproveID).Error == nil &&
			db.First(&rejected, input.RejectID).Error == nil {
			hub.SendConflictResolved(approved.UserID, rejected.UserID, services.ConflictResolved{
				ApprovedID: approved.ID,
				RejectedID: rejected.ID,
			})
			notifyStatusChange(db, hub, &approved)
			notifyStatusChange(db, hub, &rejected)
		}

		c.JSON(200, gin.H{"message": "Conflict resolved"})
	}
}

// notifyStatusChange fans a status change out to Redis, the WebSocket hub and
// the owner's mailbox. Best effort: failures are logged, never propagated.
func notifyStatusChange(db *gorm.DB, hub *services.Hub, booking *models.Booking) {
	hub.SendBookingStatusChanged(booking.UserID, services.BookingStatusChanged{
		BookingID: booking.ID,
		Status:    string(booking.Status),
	})

	if err := services.PublishBookingUpdate(context.Background(), booking.ID, string(booking.Status), map[string]interface{}{
		"roomId": booking.RoomID,
		"userId": booking.UserID,
	}); err != nil {
		log.Printf("Failed to publish booking update: %v", err)
	}

	go func(b models.Booking) {
		var owner models.User
		if err := db.First(&owner, b.UserID).Error; err != nil {
			return
		}
		var room models.Room
		if err := db.First(&room, b.RoomID).Error; err != nil {
			return
		}
		if err := utils.SendBookingStatusEmail(owner.Email, room.Name, string(b.Status), b.From, b.To); err != nil {
			log.Printf("Failed to send booking status email: %v", err)
		}
	}(*booking)
}
