package handlers

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/campushub/roombook-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateRoom handles the creation of a new room (admin only)
func CreateRoom(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Number int    `json:"number" binding:"required"`
			Name   string `json:"name" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		room, err := services.CreateRoom(db, input.Number, input.Name)
		if err != nil {
			respondError(c, err)
			return
		}

		services.InvalidateRoomList(c.Request.Context())
		c.JSON(201, gin.H{"message": "Room successfully created", "room": room})
	}
}

// GetRooms retrieves all rooms sorted by number
func GetRooms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cached, err := services.GetCachedRoomList(c.Request.Context()); err == nil {
			c.Data(200, "application/json", cached)
			return
		}

		rooms, err := services.ListRooms(db)
		if err != nil {
			respondError(c, err)
			return
		}

		if data, err := json.Marshal(rooms); err == nil {
			_ = services.CacheRoomList(context.Background(), data)
		}
		c.JSON(200, rooms)
	}
}

// GetRoom retrieves a single room by its number
func GetRoom(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		number, err := strconv.Atoi(c.Param("number"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid room number"})
			return
		}

		room, err := services.GetRoomByNumber(db, number)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, room)
	}
}

// UpdateRoom updates a room's number and/or name (admin only)
func UpdateRoom(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ID     uint    `json:"id" binding:"required"`
			Number *int    `json:"number"`
			Name   *string `json:"name"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		room, err := services.UpdateRoom(db, input.ID, input.Number, input.Name)
		if err != nil {
			respondError(c, err)
			return
		}

		services.InvalidateRoomList(c.Request.Context())
		c.JSON(200, gin.H{"message": "Successfully updated", "room": room})
	}
}

// DeleteRoom deletes a room and all its bookings (admin only)
func DeleteRoom(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		number, err := strconv.Atoi(c.Param("number"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid room number"})
			return
		}

		room, err := services.DeleteRoom(db, number)
		if err != nil {
			respondError(c, err)
			return
		}

		services.InvalidateRoomList(c.Request.Context())
		c.JSON(200, gin.H{"message": strconv.Itoa(room.Number) + " - " + room.Name + " deleted"})
	}
}

// GetRoomConflicts lists every live booking on a room involved in at least
// one overlap, for the moderator resolution view
func GetRoomConflicts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		number, err := strconv.Atoi(c.Param("number"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid room number"})
			return
		}

		room, err := services.GetRoomByNumber(db, number)
		if err != nil {
			respondError(c, err)
			return
		}

		conflicts, err := services.RoomConflicts(db, room.ID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, conflicts)
	}
}
