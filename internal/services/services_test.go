package services

import (
	"testing"
	"time"

	"github.com/campushub/roombook-backend/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory store migrated with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Room{}, &models.Booking{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func createTestRoom(t *testing.T, db *gorm.DB, number int, name string) *models.Room {
	t.Helper()
	room, err := CreateRoom(db, number, name)
	if err != nil {
		t.Fatalf("CreateRoom(%d, %q) failed: %v", number, name, err)
	}
	return room
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user %q: %v", username, err)
	}
	return &user
}

func createTestBooking(t *testing.T, db *gorm.DB, roomID, userID uint, from, to time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	booking := models.Booking{
		RoomID:           roomID,
		UserID:           userID,
		From:             from.In(models.BookingLocation()),
		To:               to.In(models.BookingLocation()),
		Status:           status,
		CouncilName:      "Cultural Council",
		FullName:         "Test Requester",
		ContactNumber:    "9999999999",
		PurposeOfBooking: "meeting",
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("Failed to create test booking: %v", err)
	}
	return &booking
}

func actorFor(u *models.User) models.Actor {
	return models.Actor{ID: u.ID, Role: u.Role}
}

func at(hour, min int) time.Time {
	return time.Date(2025, 1, 1, hour, min, 0, 0, models.BookingLocation())
}

// futureAt places a slot safely in the future so finished guards stay quiet.
func futureAt(t *testing.T, hourOffset, durHours int) (time.Time, time.Time) {
	t.Helper()
	from := time.Now().Add(time.Duration(hourOffset) * time.Hour)
	return from, from.Add(time.Duration(durHours) * time.Hour)
}
