package services

import (
	"errors"
	"time"

	"github.com/campushub/roombook-backend/internal/models"
	"gorm.io/gorm"
)

// CreateBookingInput carries the metadata a user submits with a slot request.
type CreateBookingInput struct {
	RoomID           uint
	From             time.Time
	To               time.Time
	CouncilName      string
	FullName         string
	ContactNumber    string
	PurposeOfBooking string
}

// CreateBooking records a new request in Pending Approval. Conflicting
// requests for the same slot are admitted deliberately; resolution is a later,
// explicit admin action.
func CreateBooking(db *gorm.DB, actor models.Actor, input CreateBookingInput) (*models.Booking, error) {
	var room models.Room
	if err := db.First(&room, input.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	interval, err := models.NewInterval(input.From, input.To)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		RoomID:           room.ID,
		UserID:           actor.ID,
		From:             interval.From,
		To:               interval.To,
		Status:           models.BookingStatusPending,
		CouncilName:      input.CouncilName,
		FullName:         input.FullName,
		ContactNumber:    input.ContactNumber,
		PurposeOfBooking: input.PurposeOfBooking,
	}

	if err := db.Create(&booking).Error; err != nil {
		return nil, err
	}
	booking.Room = room
	return &booking, nil
}

// GetBooking loads a booking readable by its owner or by any moderator/admin.
// Existence is checked before privilege so NotFound always wins.
func GetBooking(db *gorm.DB, actor models.Actor, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := db.Preload("Room").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.UserID != actor.ID && !actor.CanModerate() {
		return nil, ErrForbidden
	}
	return &booking, nil
}

// ListBookings returns the actor's own bookings, or every booking for
// moderators and admins.
func ListBookings(db *gorm.DB, actor models.Actor) ([]models.Booking, error) {
	query := db.Preload("Room").Order("from_time")
	if !actor.CanModerate() {
		query = query.Where("user_id = ?", actor.ID)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ChangeBookingStatus moves a booking to a new status. The finished guard runs
// before every other mutation check; approving fails while another approved
// booking overlaps the same room slot.
func ChangeBookingStatus(db *gorm.DB, actor models.Actor, id uint, status models.BookingStatus) (*models.Booking, error) {
	var booking models.Booking
	if err := db.Preload("Room").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.Finished(time.Now()) {
		return nil, ErrBookingFinished
	}
	if !actor.CanModerate() {
		return nil, ErrForbidden
	}

	if status == models.BookingStatusApproved {
		conflicts, err := FindApprovedConflicts(db, booking.RoomID, booking.Interval(), booking.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, ErrApprovedConflict
		}
	}

	booking.Status = status
	if err := db.Save(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// DeleteBooking removes a booking permanently. Owners may cancel their own
// requests; moderators and admins may remove any. A finished booking only
// yields to an admin.
func DeleteBooking(db *gorm.DB, actor models.Actor, id uint) error {
	var booking models.Booking
	if err := db.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return err
	}

	if booking.Finished(time.Now()) && !actor.IsAdmin() {
		return ErrBookingFinished
	}
	if booking.UserID != actor.ID && !actor.CanModerate() {
		return ErrForbidden
	}

	return db.Unscoped().Delete(&booking).Error
}
