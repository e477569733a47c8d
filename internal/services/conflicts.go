package services

import (
	"errors"

	"github.com/campushub/roombook-backend/internal/models"
	"gorm.io/gorm"
)

// FindConflicts returns the live (non-rejected) bookings on a room whose
// interval overlaps the candidate one. Half-open semantics: bookings that
// merely touch at an endpoint do not conflict. excludeID is skipped so a
// booking never conflicts with itself; pass 0 when checking a candidate that
// has not been persisted yet.
func FindConflicts(db *gorm.DB, roomID uint, interval models.Interval, excludeID uint) ([]models.Booking, error) {
	query := db.Where(
		"room_id = ? AND status <> ? AND from_time < ? AND to_time > ?",
		roomID, models.BookingStatusRejected, interval.To, interval.From,
	)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var conflicts []models.Booking
	if err := query.Order("from_time").Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}

// FindApprovedConflicts narrows FindConflicts to bookings already approved.
// Approving over one of these is refused until the pair is resolved.
func FindApprovedConflicts(db *gorm.DB, roomID uint, interval models.Interval, excludeID uint) ([]models.Booking, error) {
	query := db.Where(
		"room_id = ? AND status = ? AND from_time < ? AND to_time > ?",
		roomID, models.BookingStatusApproved, interval.To, interval.From,
	)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var conflicts []models.Booking
	if err := query.Order("from_time").Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}

// RoomConflicts returns every live booking on the room that overlaps at least
// one other live booking, ordered by start time. This is the admin resolution
// view: pairs picked from this set feed ResolveConflict.
func RoomConflicts(db *gorm.DB, roomID uint) ([]models.Booking, error) {
	var all []models.Booking
	if err := db.Where("room_id = ?", roomID).
		Order("from_time").
		Find(&all).Error; err != nil {
		return nil, err
	}

	live := all[:0]
	for _, b := range all {
		if b.Status.Live() {
			live = append(live, b)
		}
	}

	conflicted := make([]models.Booking, 0)
	for i := range live {
		for j := range live {
			if i != j && live[i].Interval().Overlaps(live[j].Interval()) {
				conflicted = append(conflicted, live[i])
				break
			}
		}
	}
	return conflicted, nil
}

// ResolveConflict approves one booking and rejects the other in a single
// transaction. It trusts the caller to have obtained the pair from the
// conflict query and does not re-verify overlap. Re-running it yields the
// same end state.
func ResolveConflict(db *gorm.DB, approveID, rejectID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var approve, reject models.Booking
		if err := tx.First(&approve, approveID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if err := tx.First(&reject, rejectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		approve.Status = models.BookingStatusApproved
		reject.Status = models.BookingStatusRejected

		if err := tx.Save(&approve).Error; err != nil {
			return err
		}
		return tx.Save(&reject).Error
	})
}
