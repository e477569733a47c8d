package services

import (
	"errors"
	"testing"
	"time"

	"github.com/campushub/roombook-backend/internal/models"
)

func TestCreateBooking_StartsPending(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	user := createTestUser(t, db, "alice", models.RoleUser)

	from, to := futureAt(t, 24, 1)
	booking, err := CreateBooking(db, actorFor(user), CreateBookingInput{
		RoomID:           room.ID,
		From:             from,
		To:               to,
		CouncilName:      "Cultural Council",
		FullName:         "Alice",
		ContactNumber:    "9999999999",
		PurposeOfBooking: "rehearsal",
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if booking.Status != models.BookingStatusPending {
		t.Errorf("New bookings must start Pending Approval, got %q", booking.Status)
	}
	if booking.UserID != user.ID {
		t.Errorf("Expected owner %d, got %d", user.ID, booking.UserID)
	}
	if booking.From.Location() != models.BookingLocation() {
		t.Errorf("Stored interval must be normalized, got %v", booking.From.Location())
	}
}

func TestCreateBooking_RoomMustExist(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice", models.RoleUser)

	from, to := futureAt(t, 24, 1)
	_, err := CreateBooking(db, actorFor(user), CreateBookingInput{RoomID: 42, From: from, To: to})
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
}

func TestCreateBooking_InvalidInterval(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	user := createTestUser(t, db, "alice", models.RoleUser)

	from, _ := futureAt(t, 24, 1)

	// from == to
	_, err := CreateBooking(db, actorFor(user), CreateBookingInput{RoomID: room.ID, From: from, To: from})
	if !errors.Is(err, models.ErrInvalidInterval) {
		t.Errorf("Expected ErrInvalidInterval for empty range, got %v", err)
	}

	// from > to
	_, err = CreateBooking(db, actorFor(user), CreateBookingInput{RoomID: room.ID, From: from.Add(time.Hour), To: from})
	if !errors.Is(err, models.ErrInvalidInterval) {
		t.Errorf("Expected ErrInvalidInterval for inverted range, got %v", err)
	}
}

func TestCreateBooking_ConflictingRequestsCoexist(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	bob := createTestUser(t, db, "bob", models.RoleUser)

	from, to := futureAt(t, 24, 1)
	input := CreateBookingInput{
		RoomID: room.ID, From: from, To: to,
		CouncilName: "c", FullName: "f", ContactNumber: "n", PurposeOfBooking: "p",
	}

	if _, err := CreateBooking(db, actorFor(alice), input); err != nil {
		t.Fatalf("First request failed: %v", err)
	}
	// Same slot: creation must not reject on conflict; resolution is explicit.
	if _, err := CreateBooking(db, actorFor(bob), input); err != nil {
		t.Fatalf("Overlapping request must be admitted, got %v", err)
	}

	var count int64
	db.Model(&models.Booking{}).Where("room_id = ?", room.ID).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 coexisting pending requests, got %d", count)
	}
}

func TestGetBooking_PrivilegeMatrix(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	owner := createTestUser(t, db, "owner", models.RoleUser)
	stranger := createTestUser(t, db, "stranger", models.RoleUser)
	moderator := createTestUser(t, db, "mod", models.RoleModerator)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	booking := createTestBooking(t, db, room.ID, owner.ID, at(10, 0), at(11, 0), models.BookingStatusPending)

	if _, err := GetBooking(db, actorFor(owner), booking.ID); err != nil {
		t.Errorf("Owner read failed: %v", err)
	}
	if _, err := GetBooking(db, actorFor(moderator), booking.ID); err != nil {
		t.Errorf("Moderator read failed: %v", err)
	}
	if _, err := GetBooking(db, actorFor(admin), booking.ID); err != nil {
		t.Errorf("Admin read failed: %v", err)
	}
	if _, err := GetBooking(db, actorFor(stranger), booking.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for stranger, got %v", err)
	}
}

func TestGetBooking_ExistenceBeforePrivilege(t *testing.T) {
	db := setupTestDB(t)
	stranger := createTestUser(t, db, "stranger", models.RoleUser)

	// A missing booking reports NotFound even to an unprivileged actor.
	if _, err := GetBooking(db, actorFor(stranger), 9999); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("Expected ErrBookingNotFound, got %v", err)
	}
}

func TestChangeBookingStatus_Approve(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	owner := createTestUser(t, db, "owner", models.RoleUser)
	moderator := createTestUser(t, db, "mod", models.RoleModerator)

	from, to := futureAt(t, 24, 1)
	booking := createTestBooking(t, db, room.ID, owner.ID, from, to, models.BookingStatusPending)

	updated, err := ChangeBookingStatus(db, actorFor(moderator), booking.ID, models.BookingStatusApproved)
	if err != nil {
		t.Fatalf("ChangeBookingStatus failed: %v", err)
	}
	if updated.Status != models.BookingStatusApproved {
		t.Errorf("Expected Approved, got %q", updated.Status)
	}
}

func TestChangeBookingStatus_ForbiddenForPlainUser(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	owner := createTestUser(t, db, "owner", models.RoleUser)

	from, to := futureAt(t, 24, 1)
	booking := createTestBooking(t, db, room.ID, owner.ID, from, to, models.BookingStatusPending)

	// Even the owner cannot self-approve.
	_, err := ChangeBookingStatus(db, actorFor(owner), booking.ID, models.BookingStatusApproved)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestChangeBookingStatus_FinishedGuardBeatsAdmin(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	owner := createTestUser(t, db, "owner", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	past := time.Now().Add(-3 * time.Hour)
	booking := createTestBooking(t, db, room.ID, owner.ID, past, past.Add(time.Hour), models.BookingStatusPending)

	_, err := ChangeBookingStatus(db, actorFor(admin), booking.ID, models.BookingStatusApproved)
	if !errors.Is(err, ErrBookingFinished) {
		t.Errorf("Finished guard must run before privilege, expected ErrBookingFinished, got %v", err)
	}
}

func TestChangeBookingStatus_ApprovedConflictBlocks(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	owner := createTestUser(t, db, "owner", models.RoleUser)
	moderator := createTestUser(t, db, "mod", models.RoleModerator)

	from, to := futureAt(t, 24, 1)
	createTestBooking(t, db, room.ID, owner.ID, from, to, models.BookingStatusApproved)
	contender := createTestBooking(t, db, room.ID, owner.ID, from.Add(30*time.Minute), to.Add(30*time.Minute), models.BookingStatusPending)

	_, err := ChangeBookingStatus(db, actorFor(moderator), contender.ID, models.BookingStatusApproved)
	if !errors.Is(err, ErrApprovedConflict) {
		t.Errorf("Expected ErrApprovedConflict, got %v", err)
	}

	// Rejecting the contender is still allowed.
	if _, err := ChangeBookingStatus(db, actorFor(moderator), contender.ID, models.BookingStatusRejected); err != nil {
		t.Errorf("Rejecting over an approved conflict must succeed, got %v", err)
	}
}

func TestChangeBookingStatus_RejectedNeighborDoesNotBlock(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	owner := createTestUser(t, db, "owner", models.RoleUser)
	moderator := createTestUser(t, db, "mod", models.RoleModerator)

	from, to := futureAt(t, 24, 1)
	createTestBooking(t, db, room.ID, owner.ID, from, to, models.BookingStatusRejected)
	contender := createTestBooking(t, db, room.ID, owner.ID, from, to, models.BookingStatusPending)

	if _, err := ChangeBookingStatus(db, actorFor(moderator), contender.ID, models.BookingStatusApproved); err != nil {
		t.Errorf("A rejected overlap must not block approval, got %v", err)
	}
}

func TestChangeBookingStatus_NotFound(t *testing.T) {
	db := setupTestDB(t)
	moderator := createTestUser(t, db, "mod", models.RoleModerator)

	_, err := ChangeBookingStatus(db, actorFor(moderator), 9999, models.BookingStatusApproved)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("Expected ErrBookingNotFound, got %v", err)
	}
}

func TestDeleteBooking_OwnerCancels(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	owner := createTestUser(t, db, "owner", models.RoleUser)

	from, to := futureAt(t, 24, 1)
	booking := createTestBooking(t, db, room.ID, owner.ID, from, to, models.BookingStatusPending)

	if err := DeleteBooking(db, actorFor(owner), booking.ID); err != nil {
		t.Fatalf("Owner cancel failed: %v", err)
	}

	var count int64
	db.Model(&models.Booking{}).Where("id = ?", booking.ID).Count(&count)
	if count != 0 {
		t.Error("Booking must be removed permanently")
	}
}

func TestDeleteBooking_StrangerForbidden(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	owner := createTestUser(t, db, "owner", models.RoleUser)
	stranger := createTestUser(t, db, "stranger", models.RoleUser)

	from, to := futureAt(t, 24, 1)
	booking := createTestBooking(t, db, room.ID, owner.ID, from, to, models.BookingStatusPending)

	if err := DeleteBooking(db, actorFor(stranger), booking.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestDeleteBooking_FinishedRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	owner := createTestUser(t, db, "owner", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	past := time.Now().Add(-3 * time.Hour)
	booking := createTestBooking(t, db, room.ID, owner.ID, past, past.Add(time.Hour), models.BookingStatusApproved)

	if err := DeleteBooking(db, actorFor(owner), booking.ID); !errors.Is(err, ErrBookingFinished) {
		t.Errorf("Owner deleting a finished booking must fail, got %v", err)
	}
	if err := DeleteBooking(db, actorFor(admin), booking.ID); err != nil {
		t.Errorf("Admin override on finished booking failed: %v", err)
	}
}

func TestListBookings_ScopedByRole(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	bob := createTestUser(t, db, "bob", models.RoleUser)
	moderator := createTestUser(t, db, "mod", models.RoleModerator)

	createTestBooking(t, db, room.ID, alice.ID, at(10, 0), at(11, 0), models.BookingStatusPending)
	createTestBooking(t, db, room.ID, bob.ID, at(12, 0), at(13, 0), models.BookingStatusPending)

	mine, err := ListBookings(db, actorFor(alice))
	if err != nil {
		t.Fatalf("ListBookings failed: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != alice.ID {
		t.Errorf("Plain users must only see their own bookings, got %d", len(mine))
	}

	all, err := ListBookings(db, actorFor(moderator))
	if err != nil {
		t.Fatalf("ListBookings failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Moderators must see every booking, got %d", len(all))
	}
}

// End-to-end scenario: two overlapping requests surface in the conflict query
// and are settled by a single resolution call.
func TestConflictLifecycleScenario(t *testing.T) {
	db := setupTestDB(t)
	room := createTestRoom(t, db, 101, "Lab")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	bob := createTestUser(t, db, "bob", models.RoleUser)

	a := createTestBooking(t, db, room.ID, alice.ID,
		time.Date(2025, 1, 1, 10, 0, 0, 0, models.BookingLocation()),
		time.Date(2025, 1, 1, 11, 0, 0, 0, models.BookingLocation()),
		models.BookingStatusPending)
	b := createTestBooking(t, db, room.ID, bob.ID,
		time.Date(2025, 1, 1, 10, 30, 0, 0, models.BookingLocation()),
		time.Date(2025, 1, 1, 11, 30, 0, 0, models.BookingLocation()),
		models.BookingStatusPending)

	conflicts, err := RoomConflicts(db, room.ID)
	if err != nil {
		t.Fatalf("RoomConflicts failed: %v", err)
	}
	if len(conflicts) != 2 {
		t.Fatalf("Expected conflict query to return {A, B}, got %d bookings", len(conflicts))
	}

	if err := ResolveConflict(db, a.ID, b.ID); err != nil {
		t.Fatalf("ResolveConflict failed: %v", err)
	}

	var ra, rb models.Booking
	db.First(&ra, a.ID)
	db.First(&rb, b.ID)
	if ra.Status != models.BookingStatusApproved || rb.Status != models.BookingStatusRejected {
		t.Errorf("Expected A Approved / B Rejected, got %q / %q", ra.Status, rb.Status)
	}
}
