package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "Pending Approval"
	BookingStatusApproved BookingStatus = "Approved"
	BookingStatusRejected BookingStatus = "Rejected"
)

// Live reports whether a booking in this status still counts for conflict
// detection. Rejected bookings never conflict.
func (s BookingStatus) Live() bool {
	return s != BookingStatusRejected
}

type Booking struct {
	gorm.Model
	RoomID           uint          `json:"roomId" gorm:"not null;index"`
	Room             Room          `json:"room"`
	UserID           uint          `json:"userId" gorm:"not null;index"`
	User             User          `json:"user"`
	From             time.Time     `json:"from" gorm:"column:from_time;not null"`
	To               time.Time     `json:"to" gorm:"column:to_time;not null"`
	Status           BookingStatus `json:"status" gorm:"not null;default:'Pending Approval'"`
	CouncilName      string        `json:"councilName"`
	FullName         string        `json:"fullName"`
	ContactNumber    string        `json:"contactNumber"`
	PurposeOfBooking string        `json:"purposeOfBooking"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// Interval returns the booking's [From, To) range in the canonical zone.
func (b *Booking) Interval() Interval {
	return Interval{From: b.From.In(bookingLocation), To: b.To.In(bookingLocation)}
}

// Finished reports whether the booking's end time has passed, regardless of
// status. Finished bookings refuse mutation before any other check.
func (b *Booking) Finished(now time.Time) bool {
	return b.To.Before(now)
}
