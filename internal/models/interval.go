package models

import (
	"errors"
	"log"
	"os"
	"time"
)

// ErrInvalidInterval is returned when a booking interval has from >= to.
var ErrInvalidInterval = errors.New("interval end must be after start")

const defaultTimeZone = "Asia/Kolkata"

var bookingLocation = loadBookingLocation()

func loadBookingLocation() *time.Location {
	name := os.Getenv("BOOKING_TZ")
	if name == "" {
		name = defaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Invalid BOOKING_TZ %q, falling back to %s: %v", name, defaultTimeZone, err)
		loc, _ = time.LoadLocation(defaultTimeZone)
	}
	return loc
}

// BookingLocation returns the canonical time zone all intervals are stored in.
func BookingLocation() *time.Location {
	return bookingLocation
}

// Interval is a half-open [From, To) time range in the canonical booking time zone.
type Interval struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewInterval normalizes both endpoints into the booking time zone and rejects
// empty or inverted ranges.
func NewInterval(from, to time.Time) (Interval, error) {
	from = from.In(bookingLocation)
	to = to.In(bookingLocation)
	if !from.Before(to) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{From: from, To: to}, nil
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.From.Before(other.To) && other.From.Before(i.To)
}

// Finished reports whether the interval ended strictly before now.
func (i Interval) Finished(now time.Time) bool {
	return i.To.Before(now)
}
