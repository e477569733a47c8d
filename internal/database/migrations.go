package database

import (
	"github.com/campushub/roombook-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Booking{},
	)
	if err != nil {
		return err
	}

	// Update users table
	if db.Migrator().HasTable(&models.User{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS role text DEFAULT 'user'",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE users " + column).Error; err != nil {
				return err
			}
		}

		// Update constraint
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('user', 'moderator', 'admin'))`)
	}

	// The application pre-checks room numbers, but the unique index is what
	// actually holds under concurrent creation.
	if db.Migrator().HasTable(&models.Room{}) {
		if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_rooms_number ON rooms (number)`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('Pending Approval', 'Approved', 'Rejected'))`)
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_interval_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_interval_check CHECK (from_time < to_time)`)
	}

	return nil
}
