package services

import (
	"errors"

	"github.com/campushub/roombook-backend/internal/models"
	"gorm.io/gorm"
)

// CreateRoom registers a room with a unique number. The lookup here is a
// user-friendly pre-check; the unique index on rooms.number is what actually
// holds under concurrent creation.
func CreateRoom(db *gorm.DB, number int, name string) (*models.Room, error) {
	var existing models.Room
	err := db.Where("number = ?", number).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateRoomNumber
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room := models.Room{Number: number, Name: name}
	if err := db.Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoomByNumber looks a room up by its public number.
func GetRoomByNumber(db *gorm.DB, number int) (*models.Room, error) {
	var room models.Room
	if err := db.Where("number = ?", number).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// ListRooms returns all rooms sorted by number.
func ListRooms(db *gorm.DB) ([]models.Room, error) {
	var rooms []models.Room
	if err := db.Order("number").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// UpdateRoom changes a room's number and/or name. Uniqueness is re-checked
// only when the number actually changes.
func UpdateRoom(db *gorm.DB, id uint, number *int, name *string) (*models.Room, error) {
	var room models.Room
	if err := db.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if number != nil && *number != room.Number {
		var existing models.Room
		err := db.Where("number = ?", *number).First(&existing).Error
		if err == nil {
			return nil, ErrDuplicateRoomNumber
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		room.Number = *number
	}
	if name != nil {
		room.Name = *name
	}

	if err := db.Save(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room and every booking scoped to it in one
// transaction, so a failure midway leaves both in place.
func DeleteRoom(db *gorm.DB, number int) (*models.Room, error) {
	var room models.Room
	if err := db.Where("number = ?", number).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("room_id = ?", room.ID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&room).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}
