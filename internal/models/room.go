package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model
	Number int    `json:"number" gorm:"column:number;uniqueIndex;not null"`
	Name   string `json:"name" gorm:"column:name;not null"`
}

// TableName specifies the table name
func (Room) TableName() string {
	return "rooms"
}
