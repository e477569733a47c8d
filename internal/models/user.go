package models

import (

    "gorm.io/gorm"
    "golang.org/x/crypto/bcrypt"
)

type Role string

const (
    RoleUser      Role = "user"
    RoleModerator Role = "moderator"
    RoleAdmin     Role = "admin"
)

type User struct {
    gorm.Model      // This embeds ID, CreatedAt, UpdatedAt, and DeletedAt
    Username     string `gorm:"column:username;unique;not null"`
    Email        string `gorm:"column:email;unique;not null"`
    Password     string `gorm:"-:migration"`                    // Temporary field for password handling
    PasswordHash string `gorm:"column:password_hash;not null"`
    Role         Role   `gorm:"column:role;not null;default:'user'"`
}

// TableName specifies the table name
func (User) TableName() string {
    return "users"
}

func (u *User) HashPassword() error {
    if u.Password == "" {
        return nil
    }
    hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
    if err != nil {
        return err
    }
    u.PasswordHash = string(hashedPassword)
    return nil
}

func (u *User) CheckPassword(password string) error {
    return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
    ID   uint
    Role Role
}

// CanModerate reports whether the actor may approve, reject or resolve bookings.
func (a Actor) CanModerate() bool {
    return a.Role == RoleModerator || a.Role == RoleAdmin
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
    return a.Role == RoleAdmin
}
