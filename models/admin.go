package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Admin is a back-office account allowed to manage submissions.
type Admin struct {
	AdminID      uint      `gorm:"primaryKey;column:admin_id" json:"admin_id"`
	Username     string    `gorm:"column:username;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Email        string    `gorm:"column:email" json:"email"`
	FullName     string    `gorm:"column:full_name" json:"full_name"`
	IsActive     bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Admin) TableName() string { return "admins" }

// SetPassword stores a bcrypt hash of the plaintext password.
func (a *Admin) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (a *Admin) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plain)) == nil
}
