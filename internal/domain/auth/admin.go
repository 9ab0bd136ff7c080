package auth

import "time"

// Admin is the console operator account. There is normally exactly one.
type Admin struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	Username     string    `gorm:"column:username;size:80;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;size:120;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Admin) TableName() string { return "admins" }
