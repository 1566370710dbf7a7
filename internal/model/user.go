package model

import "time"

// User 用户账号；password 只存 bcrypt 哈希
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"type:varchar(64);uniqueIndex:ux_user_username;not null"`
	Password  string    `json:"-" gorm:"type:varchar(128);not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
