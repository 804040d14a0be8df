package model

import (
	"strings"
	"time"
)

const (
	UserEmailMaxLen = 150
	UserNameMaxLen  = 100
)

// User 注册用户；PasswordHash 只保存 bcrypt 结果，不参与序列化
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:150;uniqueIndex:ux_user_email;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Name         *string   `json:"name,omitempty" gorm:"size:100"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
}

func (User) TableName() string { return "user" }

// DisplayName 页面展示用名称，未填写时退回邮箱
func (u *User) DisplayName() string {
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		return *u.Name
	}
	return u.Email
}

// NormalizeEmail 去空白并转小写，唯一性按此比较
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
