package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// usersコレクションのプロフィール。IDはidentityのuidと同じ。
type User struct {
	ID          string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	Email       string     `gorm:"type:varchar(255);index;not null" json:"email"`
	DisplayName string     `gorm:"type:varchar(255)" json:"display_name"`
	PhotoURL    string     `gorm:"type:text" json:"photo_url"`
	Role        Role       `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Status      UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (u *User) IsBlocked() bool {
	return u != nil && u.Status == UserStatusBlocked
}
