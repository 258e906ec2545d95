package model

import "time"

type AuthProvider string

const (
	ProviderPassword AuthProvider = "password"
	ProviderGoogle   AuthProvider = "google.com"
	ProviderFacebook AuthProvider = "facebook.com"
)

// identity側のアカウント（usersプロフィールとは別）
type Credential struct {
	UID             string       `gorm:"type:varchar(64);primaryKey" json:"uid"`
	Email           string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string       `gorm:"column:password_hash" json:"-"`
	Provider        AuthProvider `gorm:"type:varchar(32);not null" json:"provider"`
	ProviderSubject string       `gorm:"type:varchar(255);index" json:"-"`
	DisplayName     string       `gorm:"type:varchar(255)" json:"display_name"`
	PhotoURL        string       `gorm:"type:text" json:"photo_url"`
	Disabled        bool         `gorm:"not null;default:false" json:"disabled"`
	LastLoginAt     *time.Time   `json:"last_login_at"`
	CreatedAt       time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
