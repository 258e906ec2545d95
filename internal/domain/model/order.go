package model

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusAccepted OrderStatus = "accepted"
)

// totalは作成時点の明細合計。あとから再計算しない。
type Order struct {
	ID        string       `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID    string       `gorm:"type:varchar(64);not null;index" json:"user_id"`
	UserEmail string       `gorm:"type:varchar(255)" json:"user_email"`
	Customer  CustomerInfo `gorm:"embedded;embeddedPrefix:customer_" json:"customer_info"`
	Items     []OrderItem  `gorm:"type:text;serializer:json" json:"items"`
	Total     int64        `gorm:"not null" json:"total"`
	Status    OrderStatus  `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time    `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
