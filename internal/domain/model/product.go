package model

import "time"

type Category string

const (
	CategoryPaddles     Category = "Vợt (Paddles)"
	CategoryShoes       Category = "Giày (Shoes)"
	CategoryApparel     Category = "Quần Áo (Apparel)"
	CategoryBags        Category = "Phụ Kiện (Bags)"
	CategoryAccessories Category = "Phụ Kiện (Accessories)"
	CategoryBalls       Category = "Bóng (Balls)"
	CategoryEquipment   Category = "Thiết Bị (Equipment)"
)

// 管理画面で選べるカテゴリの並び順
var Categories = []Category{
	CategoryPaddles,
	CategoryShoes,
	CategoryApparel,
	CategoryBags,
	CategoryAccessories,
	CategoryBalls,
	CategoryEquipment,
}

func (c Category) Valid() bool {
	for _, x := range Categories {
		if x == c {
			return true
		}
	}
	return false
}

// IDはドキュメントID（静的データは "1", "2", ...）
type Product struct {
	ID          string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Category    Category  `gorm:"type:varchar(64);not null;index" json:"category"`
	Brand       string    `gorm:"type:varchar(255)" json:"brand"`
	Price       int64     `gorm:"not null" json:"price"`
	Image       string    `gorm:"type:text" json:"image"`
	Description string    `gorm:"type:text" json:"description"`
	NumericID   int64     `gorm:"not null;default:0;index" json:"numeric_id"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
