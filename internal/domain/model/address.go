package model

// 配送先（チェックアウトフォーム）
type CustomerInfo struct {
	//宛名
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	//電話番号
	Phone string `gorm:"type:varchar(30);not null" json:"phone"`

	//住所
	Address string `gorm:"type:text;not null" json:"address"`

	//備考
	Note string `gorm:"type:text" json:"note"`
}
