package model

import "time"

// カートの明細。メモリ上だけに持つ。
// LineIDで削除するので、同じ商品を2回入れても区別できる。
type CartEntry struct {
	LineID  string    `json:"line_id"`
	Product Product   `json:"product"`
	AddedAt time.Time `json:"added_at"`
}

func (e CartEntry) ToOrderItem() OrderItem {
	return OrderItem{
		LineID:    e.LineID,
		ProductID: e.Product.ID,
		Name:      e.Product.Name,
		Category:  e.Product.Category,
		Brand:     e.Product.Brand,
		Price:     e.Product.Price,
		Image:     e.Product.Image,
	}
}
