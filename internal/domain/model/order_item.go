package model

// 注文明細。カートに入れた時点の商品スナップショット。
type OrderItem struct {
	LineID    string   `json:"line_id"`
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Brand     string   `json:"brand"`
	Price     int64    `json:"price"`
	Image     string   `json:"image"`
}

func SumItems(items []OrderItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Price
	}
	return total
}
