// Package pagination は一覧をページに切り分ける。
package pagination

// 表示するページ番号の最大数
const maxVisiblePages = 5

type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalItems int   `json:"total_items"`
	Pages      []int `json:"pages"` // ページ番号ボタン
}

// TotalPages は最低1
func TotalPages(totalItems, size int) int {
	if size <= 0 || totalItems <= 0 {
		return 1
	}
	return (totalItems + size - 1) / size
}

// Clamp はpageを [1, totalPages] に収める
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate はitemsのpageページ目を返す。範囲外のpageは端に寄せる。
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = 1
	}
	total := len(items)
	totalPages := TotalPages(total, size)
	page = Clamp(page, totalPages)

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	out := make([]T, 0, end-start)
	if start < end {
		out = append(out, items[start:end]...)
	}

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		TotalItems: total,
		Pages:      Window(page, totalPages),
	}
}

// Of はストアから読んだ1ページ分を包む。page は Clamp 済みであること。
func Of[T any](items []T, page, size, totalItems int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := TotalPages(totalItems, size)
	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		TotalItems: totalItems,
		Pages:      Window(page, totalPages),
	}
}

// Window は現在ページを中心にした最大5個のページ番号
func Window(current, totalPages int) []int {
	if totalPages <= 1 {
		return []int{1}
	}
	start := current - maxVisiblePages/2
	if start < 1 {
		start = 1
	}
	end := start + maxVisiblePages - 1
	if end > totalPages {
		end = totalPages
	}
	if end-start+1 < maxVisiblePages {
		start = end - maxVisiblePages + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
