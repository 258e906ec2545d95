// Package catalog は商品ストアが空・取得失敗のときに使う静的な商品一覧。
package catalog

import (
	"strconv"

	"pickleshop/internal/domain/model"
)

// 「すべて」のカテゴリ
const AllCategories = "All"

var fallback = []model.Product{
	{ID: "1", Name: "Selkirk Vanguard Power Air Invikta", Category: model.CategoryPaddles, Brand: "Selkirk", Price: 6500000,
		Image:       "https://images.unsplash.com/photo-1626224580175-342426bee7e3?auto=format&fit=crop&q=80&w=800",
		Description: "Dòng vợt cao cấp nhất của Selkirk, thiết kế không viền tối ưu khí động học cho sức mạnh bùng nổ."},
	{ID: "2", Name: "JOOLA Ben Johns Perseus CFS 16", Category: model.CategoryPaddles, Brand: "JOOLA", Price: 6200000,
		Image:       "https://images.unsplash.com/photo-1699047970868-8f81077755e1?auto=format&fit=crop&q=80&w=800",
		Description: "Vợt chính thức của nhà vô địch số 1 thế giới Ben Johns, mang lại khả năng xoáy đỉnh cao."},
	{ID: "3", Name: "Gearbox Pro Power Elongated", Category: model.CategoryPaddles, Brand: "Gearbox", Price: 6800000,
		Image:       "https://images.unsplash.com/photo-1699047970831-295326466f8e?auto=format&fit=crop&q=80&w=800",
		Description: "Công nghệ lõi SST độc quyền, đem lại sức mạnh chưa từng có mà không cần nỗ lực nhiều."},
	{ID: "4", Name: "Six Zero Sapphire", Category: model.CategoryPaddles, Brand: "Six Zero", Price: 3500000,
		Image:       "https://images.unsplash.com/photo-1611250188496-e966043a062f?auto=format&fit=crop&q=80&w=800",
		Description: "Dòng vợt hiệu suất cao với mức giá dễ tiếp cận, nổi tiếng với sự bền bỉ và kiểm soát tốt."},
	{ID: "5", Name: "Kamito Stark Quasars", Category: model.CategoryPaddles, Brand: "Kamito (VN)", Price: 2450000,
		Image:       "https://images.unsplash.com/photo-1699047970878-8f81077755e1?auto=format&fit=crop&q=80&w=800",
		Description: "Sản phẩm tự hào từ Việt Nam, thiết kế bắt mắt và cân bằng tốt cho người chơi mọi cấp độ."},
	{ID: "6", Name: "Engage Pursuit MX 6.0", Category: model.CategoryPaddles, Brand: "Engage", Price: 5800000,
		Image:       "https://images.unsplash.com/photo-1626224580175-342426bee7e3?auto=format&fit=crop&q=80&w=800",
		Description: "Vợt được ưa chuộng bởi người chơi chuyên nghiệp nhờ bề mặt nhám gia tăng độ bám bóng."},
	{ID: "7", Name: "Adidas Barricade 13 Pickleball", Category: model.CategoryShoes, Brand: "Adidas", Price: 3200000,
		Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?auto=format&fit=crop&q=80&w=800",
		Description: "Độ ổn định tối đa cho các pha di chuyển ngang liên tục trên sân Pickleball."},
	{ID: "8", Name: "Nike Court Air Zoom Vapor 11", Category: model.CategoryShoes, Brand: "Nike", Price: 3800000,
		Image:       "https://images.unsplash.com/photo-1595950653106-6c9ebd614d3a?auto=format&fit=crop&q=80&w=800",
		Description: "Dòng giày tốc độ nhẹ nhất của Nike, giúp bạn phản xạ nhanh hơn tại khu vực Kitchen."},
	{ID: "9", Name: "Asics Gel-Resolution 9", Category: model.CategoryShoes, Brand: "Asics", Price: 3500000,
		Image:       "https://images.unsplash.com/photo-1543163521-1bf539c55dd2?auto=format&fit=crop&q=80&w=800",
		Description: "Công nghệ đệm GEL huyền thoại giảm chấn thương đầu gối hiệu quả."},
	{ID: "10", Name: "Balo Selkirk Dayne Backpack", Category: model.CategoryBags, Brand: "Selkirk", Price: 2500000,
		Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?auto=format&fit=crop&q=80&w=800",
		Description: "Balo chuyên dụng có thể đựng được 4 cây vợt, giày và quần áo thi đấu."},
	{ID: "11", Name: "Túi VNB Premium Series", Category: model.CategoryBags, Brand: "VNB (VN)", Price: 1200000,
		Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?auto=format&fit=crop&q=80&w=800",
		Description: "Thiết kế hiện đại, nhiều ngăn tiện lợi cho người chơi lông thủ chuyển sang Pickleball."},
	{ID: "12", Name: "Bóng JOOLA Primo (Thùng 12 túi)", Category: model.CategoryBalls, Brand: "JOOLA", Price: 1800000,
		Image:       "https://images.unsplash.com/photo-1611250188496-e966043a062f?auto=format&fit=crop&q=80&w=800",
		Description: "Bóng tiêu chuẩn USAPA, độ nảy ổn định và siêu bền dưới mọi điều kiện thời tiết."},
	{ID: "13", Name: "Áo Polo Kamito Pro Fit", Category: model.CategoryApparel, Brand: "Kamito (VN)", Price: 550000,
		Image:       "https://images.unsplash.com/photo-1581655353564-df123a1eb820?auto=format&fit=crop&q=80&w=800",
		Description: "Chất liệu co giãn 4 chiều, thấm hút mồ hôi cực nhanh."},
	{ID: "14", Name: "Băng Trán Thấm Mồ Hôi Nike", Category: model.CategoryAccessories, Brand: "Nike", Price: 250000,
		Image:       "https://images.unsplash.com/photo-1516478177764-9fe5bd7e9717?auto=format&fit=crop&q=80&w=800",
		Description: "Giúp giữ cho mồ hôi không rơi vào mắt khi bạn tập trung cao độ."},
	{ID: "15", Name: "Lưới Pickleball Di Động JOOLA", Category: model.CategoryEquipment, Brand: "JOOLA", Price: 4200000,
		Image:       "https://images.unsplash.com/photo-1599586120429-48281b6f0ece?auto=format&fit=crop&q=80&w=800",
		Description: "Dễ dàng lắp đặt chỉ trong 5 phút, phù hợp cho tập luyện tại nhà hoặc sân chơi công cộng."},
	{ID: "16", Name: "Vợt CRBN-1X Power Series 14mm", Category: model.CategoryPaddles, Brand: "CRBN", Price: 6100000,
		Image:       "https://images.unsplash.com/photo-1626224580175-342426bee7e3?auto=format&fit=crop&q=80&w=800",
		Description: "Dòng vợt sợi carbon thô nổi tiếng with độ bám and xoáy cực mạnh."},
	{ID: "17", Name: "Vợt Vulcan V560 Control", Category: model.CategoryPaddles, Brand: "Vulcan", Price: 3200000,
		Image:       "https://images.unsplash.com/photo-1699047970868-8f81077755e1?auto=format&fit=crop&q=80&w=800",
		Description: "Thiết kế độ dày lõi lớn giúp tăng khả năng kiểm soát và cảm giác bóng tốt hơn."},
	{ID: "18", Name: "Giày New Balance Fresh Foam Lav V2", Category: model.CategoryShoes, Brand: "New Balance", Price: 3600000,
		Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?auto=format&fit=crop&q=80&w=800",
		Description: "Lớp đệm Fresh Foam siêu êm ái, bảo vệ gót chân trong những trận đấu dài."},
	{ID: "19", Name: "Tất Pickleball Chống Trượt Elite", Category: model.CategoryApparel, Brand: "Đức Anh Shop", Price: 150000,
		Image:       "https://images.unsplash.com/photo-1582966298433-a2102-ac4846433?auto=format&fit=crop&q=80&w=800",
		Description: "Vùng đệm tăng cường lực bám, ngăn chặn vết phồng rộp chân."},
	{ID: "20", Name: "Băng Cổ Tay Thể Thao Adidas", Category: model.CategoryAccessories, Brand: "Adidas", Price: 180000,
		Image:       "https://images.unsplash.com/photo-1516478177764-9fe5bd7e9717?auto=format&fit=crop&q=80&w=800",
		Description: "Thấm hút hiệu quả, phong cách thể thao năng động."},
	{ID: "21", Name: "Máy Bắn Bóng Pickleball Tutor", Category: model.CategoryEquipment, Brand: "Pickleball Tutor", Price: 25000000,
		Image:       "https://images.unsplash.com/photo-1599586120429-48281b6f0ece?auto=format&fit=crop&q=80&w=800",
		Description: "Thiết bị tập luyện chuyên nghiệp, có thể thay đổi tốc độ và hướng bắn."},
	{ID: "22", Name: "Vợt Bread & Butter Filth", Category: model.CategoryPaddles, Brand: "Bread & Butter", Price: 4200000,
		Image:       "https://images.unsplash.com/photo-1699047970868-8f81077755e1?auto=format&fit=crop&q=80&w=800",
		Description: "Vợt có thiết kế độc đáo, nổi bật trên sân bóng với phong cách đường phố."},
	{ID: "23", Name: "Vợt Paddletek Bantam TS-5", Category: model.CategoryPaddles, Brand: "Paddletek", Price: 3900000,
		Image:       "https://images.unsplash.com/photo-1626224580175-342426bee7e3?auto=format&fit=crop&q=80&w=800",
		Description: "Dòng vợt nhẹ nhất của Paddletek, dành cho những người chơi thích sự linh hoạt."},
	{ID: "24", Name: "Cuộn Cán Vợt Gan (Vỉ 6 cái)", Category: model.CategoryAccessories, Brand: "Gan", Price: 350000,
		Image:       "https://images.unsplash.com/photo-1626224580175-342426bee7e3?auto=format&fit=crop&q=80&w=800",
		Description: "Độ bền cực cao, giữ cho tay luôn khô ráo."},
	{ID: "25", Name: "Váy Tennis/Pickleball Lululemon", Category: model.CategoryApparel, Brand: "Lululemon", Price: 2800000,
		Image:       "https://images.unsplash.com/photo-1581655353564-df123a1eb820?auto=format&fit=crop&q=80&w=800",
		Description: "Phong cách sang trọng cùng chất liệu vải Nulu cao cấp."},
	{ID: "26", Name: "Áo Tanktop Nike Court", Category: model.CategoryApparel, Brand: "Nike", Price: 1100000,
		Image:       "https://images.unsplash.com/photo-1581655353564-df123a1eb820?auto=format&fit=crop&q=80&w=800",
		Description: "Công nghệ Dri-FIT giúp vận động viên luôn mát mẻ."},
	{ID: "27", Name: "Túi Đựng 2 Vợt Selkirk SLK", Category: model.CategoryBags, Brand: "SLK by Selkirk", Price: 950000,
		Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?auto=format&fit=crop&q=80&w=800",
		Description: "Nhỏ gọn, bảo vệ bề mặt vợt khỏi trầy xước."},
	{ID: "28", Name: "Vợt Diadem Warrior Edge", Category: model.CategoryPaddles, Brand: "Diadem", Price: 4900000,
		Image:       "https://images.unsplash.com/photo-1699047970868-8f81077755e1?auto=format&fit=crop&q=80&w=800",
		Description: "Công nghệ lõi tổ ong 19mm cho sự kiểm soát tuyệt đối."},
	{ID: "30", Name: "Dung Dịch Vệ Sinh Vợt Pro", Category: model.CategoryAccessories, Brand: "Đức Anh Shop", Price: 220000,
		Image:       "https://images.unsplash.com/photo-1589365278144-c9e705f843ba?auto=format&fit=crop&q=80&w=800",
		Description: "Giữ bề mặt nhám của vợt luôn sạch sẽ và tối ưu độ xoáy."},
}

func init() {
	for i := range fallback {
		n, _ := strconv.ParseInt(fallback[i].ID, 10, 64)
		fallback[i].NumericID = n
	}
}

// Products は静的一覧のコピー
func Products() []model.Product {
	out := make([]model.Product, len(fallback))
	copy(out, fallback)
	return out
}

func Find(id string) (model.Product, bool) {
	for _, p := range fallback {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// FilterByCategory は "" / "All" なら全件を返す
func FilterByCategory(products []model.Product, category string) []model.Product {
	if category == "" || category == AllCategories {
		return products
	}
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if string(p.Category) == category {
			out = append(out, p)
		}
	}
	return out
}
