package model

import "time"

// 注文承認、ユーザーのブロック切替など。
type AuditAction string

const (
	//注文を承認した操作。
	AuditActionAcceptOrder AuditAction = "ACCEPT_ORDER"
	//ユーザーのブロック状態を切り替えた操作。
	AuditActionToggleUserStatus AuditAction = "TOGGLE_USER_STATUS"
	AuditActionCreateProduct    AuditAction = "CREATE_PRODUCT"
	AuditActionUpdateProduct    AuditAction = "UPDATE_PRODUCT"
	AuditActionDeleteProduct    AuditAction = "DELETE_PRODUCT"
)

// 何に対する操作か
type AuditResourceType string

const (
	//商品に対する操作。
	AuditResourceProduct AuditResourceType = "product"

	//注文に対する操作。
	AuditResourceOrder AuditResourceType = "order"

	//ユーザーに対する操作。
	AuditResourceUser AuditResourceType = "user"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のuid。
	ActorUserID string `gorm:"type:varchar(64);not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID string `gorm:"type:varchar(64);not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	//JSON文字列で保存する。
	AfterJSON string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
